package mir

import (
	"github.com/novaforge/nova/internal/hir"
)

// LambdaCounter is the single piece of cross-invocation mutable state
// the pipeline allows: it increments once per lowered lambda so that a
// pipeline instance reused across many compilations (e.g. a REPL) never
// reuses a `$Lambda$<n>` class name. Owned by the pipeline, not by any
// one Lowerer, and passed in by reference.
type LambdaCounter struct{ n int }

// Next returns the next lambda ordinal and advances the counter.
func (c *LambdaCounter) Next() int {
	v := c.n
	c.n++
	return v
}

// Lowerer flattens one HIR module into MIR, one function body at a time.
type Lowerer struct {
	lambdas   *LambdaCounter
	module    *Module
	extraCls  []*Class // synthetic closure classes accumulated while lowering
	globalsClassName string
}

// NewLowerer creates a lowerer that shares counter across repeated calls
// on the same pipeline instance.
func NewLowerer(counter *LambdaCounter) *Lowerer {
	if counter == nil {
		counter = &LambdaCounter{}
	}
	return &Lowerer{lambdas: counter}
}

// Lower flattens an entire HIR module into MIR.
func (l *Lowerer) Lower(mod *hir.Module) *Module {
	l.module = &Module{
		Package:           mod.Package,
		ExtensionMetadata: map[string]string{},
	}
	l.globalsClassName = globalsHolderName(mod.Package)

	for _, c := range mod.Classes {
		l.module.Classes = append(l.module.Classes, l.lowerClass(c))
	}
	for _, fn := range mod.Functions {
		mf := l.lowerFunction(fn, "")
		if fn.IsExtension && fn.Receiver != nil {
			l.module.ExtensionMetadata[mf.Name] = fn.Receiver.String()
		}
		l.module.TopLevelFunctions = append(l.module.TopLevelFunctions, mf)
	}
	if len(mod.Globals) > 0 {
		l.module.Classes = append(l.module.Classes, l.lowerGlobals(mod.Globals))
	}
	l.module.Classes = append(l.module.Classes, l.extraCls...)
	return l.module
}

// globalsHolderName names the synthetic static-field holder class for a
// package's top-level `val`/`var`s, in the same spirit as a Kotlin
// `FooKt` file-class -- there is no HIR Class for module-level state, so
// MIR invents one rather than extending the Class/Function shape.
func globalsHolderName(pkg string) string {
	if pkg == "" {
		pkg = "Module"
	}
	return internalName(pkg) + "Globals"
}

func (l *Lowerer) lowerGlobals(globals []*hir.GlobalVar) *Class {
	cls := &Class{Name: l.globalsClassName, Kind: ClassKindObject}
	fb := NewFunctionBuilder("<clinit>", Void())
	for _, g := range globals {
		mt := FromNovaType(g.Type)
		cls.Fields = append(cls.Fields, Field{Name: g.Name, Type: mt, Modifiers: mutModifiers(g.Mutable)})
		if g.Init != nil {
			lx := newExprLowerer(l, fb)
			v := lx.lower(g.Init)
			fb.Emit(Instruction{Op: OpSetField, Dest: -1, Operands: []int{v}, Extra: FieldExtra{Owner: l.globalsClassName, Name: g.Name, Type: mt}, Range: g.Range()})
		}
	}
	fb.Terminate(Terminator{Kind: TermReturn, Value: -1})
	cls.Methods = append(cls.Methods, fb.Finish())
	return cls
}

func mutModifiers(mutable bool) []string {
	if mutable {
		return []string{"static"}
	}
	return []string{"static", "final"}
}

func (l *Lowerer) lowerClass(c *hir.Class) *Class {
	kind := ClassKindClass
	switch {
	case c.IsObject:
		kind = ClassKindObject
	case c.IsEnum:
		kind = ClassKindEnum
	}
	mc := &Class{Name: internalName(c.Name), Kind: kind}
	if c.Type != nil && c.Type.Super != nil {
		mc.SuperClass = internalName(c.Type.Super.Name())
	}
	if c.Type != nil {
		for _, iface := range c.Type.Interfaces {
			mc.Interfaces = append(mc.Interfaces, internalName(iface.Name()))
		}
	}
	for _, f := range c.Fields {
		mc.Fields = append(mc.Fields, Field{Name: f.Name, Type: FromNovaType(f.Type), Modifiers: mutModifiers(f.Mutable)})
	}
	if c.CtorParams != nil || c.CtorBody != nil {
		mc.Methods = append(mc.Methods, l.lowerConstructor(c))
	}
	for _, m := range c.Methods {
		mc.Methods = append(mc.Methods, l.lowerFunction(m, mc.Name))
	}
	return mc
}

func (l *Lowerer) lowerConstructor(c *hir.Class) *Function {
	fb := NewFunctionBuilder("<init>", Void())
	for _, p := range c.CtorParams {
		idx := fb.NewLocal(p.Name, FromNovaType(p.Type))
		fb.Fn().Params = append(fb.Fn().Params, fb.Fn().Locals[idx])
	}
	thisIdx := fb.NewLocal("this", Object(internalName(c.Name)))
	fb.Bind("this", thisIdx)
	sl := newStmtLowerer(l, fb)
	for _, p := range c.CtorParams {
		// Primary-constructor `val`/`var` parameters implicitly assign the
		// matching field, the same way a Kotlin primary constructor does.
		fb.Emit(Instruction{Op: OpSetField, Dest: -1,
			Operands: []int{fb.Lookup(p.Name)},
			Extra:    FieldExtra{Owner: internalName(c.Name), Name: p.Name, Type: FromNovaType(p.Type)},
		})
	}
	sl.lowerBlock(c.CtorBody)
	if !sl.terminated {
		fb.Terminate(Terminator{Kind: TermReturn, Value: -1})
	}
	return fb.Finish()
}

func (l *Lowerer) lowerFunction(fn *hir.Function, owner string) *Function {
	fb := NewFunctionBuilder(fn.Name, FromNovaType(fn.ReturnType))
	fb.Fn().OwnerClass = owner
	if fn.Receiver != nil {
		idx := fb.NewLocal("this", FromNovaType(fn.Receiver))
		fb.Fn().Params = append(fb.Fn().Params, fb.Fn().Locals[idx])
	}
	for _, p := range fn.Params {
		idx := fb.NewLocal(p.Name, FromNovaType(p.Type))
		fb.Fn().Params = append(fb.Fn().Params, fb.Fn().Locals[idx])
	}
	if fn.Inline {
		fb.Fn().Modifiers = append(fb.Fn().Modifiers, "inline")
	}
	sl := newStmtLowerer(l, fb)
	sl.lowerBlock(fn.Body)
	if !sl.terminated {
		if fb.Fn().ReturnType.Kind == KindVoid {
			fb.Terminate(Terminator{Kind: TermReturn, Value: -1})
		} else {
			fb.Terminate(Terminator{Kind: TermUnreachable})
		}
	}
	return fb.Finish()
}

// freshTemp allocates an unnamed local of type t in fb.
func freshTemp(fb *FunctionBuilder, t MirType) int { return fb.NewLocal("", t) }
