package semantic

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/symbols"
	"github.com/novaforge/nova/internal/types"
)

// declareSignatures is pass 1: create an empty stub for every top-level
// class/interface/object/enum so later passes can resolve a forward
// reference to any of them regardless of declaration order, mirroring how
// DWScript's analyzer pre-registers TObject/Exception before walking
// user declarations.
func (a *Analyzer) declareSignatures(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			ct := types.NewClass(decl.Name, nil)
			ct.Sealed = decl.Modifiers.Sealed
			ct.Abstract = decl.Modifiers.Abstract
			a.classes[decl.Name] = ct
			a.classNodes[decl.Name] = decl
			a.global.Define(&symbols.Symbol{Name: decl.Name, Kind: symbols.KindClass, Declaring: decl})
		case *ast.InterfaceDecl:
			it := types.NewInterfaceType(decl.Name)
			a.interfaces[decl.Name] = it
			a.global.Define(&symbols.Symbol{Name: decl.Name, Kind: symbols.KindInterface, Declaring: decl})
		case *ast.EnumDecl:
			ct := types.NewClass(decl.Name, nil)
			ct.Sealed = true // an enum's entries are its only subtypes, closed like a sealed class
			a.classes[decl.Name] = ct
			a.classNodes[decl.Name] = decl
			a.global.Define(&symbols.Symbol{Name: decl.Name, Kind: symbols.KindEnum, Declaring: decl})
		case *ast.ObjectDecl:
			ct := types.NewClass(decl.Name, nil)
			a.classes[decl.Name] = ct
			a.classNodes[decl.Name] = nil
			a.global.Define(&symbols.Symbol{Name: decl.Name, Kind: symbols.KindObject, Type: ct, Declaring: decl})
		}
	}

	// Pass 2 needs every stub present before resolving any supertype name,
	// so member/signature resolution happens in a separate top-level loop
	// (resolveSupertypesAndMembers) rather than being interleaved above.
}

// resolveSupertypesAndMembers is pass 2: fill in each stub's superclass,
// implemented interfaces, fields, and method signatures (not bodies), and
// register top-level functions, properties, and type aliases in the global
// scope.
func (a *Analyzer) resolveSupertypesAndMembers(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			a.resolveClassSignature(decl, a.classes[decl.Name])
		case *ast.InterfaceDecl:
			a.resolveInterfaceSignature(decl, a.interfaces[decl.Name])
		case *ast.EnumDecl:
			a.resolveEnumSignature(decl, a.classes[decl.Name])
		case *ast.ObjectDecl:
			a.resolveObjectSignature(decl, a.classes[decl.Name])
		case *ast.FunDecl:
			a.declareFunctionSignature(decl, a.global)
		case *ast.PropertyDecl:
			a.declarePropertySignature(decl, a.global)
		case *ast.TypeAliasDecl:
			// Type aliases are registered as symbols only. resolveType does
			// not expand them, so an alias name used as a type is reported
			// as an unknown type.
			a.global.Define(&symbols.Symbol{Name: decl.Name, Kind: symbols.KindTypeAlias, Declaring: decl})
		}
	}

	names := func(its []*types.InterfaceType) (out []string) {
		for _, it := range its {
			out = append(out, it.Name())
		}
		return out
	}
	for name, ct := range a.classes {
		super := ""
		if ct.Super != nil {
			super = ct.Super.Name()
		}
		a.registry.Register(name, super, names(ct.Interfaces))
	}
	for name, it := range a.interfaces {
		a.registry.Register(name, "", names(it.Supers))
	}

	a.buildSealedSubclassIndex()
}

func (a *Analyzer) buildSealedSubclassIndex() {
	for name, ct := range a.classes {
		if ct.Super != nil && ct.Super.Sealed {
			a.sealedSubclasses[ct.Super.Name()] = append(a.sealedSubclasses[ct.Super.Name()], name)
		}
	}
}

func (a *Analyzer) resolveClassSignature(decl *ast.ClassDecl, ct *types.ClassType) {
	typeParams, restore := a.resolveTypeParamList(decl.TypeParams)
	defer restore()
	ct.TypeParams = typeParams

	for _, st := range decl.Supertypes {
		a.applySupertype(ct, st)
	}

	for _, p := range decl.PrimaryParams {
		if p.IsProperty {
			ct.AddField(p.Name, &types.FieldInfo{Type: a.resolveType(p.Type), Mutable: p.Mutable})
		}
	}

	a.declareMemberSignatures(decl.Members, ct)
	a.checkClassVariance(decl, ct)
}

func (a *Analyzer) applySupertype(ct *types.ClassType, st *ast.SupertypeRef) {
	switch t := a.resolveType(st.Type).(type) {
	case *types.ClassType:
		if ct.Super != nil {
			a.hintf(st, "class %q already has a superclass; ignoring additional class supertype", ct.Name())
			return
		}
		ct.Super = t
	case *types.InterfaceType:
		ct.Interfaces = append(ct.Interfaces, t)
	}
}

func (a *Analyzer) resolveInterfaceSignature(decl *ast.InterfaceDecl, it *types.InterfaceType) {
	typeParams, restore := a.resolveTypeParamList(decl.TypeParams)
	defer restore()
	it.TypeParams = typeParams

	for _, st := range decl.Supertypes {
		if super, ok := a.resolveType(st.Type).(*types.InterfaceType); ok {
			it.Supers = append(it.Supers, super)
		}
	}

	for _, m := range decl.Members {
		fd, ok := m.(*ast.FunDecl)
		if !ok {
			continue
		}
		it.Methods[fd.Name] = a.functionSignature(fd)
	}
}

func (a *Analyzer) resolveEnumSignature(decl *ast.EnumDecl, ct *types.ClassType) {
	for _, st := range decl.Supertypes {
		a.applySupertype(ct, st)
	}
	for _, p := range decl.PrimaryParams {
		if p.IsProperty {
			ct.AddField(p.Name, &types.FieldInfo{Type: a.resolveType(p.Type), Mutable: p.Mutable})
		}
	}
	a.declareMemberSignatures(decl.Members, ct)

	for _, entry := range decl.Entries {
		// Each enum entry is its own (anonymous) subclass of the enum for
		// exhaustiveness purposes; record it so a `when` over the enum
		// type can require one branch per entry.
		a.sealedSubclasses[ct.Name()] = append(a.sealedSubclasses[ct.Name()], ct.Name()+"."+entry.Name)
	}
}

func (a *Analyzer) resolveObjectSignature(decl *ast.ObjectDecl, ct *types.ClassType) {
	for _, st := range decl.Supertypes {
		a.applySupertype(ct, st)
	}
	a.declareMemberSignatures(decl.Members, ct)
}

// declareMemberSignatures resolves field/method/property signatures for one
// class/object/enum body.
func (a *Analyzer) declareMemberSignatures(members []ast.Decl, ct *types.ClassType) {
	for _, m := range members {
		switch md := m.(type) {
		case *ast.FunDecl:
			sig := a.functionSignature(md)
			ct.AddMethodOverload(md.Name, &types.MethodInfo{
				Name:      md.Name,
				Signature: sig,
				Abstract:  md.Modifiers.Abstract,
				Override:  md.Modifiers.Override,
			})
		case *ast.PropertyDecl:
			ct.AddField(md.Name, &types.FieldInfo{Type: a.resolveType(md.Type), Mutable: md.Mutable})
		}
	}
}

// functionSignature resolves fd's parameter/return types. Its own type
// parameters (if any) are bound into a.typeParams only for the duration of
// this call, since a generic function's body re-binds them per call site
// rather than the signature carrying resolved TypeParameter values.
func (a *Analyzer) functionSignature(fd *ast.FunDecl) *types.FunctionType {
	_, restore := a.resolveTypeParamList(fd.TypeParams)
	defer restore()

	params := make([]types.Type, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = a.resolveType(p.Type)
	}
	var ret types.Type
	if fd.ReturnType != nil {
		ret = a.resolveType(fd.ReturnType)
	} else {
		ret = types.NewUnit()
	}
	ft := types.NewFunctionType(params, ret)
	if fd.Receiver != nil {
		ft.Receiver = a.resolveType(fd.Receiver)
	}
	ft.Suspend = fd.Modifiers.Suspend
	return ft
}

func (a *Analyzer) declareFunctionSignature(fd *ast.FunDecl, scope *symbols.Table) {
	sig := a.functionSignature(fd)
	if err := scope.DefineFunction(fd.Name, sig, fd); err != nil {
		a.errorf(fd, "%s", err.Error())
	}
}

func (a *Analyzer) declarePropertySignature(pd *ast.PropertyDecl, scope *symbols.Table) {
	var t types.Type
	if pd.Type != nil {
		t = a.resolveType(pd.Type)
	} else if pd.Initializer != nil {
		t = a.analyzeExpr(pd.Initializer)
	} else {
		t = types.NewError()
	}
	kind := symbols.KindVal
	if pd.Mutable {
		kind = symbols.KindVar
	}
	scope.Define(&symbols.Symbol{Name: pd.Name, Kind: kind, Type: t, Declaring: pd, Mutable: pd.Mutable})
}
