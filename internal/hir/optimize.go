package hir

// Optimize runs the fixed-order HIR optimizations -
// inline expansion, constant folding, then dead-code elimination -- over
// every function body in mod, mirroring DWScript's own practice of
// rewriting a chunk in place through a small ordered pass list
// (internal/bytecode.Optimizer) before the result reaches the next stage.
func Optimize(mod *Module) {
	inlineCandidates := collectInlineCandidates(mod)
	for _, fn := range allFunctions(mod) {
		fn.Body = inlineExpand(fn.Body, inlineCandidates, 0)
		fn.Body = foldConstants(fn.Body)
		fn.Body = eliminateDeadCode(fn.Body)
	}
}

func allFunctions(mod *Module) []*Function {
	fns := append([]*Function{}, mod.Functions...)
	for _, c := range mod.Classes {
		fns = append(fns, c.Methods...)
	}
	return fns
}

// collectInlineCandidates indexes every function explicitly marked
// `inline`, or heuristically small (a single-statement, non-recursive
// body), by name.
func collectInlineCandidates(mod *Module) map[string]*Function {
	out := make(map[string]*Function)
	for _, fn := range allFunctions(mod) {
		if fn.Inline || isHeuristicallySmall(fn) {
			out[fn.Name] = fn
		}
	}
	return out
}

func isHeuristicallySmall(fn *Function) bool {
	if len(fn.Body) > 1 {
		return false
	}
	return !callsByName(fn.Body, fn.Name)
}

func callsByName(stmts []Stmt, name string) bool {
	found := false
	walkStmts(stmts, func(e Expr) {
		if c, ok := e.(*Call); ok && c.Name == name {
			found = true
		}
	})
	return found
}

// inlineExpand replaces a call to a single-statement, non-recursive
// inline candidate with its body's value substituted for its parameters,
// bounded by depth to avoid runaway expansion through mutually-inlining
// functions.
func inlineExpand(stmts []Stmt, candidates map[string]*Function, depth int) []Stmt {
	if depth > 4 {
		return stmts
	}
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = rewriteStmt(s, func(e Expr) Expr {
			call, ok := e.(*Call)
			if !ok || call.Receiver != nil {
				return e
			}
			target, ok := candidates[call.Name]
			if !ok || len(target.Body) != 1 {
				return e
			}
			ret, ok := target.Body[0].(*Return)
			if !ok || ret.Value == nil {
				return e
			}
			return substituteParams(ret.Value, target.Params, call.Args)
		})
	}
	return out
}

func substituteParams(e Expr, params []*Param, args []Expr) Expr {
	bindings := make(map[string]Expr, len(params))
	for i, p := range params {
		if i < len(args) {
			bindings[p.Name] = args[i]
		}
	}
	return rewriteExpr(e, func(sub Expr) Expr {
		if id, ok := sub.(*Ident); ok {
			if v, ok := bindings[id.Name]; ok {
				return v
			}
		}
		return sub
	})
}

// foldConstants evaluates literal-only arithmetic/comparison/logical/
// string-concat subtrees at lowering time.
func foldConstants(stmts []Stmt) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = rewriteStmt(s, foldExpr)
	}
	return out
}

func foldExpr(e Expr) Expr {
	bin, ok := e.(*Binary)
	if !ok {
		return e
	}
	l, lok := bin.Left.(*Literal)
	r, rok := bin.Right.(*Literal)
	if !lok || !rok {
		return e
	}
	if v, ok := foldLiterals(bin.Op, l.Value, r.Value); ok {
		return &Literal{typedBase{bin.base, bin.Typ}, v}
	}
	return e
}

func foldLiterals(op BinaryOp, lv, rv any) (any, bool) {
	switch a := lv.(type) {
	case int64:
		b, ok := rv.(int64)
		if !ok {
			return nil, false
		}
		switch op {
		case OpAdd:
			return a + b, true
		case OpSub:
			return a - b, true
		case OpMul:
			return a * b, true
		case OpDiv:
			if b == 0 {
				return nil, false
			}
			return a / b, true
		case OpMod:
			if b == 0 {
				return nil, false
			}
			return a % b, true
		case OpEq:
			return a == b, true
		case OpNe:
			return a != b, true
		case OpLt:
			return a < b, true
		case OpLe:
			return a <= b, true
		case OpGt:
			return a > b, true
		case OpGe:
			return a >= b, true
		}
	case float64:
		b, ok := rv.(float64)
		if !ok {
			return nil, false
		}
		switch op {
		case OpAdd:
			return a + b, true
		case OpSub:
			return a - b, true
		case OpMul:
			return a * b, true
		case OpDiv:
			return a / b, true
		}
	case string:
		b, ok := rv.(string)
		if !ok {
			return nil, false
		}
		if op == OpAdd || op == OpStringConcat {
			return a + b, true
		}
	case bool:
		b, ok := rv.(bool)
		if !ok {
			return nil, false
		}
		switch op {
		case OpAnd:
			return a && b, true
		case OpOr:
			return a || b, true
		}
	}
	return nil, false
}

// eliminateDeadCode drops assignments to never-read locals (within a
// single statement list) and any statement following an unconditional
// jump.
func eliminateDeadCode(stmts []Stmt) []Stmt {
	read := make(map[string]bool)
	for _, s := range stmts {
		collectReads(s, read)
	}

	var out []Stmt
	for _, s := range stmts {
		if decl, ok := s.(*LocalDecl); ok && !decl.Mutable && !read[decl.Name] && !hasSideEffects(decl.Init) {
			continue
		}
		out = append(out, s)
		if isUnconditionalJump(s) {
			break
		}
	}
	return out
}

func isUnconditionalJump(s Stmt) bool {
	switch s.(type) {
	case *Return, *Break, *Continue, *Throw:
		return true
	}
	return false
}

func hasSideEffects(e Expr) bool {
	if e == nil {
		return false
	}
	switch e.(type) {
	case *Call, *FieldAssign, *IndexSet, *LocalAssign, *Throws, *Await:
		return true
	}
	side := false
	walkExpr(e, func(sub Expr) {
		switch sub.(type) {
		case *Call, *FieldAssign, *IndexSet, *LocalAssign, *Throws, *Await:
			side = true
		}
	})
	return side
}

func collectReads(s Stmt, read map[string]bool) {
	walkStmtExprs(s, func(e Expr) {
		if id, ok := e.(*Ident); ok {
			read[id.Name] = true
		}
	})
}

var _ = types.NewUnit
