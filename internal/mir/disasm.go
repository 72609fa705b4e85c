package mir

import (
	"fmt"
	"io"
	"sort"
)

// Disassembler renders a Module's MIR as human-readable text, the
// CFG-shaped analogue of DWScript's `bytecode.Disassembler` for its
// linear instruction stream.
type Disassembler struct {
	w io.Writer
}

// NewDisassembler creates a disassembler writing to w.
func NewDisassembler(w io.Writer) *Disassembler { return &Disassembler{w: w} }

// Disassemble prints every class and top-level function in mod.
func (d *Disassembler) Disassemble(mod *Module) {
	fmt.Fprintf(d.w, "== module %s ==\n", pkgOr(mod.Package))
	for _, fn := range mod.TopLevelFunctions {
		d.Function(fn, "")
	}
	for _, c := range mod.Classes {
		d.Class(c)
	}
}

func pkgOr(pkg string) string {
	if pkg == "" {
		return "<default>"
	}
	return pkg
}

// Class prints one class's fields and methods.
func (d *Disassembler) Class(c *Class) {
	fmt.Fprintf(d.w, "\nclass %s", c.Name)
	if c.SuperClass != "" {
		fmt.Fprintf(d.w, " : %s", c.SuperClass)
	}
	fmt.Fprintln(d.w)
	for _, f := range c.Fields {
		fmt.Fprintf(d.w, "  field %s %s\n", f.Name, f.Type.Descriptor())
	}
	for _, m := range c.Methods {
		d.Function(m, c.Name)
	}
}

// Function prints one function's locals, blocks, and exception table.
func (d *Disassembler) Function(f *Function, owner string) {
	full := f.Name
	if owner != "" {
		full = owner + "." + f.Name
	}
	fmt.Fprintf(d.w, "\nfun %s%s (frame=%d)\n", full, f.Descriptor(), f.FrameSize())

	ids := make([]int, 0, len(f.Blocks))
	byID := map[int]*BasicBlock{}
	for _, b := range f.Blocks {
		ids = append(ids, b.ID)
		byID[b.ID] = b
	}
	sort.Ints(ids)

	for _, id := range ids {
		b := byID[id]
		marker := ""
		if b.ID == f.BodyStartBlockID {
			marker = " (entry)"
		}
		fmt.Fprintf(d.w, "  block %d%s:\n", b.ID, marker)
		for _, ins := range b.Instructions {
			fmt.Fprintf(d.w, "    %s\n", FormatInstruction(ins))
		}
		fmt.Fprintf(d.w, "    %s\n", FormatTerminator(b.Terminator))
	}

	for _, tc := range f.TryCatchEntries {
		fmt.Fprintf(d.w, "  try [%d, %d) -> %d catch %s -> r%d\n",
			tc.TryStart, tc.TryEnd, tc.Handler, orAny(tc.ExceptionType), tc.ExceptionLocal)
	}
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// FormatInstruction renders one instruction as `rDST := OP operands extra`.
func FormatInstruction(ins Instruction) string {
	dest := "_"
	if ins.Dest >= 0 {
		dest = fmt.Sprintf("r%d", ins.Dest)
	}
	ops := ""
	for i, o := range ins.Operands {
		if i > 0 {
			ops += ", "
		}
		ops += fmt.Sprintf("r%d", o)
	}
	extra := formatExtra(ins.Extra)
	if extra != "" && ops != "" {
		extra = " " + extra
	}
	return fmt.Sprintf("%s := %s %s%s", dest, ins.Op, ops, extra)
}

func formatExtra(extra any) string {
	switch v := extra.(type) {
	case nil:
		return ""
	case BinOp:
		return v.String()
	case UnOp:
		if v == UnNeg {
			return "NEG"
		}
		return "NOT"
	case InvokeExtra:
		return fmt.Sprintf("%s.%s%s", v.Owner, v.Method, v.Descriptor)
	case FieldExtra:
		if v.Owner != "" {
			return fmt.Sprintf("%s.%s", v.Owner, v.Name)
		}
		return v.Name
	case TypeExtra:
		neg := ""
		if v.Negate {
			neg = "!"
		}
		return neg + v.TargetName
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatTerminator renders a block's terminator for disassembly.
func FormatTerminator(t Terminator) string {
	switch t.Kind {
	case TermGoto:
		return fmt.Sprintf("goto %d", t.Target)
	case TermBranch:
		fused := ""
		if t.Fused != nil {
			fused = fmt.Sprintf(" [fused %s r%d, r%d]", t.Fused.Op, t.Fused.Left, t.Fused.Right)
		}
		return fmt.Sprintf("branch r%d then %d else %d%s", t.Cond, t.Then, t.Else, fused)
	case TermReturn:
		if t.Value < 0 {
			return "return"
		}
		return fmt.Sprintf("return r%d", t.Value)
	case TermSwitch:
		return fmt.Sprintf("switch r%d (%d cases) default %d", t.Key, len(t.Cases), t.Default)
	case TermThrow:
		return fmt.Sprintf("throw r%d", t.Value)
	case TermTailCall:
		return fmt.Sprintf("tailcall -> %d", t.Target)
	case TermUnreachable:
		return "unreachable"
	default:
		return "?"
	}
}
