package types

import "strings"

// FunctionType is a function/lambda signature: `(A, B) -> R`, or
// `Receiver.(A) -> R` when Receiver is set, or a `suspend` form.
type FunctionType struct {
	nullable bool
	Receiver Type
	Params   []Type
	Return   Type
	Suspend  bool
}

// NewFunctionType constructs a non-nullable function type.
func NewFunctionType(params []Type, ret Type) *FunctionType {
	return &FunctionType{Params: params, Return: ret}
}

func (f *FunctionType) Kind() Kind     { return KindFunction }
func (f *FunctionType) Name() string   { return "Function" }
func (f *FunctionType) Nullable() bool { return f.nullable }

func (f *FunctionType) WithNullable(nullable bool) Type {
	cp := *f
	cp.nullable = nullable
	return &cp
}

func (f *FunctionType) String() string {
	var b strings.Builder
	if f.Suspend {
		b.WriteString("suspend ")
	}
	if f.Receiver != nil {
		b.WriteString(f.Receiver.String())
		b.WriteByte('.')
	}
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	if f.Return != nil {
		b.WriteString(f.Return.String())
	} else {
		b.WriteString("Unit")
	}
	if f.nullable {
		b.WriteByte('?')
	}
	return b.String()
}

func (f *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok || o.nullable != f.nullable || o.Suspend != f.Suspend {
		return false
	}
	if !Equal(f.Receiver, o.Receiver) {
		return false
	}
	if len(f.Params) != len(o.Params) {
		return false
	}
	for i := range f.Params {
		if !Equal(f.Params[i], o.Params[i]) {
			return false
		}
	}
	return Equal(f.Return, o.Return)
}

// Arity returns the number of declared parameters (excluding the receiver).
func (f *FunctionType) Arity() int { return len(f.Params) }
