package types

import "strings"

// InterfaceType is a user or built-in interface (e.g. `Comparable`).
type InterfaceType struct {
	name       string
	nullable   bool
	TypeParams []*TypeParameter
	TypeArgs   []TypeArgumentValue
	Supers     []*InterfaceType
	Methods    map[string]*FunctionType
}

// NewInterfaceType constructs a non-generic, non-nullable interface type.
func NewInterfaceType(name string) *InterfaceType {
	return &InterfaceType{name: name, Methods: map[string]*FunctionType{}}
}

func (i *InterfaceType) Kind() Kind     { return KindInterface }
func (i *InterfaceType) Name() string   { return i.name }
func (i *InterfaceType) Nullable() bool { return i.nullable }

func (i *InterfaceType) WithNullable(nullable bool) Type {
	cp := *i
	cp.nullable = nullable
	return &cp
}

func (i *InterfaceType) String() string {
	var b strings.Builder
	b.WriteString(i.name)
	if len(i.TypeArgs) > 0 {
		b.WriteByte('<')
		for idx, a := range i.TypeArgs {
			if idx > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	if i.nullable {
		b.WriteByte('?')
	}
	return b.String()
}

func (i *InterfaceType) Equals(other Type) bool {
	o, ok := other.(*InterfaceType)
	if !ok || o.name != i.name || o.nullable != i.nullable {
		return false
	}
	if len(o.TypeArgs) != len(i.TypeArgs) {
		return false
	}
	for idx := range i.TypeArgs {
		if i.TypeArgs[idx].Wildcard != o.TypeArgs[idx].Wildcard {
			return false
		}
		if !i.TypeArgs[idx].Wildcard && !Equal(i.TypeArgs[idx].Type, o.TypeArgs[idx].Type) {
			return false
		}
	}
	return true
}

// HasMethod reports whether name is declared on this interface or an
// ancestor interface.
func (i *InterfaceType) HasMethod(name string) bool {
	if _, ok := i.Methods[name]; ok {
		return true
	}
	for _, s := range i.Supers {
		if s.HasMethod(name) {
			return true
		}
	}
	return false
}
