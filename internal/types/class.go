package types

import "strings"

// FieldInfo describes one class field.
type FieldInfo struct {
	Type    Type
	Mutable bool // true for `var`, false for `val`
}

// MethodInfo describes one overload of a class or interface method.
type MethodInfo struct {
	Name      string
	Signature *FunctionType
	Abstract  bool
	Override  bool
}

// TypeArgumentValue is one resolved entry of a generic type's argument
// list, carrying the declaration/use-site variance alongside the argument
// type (nil Type + Wildcard marks the `*` star-projection).
type TypeArgumentValue struct {
	Type     Type
	Variance Variance
	Wildcard bool
}

func (a TypeArgumentValue) String() string {
	if a.Wildcard {
		return "*"
	}
	v := a.Variance.String()
	if v == "" {
		return a.Type.String()
	}
	return v + " " + a.Type.String()
}

// ClassType is a user or built-in class. Generic classes are represented
// uninstantiated (TypeArgs is nil) in the registry and instantiated
// (TypeArgs populated) at use sites; Equals compares TypeArgs pointwise.
type ClassType struct {
	name       string
	nullable   bool
	TypeParams []*TypeParameter
	TypeArgs   []TypeArgumentValue
	Super      *ClassType
	Interfaces []*InterfaceType
	Fields     map[string]*FieldInfo
	Methods    map[string][]*MethodInfo
	Sealed     bool
	Abstract   bool
}

// NewClass constructs a non-generic, non-nullable class type.
func NewClass(name string, super *ClassType) *ClassType {
	return &ClassType{
		name:    name,
		Super:   super,
		Fields:  map[string]*FieldInfo{},
		Methods: map[string][]*MethodInfo{},
	}
}

func (c *ClassType) Kind() Kind   { return KindClass }
func (c *ClassType) Name() string { return c.name }
func (c *ClassType) Nullable() bool { return c.nullable }

func (c *ClassType) WithNullable(nullable bool) Type {
	cp := *c
	cp.nullable = nullable
	return &cp
}

func (c *ClassType) String() string {
	var b strings.Builder
	b.WriteString(c.name)
	if len(c.TypeArgs) > 0 {
		b.WriteByte('<')
		for i, a := range c.TypeArgs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	if c.nullable {
		b.WriteByte('?')
	}
	return b.String()
}

func (c *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	if !ok || o.name != c.name || o.nullable != c.nullable {
		return false
	}
	if len(o.TypeArgs) != len(c.TypeArgs) {
		return false
	}
	for i := range c.TypeArgs {
		if c.TypeArgs[i].Wildcard != o.TypeArgs[i].Wildcard {
			return false
		}
		if !c.TypeArgs[i].Wildcard && !Equal(c.TypeArgs[i].Type, o.TypeArgs[i].Type) {
			return false
		}
	}
	return true
}

// AddField registers a field, overwriting any existing entry of the same
// name declared directly on this class.
func (c *ClassType) AddField(name string, f *FieldInfo) {
	c.Fields[name] = f
}

// AddMethodOverload appends one overload to the named method's set.
func (c *ClassType) AddMethodOverload(name string, m *MethodInfo) {
	c.Methods[name] = append(c.Methods[name], m)
}

// HasField reports whether name is declared on this class or inherited
// from its superclass chain.
func (c *ClassType) HasField(name string) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if _, ok := cur.Fields[name]; ok {
			return true
		}
	}
	return false
}

// FieldType returns the declared type of name, walking the superclass
// chain, or nil if not found.
func (c *ClassType) FieldType(name string) Type {
	for cur := c; cur != nil; cur = cur.Super {
		if f, ok := cur.Fields[name]; ok {
			return f.Type
		}
	}
	return nil
}

// HasMethod reports whether name has at least one overload declared on
// this class, an ancestor, or an implemented interface.
func (c *ClassType) HasMethod(name string) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if _, ok := cur.Methods[name]; ok {
			return true
		}
		for _, iface := range cur.Interfaces {
			if iface.HasMethod(name) {
				return true
			}
		}
	}
	return false
}

// MethodOverloads returns every overload of name visible on this class,
// nearest-declaring-class first.
func (c *ClassType) MethodOverloads(name string) []*MethodInfo {
	var out []*MethodInfo
	for cur := c; cur != nil; cur = cur.Super {
		out = append(out, cur.Methods[name]...)
	}
	return out
}

// IsSubclassOf reports whether sub's superclass chain reaches sup.
func IsSubclassOf(sub, sup *ClassType) bool {
	if sub == nil || sup == nil {
		return false
	}
	for cur := sub; cur != nil; cur = cur.Super {
		if cur.name == sup.name {
			return true
		}
	}
	return false
}

// ImplementsInterface reports whether class implements iface directly or
// via an ancestor in its superclass chain.
func ImplementsInterface(class *ClassType, iface *InterfaceType) bool {
	if class == nil || iface == nil {
		return false
	}
	for cur := class; cur != nil; cur = cur.Super {
		for _, i := range cur.Interfaces {
			if i.name == iface.name || interfaceExtends(i, iface.name) {
				return true
			}
		}
	}
	return false
}

func interfaceExtends(i *InterfaceType, name string) bool {
	for _, super := range i.Supers {
		if super.name == name || interfaceExtends(super, name) {
			return true
		}
	}
	return false
}
