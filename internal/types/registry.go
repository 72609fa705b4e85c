package types

// SupertypeInfo is the registry entry for one type name: its direct
// superclass name (empty for a type with no explicit superclass other than
// the implicit `Any`) and the names of interfaces it directly implements.
type SupertypeInfo struct {
	Super      string
	Interfaces []string
}

// Registry maps a type name to its declared direct superclass and
// interfaces, pre-populated with the built-in hierarchy and extended as
// user classes/interfaces are declared. isSubtype is the reflexive-
// transitive closure over these edges plus the universal `Nothing ≤ T`
// and `T ≤ Any` rules.
type Registry struct {
	entries map[string]SupertypeInfo
}

// NewRegistry constructs a registry pre-populated with Nova's built-in
// type hierarchy: numeric types and Boolean/Char/String reach Any through
// Number (for the numeric tower) or directly, and numeric types plus
// String implement Comparable; the built-in collection types (List, Set,
// Map, Array) reach Any directly.
func NewRegistry() *Registry {
	r := &Registry{entries: map[string]SupertypeInfo{}}

	r.Register("Any", "", nil)
	r.Register("Number", "Any", nil)
	for _, n := range []string{"Int", "Long", "Float", "Double"} {
		r.Register(n, "Number", []string{"Comparable"})
	}
	r.Register("Boolean", "Any", nil)
	r.Register("Char", "Any", []string{"Comparable"})
	r.Register("String", "Any", []string{"Comparable"})
	r.Register("Comparable", "", nil)
	r.Register("Iterable", "", nil)
	for _, n := range []string{"List", "Set", "Map", "Array"} {
		r.Register(n, "Any", []string{"Iterable"})
	}
	r.Register("Unit", "Any", nil)
	r.Register("Nothing", "", nil)

	return r
}

// Register records (or overwrites) the direct superclass and interfaces
// for name. Passing an empty super leaves the type supertype-less at the
// registry level (the universal `T ≤ Any` rule still applies through
// IsSubtypeName).
func (r *Registry) Register(name, super string, interfaces []string) {
	r.entries[name] = SupertypeInfo{Super: super, Interfaces: interfaces}
}

// Lookup returns the registered supertype info for name, or false if name
// is unregistered.
func (r *Registry) Lookup(name string) (SupertypeInfo, bool) {
	info, ok := r.entries[name]
	return info, ok
}

// IsSubtypeName reports whether sub reaches sup by reflexive-transitive
// closure over superclass and interface edges, plus the universal rule
// that every registered or unregistered name is a subtype of "Any".
func (r *Registry) IsSubtypeName(sub, sup string) bool {
	if sub == sup {
		return true
	}
	if sup == "Any" {
		return true
	}
	return r.reaches(sub, sup, map[string]bool{})
}

func (r *Registry) reaches(sub, sup string, seen map[string]bool) bool {
	if seen[sub] {
		return false
	}
	seen[sub] = true

	info, ok := r.entries[sub]
	if !ok {
		return false
	}
	if info.Super != "" {
		if info.Super == sup || r.reaches(info.Super, sup, seen) {
			return true
		}
	}
	for _, iface := range info.Interfaces {
		if iface == sup || r.reaches(iface, sup, seen) {
			return true
		}
	}
	return false
}
