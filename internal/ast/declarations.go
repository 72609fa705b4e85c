package ast

// Visibility is a declaration's access modifier.
type Visibility int

const (
	VisibilityDefault Visibility = iota
	Public
	Private
	Protected
	Internal
)

// Modifiers collects the boolean declaration modifiers the parser accepts.
// Not every modifier applies to every declaration kind; the semantic
// analyzer validates combinations.
type Modifiers struct {
	Visibility Visibility
	Abstract   bool
	Open       bool
	Final      bool
	Override   bool
	Sealed     bool
	Operator   bool
	Infix      bool
	Inline     bool
	Suspend    bool
	Vararg     bool
}

// PackageDecl is the `package a.b.c` declaration at the top of a file.
type PackageDecl struct {
	Base
	Name *QualifiedName
}

// ImportDecl is a single `import` declaration.
type ImportDecl struct {
	Base
	Name     *QualifiedName
	Alias    string
	Wildcard bool
	Static   bool
}

func (*ImportDecl) declNode() {}

// Parameter is a single function/constructor parameter.
type Parameter struct {
	Base
	Name       string
	Type       TypeRef
	Default    Expr
	Vararg     bool
	IsProperty bool // `val`/`var` in a primary-constructor parameter list
	Mutable    bool // only meaningful when IsProperty is true
}

// FunDecl is a `fun` declaration: a free function, a method, or an
// extension function when Receiver is set.
type FunDecl struct {
	Base
	Name       string
	TypeParams []*TypeParameter
	Receiver   TypeRef
	Params     []*Parameter
	ReturnType TypeRef
	Body       Stmt // *Block, or a single ExpressionStmt-like body for `= expr`
	ExprBody   Expr // set instead of Body for `fun f() = expr`
	Modifiers  Modifiers
}

func (*FunDecl) declNode() {}

// PropertyDecl is a `val`/`var` declaration, a top-level, member, or
// extension property when Receiver is set.
type PropertyDecl struct {
	Base
	Name        string
	Type        TypeRef
	Receiver    TypeRef
	Initializer Expr
	Getter      *FunDecl
	Setter      *FunDecl
	Mutable     bool // true for `var`, false for `val`
	Modifiers   Modifiers
}

func (*PropertyDecl) declNode() {}

// TypeAliasDecl is a `typealias Name<T> = ...` declaration.
type TypeAliasDecl struct {
	Base
	Name       string
	TypeParams []*TypeParameter
	Aliased    TypeRef
}

func (*TypeAliasDecl) declNode() {}

// ConstructorDecl is a secondary `constructor(...)` declaration inside a
// class body. The primary constructor is represented instead by
// ClassDecl.PrimaryParams / ClassDecl.PrimaryInitArgs.
type ConstructorDecl struct {
	Base
	Params        []*Parameter
	DelegateArgs  []Expr // `: this(...)` or `: super(...)` arguments
	DelegateSuper bool
	Body          *Block
	Modifiers     Modifiers
}

func (*ConstructorDecl) declNode() {}

// InitBlockDecl is an `init { ... }` block inside a class body.
type InitBlockDecl struct {
	Base
	Body *Block
}

func (*InitBlockDecl) declNode() {}

// SupertypeRef names a direct superclass or interface with its constructor
// call arguments (empty for an interface).
type SupertypeRef struct {
	Base
	Type TypeRef
	Args []Expr
}

// ClassDecl declares a class, possibly sealed/abstract/open.
type ClassDecl struct {
	Base
	Name          string
	TypeParams    []*TypeParameter
	PrimaryParams []*Parameter
	Supertypes    []*SupertypeRef
	Members       []Decl
	Companion     *ObjectDecl
	Modifiers     Modifiers
}

func (*ClassDecl) declNode() {}

// InterfaceDecl declares an interface.
type InterfaceDecl struct {
	Base
	Name       string
	TypeParams []*TypeParameter
	Supertypes []*SupertypeRef
	Members    []Decl
}

func (*InterfaceDecl) declNode() {}

// ObjectDecl declares a singleton `object`, or a class's `companion object`
// when Companion is true.
type ObjectDecl struct {
	Base
	Name       string
	Supertypes []*SupertypeRef
	Members    []Decl
	Companion  bool
}

func (*ObjectDecl) declNode() {}

// EnumEntry is one `NAME(args) { members }` entry of an enum.
type EnumEntry struct {
	Base
	Name    string
	Args    []Expr
	Members []Decl // overrides specific to this entry's anonymous subclass
}

// EnumDecl declares an enum class.
type EnumDecl struct {
	Base
	Name          string
	PrimaryParams []*Parameter
	Supertypes    []*SupertypeRef
	Entries       []*EnumEntry
	Members       []Decl
}

func (*EnumDecl) declNode() {}

// DestructuringDecl binds multiple names from one positional-component
// initializer: `val (a, b) = pair`.
type DestructuringDecl struct {
	Base
	Names       []string // "_" entries discard the component
	Type        TypeRef  // optional shared type annotation; usually nil
	Initializer Expr
	Mutable     bool
}

func (*DestructuringDecl) declNode() {}
func (*DestructuringDecl) stmtNode() {}
