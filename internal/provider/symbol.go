package provider

// SymbolKind is the exhaustive set of symbol categories crossing the
// provider boundary. Unrecognized categories are rejected by consumers,
// never silently defaulted.
type SymbolKind string

const (
	KindNamedType     SymbolKind = "namedType"
	KindInterface     SymbolKind = "interface"
	KindMethod        SymbolKind = "method"
	KindProperty      SymbolKind = "property"
	KindField         SymbolKind = "field"
	KindEvent         SymbolKind = "event"
	KindLocal         SymbolKind = "local"
	KindParameter     SymbolKind = "parameter"
	KindNamespace     SymbolKind = "namespace"
	KindTypeParameter SymbolKind = "typeParameter"
	// KindJaggedArray tags array-typed locals whose element type is
	// itself an array.
	KindJaggedArray SymbolKind = "jaggedArray"
)

// Accessibility tags declared member accessibility.
type Accessibility string

const (
	AccessPublic    Accessibility = "public"
	AccessPrivate   Accessibility = "private"
	AccessProtected Accessibility = "protected"
	AccessInternal  Accessibility = "internal"
)

// Symbol is any named entity resolved by the analysis provider.
// Implementations are owned by their Context; callers must project
// everything they need into flat descriptors before the context is
// released.
type Symbol interface {
	// Name is the symbol's simple name.
	Name() string
	// Kind is the symbol category.
	Kind() SymbolKind
	// FullDisplayName is the provider's fully-qualified display string.
	FullDisplayName() string
	// ContainingAssembly names the assembly declaring the symbol.
	ContainingAssembly() string
	// ContainingNamespace names the namespace declaring the symbol.
	ContainingNamespace() string
	// Documentation is the extracted summary documentation, "" if none.
	Documentation() string
	// Declarations are the symbol's source-backed declaration locations.
	// Empty for symbols defined in referenced binaries without source.
	Declarations() []Location
}

// TypeSymbol is a symbol describing a type.
type TypeSymbol interface {
	Symbol
	// FullName is the fully-qualified metadata name.
	FullName() string
	// IsGeneric reports whether the type takes type arguments.
	IsGeneric() bool
	// TypeArguments are the names of the type arguments, in order.
	TypeArguments() []string
	// BaseType is the direct base type, nil for interfaces and the root.
	BaseType() TypeSymbol
	// AllInterfaces is the complete transitive interface set.
	AllInterfaces() []TypeSymbol
	// Members are the type's directly declared members.
	Members() []Member
	// IsInterface reports whether the type is an interface.
	IsInterface() bool
	// IsClass reports whether the type is a class.
	IsClass() bool
	// IsArray reports whether the type is an array type.
	IsArray() bool
	// ElementType is the array element type, nil for non-arrays.
	ElementType() TypeSymbol
}

// ValueSymbol is a symbol with a distinct declared type: a local, field,
// property, parameter, or method (via its return type).
type ValueSymbol interface {
	Symbol
	// DeclaredType is the value's declared type, nil when unresolvable.
	DeclaredType() TypeSymbol
	// HasExplicitType reports whether the declaration names the type
	// rather than inferring it.
	HasExplicitType() bool
}

// Parameter describes one parameter of a member.
type Parameter struct {
	Name          string
	TypeName      string
	Documentation string
}

// Member is a directly declared member of a type.
type Member interface {
	Symbol
	// DeclaringTypeName names the type declaring the member.
	DeclaringTypeName() string
	// Accessibility is the declared accessibility.
	Accessibility() Accessibility
	// ReturnTypeName is the return or value type name, "" for events
	// without one.
	ReturnTypeName() string
	// Parameters are the member's parameters, in order.
	Parameters() []Parameter
	// IsStatic reports whether the member is static.
	IsStatic() bool
	// IsAsync reports whether the member is an async method.
	IsAsync() bool
	// IsExtensionMethod reports whether the member is declared as an
	// extension method.
	IsExtensionMethod() bool
	// CanBeReferencedByName reports whether the member is
	// name-referencable (excludes accessors, operators, constructors).
	CanBeReferencedByName() bool
}
