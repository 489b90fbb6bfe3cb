package provider

// Position is a 0-based line/column position in a source document.
// The 1-based coordinates of the public tool surface are converted at
// the navigator boundary.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span covers a source range from Start to End, inclusive of Start and
// exclusive of End's column.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location identifies a source range in a document.
type Location struct {
	FilePath string `json:"filePath"`
	Span     Span   `json:"span"`
}

// Contains reports whether the span covers the given position.
// Both endpoints are inclusive.
func (s Span) Contains(pos Position) bool {
	if pos.Line < s.Start.Line || pos.Line > s.End.Line {
		return false
	}
	if pos.Line == s.Start.Line && pos.Column < s.Start.Column {
		return false
	}
	if pos.Line == s.End.Line && pos.Column > s.End.Column {
		return false
	}
	return true
}

// Intersects reports whether two spans share at least one line.
// Column overlap is not considered; block-scoped walks operate on
// whole-line ranges.
func (s Span) Intersects(other Span) bool {
	if s.End.Line < other.Start.Line || other.End.Line < s.Start.Line {
		return false
	}
	return true
}

// Token is the lexical token at a source offset.
type Token interface {
	// Text is the literal token text.
	Text() string
	// Span is the token's source range.
	Span() Span
	// Parent is the syntax node immediately containing the token.
	Parent() Node
}

// Node is a provider-native syntax node. Navigation ascends the Parent
// chain; nodes never outlive their owning Context.
type Node interface {
	// Kind is the provider-native node kind string.
	Kind() string
	// Span is the node's source range.
	Span() Span
	// Parent is the enclosing node, nil at the root.
	Parent() Node
	// IsMemberAccess reports whether the node is a member-access
	// expression (e.g. a.b).
	IsMemberAccess() bool
	// Receiver is the receiver expression of a member access, nil otherwise.
	Receiver() Node
}

// ReferenceKind tags an occurrence of a symbol.
type ReferenceKind string

const (
	RefDefinition ReferenceKind = "definition"
	RefReference  ReferenceKind = "reference"
	RefWrite      ReferenceKind = "write"
)

// Occurrence is one use site of a symbol found by a whole-context search.
type Occurrence struct {
	Location Location
	Kind     ReferenceKind
	// IsImplicit marks compiler-synthesized occurrences with no
	// user-written token.
	IsImplicit bool
}

// DiagnosticSeverity tags diagnostic severity.
type DiagnosticSeverity string

const (
	SeverityHidden  DiagnosticSeverity = "hidden"
	SeverityInfo    DiagnosticSeverity = "info"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityError   DiagnosticSeverity = "error"
)

// Diagnostic is one compiler diagnostic with a source span.
type Diagnostic struct {
	ID       string
	Severity DiagnosticSeverity
	Message  string
	FilePath string
	Span     Span
	Category string
}
