// Package provider defines the capability contract consumed by the
// navigation core. A provider is a compiler/analysis engine able to load
// project or solution descriptors into compiled contexts and answer
// token, symbol, and whole-context queries against them.
package provider

import (
	"context"
	"sync"
)

// Provider loads descriptor paths into analysis contexts.
type Provider interface {
	// Name identifies the provider implementation.
	Name() string
	// Load loads a project or solution descriptor into a compiled
	// context. Load failures are reported distinctly from "file not
	// found". A failed load must not leak partial state.
	Load(ctx context.Context, descriptorPath string) (Context, error)
}

// Context is one loaded, compiled view of a project or solution.
// A context is exclusively owned by one cache entry and must be
// released exactly once when evicted.
type Context interface {
	// DescriptorPath is the descriptor the context was loaded from.
	DescriptorPath() string
	// Documents lists the context's source documents (absolute paths).
	Documents() []string
	// ContainsDocument reports whether file belongs to the context.
	ContainsDocument(file string) bool
	// DocumentText returns the full text of a context document.
	DocumentText(file string) (string, error)

	// TokenAt returns the lexical token at the position, or nil when no
	// token exists there.
	TokenAt(ctx context.Context, file string, pos Position) (Token, error)
	// SymbolAt returns the resolved-symbol binding for a node, nil when
	// the node binds to nothing.
	SymbolAt(ctx context.Context, node Node) (Symbol, error)
	// DeclaredSymbolAt returns the symbol declared by a declaration
	// node, nil for non-declarations.
	DeclaredSymbolAt(ctx context.Context, node Node) (Symbol, error)
	// TypeOf returns the type of an expression node, nil when no type
	// information is available.
	TypeOf(ctx context.Context, node Node) (TypeSymbol, error)

	// Types lists all named types declared in the context.
	Types(ctx context.Context) ([]TypeSymbol, error)
	// References finds all occurrences of a symbol across the context.
	References(ctx context.Context, sym Symbol) ([]Occurrence, error)
	// ImplementationsOf finds all types implementing an interface.
	ImplementationsOf(ctx context.Context, iface TypeSymbol) ([]TypeSymbol, error)
	// DerivedClassesOf finds all classes deriving, directly or
	// transitively, from a class.
	DerivedClassesOf(ctx context.Context, class TypeSymbol) ([]TypeSymbol, error)
	// Diagnostics returns diagnostics for one file, or for the whole
	// context when file is "".
	Diagnostics(ctx context.Context, file string) ([]Diagnostic, error)

	// NodesInSpan returns every syntax node whose span intersects the
	// given span of a document.
	NodesInSpan(ctx context.Context, file string, span Span) ([]Node, error)
	// IsBranchNode reports whether a node is a branching construct for
	// cyclomatic-complexity purposes (conditionals, loops, case labels,
	// ternaries, short-circuit boolean operators, null-coalescing).
	IsBranchNode(node Node) bool
	// NamespacesInScope returns the namespaces imported by directives
	// textually preceding the position in the file.
	NamespacesInScope(ctx context.Context, file string, before Position) ([]string, error)
	// ExtensionTypes returns the public static types in a namespace
	// that declare extension methods.
	ExtensionTypes(ctx context.Context, namespace string) ([]TypeSymbol, error)

	// Release frees the context. Queries against a released context are
	// undefined; previously projected descriptors stay valid.
	Release()
}

var (
	bootstrapOnce sync.Once
	bootstrapErr  error
)

// Bootstrap runs the process-wide engine initialization exactly once,
// no matter how many callers race on first use. The recorded result is
// returned to every caller; the function is never re-run.
func Bootstrap(fn func() error) error {
	bootstrapOnce.Do(func() {
		bootstrapErr = fn()
	})
	return bootstrapErr
}
