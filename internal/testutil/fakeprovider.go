// Package testutil provides a scriptable in-memory analysis provider
// for exercising the navigation core without a real engine.
package testutil

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"codenav/internal/provider"
)

// FakeProvider implements provider.Provider with scriptable behavior.
type FakeProvider struct {
	mu sync.Mutex

	// LoadDelay, when set, makes each load take that long (or until the
	// caller's context cancels).
	LoadDelay time.Duration
	// LoadErr, when set, fails every load.
	LoadErr error
	// MakeContext, when set, builds the context for a path. Defaults to
	// an empty FakeContext.
	MakeContext func(descriptorPath string) *FakeContext

	loadCount int32
	loaded    []*FakeContext
}

// Name implements provider.Provider.
func (p *FakeProvider) Name() string { return "fake" }

// Load implements provider.Provider.
func (p *FakeProvider) Load(ctx context.Context, descriptorPath string) (provider.Context, error) {
	atomic.AddInt32(&p.loadCount, 1)

	if p.LoadDelay > 0 {
		select {
		case <-time.After(p.LoadDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}

	var fc *FakeContext
	if p.MakeContext != nil {
		fc = p.MakeContext(descriptorPath)
	} else {
		fc = NewFakeContext(descriptorPath)
	}
	fc.descriptorPath = descriptorPath

	p.mu.Lock()
	p.loaded = append(p.loaded, fc)
	p.mu.Unlock()
	return fc, nil
}

// LoadCount reports how many loads have run.
func (p *FakeProvider) LoadCount() int {
	return int(atomic.LoadInt32(&p.loadCount))
}

// LoadedContexts returns every context the provider handed out.
func (p *FakeProvider) LoadedContexts() []*FakeContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*FakeContext, len(p.loaded))
	copy(out, p.loaded)
	return out
}

// RetainedCount counts handed-out contexts that are not yet released.
func (p *FakeProvider) RetainedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, fc := range p.loaded {
		if atomic.LoadInt32(&fc.released) == 0 {
			n++
		}
	}
	return n
}

// FakeContext implements provider.Context from plain data fields.
type FakeContext struct {
	descriptorPath string
	released       int32

	// DocumentTexts maps absolute file paths to their text.
	DocumentTexts map[string]string
	// TokenFn returns the token at a position, nil when none.
	TokenFn func(file string, pos provider.Position) provider.Token
	// Symbols is the resolved-symbol binding per node.
	Symbols map[provider.Node]provider.Symbol
	// Declared is the declared-symbol binding per node.
	Declared map[provider.Node]provider.Symbol
	// ExprTypes is the expression type info per node.
	ExprTypes map[provider.Node]provider.TypeSymbol
	// AllTypes are the context's named types.
	AllTypes []provider.TypeSymbol
	// Occurrences are reference-search results keyed by symbol name.
	Occurrences map[string][]provider.Occurrence
	// Implementations keys interface full names to implementing types.
	Implementations map[string][]provider.TypeSymbol
	// Derived keys class full names to transitively derived classes.
	Derived map[string][]provider.TypeSymbol
	// Diags are the context's diagnostics.
	Diags []provider.Diagnostic
	// SpanNodes are the nodes per file handed to span walks.
	SpanNodes map[string][]provider.Node
	// Branches marks nodes counted as branching constructs.
	Branches map[provider.Node]bool
	// Namespaces are the in-scope namespaces per file.
	Namespaces map[string][]string
	// ExtTypes keys namespaces to extension-declaring static types.
	ExtTypes map[string][]provider.TypeSymbol
}

// NewFakeContext creates an empty fake context.
func NewFakeContext(descriptorPath string) *FakeContext {
	return &FakeContext{
		descriptorPath:  descriptorPath,
		DocumentTexts:   make(map[string]string),
		Symbols:         make(map[provider.Node]provider.Symbol),
		Declared:        make(map[provider.Node]provider.Symbol),
		ExprTypes:       make(map[provider.Node]provider.TypeSymbol),
		Occurrences:     make(map[string][]provider.Occurrence),
		Implementations: make(map[string][]provider.TypeSymbol),
		Derived:         make(map[string][]provider.TypeSymbol),
		SpanNodes:       make(map[string][]provider.Node),
		Branches:        make(map[provider.Node]bool),
		Namespaces:      make(map[string][]string),
		ExtTypes:        make(map[string][]provider.TypeSymbol),
	}
}

func (c *FakeContext) DescriptorPath() string { return c.descriptorPath }

func (c *FakeContext) Documents() []string {
	docs := make([]string, 0, len(c.DocumentTexts))
	for path := range c.DocumentTexts {
		docs = append(docs, path)
	}
	return docs
}

func (c *FakeContext) ContainsDocument(file string) bool {
	_, ok := c.DocumentTexts[file]
	return ok
}

func (c *FakeContext) DocumentText(file string) (string, error) {
	text, ok := c.DocumentTexts[file]
	if !ok {
		return "", &missingDocError{file: file}
	}
	return text, nil
}

func (c *FakeContext) TokenAt(_ context.Context, file string, pos provider.Position) (provider.Token, error) {
	if c.TokenFn == nil {
		return nil, nil
	}
	return c.TokenFn(file, pos), nil
}

func (c *FakeContext) SymbolAt(_ context.Context, node provider.Node) (provider.Symbol, error) {
	return c.Symbols[node], nil
}

func (c *FakeContext) DeclaredSymbolAt(_ context.Context, node provider.Node) (provider.Symbol, error) {
	return c.Declared[node], nil
}

func (c *FakeContext) TypeOf(_ context.Context, node provider.Node) (provider.TypeSymbol, error) {
	t, ok := c.ExprTypes[node]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (c *FakeContext) Types(_ context.Context) ([]provider.TypeSymbol, error) {
	return c.AllTypes, nil
}

func (c *FakeContext) References(_ context.Context, sym provider.Symbol) ([]provider.Occurrence, error) {
	return c.Occurrences[sym.Name()], nil
}

func (c *FakeContext) ImplementationsOf(_ context.Context, iface provider.TypeSymbol) ([]provider.TypeSymbol, error) {
	return c.Implementations[iface.FullName()], nil
}

func (c *FakeContext) DerivedClassesOf(_ context.Context, class provider.TypeSymbol) ([]provider.TypeSymbol, error) {
	return c.Derived[class.FullName()], nil
}

func (c *FakeContext) Diagnostics(_ context.Context, file string) ([]provider.Diagnostic, error) {
	if file == "" {
		return c.Diags, nil
	}
	var out []provider.Diagnostic
	for _, d := range c.Diags {
		if d.FilePath == file {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *FakeContext) NodesInSpan(_ context.Context, file string, span provider.Span) ([]provider.Node, error) {
	var out []provider.Node
	for _, n := range c.SpanNodes[file] {
		if n.Span().Intersects(span) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (c *FakeContext) IsBranchNode(node provider.Node) bool {
	return c.Branches[node]
}

func (c *FakeContext) NamespacesInScope(_ context.Context, file string, _ provider.Position) ([]string, error) {
	return c.Namespaces[file], nil
}

func (c *FakeContext) ExtensionTypes(_ context.Context, namespace string) ([]provider.TypeSymbol, error) {
	return c.ExtTypes[namespace], nil
}

func (c *FakeContext) Release() {
	atomic.StoreInt32(&c.released, 1)
}

// Released reports whether Release has been called.
func (c *FakeContext) Released() bool {
	return atomic.LoadInt32(&c.released) == 1
}

type missingDocError struct{ file string }

func (e *missingDocError) Error() string {
	return "document not in context: " + e.file
}

// FakeNode implements provider.Node.
type FakeNode struct {
	NodeKind     string
	NodeSpan     provider.Span
	NodeParent   provider.Node
	MemberAccess bool
	ReceiverNode provider.Node
}

func (n *FakeNode) Kind() string            { return n.NodeKind }
func (n *FakeNode) Span() provider.Span     { return n.NodeSpan }
func (n *FakeNode) Parent() provider.Node   { return n.NodeParent }
func (n *FakeNode) IsMemberAccess() bool    { return n.MemberAccess }
func (n *FakeNode) Receiver() provider.Node { return n.ReceiverNode }

// FakeToken implements provider.Token.
type FakeToken struct {
	TokenText   string
	TokenSpan   provider.Span
	TokenParent provider.Node
}

func (t *FakeToken) Text() string          { return t.TokenText }
func (t *FakeToken) Span() provider.Span   { return t.TokenSpan }
func (t *FakeToken) Parent() provider.Node { return t.TokenParent }

// FakeSymbol implements provider.Symbol and provider.ValueSymbol.
type FakeSymbol struct {
	SymName      string
	SymKind      provider.SymbolKind
	DisplayName  string
	Assembly     string
	Namespace    string
	Docs         string
	Decls        []provider.Location
	ValueType    provider.TypeSymbol
	ExplicitType bool
}

func (s *FakeSymbol) Name() string                      { return s.SymName }
func (s *FakeSymbol) Kind() provider.SymbolKind         { return s.SymKind }
func (s *FakeSymbol) ContainingAssembly() string        { return s.Assembly }
func (s *FakeSymbol) ContainingNamespace() string       { return s.Namespace }
func (s *FakeSymbol) Documentation() string             { return s.Docs }
func (s *FakeSymbol) Declarations() []provider.Location { return s.Decls }
func (s *FakeSymbol) DeclaredType() provider.TypeSymbol { return s.ValueType }
func (s *FakeSymbol) HasExplicitType() bool             { return s.ExplicitType }

func (s *FakeSymbol) FullDisplayName() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if s.Namespace != "" {
		return s.Namespace + "." + s.SymName
	}
	return s.SymName
}

// FakeType implements provider.TypeSymbol.
type FakeType struct {
	FakeSymbol
	QualifiedName string
	Generic       bool
	TypeArgs      []string
	Base          provider.TypeSymbol
	Interfaces    []provider.TypeSymbol
	TypeMembers   []provider.Member
	Interface     bool
	Class         bool
	Array         bool
	Element       provider.TypeSymbol
}

func (t *FakeType) FullName() string {
	if t.QualifiedName != "" {
		return t.QualifiedName
	}
	return t.FullDisplayName()
}

func (t *FakeType) IsGeneric() bool                      { return t.Generic }
func (t *FakeType) TypeArguments() []string              { return t.TypeArgs }
func (t *FakeType) BaseType() provider.TypeSymbol        { return t.Base }
func (t *FakeType) AllInterfaces() []provider.TypeSymbol { return t.Interfaces }
func (t *FakeType) Members() []provider.Member           { return t.TypeMembers }
func (t *FakeType) IsInterface() bool                    { return t.Interface }
func (t *FakeType) IsClass() bool                        { return t.Class }
func (t *FakeType) IsArray() bool                        { return t.Array }
func (t *FakeType) ElementType() provider.TypeSymbol     { return t.Element }

// FakeMember implements provider.Member.
type FakeMember struct {
	FakeSymbol
	DeclaringType  string
	Access         provider.Accessibility
	ReturnType     string
	Params         []provider.Parameter
	Static         bool
	Async          bool
	Extension      bool
	Unreferencable bool
}

func (m *FakeMember) DeclaringTypeName() string             { return m.DeclaringType }
func (m *FakeMember) Accessibility() provider.Accessibility { return m.Access }
func (m *FakeMember) ReturnTypeName() string                { return m.ReturnType }
func (m *FakeMember) Parameters() []provider.Parameter      { return m.Params }
func (m *FakeMember) IsStatic() bool                        { return m.Static }
func (m *FakeMember) IsAsync() bool                         { return m.Async }
func (m *FakeMember) IsExtensionMethod() bool               { return m.Extension }
func (m *FakeMember) CanBeReferencedByName() bool           { return !m.Unreferencable }

// NamedType is a convenience constructor for a plain class type.
func NamedType(ns, name string) *FakeType {
	return &FakeType{
		FakeSymbol: FakeSymbol{
			SymName:   name,
			SymKind:   provider.KindNamedType,
			Namespace: ns,
			Assembly:  "TestAssembly",
		},
		QualifiedName: strings.TrimPrefix(ns+"."+name, "."),
		Class:         true,
	}
}

// InterfaceType is a convenience constructor for an interface type.
func InterfaceType(ns, name string) *FakeType {
	t := NamedType(ns, name)
	t.SymKind = provider.KindInterface
	t.Class = false
	t.Interface = true
	return t
}
