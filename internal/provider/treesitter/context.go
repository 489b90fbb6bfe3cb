//go:build cgo

package treesitter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codenav/internal/provider"
	"codenav/internal/provider/scip"
)

// syntacticContext implements provider.Context over parsed syntax
// trees, consulting a SCIP index for precise occurrences when one is
// loaded.
type syntacticContext struct {
	descriptorPath string
	assembly       string
	docs           map[string]*document
	types          []*typeSymbol
	byFullName     map[string]*typeSymbol
	index          *scip.Index
}

func (c *syntacticContext) DescriptorPath() string { return c.descriptorPath }

func (c *syntacticContext) Documents() []string {
	out := make([]string, 0, len(c.docs))
	for path := range c.docs {
		out = append(out, path)
	}
	return out
}

func (c *syntacticContext) ContainsDocument(file string) bool {
	_, ok := c.docs[file]
	return ok
}

func (c *syntacticContext) DocumentText(file string) (string, error) {
	doc, ok := c.docs[file]
	if !ok {
		return "", fmt.Errorf("document not in context: %s", file)
	}
	return string(doc.source), nil
}

func (c *syntacticContext) TokenAt(_ context.Context, file string, pos provider.Position) (provider.Token, error) {
	doc, ok := c.docs[file]
	if !ok {
		return nil, fmt.Errorf("document not in context: %s", file)
	}
	pt := sitter.Point{Row: uint32(pos.Line), Column: uint32(pos.Column)}
	n := doc.root.NamedDescendantForPointRange(pt, pt)
	if n == nil || !spanOf(n).Contains(pos) {
		return nil, nil
	}
	// Descend to the smallest named node covering the position.
	for {
		next := n.NamedDescendantForPointRange(pt, pt)
		if next == nil || next == n {
			break
		}
		n = next
	}
	return &token{n: n, doc: doc}, nil
}

// SymbolAt binds identifier nodes against declared types and members,
// preferring SCIP occurrence data when the index covers the position.
func (c *syntacticContext) SymbolAt(_ context.Context, pn provider.Node) (provider.Symbol, error) {
	n, ok := pn.(*node)
	if !ok {
		return nil, nil
	}
	if n.n.Type() != "identifier" && n.n.Type() != "generic_name" {
		return nil, nil
	}
	name := n.text()
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		name = name[:idx]
	}

	// A type with this simple name.
	for _, t := range c.types {
		if t.name == name {
			return t, nil
		}
	}
	// A member of a declared type.
	for _, t := range c.types {
		for _, m := range t.Members() {
			if m.Name() == name {
				return m, nil
			}
		}
	}
	// A local or parameter declared in the enclosing member.
	if v := c.localNamed(n, name); v != nil {
		return v, nil
	}
	return nil, nil
}

// DeclaredSymbolAt binds declaration nodes to the symbol they declare.
func (c *syntacticContext) DeclaredSymbolAt(_ context.Context, pn provider.Node) (provider.Symbol, error) {
	n, ok := pn.(*node)
	if !ok {
		return nil, nil
	}
	decl := n.n
	if decl.Type() == "identifier" && decl.Parent() != nil {
		decl = decl.Parent()
	}

	switch decl.Type() {
	case "variable_declarator":
		return c.declaratorSymbol(n.doc, decl), nil
	case "parameter":
		return c.parameterSymbol(n.doc, decl), nil
	case "class_declaration", "struct_declaration", "record_declaration",
		"enum_declaration", "interface_declaration":
		if name := decl.ChildByFieldName("name"); name != nil {
			for _, t := range c.types {
				if t.name == n.doc.text(name) {
					return t, nil
				}
			}
		}
	case "method_declaration", "property_declaration", "field_declaration":
		if sym, err := c.SymbolAt(context.Background(), pn); err == nil && sym != nil {
			return sym, nil
		}
	}
	return nil, nil
}

// TypeOf is the syntactic type-info fallback: literals, object
// creation, and identifiers bound to typed declarations.
func (c *syntacticContext) TypeOf(_ context.Context, pn provider.Node) (provider.TypeSymbol, error) {
	n, ok := pn.(*node)
	if !ok {
		return nil, nil
	}
	switch n.n.Type() {
	case "integer_literal":
		return builtinType("System", "Int32"), nil
	case "real_literal":
		return builtinType("System", "Double"), nil
	case "string_literal", "interpolated_string_expression", "raw_string_literal":
		return builtinType("System", "String"), nil
	case "boolean_literal":
		return builtinType("System", "Boolean"), nil
	case "character_literal":
		return builtinType("System", "Char"), nil
	case "object_creation_expression":
		if t := n.n.ChildByFieldName("type"); t != nil {
			return c.typeNamed(n.doc.text(t)), nil
		}
	case "identifier":
		sym, err := c.SymbolAt(context.Background(), pn)
		if err != nil || sym == nil {
			return nil, err
		}
		if t, ok := sym.(provider.TypeSymbol); ok {
			return t, nil
		}
		if v, ok := sym.(provider.ValueSymbol); ok {
			return v.DeclaredType(), nil
		}
	}
	return nil, nil
}

func (c *syntacticContext) Types(_ context.Context) ([]provider.TypeSymbol, error) {
	out := make([]provider.TypeSymbol, len(c.types))
	for i, t := range c.types {
		out[i] = t
	}
	return out, nil
}

// References enumerates occurrences of a symbol. With a SCIP index the
// occurrences come from the index; otherwise identifier nodes matching
// the symbol's name are scanned across every document.
func (c *syntacticContext) References(_ context.Context, sym provider.Symbol) ([]provider.Occurrence, error) {
	if c.index != nil {
		if occs := c.indexOccurrences(sym); occs != nil {
			return occs, nil
		}
	}

	declSpans := make(map[string]bool)
	for _, d := range sym.Declarations() {
		declSpans[locKey(d)] = true
	}

	var out []provider.Occurrence
	for _, doc := range c.docs {
		walk(doc.root, func(sn *sitter.Node) {
			if sn.Type() != "identifier" || doc.text(sn) != sym.Name() {
				return
			}
			loc := provider.Location{FilePath: doc.path, Span: spanOf(sn)}
			kind := provider.RefReference
			if declSpans[locKey(loc)] {
				kind = provider.RefDefinition
			}
			out = append(out, provider.Occurrence{Location: loc, Kind: kind})
		})
	}
	return out, nil
}

func (c *syntacticContext) indexOccurrences(sym provider.Symbol) []provider.Occurrence {
	for _, d := range sym.Declarations() {
		if !c.index.HasDocument(d.FilePath) {
			continue
		}
		if id := c.index.SymbolAt(d.FilePath, d.Span.Start); id != "" {
			return c.index.Occurrences(id)
		}
	}
	return nil
}

// ImplementationsOf walks the declared types for transitive
// implementors of an interface.
func (c *syntacticContext) ImplementationsOf(ctx context.Context, iface provider.TypeSymbol) ([]provider.TypeSymbol, error) {
	var out []provider.TypeSymbol
	for _, t := range c.types {
		if t.isInterface || t.FullName() == iface.FullName() {
			continue
		}
		if c.inheritsFrom(t, iface.Name()) {
			out = append(out, t)
		}
	}
	return out, nil
}

// DerivedClassesOf walks the declared types for transitive subclasses.
func (c *syntacticContext) DerivedClassesOf(ctx context.Context, class provider.TypeSymbol) ([]provider.TypeSymbol, error) {
	var out []provider.TypeSymbol
	for _, t := range c.types {
		if !t.isClass || t.FullName() == class.FullName() {
			continue
		}
		if c.inheritsFrom(t, class.Name()) {
			out = append(out, t)
		}
	}
	return out, nil
}

// inheritsFrom reports whether t names target (by simple name) anywhere
// in its transitive base list.
func (c *syntacticContext) inheritsFrom(t *typeSymbol, target string) bool {
	for _, baseName := range t.baseNames {
		simple := baseName
		if idx := strings.IndexByte(simple, '<'); idx >= 0 {
			simple = simple[:idx]
		}
		if idx := strings.LastIndexByte(simple, '.'); idx >= 0 {
			simple = simple[idx+1:]
		}
		if simple == target {
			return true
		}
		if base, ok := c.bySimpleName(simple); ok && c.inheritsFrom(base, target) {
			return true
		}
	}
	return false
}

func (c *syntacticContext) bySimpleName(name string) (*typeSymbol, bool) {
	for _, t := range c.types {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

// Diagnostics reports parse failures: ERROR nodes and missing tokens.
func (c *syntacticContext) Diagnostics(_ context.Context, file string) ([]provider.Diagnostic, error) {
	var out []provider.Diagnostic
	for path, doc := range c.docs {
		if file != "" && path != file {
			continue
		}
		if !doc.root.HasError() {
			continue
		}
		walk(doc.root, func(n *sitter.Node) {
			switch {
			case n.Type() == "ERROR":
				out = append(out, provider.Diagnostic{
					ID:       "SYN0001",
					Severity: provider.SeverityError,
					Message:  "syntax error",
					FilePath: path,
					Span:     spanOf(n),
					Category: "syntax",
				})
			case n.IsMissing():
				out = append(out, provider.Diagnostic{
					ID:       "SYN0002",
					Severity: provider.SeverityError,
					Message:  fmt.Sprintf("expected %s", n.Type()),
					FilePath: path,
					Span:     spanOf(n),
					Category: "syntax",
				})
			}
		})
	}
	return out, nil
}

func (c *syntacticContext) NodesInSpan(_ context.Context, file string, span provider.Span) ([]provider.Node, error) {
	doc, ok := c.docs[file]
	if !ok {
		return nil, fmt.Errorf("document not in context: %s", file)
	}
	var out []provider.Node
	walk(doc.root, func(n *sitter.Node) {
		if spanOf(n).Intersects(span) {
			out = append(out, wrap(n, doc))
		}
	})
	return out, nil
}

func (c *syntacticContext) IsBranchNode(pn provider.Node) bool {
	n, ok := pn.(*node)
	if !ok {
		return false
	}
	return isBranch(n)
}

// NamespacesInScope lists namespaces imported by using directives that
// start on or before the position's line.
func (c *syntacticContext) NamespacesInScope(_ context.Context, file string, pos provider.Position) ([]string, error) {
	doc, ok := c.docs[file]
	if !ok {
		return nil, fmt.Errorf("document not in context: %s", file)
	}
	var out []string
	walk(doc.root, func(n *sitter.Node) {
		if n.Type() != "using_directive" {
			return
		}
		if int(n.StartPoint().Row) > pos.Line {
			return
		}
		if name := n.ChildByFieldName("name"); name != nil {
			out = append(out, doc.text(name))
		} else if last := n.NamedChild(int(n.NamedChildCount()) - 1); last != nil {
			out = append(out, doc.text(last))
		}
	})
	return out, nil
}

// ExtensionTypes returns the static classes declared in a namespace
// that contain at least one extension method.
func (c *syntacticContext) ExtensionTypes(_ context.Context, namespace string) ([]provider.TypeSymbol, error) {
	var out []provider.TypeSymbol
	for _, t := range c.types {
		if t.namespace != namespace || !t.isStatic {
			continue
		}
		for _, m := range t.Members() {
			if m.IsExtensionMethod() {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (c *syntacticContext) Release() {
	for _, doc := range c.docs {
		if doc.tree != nil {
			doc.tree.Close()
		}
	}
	c.docs = nil
	c.types = nil
	c.byFullName = nil
}

// declaratorSymbol builds the value symbol for a variable declarator,
// resolving its declared type from the enclosing declaration.
func (c *syntacticContext) declaratorSymbol(doc *document, decl *sitter.Node) provider.Symbol {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return nil
	}

	v := &valueSymbol{
		symbol: symbol{
			name: doc.text(name),
			kind: provider.KindLocal,
			decls: []provider.Location{{
				FilePath: doc.path,
				Span:     spanOf(name),
			}},
		},
	}

	parent := decl.Parent()
	if parent != nil && parent.Type() == "variable_declaration" {
		if t := parent.ChildByFieldName("type"); t != nil {
			typeText := doc.text(t)
			if typeText != "var" {
				v.explicit = true
				v.declared = c.typeNamed(typeText)
			} else {
				v.declared = c.inferInitializerType(doc, decl)
			}
		}
		if grand := parent.Parent(); grand != nil && grand.Type() == "field_declaration" {
			v.kind = provider.KindField
		}
	}
	return v
}

func (c *syntacticContext) parameterSymbol(doc *document, decl *sitter.Node) provider.Symbol {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	v := &valueSymbol{
		symbol: symbol{
			name: doc.text(name),
			kind: provider.KindParameter,
			decls: []provider.Location{{
				FilePath: doc.path,
				Span:     spanOf(name),
			}},
		},
		explicit: true,
	}
	if t := decl.ChildByFieldName("type"); t != nil {
		v.declared = c.typeNamed(doc.text(t))
	}
	return v
}

// inferInitializerType types a var declarator from its initializer.
func (c *syntacticContext) inferInitializerType(doc *document, decl *sitter.Node) provider.TypeSymbol {
	init := decl.ChildByFieldName("value")
	if init == nil {
		// Grammar versions differ on the initializer field name.
		init = firstChildOfType(decl, "equals_value_clause")
		if init != nil && init.NamedChildCount() > 0 {
			init = init.NamedChild(0)
		}
	}
	if init == nil {
		return nil
	}
	t, _ := c.TypeOf(context.Background(), wrap(init, doc))
	return t
}

// localNamed searches the member enclosing n for a declarator or
// parameter with the given name.
func (c *syntacticContext) localNamed(n *node, name string) provider.Symbol {
	scope := n.n
	for scope != nil {
		switch scope.Type() {
		case "method_declaration", "local_function_statement", "constructor_declaration",
			"property_declaration", "lambda_expression":
		default:
			scope = scope.Parent()
			continue
		}
		break
	}
	if scope == nil {
		return nil
	}

	var found provider.Symbol
	walk(scope, func(sn *sitter.Node) {
		if found != nil {
			return
		}
		switch sn.Type() {
		case "variable_declarator":
			if nameNode := sn.ChildByFieldName("name"); nameNode != nil && n.doc.text(nameNode) == name {
				found = c.declaratorSymbol(n.doc, sn)
			}
		case "parameter":
			if nameNode := sn.ChildByFieldName("name"); nameNode != nil && n.doc.text(nameNode) == name {
				found = c.parameterSymbol(n.doc, sn)
			}
		}
	})
	return found
}

// typeNamed resolves a type name to a declared type, an array over one,
// or a synthesized builtin.
func (c *syntacticContext) typeNamed(name string) provider.TypeSymbol {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, "[]") {
		elem := c.typeNamed(strings.TrimSuffix(name, "[]"))
		ns, simple := "", name
		if elem != nil {
			ns = elem.ContainingNamespace()
			simple = elem.Name() + "[]"
		}
		return &arrayType{
			symbol:  symbol{name: simple, kind: provider.KindNamedType, namespace: ns},
			element: elem,
		}
	}

	simple := name
	if idx := strings.IndexByte(simple, '<'); idx >= 0 {
		simple = simple[:idx]
	}
	if idx := strings.LastIndexByte(simple, '.'); idx >= 0 {
		simple = simple[idx+1:]
	}
	for _, t := range c.types {
		if t.name == simple || t.FullName() == name {
			return t
		}
	}
	if qualified, ok := builtinAliases[simple]; ok {
		return builtinType(qualified.ns, qualified.name)
	}
	ns := ""
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		ns = name[:idx]
	}
	return builtinType(ns, simple)
}

var builtinAliases = map[string]struct{ ns, name string }{
	"int":      {"System", "Int32"},
	"long":     {"System", "Int64"},
	"short":    {"System", "Int16"},
	"byte":     {"System", "Byte"},
	"bool":     {"System", "Boolean"},
	"string":   {"System", "String"},
	"char":     {"System", "Char"},
	"double":   {"System", "Double"},
	"float":    {"System", "Single"},
	"decimal":  {"System", "Decimal"},
	"object":   {"System", "Object"},
	"DateTime": {"System", "DateTime"},
}

func builtinType(ns, name string) *typeSymbol {
	return &typeSymbol{
		symbol:  symbol{name: name, kind: provider.KindNamedType, namespace: ns},
		isClass: true,
	}
}

func locKey(loc provider.Location) string {
	return fmt.Sprintf("%s:%d:%d", loc.FilePath, loc.Span.Start.Line, loc.Span.Start.Column)
}
