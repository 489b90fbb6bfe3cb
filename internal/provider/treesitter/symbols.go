//go:build cgo

package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codenav/internal/provider"
)

// symbol is the base implementation shared by the concrete symbol kinds.
type symbol struct {
	name      string
	kind      provider.SymbolKind
	namespace string
	assembly  string
	docs      string
	decls     []provider.Location
}

func (s *symbol) Name() string                      { return s.name }
func (s *symbol) Kind() provider.SymbolKind         { return s.kind }
func (s *symbol) ContainingAssembly() string        { return s.assembly }
func (s *symbol) ContainingNamespace() string       { return s.namespace }
func (s *symbol) Documentation() string             { return s.docs }
func (s *symbol) Declarations() []provider.Location { return s.decls }

func (s *symbol) FullDisplayName() string {
	if s.namespace == "" {
		return s.name
	}
	return s.namespace + "." + s.name
}

// typeSymbol is a declared named type.
type typeSymbol struct {
	symbol
	typeParams  []string
	baseNames   []string
	base        provider.TypeSymbol
	interfaces  []provider.TypeSymbol
	members     []provider.Member
	isInterface bool
	isClass     bool
	isStatic    bool
}

func (t *typeSymbol) FullName() string                     { return t.FullDisplayName() }
func (t *typeSymbol) IsGeneric() bool                      { return len(t.typeParams) > 0 }
func (t *typeSymbol) TypeArguments() []string              { return t.typeParams }
func (t *typeSymbol) BaseType() provider.TypeSymbol        { return t.base }
func (t *typeSymbol) AllInterfaces() []provider.TypeSymbol { return t.interfaces }
func (t *typeSymbol) Members() []provider.Member           { return t.members }
func (t *typeSymbol) IsInterface() bool                    { return t.isInterface }
func (t *typeSymbol) IsClass() bool                        { return t.isClass }
func (t *typeSymbol) IsArray() bool                        { return false }
func (t *typeSymbol) ElementType() provider.TypeSymbol     { return nil }

// arrayType is a synthesized array over an element type.
type arrayType struct {
	symbol
	element provider.TypeSymbol
}

func (t *arrayType) FullName() string                     { return t.FullDisplayName() }
func (t *arrayType) IsGeneric() bool                      { return false }
func (t *arrayType) TypeArguments() []string              { return nil }
func (t *arrayType) BaseType() provider.TypeSymbol        { return nil }
func (t *arrayType) AllInterfaces() []provider.TypeSymbol { return nil }
func (t *arrayType) Members() []provider.Member           { return nil }
func (t *arrayType) IsInterface() bool                    { return false }
func (t *arrayType) IsClass() bool                        { return false }
func (t *arrayType) IsArray() bool                        { return true }
func (t *arrayType) ElementType() provider.TypeSymbol     { return t.element }

// valueSymbol is a local, field, property, or parameter carrying a
// declared type.
type valueSymbol struct {
	symbol
	declared provider.TypeSymbol
	explicit bool
}

func (v *valueSymbol) DeclaredType() provider.TypeSymbol { return v.declared }
func (v *valueSymbol) HasExplicitType() bool             { return v.explicit }

// member is a method, property, field, or event of a type.
type member struct {
	symbol
	declaringType string
	access        provider.Accessibility
	returnType    string
	params        []provider.Parameter
	isStatic      bool
	isAsync       bool
	isExtension   bool
}

func (m *member) DeclaringTypeName() string             { return m.declaringType }
func (m *member) Accessibility() provider.Accessibility { return m.access }
func (m *member) ReturnTypeName() string                { return m.returnType }
func (m *member) Parameters() []provider.Parameter      { return m.params }
func (m *member) IsStatic() bool                        { return m.isStatic }
func (m *member) IsAsync() bool                         { return m.isAsync }
func (m *member) IsExtensionMethod() bool               { return m.isExtension }
func (m *member) CanBeReferencedByName() bool {
	return !strings.HasPrefix(m.name, "op_") && m.name != ".ctor"
}

var typeDeclKinds = map[string]provider.SymbolKind{
	"class_declaration":     provider.KindNamedType,
	"struct_declaration":    provider.KindNamedType,
	"record_declaration":    provider.KindNamedType,
	"enum_declaration":      provider.KindNamedType,
	"interface_declaration": provider.KindInterface,
}

// extractTypes collects every type declared in a document.
func extractTypes(doc *document, assembly string) []*typeSymbol {
	var out []*typeSymbol
	walk(doc.root, func(n *sitter.Node) {
		kind, ok := typeDeclKinds[n.Type()]
		if !ok {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		ts := &typeSymbol{
			symbol: symbol{
				name:      doc.text(nameNode),
				kind:      kind,
				namespace: enclosingNamespace(doc, n),
				assembly:  assembly,
				docs:      leadingDocComment(doc, n),
				decls: []provider.Location{{
					FilePath: doc.path,
					Span:     spanOf(nameNode),
				}},
			},
			isInterface: kind == provider.KindInterface,
			isClass:     n.Type() == "class_declaration" || n.Type() == "record_declaration",
			isStatic:    hasModifier(doc, n, "static"),
		}
		if tp := n.ChildByFieldName("type_parameters"); tp != nil {
			for i := 0; i < int(tp.NamedChildCount()); i++ {
				ts.typeParams = append(ts.typeParams, doc.text(tp.NamedChild(i)))
			}
		}
		if bases := n.ChildByFieldName("bases"); bases != nil {
			for i := 0; i < int(bases.NamedChildCount()); i++ {
				ts.baseNames = append(ts.baseNames, doc.text(bases.NamedChild(i)))
			}
		}
		ts.members = extractMembers(doc, n, ts.FullName())
		out = append(out, ts)
	})
	return out
}

// extractMembers collects the members declared in a type body.
func extractMembers(doc *document, typeDecl *sitter.Node, declaringType string) []provider.Member {
	body := typeDecl.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var out []provider.Member
	for i := 0; i < int(body.NamedChildCount()); i++ {
		decl := body.NamedChild(i)
		switch decl.Type() {
		case "method_declaration":
			out = append(out, methodMember(doc, decl, declaringType))
		case "property_declaration":
			out = append(out, simpleMember(doc, decl, declaringType, provider.KindProperty))
		case "event_declaration", "event_field_declaration":
			out = append(out, eventMember(doc, decl, declaringType))
		case "field_declaration":
			out = append(out, fieldMembers(doc, decl, declaringType)...)
		}
	}
	return out
}

func methodMember(doc *document, decl *sitter.Node, declaringType string) *member {
	m := &member{
		symbol: symbol{
			kind: provider.KindMethod,
			docs: leadingDocComment(doc, decl),
		},
		declaringType: declaringType,
		access:        accessibilityOf(doc, decl),
		isStatic:      hasModifier(doc, decl, "static"),
		isAsync:       hasModifier(doc, decl, "async"),
	}
	if name := decl.ChildByFieldName("name"); name != nil {
		m.name = doc.text(name)
		m.decls = []provider.Location{{FilePath: doc.path, Span: spanOf(name)}}
	}
	if ret := decl.ChildByFieldName("returns"); ret != nil {
		m.returnType = doc.text(ret)
	} else if ret := decl.ChildByFieldName("type"); ret != nil {
		m.returnType = doc.text(ret)
	}
	if params := decl.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() != "parameter" {
				continue
			}
			param := provider.Parameter{}
			if t := p.ChildByFieldName("type"); t != nil {
				param.TypeName = doc.text(t)
			}
			if n := p.ChildByFieldName("name"); n != nil {
				param.Name = doc.text(n)
			}
			if i == 0 && parameterHasThis(doc, p) {
				m.isExtension = true
			}
			m.params = append(m.params, param)
		}
	}
	return m
}

func simpleMember(doc *document, decl *sitter.Node, declaringType string, kind provider.SymbolKind) *member {
	m := &member{
		symbol: symbol{
			kind: kind,
			docs: leadingDocComment(doc, decl),
		},
		declaringType: declaringType,
		access:        accessibilityOf(doc, decl),
		isStatic:      hasModifier(doc, decl, "static"),
	}
	if name := decl.ChildByFieldName("name"); name != nil {
		m.name = doc.text(name)
		m.decls = []provider.Location{{FilePath: doc.path, Span: spanOf(name)}}
	}
	if t := decl.ChildByFieldName("type"); t != nil {
		m.returnType = doc.text(t)
	}
	return m
}

func eventMember(doc *document, decl *sitter.Node, declaringType string) *member {
	m := simpleMember(doc, decl, declaringType, provider.KindEvent)
	if m.name == "" {
		// event_field_declaration nests the name in a declarator.
		walk(decl, func(n *sitter.Node) {
			if m.name == "" && n.Type() == "variable_declarator" {
				if name := n.ChildByFieldName("name"); name != nil {
					m.name = doc.text(name)
					m.decls = []provider.Location{{FilePath: doc.path, Span: spanOf(name)}}
				}
			}
		})
	}
	return m
}

func fieldMembers(doc *document, decl *sitter.Node, declaringType string) []provider.Member {
	access := accessibilityOf(doc, decl)
	static := hasModifier(doc, decl, "static")
	docs := leadingDocComment(doc, decl)

	var typeName string
	if vd := firstChildOfType(decl, "variable_declaration"); vd != nil {
		if t := vd.ChildByFieldName("type"); t != nil {
			typeName = doc.text(t)
		}
	}

	var out []provider.Member
	walk(decl, func(n *sitter.Node) {
		if n.Type() != "variable_declarator" {
			return
		}
		name := n.ChildByFieldName("name")
		if name == nil {
			return
		}
		out = append(out, &member{
			symbol: symbol{
				name: doc.text(name),
				kind: provider.KindField,
				docs: docs,
				decls: []provider.Location{{
					FilePath: doc.path,
					Span:     spanOf(name),
				}},
			},
			declaringType: declaringType,
			access:        access,
			returnType:    typeName,
			isStatic:      static,
		})
	})
	return out
}

// accessibilityOf reads the declared accessibility; absent modifiers
// default to private, matching member semantics.
func accessibilityOf(doc *document, decl *sitter.Node) provider.Accessibility {
	switch {
	case hasModifier(doc, decl, "public"):
		return provider.AccessPublic
	case hasModifier(doc, decl, "protected"):
		return provider.AccessProtected
	case hasModifier(doc, decl, "internal"):
		return provider.AccessInternal
	default:
		return provider.AccessPrivate
	}
}

func hasModifier(doc *document, decl *sitter.Node, want string) bool {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() == "modifier" && doc.text(child) == want {
			return true
		}
	}
	return false
}

func parameterHasThis(doc *document, param *sitter.Node) bool {
	for i := 0; i < int(param.ChildCount()); i++ {
		child := param.Child(i)
		if child != nil && doc.text(child) == "this" {
			return true
		}
	}
	return false
}

// enclosingNamespace resolves the dotted namespace around a node,
// including nested namespace declarations.
func enclosingNamespace(doc *document, n *sitter.Node) string {
	var parts []string
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "namespace_declaration", "file_scoped_namespace_declaration":
			if name := cur.ChildByFieldName("name"); name != nil {
				parts = append([]string{doc.text(name)}, parts...)
			}
		}
	}
	return strings.Join(parts, ".")
}

// leadingDocComment joins the XML doc comment lines immediately above a
// declaration, stripped of the comment markers.
func leadingDocComment(doc *document, decl *sitter.Node) string {
	var lines []string
	for prev := decl.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		text := strings.TrimSpace(doc.text(prev))
		if !strings.HasPrefix(text, "///") {
			break
		}
		lines = append([]string{strings.TrimSpace(strings.TrimPrefix(text, "///"))}, lines...)
	}
	return strings.Join(lines, "\n")
}

func firstChildOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == kind {
			return child
		}
	}
	return nil
}

// walk visits every node in a subtree, depth first.
func walk(n *sitter.Node, visit func(*sitter.Node)) {
	visit(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}
