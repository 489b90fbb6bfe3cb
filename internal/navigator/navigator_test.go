package navigator

import (
	"context"
	"errors"
	"strings"
	"testing"

	naverrors "codenav/internal/errors"
	"codenav/internal/logging"
	"codenav/internal/provider"
	"codenav/internal/testutil"
)

const testDoc = "/work/app/Program.cs"

func newNavigator() *Navigator {
	return New(logging.NewDiscardLogger())
}

// fixedToken wires a context so that any TokenAt query on file returns
// a token whose parent is node.
func fixedToken(fc *testutil.FakeContext, file string, node provider.Node) {
	fc.TokenFn = func(f string, _ provider.Position) provider.Token {
		if f != file {
			return nil
		}
		return &testutil.FakeToken{TokenText: "tok", TokenParent: node}
	}
}

func newContextWithDoc() *testutil.FakeContext {
	fc := testutil.NewFakeContext("/work/app/App.csproj")
	fc.DocumentTexts[testDoc] = "line one\nvar x = 5;\nline three\n"
	return fc
}

func wantCode(t *testing.T, err error, code naverrors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var ne *naverrors.NavError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NavError, got %T: %v", err, err)
	}
	if ne.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, ne.Code, err)
	}
}

func TestResolveAtPositionFileNotInContext(t *testing.T) {
	fc := newContextWithDoc()
	_, err := newNavigator().ResolveAtPosition(context.Background(), fc, "/work/other/Lib.cs", 1, 1)
	wantCode(t, err, naverrors.FileNotInContext)
}

func TestResolveAtPositionNoToken(t *testing.T) {
	fc := newContextWithDoc()
	_, err := newNavigator().ResolveAtPosition(context.Background(), fc, testDoc, 1, 1)
	wantCode(t, err, naverrors.SymbolNotFound)
}

func TestResolveInferredLocalKeepsOwnName(t *testing.T) {
	// var x = 5; the local keeps its name while the inferred integer
	// type populates the type fields.
	intType := testutil.NamedType("System", "Int32")
	local := &testutil.FakeSymbol{
		SymName:   "x",
		SymKind:   provider.KindLocal,
		ValueType: intType,
	}
	node := &testutil.FakeNode{NodeKind: "identifier"}

	fc := newContextWithDoc()
	fc.Symbols[node] = local
	fixedToken(fc, testDoc, node)

	desc, err := newNavigator().ResolveAtPosition(context.Background(), fc, testDoc, 2, 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if desc.DisplayName != "x" {
		t.Errorf("display name = %q, want x", desc.DisplayName)
	}
	if desc.Kind != string(provider.KindLocal) {
		t.Errorf("kind = %q, want local", desc.Kind)
	}
	if desc.FullTypeName != "System.Int32" {
		t.Errorf("full type name = %q, want System.Int32", desc.FullTypeName)
	}
}

func TestResolveDeclaredSymbolFallback(t *testing.T) {
	// A declaration site binds through the declared-symbol channel.
	sym := &testutil.FakeSymbol{SymName: "Run", SymKind: provider.KindMethod}
	node := &testutil.FakeNode{NodeKind: "method_declaration"}

	fc := newContextWithDoc()
	fc.Declared[node] = sym
	fixedToken(fc, testDoc, node)

	desc, err := newNavigator().ResolveAtPosition(context.Background(), fc, testDoc, 1, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if desc.DisplayName != "Run" || desc.Kind != string(provider.KindMethod) {
		t.Errorf("got %s/%s, want Run/method", desc.DisplayName, desc.Kind)
	}
}

func TestResolveAscendsParentChain(t *testing.T) {
	sym := &testutil.FakeSymbol{SymName: "Helper", SymKind: provider.KindNamedType}
	parent := &testutil.FakeNode{NodeKind: "qualified_name"}
	child := &testutil.FakeNode{NodeKind: "identifier", NodeParent: parent}

	fc := newContextWithDoc()
	fc.Symbols[parent] = sym
	fixedToken(fc, testDoc, child)

	desc, err := newNavigator().ResolveAtPosition(context.Background(), fc, testDoc, 1, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if desc.DisplayName != "Helper" {
		t.Errorf("display name = %q, want Helper", desc.DisplayName)
	}
}

func TestResolveExpressionTypeFallback(t *testing.T) {
	// No symbol binds anywhere, but the member access's receiver has a
	// type; the position resolves to that type.
	strType := testutil.NamedType("System", "String")
	receiver := &testutil.FakeNode{NodeKind: "identifier"}
	access := &testutil.FakeNode{
		NodeKind:     "member_access_expression",
		MemberAccess: true,
		ReceiverNode: receiver,
	}
	child := &testutil.FakeNode{NodeKind: "identifier", NodeParent: access}

	fc := newContextWithDoc()
	fc.ExprTypes[receiver] = strType
	fixedToken(fc, testDoc, child)

	desc, err := newNavigator().ResolveAtPosition(context.Background(), fc, testDoc, 1, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if desc.FullTypeName != "System.String" {
		t.Errorf("full type name = %q, want System.String", desc.FullTypeName)
	}
}

func TestKindForSpecialCases(t *testing.T) {
	dateTime := testutil.NamedType("System", "DateTime")
	intType := testutil.NamedType("System", "Int32")
	intArray := &testutil.FakeType{
		FakeSymbol: testutil.FakeSymbol{SymName: "Int32[]", SymKind: provider.KindNamedType},
		Array:      true,
		Element:    intType,
	}
	jagged := &testutil.FakeType{
		FakeSymbol: testutil.FakeSymbol{SymName: "Int32[][]", SymKind: provider.KindNamedType},
		Array:      true,
		Element:    intArray,
	}

	tests := []struct {
		name string
		sym  provider.Symbol
		want provider.SymbolKind
	}{
		{
			name: "type parameter keeps its tag",
			sym:  &testutil.FakeSymbol{SymName: "T", SymKind: provider.KindTypeParameter},
			want: provider.KindTypeParameter,
		},
		{
			name: "jagged array local",
			sym:  &testutil.FakeSymbol{SymName: "grid", SymKind: provider.KindLocal, ValueType: jagged},
			want: provider.KindJaggedArray,
		},
		{
			name: "plain array local stays local",
			sym:  &testutil.FakeSymbol{SymName: "nums", SymKind: provider.KindLocal, ValueType: intArray},
			want: provider.KindLocal,
		},
		{
			name: "explicit DateTime local retagged",
			sym: &testutil.FakeSymbol{
				SymName: "when", SymKind: provider.KindLocal,
				ValueType: dateTime, ExplicitType: true,
			},
			want: provider.KindNamedType,
		},
		{
			name: "inferred DateTime local stays local",
			sym: &testutil.FakeSymbol{
				SymName: "when", SymKind: provider.KindLocal,
				ValueType: dateTime,
			},
			want: provider.KindLocal,
		},
		{
			name: "explicit non-DateTime local stays local",
			sym: &testutil.FakeSymbol{
				SymName: "n", SymKind: provider.KindLocal,
				ValueType: intType, ExplicitType: true,
			},
			want: provider.KindLocal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kindFor(tt.sym); got != tt.want {
				t.Errorf("kindFor = %s, want %s", got, tt.want)
			}
		})
	}
}

func publicMethod(name, declaring string) *testutil.FakeMember {
	return &testutil.FakeMember{
		FakeSymbol:    testutil.FakeSymbol{SymName: name, SymKind: provider.KindMethod},
		DeclaringType: declaring,
		Access:        provider.AccessPublic,
		ReturnType:    "System.String",
	}
}

func TestListMembersErrorReportsCallerCoordinates(t *testing.T) {
	fc := newContextWithDoc()

	_, err := newNavigator().ListMembers(context.Background(), fc, MemberQuery{
		File: testDoc, Line: 10, Column: 1,
	})
	wantCode(t, err, naverrors.SymbolNotFound)
	if !strings.Contains(err.Error(), ":10:1") {
		t.Errorf("error should carry the caller's 1-based position, got %q", err.Error())
	}
}

func TestListMembersFilters(t *testing.T) {
	target := testutil.NamedType("App", "Widget")
	private := publicMethod("Hidden", "App.Widget")
	private.Access = provider.AccessPrivate
	static := publicMethod("Create", "App.Widget")
	static.Static = true
	compilerOnly := publicMethod("op_Equality", "App.Widget")
	compilerOnly.Unreferencable = true
	target.TypeMembers = []provider.Member{
		publicMethod("ToUpper", "App.Widget"),
		publicMethod("Trim", "App.Widget"),
		private,
		static,
		compilerOnly,
	}

	node := &testutil.FakeNode{NodeKind: "identifier"}
	fc := newContextWithDoc()
	fc.Symbols[node] = target
	fixedToken(fc, testDoc, node)

	nav := newNavigator()
	members, err := nav.ListMembers(context.Background(), fc, MemberQuery{File: testDoc, Line: 1, Column: 1})
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2: %+v", len(members), members)
	}
	// Sorted by name.
	if members[0].Name != "ToUpper" || members[1].Name != "Trim" {
		t.Errorf("got %s, %s; want ToUpper, Trim", members[0].Name, members[1].Name)
	}

	members, err = nav.ListMembers(context.Background(), fc, MemberQuery{
		File: testDoc, Line: 1, Column: 1, IncludeStatic: true, NamePrefix: "cre",
	})
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].Name != "Create" || !members[0].IsStatic {
		t.Errorf("prefix+static query got %+v, want just the static Create", members)
	}
}

func TestListMembersExtensionCompatibility(t *testing.T) {
	// List<T> : object, implements IEnumerable. An extension on
	// IEnumerable applies; an extension on an unrelated type does not.
	enumerable := testutil.InterfaceType("System.Collections", "IEnumerable")
	list := testutil.NamedType("System.Collections.Generic", "List")
	list.Interfaces = []provider.TypeSymbol{enumerable}

	extCount := publicMethod("Count", "System.Linq.Enumerable")
	extCount.Extension = true
	extCount.Params = []provider.Parameter{{Name: "source", TypeName: "System.Collections.IEnumerable"}}
	extOther := publicMethod("ToFrob", "App.FrobExtensions")
	extOther.Extension = true
	extOther.Params = []provider.Parameter{{Name: "self", TypeName: "App.Frobber"}}

	extHost := testutil.NamedType("System.Linq", "Enumerable")
	extHost.TypeMembers = []provider.Member{extCount, extOther}

	node := &testutil.FakeNode{NodeKind: "identifier"}
	fc := newContextWithDoc()
	fc.Symbols[node] = list
	fc.Namespaces[testDoc] = []string{"System.Linq"}
	fc.ExtTypes["System.Linq"] = []provider.TypeSymbol{extHost}
	fixedToken(fc, testDoc, node)

	members, err := newNavigator().ListMembers(context.Background(), fc, MemberQuery{
		File: testDoc, Line: 1, Column: 1, IncludeExtensions: true,
	})
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].Name != "Count" || !members[0].IsExtension {
		t.Fatalf("got %+v, want just the Count extension", members)
	}
}

func TestExtensionAppliesTransitively(t *testing.T) {
	disposable := testutil.InterfaceType("System", "IDisposable")
	base := testutil.NamedType("App", "BaseStream")
	base.Interfaces = []provider.TypeSymbol{disposable}
	derived := testutil.NamedType("App", "FileStream")
	derived.Base = base

	if !extensionApplies(derived, "App.BaseStream") {
		t.Error("extension on base class should apply to derived")
	}
	if !extensionApplies(derived, "System.IDisposable") {
		t.Error("extension on base's interface should apply to derived")
	}
	if extensionApplies(derived, "App.Unrelated") {
		t.Error("extension on unrelated type should not apply")
	}
}

func TestFormatSignature(t *testing.T) {
	method := publicMethod("IndexOf", "System.String")
	method.ReturnType = "System.Int32"
	method.Params = []provider.Parameter{
		{Name: "value", TypeName: "System.String"},
		{Name: "startIndex", TypeName: "System.Int32"},
	}
	sig, err := formatSignature(method)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := "System.Int32 IndexOf(System.String value, System.Int32 startIndex)"
	if sig != want {
		t.Errorf("signature = %q, want %q", sig, want)
	}

	prop := publicMethod("Length", "System.String")
	prop.SymKind = provider.KindProperty
	prop.ReturnType = "System.Int32"
	sig, err = formatSignature(prop)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if sig != "System.Int32 Length { get; }" {
		t.Errorf("property signature = %q", sig)
	}

	odd := publicMethod("Weird", "App.Widget")
	odd.SymKind = provider.SymbolKind("operator")
	if _, err := formatSignature(odd); err == nil {
		t.Error("unrecognized member category should be rejected")
	}
}

func TestFindDefinition(t *testing.T) {
	sym := &testutil.FakeSymbol{
		SymName: "Widget",
		SymKind: provider.KindNamedType,
		Decls: []provider.Location{{
			FilePath: testDoc,
			Span: provider.Span{
				Start: provider.Position{Line: 1, Column: 0},
				End:   provider.Position{Line: 1, Column: 10},
			},
		}},
	}
	node := &testutil.FakeNode{NodeKind: "identifier"}
	fc := newContextWithDoc()
	fc.Symbols[node] = sym
	fixedToken(fc, testDoc, node)

	res, err := newNavigator().FindDefinition(context.Background(), fc, testDoc, 1, 1)
	if err != nil {
		t.Fatalf("find definition: %v", err)
	}
	if res.Location.FilePath != testDoc || res.Location.StartLine != 2 {
		t.Errorf("location = %+v, want %s line 2", res.Location, testDoc)
	}
	if res.Snippet != "var x = 5;" {
		t.Errorf("snippet = %q, want trimmed declaration line", res.Snippet)
	}
	if res.Symbol.DisplayName != "Widget" {
		t.Errorf("symbol = %+v", res.Symbol)
	}
}

func TestFindDefinitionNoSourceDeclaration(t *testing.T) {
	// Metadata-only symbols bind but have no source declaration.
	sym := &testutil.FakeSymbol{SymName: "Console", SymKind: provider.KindNamedType}
	node := &testutil.FakeNode{NodeKind: "identifier"}
	fc := newContextWithDoc()
	fc.Symbols[node] = sym
	fixedToken(fc, testDoc, node)

	_, err := newNavigator().FindDefinition(context.Background(), fc, testDoc, 1, 1)
	wantCode(t, err, naverrors.SymbolNotFound)
}

func TestFindDefinitionIgnoresDeclaredOnlyBinding(t *testing.T) {
	// Definition lookup uses resolved bindings only; a node that binds
	// solely through the declared-symbol channel does not resolve.
	sym := &testutil.FakeSymbol{SymName: "x", SymKind: provider.KindLocal}
	node := &testutil.FakeNode{NodeKind: "variable_declarator"}
	fc := newContextWithDoc()
	fc.Declared[node] = sym
	fixedToken(fc, testDoc, node)

	_, err := newNavigator().FindDefinition(context.Background(), fc, testDoc, 1, 1)
	wantCode(t, err, naverrors.SymbolNotFound)
}

func TestFindReferencesTruncation(t *testing.T) {
	sym := &testutil.FakeSymbol{SymName: "x", SymKind: provider.KindLocal}
	node := &testutil.FakeNode{NodeKind: "identifier"}
	fc := newContextWithDoc()
	fc.Symbols[node] = sym
	fixedToken(fc, testDoc, node)

	for i := 0; i < 5; i++ {
		fc.Occurrences["x"] = append(fc.Occurrences["x"], provider.Occurrence{
			Location: provider.Location{
				FilePath: testDoc,
				Span: provider.Span{
					Start: provider.Position{Line: i, Column: 4},
					End:   provider.Position{Line: i, Column: 5},
				},
			},
			Kind: provider.RefReference,
		})
	}

	res, err := newNavigator().FindReferences(context.Background(), fc, ReferenceQuery{
		File: testDoc, Line: 1, Column: 1, MaxResults: 2,
	})
	if err != nil {
		t.Fatalf("find references: %v", err)
	}
	if res.TotalCount != 5 {
		t.Errorf("totalCount = %d, want 5", res.TotalCount)
	}
	if len(res.References) != 2 {
		t.Errorf("materialized %d, want 2", len(res.References))
	}
	if !res.HasMore {
		t.Error("hasMore should be true when truncated")
	}
	if res.References[0].Line != 1 || res.References[0].Column != 5 {
		t.Errorf("first reference %+v, want 1-based line 1 col 5", res.References[0])
	}
	if res.References[1].LineText != "var x = 5;" {
		t.Errorf("lineText = %q, want trimmed source line", res.References[1].LineText)
	}
}

func TestFindReferencesDeclarationFilter(t *testing.T) {
	sym := &testutil.FakeSymbol{SymName: "x", SymKind: provider.KindLocal}
	node := &testutil.FakeNode{NodeKind: "identifier"}
	fc := newContextWithDoc()
	fc.Symbols[node] = sym
	fixedToken(fc, testDoc, node)
	fc.Occurrences["x"] = []provider.Occurrence{
		{Kind: provider.RefDefinition, Location: provider.Location{FilePath: testDoc}},
		{Kind: provider.RefReference, Location: provider.Location{FilePath: testDoc}},
		{Kind: provider.RefWrite, Location: provider.Location{FilePath: testDoc}},
	}

	nav := newNavigator()
	res, err := nav.FindReferences(context.Background(), fc, ReferenceQuery{
		File: testDoc, Line: 1, Column: 1, MaxResults: 10,
	})
	if err != nil {
		t.Fatalf("find references: %v", err)
	}
	if res.TotalCount != 2 {
		t.Errorf("without declaration: totalCount = %d, want 2", res.TotalCount)
	}

	res, err = nav.FindReferences(context.Background(), fc, ReferenceQuery{
		File: testDoc, Line: 1, Column: 1, MaxResults: 10, IncludeDeclaration: true,
	})
	if err != nil {
		t.Fatalf("find references: %v", err)
	}
	if res.TotalCount != 3 {
		t.Errorf("with declaration: totalCount = %d, want 3", res.TotalCount)
	}
	if res.HasMore {
		t.Error("hasMore should be false when everything fit")
	}
}

func TestFindImplementationsByName(t *testing.T) {
	iface := testutil.InterfaceType("App", "IRepository")
	impl1 := testutil.NamedType("App.Data", "SqlRepository")
	impl2 := testutil.NamedType("App.Data", "MemoryRepository")

	fc := newContextWithDoc()
	fc.AllTypes = []provider.TypeSymbol{iface, impl1, impl2}
	fc.Implementations["App.IRepository"] = []provider.TypeSymbol{impl1, impl2}

	impls, err := newNavigator().FindImplementations(context.Background(), fc, ImplementationQuery{Name: "App.IRepository", FindInterfaceImpls: true})
	if err != nil {
		t.Fatalf("find implementations: %v", err)
	}
	if len(impls) != 2 {
		t.Fatalf("got %d implementations, want 2", len(impls))
	}
	for _, impl := range impls {
		if !impl.ImplementsDirectly {
			t.Errorf("%s: implementsDirectly should be true", impl.FullName)
		}
	}

	// Simple-name suffix match resolves the same interface.
	impls, err = newNavigator().FindImplementations(context.Background(), fc, ImplementationQuery{Name: "IRepository", FindInterfaceImpls: true})
	if err != nil {
		t.Fatalf("suffix lookup: %v", err)
	}
	if len(impls) != 2 {
		t.Errorf("suffix lookup got %d implementations, want 2", len(impls))
	}

	// Gating off the interface search yields an empty result.
	impls, err = newNavigator().FindImplementations(context.Background(), fc, ImplementationQuery{Name: "App.IRepository"})
	if err != nil {
		t.Fatalf("gated lookup: %v", err)
	}
	if len(impls) != 0 {
		t.Errorf("gated lookup got %d implementations, want 0", len(impls))
	}
}

func TestFindImplementationsClassUsesDerived(t *testing.T) {
	base := testutil.NamedType("App", "Animal")
	derived := testutil.NamedType("App", "Dog")
	fc := newContextWithDoc()
	fc.AllTypes = []provider.TypeSymbol{base, derived}
	fc.Derived["App.Animal"] = []provider.TypeSymbol{derived}

	impls, err := newNavigator().FindImplementations(context.Background(), fc, ImplementationQuery{Name: "App.Animal", FindDerived: true})
	if err != nil {
		t.Fatalf("find implementations: %v", err)
	}
	if len(impls) != 1 || impls[0].FullName != "App.Dog" {
		t.Errorf("got %+v, want App.Dog", impls)
	}
}

func TestResolveTypeTargetErrors(t *testing.T) {
	a := testutil.NamedType("App.One", "Widget")
	b := testutil.NamedType("App.Two", "Widget")
	fc := newContextWithDoc()
	fc.AllTypes = []provider.TypeSymbol{a, b}

	nav := newNavigator()
	_, err := nav.FindImplementations(context.Background(), fc, ImplementationQuery{Name: "Widget"})
	wantCode(t, err, naverrors.SymbolNotFound)

	_, err = nav.FindImplementations(context.Background(), fc, ImplementationQuery{Name: "App.Missing"})
	wantCode(t, err, naverrors.SymbolNotFound)
}

func TestGetHierarchy(t *testing.T) {
	object := testutil.NamedType("System", "Object")
	animal := testutil.NamedType("App", "Animal")
	animal.Base = object
	dog := testutil.NamedType("App", "Dog")
	dog.Base = animal
	comparable := testutil.InterfaceType("System", "IComparable")
	dog.Interfaces = []provider.TypeSymbol{comparable}
	puppy := testutil.NamedType("App", "Puppy")

	fc := newContextWithDoc()
	fc.AllTypes = []provider.TypeSymbol{object, animal, dog, puppy}
	fc.Derived["App.Dog"] = []provider.TypeSymbol{puppy}

	res, err := newNavigator().GetHierarchy(context.Background(), fc, HierarchyQuery{Name: "App.Dog"})
	if err != nil {
		t.Fatalf("get hierarchy: %v", err)
	}
	// The base chain stops before System.Object.
	if len(res.BaseTypes) != 1 || res.BaseTypes[0].FullName != "App.Animal" {
		t.Errorf("baseTypes = %+v, want only App.Animal", res.BaseTypes)
	}
	if len(res.DerivedTypes) != 1 || res.DerivedTypes[0].FullName != "App.Puppy" {
		t.Errorf("derivedTypes = %+v, want App.Puppy", res.DerivedTypes)
	}
	if len(res.Interfaces) != 1 || res.Interfaces[0].FullName != "System.IComparable" {
		t.Errorf("interfaces = %+v, want System.IComparable", res.Interfaces)
	}
}

func TestGetHierarchyDirections(t *testing.T) {
	animal := testutil.NamedType("App", "Animal")
	dog := testutil.NamedType("App", "Dog")
	dog.Base = animal
	fc := newContextWithDoc()
	fc.AllTypes = []provider.TypeSymbol{animal, dog}
	fc.Derived["App.Dog"] = []provider.TypeSymbol{testutil.NamedType("App", "Puppy")}

	nav := newNavigator()
	res, err := nav.GetHierarchy(context.Background(), fc, HierarchyQuery{Name: "App.Dog", Direction: DirectionBase})
	if err != nil {
		t.Fatalf("base direction: %v", err)
	}
	if len(res.BaseTypes) != 1 || len(res.DerivedTypes) != 0 {
		t.Errorf("base direction got %+v", res)
	}

	res, err = nav.GetHierarchy(context.Background(), fc, HierarchyQuery{Name: "App.Dog", Direction: DirectionDerived})
	if err != nil {
		t.Fatalf("derived direction: %v", err)
	}
	if len(res.BaseTypes) != 0 || len(res.DerivedTypes) != 1 {
		t.Errorf("derived direction got %+v", res)
	}
}

func TestGetHierarchyInterfaceSkipsDerived(t *testing.T) {
	iface := testutil.InterfaceType("App", "IRepository")
	fc := newContextWithDoc()
	fc.AllTypes = []provider.TypeSymbol{iface}
	// Derived-class search is a class concept; interfaces get none even
	// when the direction asks for descendants.
	res, err := newNavigator().GetHierarchy(context.Background(), fc, HierarchyQuery{Name: "App.IRepository", Direction: DirectionBoth})
	if err != nil {
		t.Fatalf("get hierarchy: %v", err)
	}
	if len(res.DerivedTypes) != 0 {
		t.Errorf("derivedTypes = %+v, want empty", res.DerivedTypes)
	}
}

func TestGetDiagnostics(t *testing.T) {
	otherDoc := "/work/app/Other.cs"
	fc := newContextWithDoc()
	fc.DocumentTexts[otherDoc] = ""
	fc.Diags = []provider.Diagnostic{
		{ID: "CS0103", Severity: provider.SeverityError, FilePath: testDoc, Message: "name does not exist"},
		{ID: "CS0168", Severity: provider.SeverityWarning, FilePath: testDoc, Message: "unused variable"},
		{ID: "CS8019", Severity: provider.SeverityInfo, FilePath: otherDoc, Message: "unnecessary using"},
	}

	nav := newNavigator()
	diags, err := nav.GetDiagnostics(context.Background(), fc, "", provider.SeverityWarning)
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if len(diags) != 2 {
		t.Errorf("context-wide at warning: got %d, want 2", len(diags))
	}

	diags, err = nav.GetDiagnostics(context.Background(), fc, otherDoc, provider.SeverityHidden)
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if len(diags) != 1 || diags[0].ID != "CS8019" {
		t.Errorf("file-scoped: got %+v, want just CS8019", diags)
	}

	_, err = nav.GetDiagnostics(context.Background(), fc, "/work/app/Missing.cs", provider.SeverityHidden)
	wantCode(t, err, naverrors.FileNotInContext)
}

func TestAnalyzeBlock(t *testing.T) {
	spanAt := func(line int) provider.Span {
		return provider.Span{
			Start: provider.Position{Line: line, Column: 0},
			End:   provider.Position{Line: line, Column: 20},
		}
	}

	ifNode := &testutil.FakeNode{NodeKind: "if_statement", NodeSpan: spanAt(1)}
	whileNode := &testutil.FakeNode{NodeKind: "while_statement", NodeSpan: spanAt(2)}
	declNode := &testutil.FakeNode{NodeKind: "variable_declarator", NodeSpan: spanAt(1)}
	useNode := &testutil.FakeNode{NodeKind: "identifier", NodeSpan: spanAt(2)}
	outsideNode := &testutil.FakeNode{NodeKind: "if_statement", NodeSpan: spanAt(9)}

	fc := newContextWithDoc()
	fc.SpanNodes[testDoc] = []provider.Node{ifNode, whileNode, declNode, useNode, outsideNode}
	fc.Branches[ifNode] = true
	fc.Branches[whileNode] = true
	fc.Branches[outsideNode] = true
	fc.Declared[declNode] = &testutil.FakeSymbol{SymName: "x", SymKind: provider.KindLocal}
	fc.Symbols[useNode] = &testutil.FakeSymbol{SymName: "Console", SymKind: provider.KindNamedType}
	fc.Diags = []provider.Diagnostic{
		{ID: "CS0168", Severity: provider.SeverityWarning, FilePath: testDoc, Span: spanAt(2)},
		{ID: "CS0103", Severity: provider.SeverityError, FilePath: testDoc, Span: spanAt(9)},
	}

	res, err := newNavigator().AnalyzeBlock(context.Background(), fc, testDoc, 2, 3)
	if err != nil {
		t.Fatalf("analyze block: %v", err)
	}
	// One plus the two branch nodes inside the range.
	if res.CyclomaticComplexity != 3 {
		t.Errorf("complexity = %d, want 3", res.CyclomaticComplexity)
	}
	if res.LineCount != 2 {
		t.Errorf("lineCount = %d, want 2", res.LineCount)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].ID != "CS0168" {
		t.Errorf("diagnostics = %+v, want just CS0168", res.Diagnostics)
	}
	if len(res.DeclaredSymbols) != 1 || res.DeclaredSymbols[0].Name != "x" {
		t.Errorf("declared = %+v, want x", res.DeclaredSymbols)
	}
	if len(res.ReferencedSymbols) != 1 || res.ReferencedSymbols[0].Name != "Console" {
		t.Errorf("referenced = %+v, want Console", res.ReferencedSymbols)
	}
}

func TestAnalyzeBlockStraightLine(t *testing.T) {
	fc := newContextWithDoc()
	res, err := newNavigator().AnalyzeBlock(context.Background(), fc, testDoc, 1, 1)
	if err != nil {
		t.Fatalf("analyze block: %v", err)
	}
	if res.CyclomaticComplexity != 1 {
		t.Errorf("complexity = %d, want baseline 1", res.CyclomaticComplexity)
	}
	if res.LineCount != 1 {
		t.Errorf("lineCount = %d, want 1", res.LineCount)
	}
}
