// Package navigator answers semantic queries against a loaded analysis
// context: position resolution, member enumeration, definition and
// reference lookup, implementation and hierarchy search, diagnostics,
// and code-block analysis.
//
// Every result is a flat, value-type descriptor projected out of the
// provider's object graph. Descriptors never hold live references into
// a context, so contexts can be evicted without invalidating results
// already returned.
package navigator

import (
	"codenav/internal/provider"
)

// SymbolDescriptor is the projection of a resolved symbol or type.
type SymbolDescriptor struct {
	DisplayName   string   `json:"displayName"`
	FullTypeName  string   `json:"fullTypeName"`
	Kind          string   `json:"kind"`
	Assembly      string   `json:"assembly,omitempty"`
	Namespace     string   `json:"namespace,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	IsGeneric     bool     `json:"isGeneric"`
	TypeArguments []string `json:"typeArguments,omitempty"`
	BaseType      string   `json:"baseType,omitempty"`
	Interfaces    []string `json:"interfaces,omitempty"`
	ProjectPath   string   `json:"projectPath,omitempty"`
}

// ParameterDescriptor is one parameter of a member.
type ParameterDescriptor struct {
	Name          string `json:"name"`
	TypeName      string `json:"typeName"`
	Documentation string `json:"documentation,omitempty"`
}

// MemberDescriptor is the projection of one accessible member.
type MemberDescriptor struct {
	Name          string                `json:"name"`
	Kind          string                `json:"kind"`
	Signature     string                `json:"signature"`
	DeclaringType string                `json:"declaringType"`
	Accessibility string                `json:"accessibility"`
	Documentation string                `json:"documentation,omitempty"`
	Parameters    []ParameterDescriptor `json:"parameters,omitempty"`
	IsExtension   bool                  `json:"isExtension"`
	IsStatic      bool                  `json:"isStatic"`
	IsAsync       bool                  `json:"isAsync"`
}

// LocationDescriptor is a 1-based source range.
type LocationDescriptor struct {
	FilePath    string `json:"filePath"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
}

// ReferenceDescriptor is one materialized reference occurrence.
type ReferenceDescriptor struct {
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	LineText string `json:"lineText,omitempty"`
	Kind     string `json:"kind"`
}

// ReferencesResult carries the truncated reference list plus totals.
type ReferencesResult struct {
	References []ReferenceDescriptor `json:"references"`
	TotalCount int                   `json:"totalCount"`
	HasMore    bool                  `json:"hasMore"`
}

// DefinitionResult is a definition lookup answer.
type DefinitionResult struct {
	Location LocationDescriptor `json:"location"`
	Symbol   SymbolDescriptor   `json:"symbol"`
	Snippet  string             `json:"snippet,omitempty"`
}

// ImplementationDescriptor is one implementing or derived type.
type ImplementationDescriptor struct {
	Name               string `json:"name"`
	FullName           string `json:"fullName"`
	Assembly           string `json:"assembly,omitempty"`
	ImplementsDirectly bool   `json:"implementsDirectly"`
}

// TypeRef is a minimal type reference inside a hierarchy result.
type TypeRef struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Assembly string `json:"assembly,omitempty"`
}

// HierarchyResult is a type-hierarchy answer.
type HierarchyResult struct {
	BaseTypes    []TypeRef `json:"baseTypes"`
	DerivedTypes []TypeRef `json:"derivedTypes"`
	Interfaces   []TypeRef `json:"interfaces"`
}

// DiagnosticDescriptor is one compiler diagnostic.
type DiagnosticDescriptor struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	FilePath    string `json:"filePath"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Category    string `json:"category,omitempty"`
}

// BlockSymbol is a symbol sighted during code-block analysis.
type BlockSymbol struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Line int    `json:"line"`
}

// CodeBlockAnalysisResult summarizes one analyzed line range.
type CodeBlockAnalysisResult struct {
	Diagnostics          []DiagnosticDescriptor `json:"diagnostics"`
	DeclaredSymbols      []BlockSymbol          `json:"declaredSymbols"`
	ReferencedSymbols    []BlockSymbol          `json:"referencedSymbols"`
	CyclomaticComplexity int                    `json:"cyclomaticComplexity"`
	LineCount            int                    `json:"lineCount"`
}

// universalRootType is the base-chain terminator excluded from hierarchies.
const universalRootType = "System.Object"

// locationDescriptor projects a provider location.
func locationDescriptor(loc provider.Location) LocationDescriptor {
	return LocationDescriptor{
		FilePath:    loc.FilePath,
		StartLine:   loc.Span.Start.Line + 1,
		StartColumn: loc.Span.Start.Column + 1,
		EndLine:     loc.Span.End.Line + 1,
		EndColumn:   loc.Span.End.Column + 1,
	}
}

// typeRef projects a type symbol into a hierarchy reference.
func typeRef(t provider.TypeSymbol) TypeRef {
	return TypeRef{
		Name:     t.Name(),
		FullName: t.FullName(),
		Assembly: t.ContainingAssembly(),
	}
}

// diagnosticDescriptor projects a provider diagnostic.
func diagnosticDescriptor(d provider.Diagnostic) DiagnosticDescriptor {
	return DiagnosticDescriptor{
		ID:          d.ID,
		Severity:    string(d.Severity),
		Message:     d.Message,
		FilePath:    d.FilePath,
		StartLine:   d.Span.Start.Line + 1,
		StartColumn: d.Span.Start.Column + 1,
		EndLine:     d.Span.End.Line + 1,
		EndColumn:   d.Span.End.Column + 1,
		Category:    d.Category,
	}
}

// fillTypeFields populates the type-derived descriptor fields from t.
func fillTypeFields(desc *SymbolDescriptor, t provider.TypeSymbol) {
	desc.FullTypeName = t.FullName()
	desc.IsGeneric = t.IsGeneric()
	desc.TypeArguments = t.TypeArguments()
	if base := t.BaseType(); base != nil {
		desc.BaseType = base.FullName()
	}
	for _, iface := range t.AllInterfaces() {
		desc.Interfaces = append(desc.Interfaces, iface.FullName())
	}
}
