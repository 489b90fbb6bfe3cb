package navigator

import (
	"context"
	"fmt"
	"strings"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// FindDefinition locates the declaration of the symbol at the cursor
// position. Only directly bound symbols qualify; positions that merely
// carry type information do not resolve to a definition.
func (n *Navigator) FindDefinition(ctx context.Context, pctx provider.Context, file string, line, column int) (*DefinitionResult, error) {
	if err := requireDocument(pctx, file); err != nil {
		return nil, err
	}

	pos := provider.Position{Line: line - 1, Column: column - 1}
	token, err := pctx.TokenAt(ctx, file, pos)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if token == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("no symbol at %s:%d:%d", file, line, column))
	}

	sym, err := bindSymbol(ctx, pctx, token.Parent(), false)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if sym == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("no symbol at %s:%d:%d", file, line, column))
	}

	decls := sym.Declarations()
	if len(decls) == 0 {
		return nil, naverrors.NewSymbolNotFound(
			fmt.Sprintf("%s has no source-backed declaration", sym.Name()))
	}
	decl := decls[0]

	result := &DefinitionResult{
		Location: locationDescriptor(decl),
	}
	result.Symbol.DisplayName = sym.Name()
	result.Symbol.Kind = string(sym.Kind())
	result.Symbol.Namespace = sym.ContainingNamespace()
	result.Symbol.Assembly = sym.ContainingAssembly()
	if t, ok := sym.(provider.TypeSymbol); ok {
		result.Symbol.FullTypeName = t.FullName()
	}

	if snippet, err := declarationSnippet(pctx, decl); err == nil {
		result.Snippet = snippet
	}
	return result, nil
}

// declarationSnippet extracts the declaring line's text, trimmed.
func declarationSnippet(pctx provider.Context, loc provider.Location) (string, error) {
	text, err := pctx.DocumentText(loc.FilePath)
	if err != nil {
		return "", err
	}
	lines := strings.Split(text, "\n")
	idx := loc.Span.Start.Line
	if idx < 0 || idx >= len(lines) {
		return "", fmt.Errorf("declaration line %d out of range", idx)
	}
	return strings.TrimSpace(lines[idx]), nil
}
