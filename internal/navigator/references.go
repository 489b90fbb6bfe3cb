package navigator

import (
	"context"
	"fmt"
	"strings"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// ReferenceQuery parameterizes FindReferences.
type ReferenceQuery struct {
	File               string
	Line               int
	Column             int
	MaxResults         int
	IncludeDeclaration bool
}

// FindReferences enumerates every occurrence of the symbol at the
// cursor position across the context. All matching occurrences are
// counted; at most MaxResults of them are materialized, and HasMore
// reports whether truncation happened.
func (n *Navigator) FindReferences(ctx context.Context, pctx provider.Context, q ReferenceQuery) (*ReferencesResult, error) {
	if err := requireDocument(pctx, q.File); err != nil {
		return nil, err
	}

	pos := provider.Position{Line: q.Line - 1, Column: q.Column - 1}
	token, err := pctx.TokenAt(ctx, q.File, pos)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if token == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("no symbol at %s:%d:%d", q.File, q.Line, q.Column))
	}

	sym, err := bindSymbol(ctx, pctx, token.Parent(), true)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if sym == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("no symbol at %s:%d:%d", q.File, q.Line, q.Column))
	}

	occurrences, err := pctx.References(ctx, sym)
	if err != nil {
		return nil, naverrors.FromError(err)
	}

	result := &ReferencesResult{References: []ReferenceDescriptor{}}
	for _, occ := range occurrences {
		// IncludeDeclaration gates both the declaration occurrence
		// itself and compiler-synthesized implicit occurrences; with it
		// off, only explicit use sites survive.
		if occ.Kind == provider.RefDefinition && !q.IncludeDeclaration {
			continue
		}
		if occ.IsImplicit && !q.IncludeDeclaration {
			continue
		}
		result.TotalCount++
		if len(result.References) >= q.MaxResults {
			continue
		}
		result.References = append(result.References, referenceDescriptor(pctx, occ))
	}
	result.HasMore = result.TotalCount > len(result.References)
	return result, nil
}

func referenceDescriptor(pctx provider.Context, occ provider.Occurrence) ReferenceDescriptor {
	desc := ReferenceDescriptor{
		FilePath: occ.Location.FilePath,
		Line:     occ.Location.Span.Start.Line + 1,
		Column:   occ.Location.Span.Start.Column + 1,
		Kind:     string(occ.Kind),
	}
	if text, err := pctx.DocumentText(occ.Location.FilePath); err == nil {
		lines := strings.Split(text, "\n")
		if idx := occ.Location.Span.Start.Line; idx >= 0 && idx < len(lines) {
			desc.LineText = strings.TrimSpace(lines[idx])
		}
	}
	return desc
}
