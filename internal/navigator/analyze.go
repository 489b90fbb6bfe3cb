package navigator

import (
	"context"
	"math"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// AnalyzeBlock reports the diagnostics, declared and referenced
// symbols, cyclomatic complexity, and line count of a contiguous line
// range. Lines are 1-based and inclusive on both ends.
func (n *Navigator) AnalyzeBlock(ctx context.Context, pctx provider.Context, file string, startLine, endLine int) (*CodeBlockAnalysisResult, error) {
	if err := requireDocument(pctx, file); err != nil {
		return nil, err
	}

	span := provider.Span{
		Start: provider.Position{Line: startLine - 1, Column: 0},
		End:   provider.Position{Line: endLine - 1, Column: math.MaxInt32},
	}

	result := &CodeBlockAnalysisResult{
		Diagnostics:       []DiagnosticDescriptor{},
		DeclaredSymbols:   []BlockSymbol{},
		ReferencedSymbols: []BlockSymbol{},
		// A straight-line block has complexity one; each branching
		// construct adds one.
		CyclomaticComplexity: 1,
		LineCount:            endLine - startLine + 1,
	}

	diags, err := pctx.Diagnostics(ctx, file)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	for _, d := range diags {
		if d.Span.Intersects(span) {
			result.Diagnostics = append(result.Diagnostics, diagnosticDescriptor(d))
		}
	}

	nodes, err := pctx.NodesInSpan(ctx, file, span)
	if err != nil {
		return nil, naverrors.FromError(err)
	}

	seenDeclared := map[string]bool{}
	seenReferenced := map[string]bool{}
	for _, node := range nodes {
		if pctx.IsBranchNode(node) {
			result.CyclomaticComplexity++
		}

		if declared, err := pctx.DeclaredSymbolAt(ctx, node); err == nil && declared != nil {
			key := declared.Name() + "/" + string(declared.Kind())
			if !seenDeclared[key] {
				seenDeclared[key] = true
				result.DeclaredSymbols = append(result.DeclaredSymbols, blockSymbol(declared, node))
			}
			continue
		}
		if sym, err := pctx.SymbolAt(ctx, node); err == nil && sym != nil {
			key := sym.Name() + "/" + string(sym.Kind())
			if !seenReferenced[key] {
				seenReferenced[key] = true
				result.ReferencedSymbols = append(result.ReferencedSymbols, blockSymbol(sym, node))
			}
		}
	}
	return result, nil
}

func blockSymbol(sym provider.Symbol, node provider.Node) BlockSymbol {
	return BlockSymbol{
		Name: sym.Name(),
		Kind: string(sym.Kind()),
		Line: node.Span().Start.Line + 1,
	}
}
