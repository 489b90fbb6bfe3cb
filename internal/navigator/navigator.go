package navigator

import (
	"context"
	"log/slog"
	"strings"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// Navigator executes semantic queries against loaded contexts.
// Stateless apart from its logger; safe for concurrent use.
type Navigator struct {
	logger *slog.Logger
}

// New creates a navigator.
func New(logger *slog.Logger) *Navigator {
	return &Navigator{logger: logger}
}

// requireDocument fails with FileNotInContext when the file is not part
// of the context's document set.
func requireDocument(pctx provider.Context, file string) error {
	if !pctx.ContainsDocument(file) {
		return naverrors.NewFileNotInContext(file, pctx.DescriptorPath())
	}
	return nil
}

// bindSymbol ascends the syntax chain from a token's parent, asking at
// each level for a resolved-symbol binding and, when allowDeclared is
// set, a declared-symbol binding. Returns nil when the chain exhausts
// without a symbol.
func bindSymbol(ctx context.Context, pctx provider.Context, start provider.Node, allowDeclared bool) (provider.Symbol, error) {
	for node := start; node != nil; node = node.Parent() {
		sym, err := pctx.SymbolAt(ctx, node)
		if err != nil {
			return nil, err
		}
		if sym == nil && allowDeclared {
			sym, err = pctx.DeclaredSymbolAt(ctx, node)
			if err != nil {
				return nil, err
			}
		}
		if sym != nil {
			return sym, nil
		}
	}
	return nil, nil
}

// expressionType is the type-info fallback: the type of the token's
// parent expression, then the type of a member access's receiver when
// the parent chain contains one.
func expressionType(ctx context.Context, pctx provider.Context, start provider.Node) (provider.TypeSymbol, error) {
	if start == nil {
		return nil, nil
	}
	t, err := pctx.TypeOf(ctx, start)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}
	for node := start; node != nil; node = node.Parent() {
		if node.IsMemberAccess() && node.Receiver() != nil {
			return pctx.TypeOf(ctx, node.Receiver())
		}
	}
	return nil, nil
}

// declaredTypeOf extracts the distinct declared type of a value symbol
// (local, field, property, parameter, or method return), nil otherwise.
func declaredTypeOf(sym provider.Symbol) provider.TypeSymbol {
	if vs, ok := sym.(provider.ValueSymbol); ok {
		return vs.DeclaredType()
	}
	return nil
}

// hasPrefixFold is the ordinal case-insensitive prefix filter.
func hasPrefixFold(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	return len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
}
