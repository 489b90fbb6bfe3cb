package navigator

import (
	"context"
	"fmt"
	"strings"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// ImplementationQuery identifies the abstraction to search from: by
// name, or by position when Name is empty. FindInterfaceImpls and
// FindDerived gate the two search modes independently.
type ImplementationQuery struct {
	Name               string
	File               string
	Line               int
	Column             int
	FindInterfaceImpls bool
	FindDerived        bool
}

// FindImplementations lists concrete types implementing an interface
// or deriving from a class. Interfaces yield their implementors;
// classes yield their derived classes. A target whose search mode is
// gated off yields an empty result, not an error.
func (n *Navigator) FindImplementations(ctx context.Context, pctx provider.Context, q ImplementationQuery) ([]ImplementationDescriptor, error) {
	target, err := n.resolveTypeTarget(ctx, pctx, q)
	if err != nil {
		return nil, err
	}

	var impls []provider.TypeSymbol
	if target.IsInterface() {
		if q.FindInterfaceImpls {
			impls, err = pctx.ImplementationsOf(ctx, target)
		}
	} else if q.FindDerived {
		impls, err = pctx.DerivedClassesOf(ctx, target)
	}
	if err != nil {
		return nil, naverrors.FromError(err)
	}

	out := make([]ImplementationDescriptor, 0, len(impls))
	for _, impl := range impls {
		out = append(out, ImplementationDescriptor{
			Name:     impl.Name(),
			FullName: impl.FullName(),
			Assembly: impl.ContainingAssembly(),
			// Direct/indirect distinction is not tracked; every hit
			// reports a direct relationship.
			ImplementsDirectly: true,
		})
	}
	return out, nil
}

// resolveTypeTarget finds the named type to search from. Name lookup
// tries an exact full-name match first, then a unique simple-name
// suffix match; position lookup reuses the member-enumeration
// resolution chain.
func (n *Navigator) resolveTypeTarget(ctx context.Context, pctx provider.Context, q ImplementationQuery) (provider.TypeSymbol, error) {
	if q.Name == "" {
		if err := requireDocument(pctx, q.File); err != nil {
			return nil, err
		}
		pos := provider.Position{Line: q.Line - 1, Column: q.Column - 1}
		return n.resolveTypeAtPosition(ctx, pctx, q.File, pos)
	}

	types, err := pctx.Types(ctx)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	for _, t := range types {
		if t.FullName() == q.Name {
			return t, nil
		}
	}
	var match provider.TypeSymbol
	for _, t := range types {
		if t.Name() == q.Name || strings.HasSuffix(t.FullName(), "."+q.Name) {
			if match != nil {
				return nil, naverrors.NewSymbolNotFound(
					fmt.Sprintf("type name %q is ambiguous", q.Name))
			}
			match = t
		}
	}
	if match == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("type %q not found", q.Name))
	}
	return match, nil
}
