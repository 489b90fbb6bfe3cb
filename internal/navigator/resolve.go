package navigator

import (
	"context"
	"fmt"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// builtInDateTimeType is the one declared type for which an
// explicitly-typed local is retagged as a named type. Deliberately
// narrow; see kindFor.
const builtInDateTimeType = "System.DateTime"

// ResolveAtPosition resolves the symbol or type under a 1-based cursor
// position into a descriptor.
func (n *Navigator) ResolveAtPosition(ctx context.Context, pctx provider.Context, file string, line, column int) (*SymbolDescriptor, error) {
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

	sym, err := bindSymbol(ctx, pctx, token.Parent(), true)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if sym != nil {
		return n.projectSymbol(pctx, sym), nil
	}

	t, err := expressionType(ctx, pctx, token.Parent())
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if t == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("no symbol at %s:%d:%d", file, line, column))
	}
	return n.projectType(pctx, t), nil
}

// projectSymbol projects a symbol into a descriptor. When the symbol is
// a value with a distinct declared type, that type populates the
// type-derived fields while the value symbol keeps its own name.
func (n *Navigator) projectSymbol(pctx provider.Context, sym provider.Symbol) *SymbolDescriptor {
	desc := &SymbolDescriptor{
		DisplayName:   sym.Name(),
		FullTypeName:  sym.FullDisplayName(),
		Kind:          string(kindFor(sym)),
		Assembly:      sym.ContainingAssembly(),
		Namespace:     sym.ContainingNamespace(),
		Documentation: sym.Documentation(),
		ProjectPath:   pctx.DescriptorPath(),
	}

	if t, ok := sym.(provider.TypeSymbol); ok {
		fillTypeFields(desc, t)
	} else if declared := declaredTypeOf(sym); declared != nil {
		fillTypeFields(desc, declared)
	}
	return desc
}

// projectType projects a bare type (the type-info fallback result).
func (n *Navigator) projectType(pctx provider.Context, t provider.TypeSymbol) *SymbolDescriptor {
	desc := &SymbolDescriptor{
		DisplayName:   t.Name(),
		Kind:          string(kindFor(t)),
		Assembly:      t.ContainingAssembly(),
		Namespace:     t.ContainingNamespace(),
		Documentation: t.Documentation(),
		ProjectPath:   pctx.DescriptorPath(),
	}
	fillTypeFields(desc, t)
	return desc
}

// kindFor applies the kind-tagging special cases:
//   - type parameters always keep their own tag;
//   - an array-typed local is tagged as a jagged array only when the
//     element type is itself an array;
//   - a local whose explicitly declared (non-inferred) type is the
//     built-in date/time type is retagged as a named type. This
//     heuristic is intentionally narrow and must not be generalized to
//     other explicitly-typed locals.
func kindFor(sym provider.Symbol) provider.SymbolKind {
	if sym.Kind() == provider.KindTypeParameter {
		return provider.KindTypeParameter
	}

	if sym.Kind() == provider.KindLocal {
		vs, ok := sym.(provider.ValueSymbol)
		if !ok {
			return provider.KindLocal
		}
		declared := vs.DeclaredType()
		if declared == nil {
			return provider.KindLocal
		}
		if declared.IsArray() {
			if elem := declared.ElementType(); elem != nil && elem.IsArray() {
				return provider.KindJaggedArray
			}
			return provider.KindLocal
		}
		if vs.HasExplicitType() && declared.FullName() == builtInDateTimeType {
			return provider.KindNamedType
		}
	}
	return sym.Kind()
}
