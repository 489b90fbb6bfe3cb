package navigator

import (
	"context"
	"fmt"
	"sort"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// MemberQuery parameterizes ListMembers.
type MemberQuery struct {
	File              string
	Line              int
	Column            int
	IncludeExtensions bool
	IncludeStatic     bool
	NamePrefix        string
}

// ListMembers enumerates the accessible members of the type at the
// cursor position, optionally including compatible extension methods
// from namespaces imported above the cursor.
func (n *Navigator) ListMembers(ctx context.Context, pctx provider.Context, q MemberQuery) ([]MemberDescriptor, error) {
	if err := requireDocument(pctx, q.File); err != nil {
		return nil, err
	}

	pos := provider.Position{Line: q.Line - 1, Column: q.Column - 1}
	target, err := n.resolveTypeAtPosition(ctx, pctx, q.File, pos)
	if err != nil {
		return nil, err
	}

	var members []MemberDescriptor
	for _, m := range target.Members() {
		if m.Accessibility() != provider.AccessPublic || !m.CanBeReferencedByName() {
			continue
		}
		if !q.IncludeStatic && m.IsStatic() {
			continue
		}
		if !hasPrefixFold(m.Name(), q.NamePrefix) {
			continue
		}
		desc, err := memberDescriptor(m, false)
		if err != nil {
			n.logger.Warn("skipping member with unsupported category", "member", m.Name(), "error", err)
			continue
		}
		members = append(members, desc)
	}

	if q.IncludeExtensions {
		extensions, err := n.extensionMembers(ctx, pctx, q.File, pos, target, q.NamePrefix)
		if err != nil {
			return nil, err
		}
		members = append(members, extensions...)
	}

	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

// resolveTypeAtPosition reuses the position-resolution fallback chain
// but keeps only the type: a bound type symbol is itself the target, a
// bound value symbol contributes its declared type, and the type-info
// fallback covers everything else.
func (n *Navigator) resolveTypeAtPosition(ctx context.Context, pctx provider.Context, file string, pos provider.Position) (provider.TypeSymbol, error) {
	token, err := pctx.TokenAt(ctx, file, pos)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if token == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("no symbol at %s:%d:%d", file, pos.Line+1, pos.Column+1))
	}

	sym, err := bindSymbol(ctx, pctx, token.Parent(), true)
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if sym != nil {
		if t, ok := sym.(provider.TypeSymbol); ok {
			return t, nil
		}
		if declared := declaredTypeOf(sym); declared != nil {
			return declared, nil
		}
	}

	t, err := expressionType(ctx, pctx, token.Parent())
	if err != nil {
		return nil, naverrors.FromError(err)
	}
	if t == nil {
		return nil, naverrors.NewSymbolNotFound(fmt.Sprintf("no type at %s:%d:%d", file, pos.Line+1, pos.Column+1))
	}
	return t, nil
}

// extensionMembers collects compatible extension methods from every
// namespace imported by directives textually preceding the cursor.
func (n *Navigator) extensionMembers(ctx context.Context, pctx provider.Context, file string, pos provider.Position, target provider.TypeSymbol, prefix string) ([]MemberDescriptor, error) {
	namespaces, err := pctx.NamespacesInScope(ctx, file, pos)
	if err != nil {
		return nil, naverrors.FromError(err)
	}

	var out []MemberDescriptor
	for _, ns := range namespaces {
		types, err := pctx.ExtensionTypes(ctx, ns)
		if err != nil {
			n.logger.Debug("extension scan failed for namespace", "namespace", ns, "error", err)
			continue
		}
		for _, extType := range types {
			for _, m := range extType.Members() {
				if !m.IsExtensionMethod() {
					continue
				}
				params := m.Parameters()
				if len(params) == 0 {
					continue
				}
				if !extensionApplies(target, params[0].TypeName) {
					continue
				}
				if !hasPrefixFold(m.Name(), prefix) {
					continue
				}
				desc, err := memberDescriptor(m, true)
				if err != nil {
					n.logger.Warn("skipping extension with unsupported category", "member", m.Name(), "error", err)
					continue
				}
				out = append(out, desc)
			}
		}
	}
	return out, nil
}

// extensionApplies is the transitive receiver-compatibility check:
// direct name equality, membership in the target's full interface set,
// or compatibility of the target's base type, recursively.
func extensionApplies(target provider.TypeSymbol, receiverTypeName string) bool {
	if target == nil {
		return false
	}
	if target.FullName() == receiverTypeName || target.Name() == receiverTypeName {
		return true
	}
	for _, iface := range target.AllInterfaces() {
		if iface.FullName() == receiverTypeName || iface.Name() == receiverTypeName {
			return true
		}
	}
	return extensionApplies(target.BaseType(), receiverTypeName)
}

// memberDescriptor projects a member, rejecting unrecognized categories.
func memberDescriptor(m provider.Member, isExtension bool) (MemberDescriptor, error) {
	signature, err := formatSignature(m)
	if err != nil {
		return MemberDescriptor{}, err
	}

	params := make([]ParameterDescriptor, 0, len(m.Parameters()))
	for _, p := range m.Parameters() {
		params = append(params, ParameterDescriptor{
			Name:          p.Name,
			TypeName:      p.TypeName,
			Documentation: p.Documentation,
		})
	}

	return MemberDescriptor{
		Name:          m.Name(),
		Kind:          string(m.Kind()),
		Signature:     signature,
		DeclaringType: m.DeclaringTypeName(),
		Accessibility: string(m.Accessibility()),
		Documentation: m.Documentation(),
		Parameters:    params,
		IsExtension:   isExtension || m.IsExtensionMethod(),
		IsStatic:      m.IsStatic(),
		IsAsync:       m.IsAsync(),
	}, nil
}
