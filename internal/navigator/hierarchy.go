package navigator

import (
	"context"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// HierarchyDirection selects which halves of a type hierarchy to walk.
type HierarchyDirection string

const (
	DirectionBase    HierarchyDirection = "base"
	DirectionDerived HierarchyDirection = "derived"
	DirectionBoth    HierarchyDirection = "both"
)

// HierarchyQuery parameterizes GetHierarchy. The target type is named
// directly or located by position, as in FindImplementations.
type HierarchyQuery struct {
	Name      string
	File      string
	Line      int
	Column    int
	Direction HierarchyDirection
}

// GetHierarchy reports a type's ancestry and descendants. The base
// chain stops before the universal root, which every reference type
// shares and therefore carries no information. The interface set is
// always included regardless of direction.
func (n *Navigator) GetHierarchy(ctx context.Context, pctx provider.Context, q HierarchyQuery) (*HierarchyResult, error) {
	target, err := n.resolveTypeTarget(ctx, pctx, ImplementationQuery{
		Name: q.Name, File: q.File, Line: q.Line, Column: q.Column,
	})
	if err != nil {
		return nil, err
	}

	direction := q.Direction
	if direction == "" {
		direction = DirectionBoth
	}

	result := &HierarchyResult{
		BaseTypes:    []TypeRef{},
		DerivedTypes: []TypeRef{},
		Interfaces:   []TypeRef{},
	}

	if direction == DirectionBase || direction == DirectionBoth {
		for base := target.BaseType(); base != nil; base = base.BaseType() {
			if base.FullName() == universalRootType {
				break
			}
			result.BaseTypes = append(result.BaseTypes, typeRef(base))
		}
	}

	if (direction == DirectionDerived || direction == DirectionBoth) && target.IsClass() {
		derived, err := pctx.DerivedClassesOf(ctx, target)
		if err != nil {
			return nil, naverrors.FromError(err)
		}
		for _, d := range derived {
			result.DerivedTypes = append(result.DerivedTypes, typeRef(d))
		}
	}

	for _, iface := range target.AllInterfaces() {
		result.Interfaces = append(result.Interfaces, typeRef(iface))
	}
	return result, nil
}
