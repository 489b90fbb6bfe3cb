package navigator

import (
	"context"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// GetDiagnostics returns compilation diagnostics at or above the given
// minimum severity. An empty file scopes to the whole context; a named
// file must belong to it.
func (n *Navigator) GetDiagnostics(ctx context.Context, pctx provider.Context, file string, minSeverity provider.DiagnosticSeverity) ([]DiagnosticDescriptor, error) {
	if file != "" {
		if err := requireDocument(pctx, file); err != nil {
			return nil, err
		}
	}

	diags, err := pctx.Diagnostics(ctx, file)
	if err != nil {
		return nil, naverrors.FromError(err)
	}

	out := make([]DiagnosticDescriptor, 0, len(diags))
	for _, d := range diags {
		if severityRank(d.Severity) < severityRank(minSeverity) {
			continue
		}
		out = append(out, diagnosticDescriptor(d))
	}
	return out, nil
}

func severityRank(s provider.DiagnosticSeverity) int {
	switch s {
	case provider.SeverityError:
		return 3
	case provider.SeverityWarning:
		return 2
	case provider.SeverityInfo:
		return 1
	default:
		return 0
	}
}
