//go:build !cgo

// Package treesitter is the built-in analysis provider. This is the
// stub for builds without CGO, where the parsing engine is unavailable.
package treesitter

import (
	"context"
	"errors"
	"log/slog"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// ErrNoCGO is returned when the parsing engine is compiled out.
var ErrNoCGO = errors.New("semantic analysis requires CGO (tree-sitter)")

// Options configures the provider.
type Options struct {
	// IndexPath points at a SCIP index. Unused in stub builds.
	IndexPath string
}

// Provider implements provider.Provider.
// Stub implementation for non-CGO builds.
type Provider struct{}

// New creates a provider.
func New(_ Options, _ *slog.Logger) *Provider { return &Provider{} }

// Name implements provider.Provider.
func (p *Provider) Name() string { return "treesitter" }

// IsAvailable reports whether the parsing engine is compiled in.
// Returns false when CGO is disabled.
func IsAvailable() bool { return false }

// Load implements provider.Provider.
// Stub implementation returns an error.
func (p *Provider) Load(_ context.Context, descriptorPath string) (provider.Context, error) {
	return nil, naverrors.NewProviderFailure("analysis engine unavailable", ErrNoCGO)
}
