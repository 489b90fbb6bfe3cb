//go:build cgo

// Package treesitter is the built-in analysis provider: a syntactic
// engine over parsed syntax trees, optionally sharpened by a SCIP
// index for precise cross-document occurrences.
package treesitter

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
	"codenav/internal/provider/scip"
)

// Options configures the provider.
type Options struct {
	// IndexPath points at a SCIP index (.scip or .scip.gz). Relative
	// paths resolve against each descriptor's directory. Empty disables
	// index-backed occurrences.
	IndexPath string
}

// Provider implements provider.Provider.
type Provider struct {
	opts   Options
	logger *slog.Logger
}

// New creates a provider. Engine-wide parser initialization runs once,
// on the first load.
func New(opts Options, logger *slog.Logger) *Provider {
	return &Provider{opts: opts, logger: logger}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "treesitter" }

// IsAvailable reports whether the parsing engine is compiled in.
func IsAvailable() bool { return true }

// Load implements provider.Provider: it parses every source document
// under the descriptor's directory and assembles a queryable context.
func (p *Provider) Load(ctx context.Context, descriptorPath string) (provider.Context, error) {
	if err := provider.Bootstrap(func() error { return nil }); err != nil {
		return nil, err
	}

	root := filepath.Dir(descriptorPath)
	assembly := strings.TrimSuffix(filepath.Base(descriptorPath), filepath.Ext(descriptorPath))

	sctx := &syntacticContext{
		descriptorPath: descriptorPath,
		assembly:       assembly,
		docs:           make(map[string]*document),
		byFullName:     make(map[string]*typeSymbol),
	}

	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "bin" || name == "obj" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".cs") {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		source, err := os.ReadFile(path)
		if err != nil {
			p.logger.Warn("skipping unreadable document", "path", path, "error", err)
			return nil
		}
		tree, err := parser.ParseCtx(ctx, nil, source)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		doc := &document{path: path, source: source, tree: tree, root: tree.RootNode()}
		sctx.docs[path] = doc
		sctx.types = append(sctx.types, extractTypes(doc, assembly)...)
		return nil
	})
	if err != nil {
		sctx.Release()
		return nil, naverrors.FromError(err)
	}

	for _, t := range sctx.types {
		sctx.byFullName[t.FullName()] = t
	}
	linkBaseTypes(sctx)

	if p.opts.IndexPath != "" {
		indexPath := p.opts.IndexPath
		if !filepath.IsAbs(indexPath) {
			indexPath = filepath.Join(root, indexPath)
		}
		idx, err := scip.Load(indexPath, root)
		if err != nil {
			// Index trouble degrades to syntactic answers.
			p.logger.Warn("index unavailable, using syntactic occurrences",
				"path", indexPath, "error", err)
		} else {
			sctx.index = idx
		}
	}

	p.logger.Info("context loaded",
		"descriptor", descriptorPath,
		"documents", len(sctx.docs),
		"types", len(sctx.types),
		"indexed", sctx.index != nil)
	return sctx, nil
}

// linkBaseTypes resolves each type's base-list names against the
// declared types: the first resolvable class becomes the base, every
// resolvable interface joins the interface set, transitively.
func linkBaseTypes(sctx *syntacticContext) {
	for _, t := range sctx.types {
		for _, name := range t.baseNames {
			resolved, ok := sctx.bySimpleName(simpleName(name))
			if !ok {
				continue
			}
			if resolved.isInterface {
				t.interfaces = append(t.interfaces, resolved)
			} else if t.base == nil {
				t.base = resolved
			}
		}
	}
	// Fold in interfaces inherited through the base chain and through
	// interface extension, so AllInterfaces is the full transitive set.
	for _, t := range sctx.types {
		t.interfaces = interfaceClosure(t)
	}
}

func interfaceClosure(t *typeSymbol) []provider.TypeSymbol {
	seen := map[string]bool{}
	var out []provider.TypeSymbol

	var visit func(ts *typeSymbol)
	visit = func(ts *typeSymbol) {
		for _, iface := range ts.interfaces {
			it, ok := iface.(*typeSymbol)
			if !ok {
				if !seen[iface.FullName()] {
					seen[iface.FullName()] = true
					out = append(out, iface)
				}
				continue
			}
			if seen[it.FullName()] {
				continue
			}
			seen[it.FullName()] = true
			out = append(out, it)
			visit(it)
		}
		if base, ok := ts.base.(*typeSymbol); ok {
			visit(base)
		}
	}
	visit(t)
	return out
}

func simpleName(name string) string {
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}
