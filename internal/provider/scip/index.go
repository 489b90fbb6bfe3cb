// Package scip loads SCIP protobuf indexes and answers precise
// occurrence queries from them. The syntactic provider consults a
// loaded index, when one is configured, instead of falling back to
// text-level identifier scans.
package scip

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	naverrors "codenav/internal/errors"
	"codenav/internal/provider"
)

// SCIP symbol role bits, per the protocol.
const (
	roleDefinition  = 0x1
	roleWriteAccess = 0x4
	roleForwardDecl = 0x80
)

// Index is a loaded SCIP index with occurrence lookup tables.
type Index struct {
	// Root is the directory relative paths in the index resolve against.
	Root string
	// LoadedAt is when the index was read.
	LoadedAt time.Time

	documents map[string]*scippb.Document
	// bySymbol maps a SCIP symbol ID to its occurrences across documents.
	bySymbol map[string][]provider.Occurrence
	// docs maps SCIP symbol IDs to their markdown documentation.
	docs map[string][]string
}

// Load reads a SCIP index. Paths ending in .gz are decompressed
// transparently. Relative document paths resolve against root.
func Load(path, root string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, naverrors.NewProviderFailure(
			fmt.Sprintf("cannot open index at %s", path), err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, naverrors.NewProviderFailure(
				fmt.Sprintf("cannot decompress index at %s", path), err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, naverrors.NewProviderFailure(
			fmt.Sprintf("cannot read index at %s", path), err)
	}

	var raw scippb.Index
	if err := proto.Unmarshal(data, &raw); err != nil {
		return nil, naverrors.NewProviderFailure(
			fmt.Sprintf("cannot parse index at %s", path), err)
	}

	idx := &Index{
		Root:      root,
		LoadedAt:  time.Now(),
		documents: make(map[string]*scippb.Document, len(raw.Documents)),
		bySymbol:  make(map[string][]provider.Occurrence),
		docs:      make(map[string][]string),
	}
	for _, doc := range raw.Documents {
		abs := filepath.Join(root, filepath.FromSlash(doc.RelativePath))
		idx.documents[abs] = doc
		for _, occ := range doc.Occurrences {
			if occ.Symbol == "" {
				continue
			}
			loc, ok := occurrenceLocation(abs, occ.Range)
			if !ok {
				continue
			}
			idx.bySymbol[occ.Symbol] = append(idx.bySymbol[occ.Symbol], provider.Occurrence{
				Location:   loc,
				Kind:       occurrenceKind(occ.SymbolRoles),
				IsImplicit: occ.SymbolRoles&roleForwardDecl != 0,
			})
		}
		for _, sym := range doc.Symbols {
			if len(sym.Documentation) > 0 {
				idx.docs[sym.Symbol] = sym.Documentation
			}
		}
	}
	return idx, nil
}

// SymbolAt returns the SCIP symbol ID covering a 0-based position in a
// document, or "" when the index has no occurrence there.
func (i *Index) SymbolAt(file string, pos provider.Position) string {
	doc := i.documents[file]
	if doc == nil {
		return ""
	}
	for _, occ := range doc.Occurrences {
		loc, ok := occurrenceLocation(file, occ.Range)
		if !ok {
			continue
		}
		if loc.Span.Contains(pos) {
			return occ.Symbol
		}
	}
	return ""
}

// Occurrences returns every recorded occurrence of a SCIP symbol ID.
func (i *Index) Occurrences(symbolID string) []provider.Occurrence {
	return i.bySymbol[symbolID]
}

// Documentation returns the markdown documentation of a symbol, joined.
func (i *Index) Documentation(symbolID string) string {
	return strings.Join(i.docs[symbolID], "\n")
}

// HasDocument reports whether the index covers a file.
func (i *Index) HasDocument(file string) bool {
	return i.documents[file] != nil
}

// occurrenceKind maps SCIP role bits to a reference kind.
func occurrenceKind(roles int32) provider.ReferenceKind {
	if roles&roleDefinition != 0 {
		return provider.RefDefinition
	}
	if roles&roleWriteAccess != 0 {
		return provider.RefWrite
	}
	return provider.RefReference
}

// occurrenceLocation decodes a SCIP range. Three elements mean a
// single-line range; four mean an explicit end line.
func occurrenceLocation(file string, r []int32) (provider.Location, bool) {
	if len(r) < 3 {
		return provider.Location{}, false
	}
	start := provider.Position{Line: int(r[0]), Column: int(r[1])}
	var end provider.Position
	if len(r) == 3 {
		end = provider.Position{Line: int(r[0]), Column: int(r[2])}
	} else {
		end = provider.Position{Line: int(r[2]), Column: int(r[3])}
	}
	return provider.Location{
		FilePath: file,
		Span:     provider.Span{Start: start, End: end},
	}, true
}
