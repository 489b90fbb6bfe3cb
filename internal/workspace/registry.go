// Package workspace maps arbitrary source files to the project or
// solution descriptor that owns them and produces workspace-wide
// summaries.
package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"codenav/internal/paths"
)

// DescriptorKind tags a discovered descriptor.
type DescriptorKind string

const (
	KindSolution DescriptorKind = "solution"
	KindProject  DescriptorKind = "project"
)

// Descriptor is one discovered project or solution description file.
type Descriptor struct {
	Path string         `json:"path"`
	Kind DescriptorKind `json:"kind"`
}

// Info summarizes a workspace. Rebuilt wholesale on each Initialize call.
type Info struct {
	PrimarySolution *Descriptor  `json:"primarySolution,omitempty"`
	AllSolutions    []Descriptor `json:"allSolutions"`
	Frameworks      []string     `json:"detectedFrameworks"`
	RootPath        string       `json:"rootPath"`
}

// ResolutionStore persists file-to-descriptor resolutions across sessions.
// Implementations must tolerate concurrent calls.
type ResolutionStore interface {
	LoadResolutions() (map[string]string, error)
	SaveResolution(filePath, descriptorPath string) error
}

// Registry resolves descriptor ownership for source files.
type Registry struct {
	mu        sync.RWMutex
	fileCache map[string]string // original file path -> descriptor path
	current   *Info

	store  ResolutionStore
	logger *slog.Logger
}

// NewRegistry creates a registry. store may be nil; logger must not be.
func NewRegistry(store ResolutionStore, logger *slog.Logger) *Registry {
	r := &Registry{
		fileCache: make(map[string]string),
		store:     store,
		logger:    logger,
	}
	if store != nil {
		if cached, err := store.LoadResolutions(); err == nil {
			r.fileCache = cached
		} else {
			logger.Warn("failed to warm resolution cache", "error", err)
		}
	}
	return r
}

// Current returns the most recently initialized workspace info, nil if
// Initialize has not run.
func (r *Registry) Current() *Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Initialize discovers all descriptors under startDir and selects the
// primary solution. Absence of any descriptor is not an error; the
// returned info simply carries an empty descriptor list.
func (r *Registry) Initialize(startDir, preferredDescriptorPath string) (*Info, error) {
	root, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	solutions := discoverDescriptors(root, paths.IsSolutionDescriptor, KindSolution)
	all := solutions
	if len(all) == 0 {
		all = discoverDescriptors(root, paths.IsProjectDescriptor, KindProject)
	}

	info := &Info{
		AllSolutions: all,
		RootPath:     root,
		Frameworks:   r.aggregateFrameworks(root),
	}
	info.PrimarySolution = selectPrimary(all, preferredDescriptorPath)

	r.mu.Lock()
	r.current = info
	r.mu.Unlock()

	r.logger.Info("workspace initialized",
		"root", root,
		"descriptors", len(all),
		"hasPrimary", info.PrimarySolution != nil,
	)
	return info, nil
}

// selectPrimary applies the primary-solution policy: an explicit
// preference wins when it matches a discovered path (case-insensitive);
// a single discovery selects itself; anything else stays ambiguous.
func selectPrimary(all []Descriptor, preferred string) *Descriptor {
	if preferred != "" {
		for i := range all {
			if paths.EqualFold(all[i].Path, preferred) {
				return &all[i]
			}
		}
	}
	if len(all) == 1 {
		return &all[0]
	}
	return nil
}

// FindDescriptorForFile resolves the descriptor owning filePath.
// Returns "" and false when nothing can be resolved; that is not an
// error at this layer.
func (r *Registry) FindDescriptorForFile(filePath string) (string, bool) {
	r.mu.RLock()
	cached, hit := r.fileCache[filePath]
	r.mu.RUnlock()
	if hit {
		return cached, true
	}

	found, ok := walkUpFrom(filepath.Dir(filePath))

	if !ok {
		r.mu.RLock()
		current := r.current
		r.mu.RUnlock()
		if current != nil && current.PrimarySolution != nil {
			found, ok = current.PrimarySolution.Path, true
		}
	}

	if !ok {
		if cwd, err := os.Getwd(); err == nil {
			found, ok = walkUpFrom(cwd)
		}
	}

	if !ok {
		return "", false
	}

	r.mu.Lock()
	r.fileCache[filePath] = found
	r.mu.Unlock()
	if r.store != nil {
		if err := r.store.SaveResolution(filePath, found); err != nil {
			r.logger.Debug("failed to persist resolution", "file", filePath, "error", err)
		}
	}
	return found, true
}

// walkUpFrom walks directories upward looking for an unambiguous
// descriptor. A level with more than one candidate of the winning tier
// is treated as not-found and the walk continues; the walk always
// terminates at the filesystem root.
func walkUpFrom(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		if found, ok := descriptorInDir(dir); ok {
			return found, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// descriptorInDir checks one directory level: exactly one solution wins;
// with zero solutions, exactly one project wins.
func descriptorInDir(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var solutions, projects []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case paths.IsSolutionDescriptor(name):
			solutions = append(solutions, filepath.Join(dir, name))
		case paths.IsProjectDescriptor(name):
			projects = append(projects, filepath.Join(dir, name))
		}
	}

	if len(solutions) == 1 {
		return solutions[0], true
	}
	if len(solutions) == 0 && len(projects) == 1 {
		return projects[0], true
	}
	return "", false
}

// discoverDescriptors enumerates matching description files under root,
// skipping hidden and build-output directories.
func discoverDescriptors(root string, match func(string) bool, kind DescriptorKind) []Descriptor {
	var found []Descriptor
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "bin" || name == "obj" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if match(d.Name()) {
			found = append(found, Descriptor{Path: path, Kind: kind})
		}
		return nil
	})
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found
}
