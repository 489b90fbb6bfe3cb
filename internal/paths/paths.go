// Package paths provides descriptor path classification and normalization.
// Normalized descriptor paths are the cache keys for everything downstream,
// so all lookups must agree on one canonical form.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Solution and project descriptor extensions recognized by the loader.
const (
	SolutionExt = ".sln"
)

// projectExts are the project descriptor extensions, in no particular order.
var projectExts = map[string]bool{
	".csproj": true,
	".fsproj": true,
	".vbproj": true,
}

// DefaultSourceExtensions are the source-file extensions watched for changes.
var DefaultSourceExtensions = []string{".cs", ".vb", ".fs", ".csproj", ".fsproj", ".vbproj", ".sln"}

// IsSolutionDescriptor reports whether path names a solution description file.
func IsSolutionDescriptor(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SolutionExt)
}

// IsProjectDescriptor reports whether path names a project description file.
func IsProjectDescriptor(path string) bool {
	return projectExts[strings.ToLower(filepath.Ext(path))]
}

// IsSupportedDescriptor reports whether path is loadable at all.
func IsSupportedDescriptor(path string) bool {
	return IsSolutionDescriptor(path) || IsProjectDescriptor(path)
}

// Normalize converts a descriptor path to its canonical absolute form.
// Symlinks are resolved when the file exists; a missing file keeps its
// cleaned absolute path so callers can still produce a stable key.
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return filepath.Clean(abs), nil
		}
		return "", err
	}
	return resolved, nil
}

// Key converts a normalized path to its case-insensitive-safe cache key.
// Descriptor paths originate from case-insensitive filesystems often enough
// that two spellings of one file must share a cache entry.
func Key(normalizedPath string) string {
	return strings.ToLower(filepath.ToSlash(normalizedPath))
}

// EqualFold reports whether two paths identify the same descriptor
// under case-insensitive comparison.
func EqualFold(a, b string) bool {
	return Key(a) == Key(b)
}

// NormalizePath normalizes a path by converting backslashes to forward slashes.
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// HasAnyExtension reports whether path ends in one of the given extensions
// (case-insensitive).
func HasAnyExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
