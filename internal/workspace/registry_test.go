package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codenav/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const csprojWithFramework = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
</Project>`

func newTestRegistry() *Registry {
	return NewRegistry(nil, logging.NewDiscardLogger())
}

func TestInitializeSingleSolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.sln"), "")
	writeFile(t, filepath.Join(root, "src", "App", "App.csproj"), csprojWithFramework)

	info, err := newTestRegistry().Initialize(root, "")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if info.PrimarySolution == nil {
		t.Fatal("Expected primary solution to be selected")
	}
	if !strings.HasSuffix(info.PrimarySolution.Path, "App.sln") {
		t.Errorf("Expected App.sln, got %s", info.PrimarySolution.Path)
	}
	if len(info.AllSolutions) != 1 {
		t.Errorf("Expected 1 solution, got %d", len(info.AllSolutions))
	}
	if len(info.Frameworks) != 1 || info.Frameworks[0] != "net8.0" {
		t.Errorf("Expected [net8.0], got %v", info.Frameworks)
	}
}

func TestInitializeAmbiguityLeavesPrimaryUnset(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.sln"), "")
	writeFile(t, filepath.Join(root, "B.sln"), "")

	info, err := newTestRegistry().Initialize(root, "")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if info.PrimarySolution != nil {
		t.Errorf("Expected no primary for ambiguous workspace, got %s", info.PrimarySolution.Path)
	}
	if len(info.AllSolutions) != 2 {
		t.Errorf("Expected both solutions listed, got %d", len(info.AllSolutions))
	}
}

func TestInitializePreferredSelectionIsCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.sln"), "")
	writeFile(t, filepath.Join(root, "B.sln"), "")

	preferred := strings.ToUpper(filepath.Join(root, "b.sln"))
	info, err := newTestRegistry().Initialize(root, preferred)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if info.PrimarySolution == nil || !strings.HasSuffix(info.PrimarySolution.Path, "B.sln") {
		t.Errorf("Expected preferred B.sln selected, got %+v", info.PrimarySolution)
	}
}

func TestInitializeFallsBackToProjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Lib", "Lib.csproj"), csprojWithFramework)

	info, err := newTestRegistry().Initialize(root, "")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if len(info.AllSolutions) != 1 || info.AllSolutions[0].Kind != KindProject {
		t.Errorf("Expected single project descriptor fallback, got %+v", info.AllSolutions)
	}
}

func TestInitializeEmptyWorkspaceIsNotAnError(t *testing.T) {
	info, err := newTestRegistry().Initialize(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if len(info.AllSolutions) != 0 || info.PrimarySolution != nil {
		t.Errorf("Expected empty info, got %+v", info)
	}
}

func TestFrameworkAggregationSkipsMalformed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Good", "Good.csproj"), csprojWithFramework)
	writeFile(t, filepath.Join(root, "Multi", "Multi.csproj"), `<Project>
  <PropertyGroup><TargetFrameworks>net8.0;netstandard2.0</TargetFrameworks></PropertyGroup>
</Project>`)
	writeFile(t, filepath.Join(root, "Bad", "Bad.csproj"), "<Project><oops")

	info, err := newTestRegistry().Initialize(root, "")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	want := []string{"net8.0", "netstandard2.0"}
	if len(info.Frameworks) != len(want) {
		t.Fatalf("Expected %v, got %v", want, info.Frameworks)
	}
	for i, fw := range want {
		if info.Frameworks[i] != fw {
			t.Errorf("Expected %v, got %v", want, info.Frameworks)
		}
	}
}

func TestFindDescriptorUpwardWalk(t *testing.T) {
	root := t.TempDir()
	sln := filepath.Join(root, "App.sln")
	writeFile(t, sln, "")
	file := filepath.Join(root, "src", "deep", "nested", "Program.cs")
	writeFile(t, file, "class Program {}")

	reg := newTestRegistry()
	got, ok := reg.FindDescriptorForFile(file)
	if !ok {
		t.Fatal("Expected descriptor to be found")
	}
	if got != sln {
		t.Errorf("Expected %s, got %s", sln, got)
	}
}

func TestFindDescriptorPrefersSolutionOverProject(t *testing.T) {
	root := t.TempDir()
	sln := filepath.Join(root, "App.sln")
	writeFile(t, sln, "")
	writeFile(t, filepath.Join(root, "App.csproj"), "")
	file := filepath.Join(root, "Program.cs")
	writeFile(t, file, "")

	got, ok := newTestRegistry().FindDescriptorForFile(file)
	if !ok || got != sln {
		t.Errorf("Expected solution %s, got %s (ok=%v)", sln, got, ok)
	}
}

func TestFindDescriptorSkipsAmbiguousLevel(t *testing.T) {
	root := t.TempDir()
	// Ambiguous inner level: two project files. Unambiguous outer level.
	outer := filepath.Join(root, "Outer.sln")
	writeFile(t, outer, "")
	writeFile(t, filepath.Join(root, "src", "A.csproj"), "")
	writeFile(t, filepath.Join(root, "src", "B.csproj"), "")
	file := filepath.Join(root, "src", "Program.cs")
	writeFile(t, file, "")

	got, ok := newTestRegistry().FindDescriptorForFile(file)
	if !ok || got != outer {
		t.Errorf("Expected ambiguous level skipped in favor of %s, got %s (ok=%v)", outer, got, ok)
	}
}

func TestFindDescriptorTerminatesOutsideAnyProject(t *testing.T) {
	// A file in an isolated temp tree with no descriptors anywhere up
	// to the filesystem root. The walk must terminate and report none.
	orphan := filepath.Join(t.TempDir(), "stray.cs")
	writeFile(t, orphan, "")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// Run from a descriptor-free directory so the cwd retry also fails.
	empty := t.TempDir()
	if err := os.Chdir(empty); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	if got, ok := newTestRegistry().FindDescriptorForFile(orphan); ok {
		t.Errorf("Expected no descriptor, got %s", got)
	}
}

func TestFindDescriptorFallsBackToPrimary(t *testing.T) {
	root := t.TempDir()
	sln := filepath.Join(root, "App.sln")
	writeFile(t, sln, "")

	reg := newTestRegistry()
	if _, err := reg.Initialize(root, ""); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	empty := t.TempDir()
	if err := os.Chdir(empty); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	// The file lives outside the workspace, so only the primary-solution
	// fallback can resolve it.
	orphan := filepath.Join(t.TempDir(), "stray.cs")
	writeFile(t, orphan, "")

	got, ok := reg.FindDescriptorForFile(orphan)
	if !ok || got != sln {
		t.Errorf("Expected primary fallback %s, got %s (ok=%v)", sln, got, ok)
	}
}

func TestFindDescriptorCachesByOriginalPath(t *testing.T) {
	root := t.TempDir()
	sln := filepath.Join(root, "App.sln")
	writeFile(t, sln, "")
	file := filepath.Join(root, "Program.cs")
	writeFile(t, file, "")

	reg := newTestRegistry()
	if _, ok := reg.FindDescriptorForFile(file); !ok {
		t.Fatal("Expected resolution")
	}

	// Remove the descriptor; the cached association must still serve.
	if err := os.Remove(sln); err != nil {
		t.Fatal(err)
	}
	got, ok := reg.FindDescriptorForFile(file)
	if !ok || got != sln {
		t.Errorf("Expected cached resolution %s, got %s (ok=%v)", sln, got, ok)
	}
}

type fakeStore struct {
	saved map[string]string
}

func (f *fakeStore) LoadResolutions() (map[string]string, error) {
	return map[string]string{"/warm/file.cs": "/warm/App.sln"}, nil
}

func (f *fakeStore) SaveResolution(file, desc string) error {
	if f.saved == nil {
		f.saved = make(map[string]string)
	}
	f.saved[file] = desc
	return nil
}

func TestRegistryWarmsAndPersistsThroughStore(t *testing.T) {
	store := &fakeStore{}
	reg := NewRegistry(store, logging.NewDiscardLogger())

	// Warmed entry resolves without touching the filesystem.
	got, ok := reg.FindDescriptorForFile("/warm/file.cs")
	if !ok || got != "/warm/App.sln" {
		t.Errorf("Expected warmed resolution, got %s (ok=%v)", got, ok)
	}

	root := t.TempDir()
	sln := filepath.Join(root, "App.sln")
	writeFile(t, sln, "")
	file := filepath.Join(root, "Program.cs")
	writeFile(t, file, "")

	if _, ok := reg.FindDescriptorForFile(file); !ok {
		t.Fatal("Expected resolution")
	}
	if store.saved[file] != sln {
		t.Errorf("Expected resolution persisted to store, got %v", store.saved)
	}
}
