package workspace

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codenav/internal/paths"
)

// msbuildProject is the slice of an MSBuild project file we care about:
// the target-framework markers inside any property group.
type msbuildProject struct {
	XMLName        xml.Name `xml:"Project"`
	PropertyGroups []struct {
		TargetFramework  string `xml:"TargetFramework"`
		TargetFrameworks string `xml:"TargetFrameworks"`
	} `xml:"PropertyGroup"`
}

// aggregateFrameworks scans every project descriptor under root for
// target-framework markers. Best-effort enrichment: missing or
// malformed files are skipped, never failed.
func (r *Registry) aggregateFrameworks(root string) []string {
	seen := make(map[string]bool)
	projects := discoverDescriptors(root, paths.IsProjectDescriptor, KindProject)
	for _, p := range projects {
		for _, fw := range frameworksInProject(p.Path) {
			seen[fw] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	frameworks := make([]string, 0, len(seen))
	for fw := range seen {
		frameworks = append(frameworks, fw)
	}
	sort.Strings(frameworks)
	return frameworks
}

// frameworksInProject extracts framework identifiers from one project
// file. Returns nil on any read or parse failure.
func frameworksInProject(path string) []string {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil
	}

	var proj msbuildProject
	if err := xml.Unmarshal(data, &proj); err != nil {
		return nil
	}

	var frameworks []string
	for _, pg := range proj.PropertyGroups {
		if fw := strings.TrimSpace(pg.TargetFramework); fw != "" {
			frameworks = append(frameworks, fw)
		}
		// The plural form is a semicolon-separated list.
		for _, fw := range strings.Split(pg.TargetFrameworks, ";") {
			if fw = strings.TrimSpace(fw); fw != "" {
				frameworks = append(frameworks, fw)
			}
		}
	}
	return frameworks
}
