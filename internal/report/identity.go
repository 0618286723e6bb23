package report

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultArchitecture labels power reports found directly in the workspace
// root, where no run directory carries the identity.
const DefaultArchitecture = "default"

var simArchPattern = regexp.MustCompile(`sim\((.+?)\)\.out`)

// PerfArchitecture derives the architecture identity of a performance report.
// A bracketed label in the file name wins; otherwise the run directory name
// is used; a report sitting directly in the workspace root falls back to a
// sanitized file name. The rule must agree with PowerArchitecture for reports
// of the same run directory, since identity is the correlation key between
// the two streams.
func PerfArchitecture(workspace, path string) string {
	name := filepath.Base(path)
	if m := simArchPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}

	if parent := parentDir(workspace, path); parent != "" {
		return parent
	}

	sanitized := strings.TrimSuffix(name, ".out")
	sanitized = strings.ReplaceAll(sanitized, "sim", "")
	return strings.Trim(sanitized, "()")
}

// PowerArchitecture derives the architecture identity of a power report from
// its run directory name. Power reports live one level below the workspace
// root; one found at the root itself gets the default label.
func PowerArchitecture(workspace, path string) string {
	if parent := parentDir(workspace, path); parent != "" {
		return parent
	}
	return DefaultArchitecture
}

// parentDir returns the name of the report's parent directory, or "" when the
// report sits directly in the workspace root.
func parentDir(workspace, path string) string {
	parent := filepath.Dir(path)
	if filepath.Clean(parent) == filepath.Clean(workspace) {
		return ""
	}
	name := filepath.Base(parent)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// RelativePath renders a report path relative to the workspace root for
// display and export. The absolute path is kept when the report is outside
// the workspace.
func RelativePath(workspace, path string) string {
	rel, err := filepath.Rel(workspace, path)
	if err != nil {
		return path
	}
	return rel
}
