package aggregate

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"sniper-sweep/internal/logging"
	"sniper-sweep/internal/report"
)

// Result holds the two correlated datasets of one aggregation pass.
type Result struct {
	Performance *Dataset
	Power       *Dataset
}

// HasData reports whether either family produced any rows.
func (r *Result) HasData() bool {
	return !r.Performance.Empty() || !r.Power.Empty()
}

// Analyze discovers and parses all report files under the workspace root and
// builds both datasets. Finding no reports of a family is not an error; the
// family's dataset stays empty and is surfaced as "no data found".
func Analyze(workspace string) (*Result, error) {
	logger := logging.GetLogger()

	result := &Result{
		Performance: NewDataset("performance"),
		Power:       NewDataset("power"),
	}

	perfFiles, err := FindPerformanceReports(workspace)
	if err != nil {
		return nil, err
	}
	if len(perfFiles) == 0 {
		logger.Info("No performance report files found")
	} else {
		logger.WithField("count", len(perfFiles)).Info("Parsing performance reports")
		for _, file := range perfFiles {
			record := report.ParsePerformanceFile(workspace, file)
			logger.WithField("file", record.Path).Debug("Parsed performance report")
			result.Performance.Append(record)
		}
	}

	powerFiles, err := FindPowerReports(workspace)
	if err != nil {
		return nil, err
	}
	if len(powerFiles) == 0 {
		logger.Info("No power report files found")
	} else {
		logger.WithField("count", len(powerFiles)).Info("Parsing power reports")
		for _, file := range powerFiles {
			record := report.ParsePowerFile(workspace, file)
			logger.WithField("file", record.Path).Debug("Parsed power report")
			result.Power.Append(record)
		}
	}

	return result, nil
}

// FindPerformanceReports returns every sim report file under the workspace in
// lexicographic path order, so repeated passes see identical row order.
func FindPerformanceReports(workspace string) ([]string, error) {
	return findReports(workspace, func(name string) bool {
		return strings.HasPrefix(name, "sim") && strings.HasSuffix(name, ".out")
	})
}

// FindPowerReports returns every powerstack report file under the workspace
// in lexicographic path order.
func FindPowerReports(workspace string) ([]string, error) {
	return findReports(workspace, func(name string) bool {
		return strings.HasPrefix(name, "powerstack") && strings.HasSuffix(name, ".txt")
	})
}

func findReports(workspace string, match func(name string) bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	err := filepath.WalkDir(workspace, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are a local failure, not a sweep failure.
			logging.GetLogger().WithField("path", path).WithError(err).Warn("Skipping unreadable path")
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if match(entry.Name()) && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
