package report

import (
	"os"
	"strconv"

	"sniper-sweep/internal/logging"
)

// ParsePerformance extracts the performance metrics from report text into a
// record with the given identity. Unmatched fields are omitted; parsing never
// fails.
func ParsePerformance(architecture, path, content string) *Record {
	return extract(NewRecord(architecture, path), perfFields, content)
}

// ParsePower extracts the power metrics from report text.
func ParsePower(architecture, path, content string) *Record {
	return extract(NewRecord(architecture, path), powerFields, content)
}

// ParsePerformanceFile reads and parses one performance report. A read
// failure is logged and yields a record carrying identity only, so the sweep
// continues.
func ParsePerformanceFile(workspace, path string) *Record {
	architecture := PerfArchitecture(workspace, path)
	relPath := RelativePath(workspace, path)

	content, err := os.ReadFile(path)
	if err != nil {
		logging.GetLogger().WithField("file", relPath).WithError(err).Warn("Failed to read performance report")
		return NewRecord(architecture, relPath)
	}
	return ParsePerformance(architecture, relPath, string(content))
}

// ParsePowerFile reads and parses one power report, with the same read
// failure policy as ParsePerformanceFile.
func ParsePowerFile(workspace, path string) *Record {
	architecture := PowerArchitecture(workspace, path)
	relPath := RelativePath(workspace, path)

	content, err := os.ReadFile(path)
	if err != nil {
		logging.GetLogger().WithField("file", relPath).WithError(err).Warn("Failed to read power report")
		return NewRecord(architecture, relPath)
	}
	return ParsePower(architecture, relPath, string(content))
}

func extract(record *Record, fields []Field, content string) *Record {
	logger := logging.GetLogger()

	for _, field := range fields {
		match := field.Pattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			logger.WithField("file", record.Path).WithField("column", field.Column).WithError(err).Debug("Unparseable field value")
			continue
		}
		record.Set(field.Column, value)
	}
	return record
}
