package database

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sniper-sweep/internal/aggregate"
	"sniper-sweep/internal/report"
)

// SweepArtifact is the local, self-contained record of one sweep: metadata,
// the raw configuration document, and both aggregated datasets. It is the
// offline counterpart of the InfluxDB export.
type SweepArtifact struct {
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`

	SweepID   string `json:"sweep_id"`
	SweepName string `json:"sweep_name"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	ConfigContent       string `json:"config_content"`
	TotalConfigurations int    `json:"total_configurations"`

	Performance []ArtifactRow `json:"performance"`
	Power       []ArtifactRow `json:"power"`
}

// ArtifactRow is the serialized form of one run record.
type ArtifactRow struct {
	Architecture string             `json:"architecture"`
	FilePath     string             `json:"file_path"`
	Metrics      map[string]float64 `json:"metrics"`
}

func DefaultArtifactDir(workspace string) string {
	if v := strings.TrimSpace(os.Getenv("SNIPER_SWEEP_ARTIFACT_DIR")); v != "" {
		return v
	}
	return filepath.Join(workspace, "artifacts")
}

// BuildSweepArtifact constructs an artifact from the in-memory sweep results.
func BuildSweepArtifact(sweepID, sweepName, configContent string, totalConfigurations int, result *aggregate.Result, startTime, endTime time.Time) *SweepArtifact {
	return &SweepArtifact{
		Version:             1,
		CreatedAt:           time.Now(),
		SweepID:             sweepID,
		SweepName:           sweepName,
		StartTime:           startTime,
		EndTime:             endTime,
		ConfigContent:       configContent,
		TotalConfigurations: totalConfigurations,
		Performance:         artifactRows(result.Performance.Rows),
		Power:               artifactRows(result.Power.Rows),
	}
}

func artifactRows(records []*report.Record) []ArtifactRow {
	rows := make([]ArtifactRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, ArtifactRow{
			Architecture: record.Architecture,
			FilePath:     record.Path,
			Metrics:      record.Metrics(),
		})
	}
	return rows
}

// WriteSweepArtifact writes a gzip-compressed JSON artifact to disk
// atomically and returns the final file path.
func WriteSweepArtifact(dir string, artifact *SweepArtifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("sweep artifact is nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf(
		"sweep_%s_%s.json.gz",
		artifact.SweepID,
		artifact.CreatedAt.UTC().Format("20060102T150405Z"),
	)
	finalPath := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, name+".tmp.*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	gz := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		_ = gz.Close()
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", err
	}
	ok = true
	return finalPath, nil
}
