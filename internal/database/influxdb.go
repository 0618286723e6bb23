package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"sniper-sweep/internal/aggregate"
	"sniper-sweep/internal/logging"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"
)

// SweepMetadata describes one sweep for the metadata measurement.
type SweepMetadata struct {
	SweepID             string `json:"sweep_id"`
	SweepName           string `json:"sweep_name"`
	Description         string `json:"description"`
	TotalConfigurations int    `json:"total_configurations"`
	PerformanceReports  int    `json:"performance_reports"`
	PowerReports        int    `json:"power_reports"`
	SweepStarted        string `json:"sweep_started"`  // RFC3339 timestamp
	SweepFinished       string `json:"sweep_finished"` // RFC3339 timestamp
	DurationSeconds     int64  `json:"duration_seconds"`
	DriverVersion       string `json:"driver_version"`
	Hostname            string `json:"hostname"`
	ConfigFile          string `json:"config_file"`
}

// Config holds the InfluxDB connection parameters, taken from the
// environment (.env supported through godotenv at startup).
type Config struct {
	Host   string
	Token  string
	Org    string
	Bucket string
}

func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Host:   os.Getenv("INFLUXDB_HOST"),
		Token:  os.Getenv("INFLUXDB_TOKEN"),
		Org:    os.Getenv("INFLUXDB_ORG"),
		Bucket: os.Getenv("INFLUXDB_BUCKET"),
	}

	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "INFLUXDB_HOST")
	}
	if cfg.Token == "" {
		missing = append(missing, "INFLUXDB_TOKEN")
	}
	if cfg.Org == "" {
		missing = append(missing, "INFLUXDB_ORG")
	}
	if cfg.Bucket == "" {
		missing = append(missing, "INFLUXDB_BUCKET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return cfg, nil
}

type InfluxDBClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewInfluxDBClient(config Config) (*InfluxDBClient, error) {
	logger := logging.GetLogger()

	client := influxdb2.NewClient(config.Host, config.Token)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		logger.WithField("host", config.Host).WithError(err).Error("Failed to connect to InfluxDB")
		return nil, err
	}

	if health.Status != "pass" {
		logger.WithFields(logrus.Fields{
			"host":   config.Host,
			"status": health.Status,
		}).Error("InfluxDB health check failed")
		return nil, fmt.Errorf("InfluxDB health check failed: %s", health.Status)
	}

	writeAPI := client.WriteAPIBlocking(config.Org, config.Bucket)

	logger.WithFields(logrus.Fields{
		"host":   config.Host,
		"bucket": config.Bucket,
		"org":    config.Org,
	}).Info("Connected to InfluxDB")

	return &InfluxDBClient{
		client:   client,
		writeAPI: writeAPI,
		bucket:   config.Bucket,
		org:      config.Org,
	}, nil
}

// WriteSweepResults exports both datasets, one point per run record, tagged
// with the sweep id, the report family, the architecture identity, and the
// report file path.
func (idb *InfluxDBClient) WriteSweepResults(sweepID string, result *aggregate.Result, endTime time.Time) error {
	ctx := context.Background()

	var points []*write.Point
	points = append(points, idb.datasetPoints(sweepID, result.Performance, endTime)...)
	points = append(points, idb.datasetPoints(sweepID, result.Power, endTime)...)

	if len(points) > 0 {
		if err := idb.writeAPI.WritePoint(ctx, points...); err != nil {
			return fmt.Errorf("failed to write data points: %w", err)
		}
	}

	return nil
}

func (idb *InfluxDBClient) datasetPoints(sweepID string, dataset *aggregate.Dataset, endTime time.Time) []*write.Point {
	var points []*write.Point
	for _, record := range dataset.Rows {
		fields := make(map[string]interface{}, record.Len())
		for column, value := range record.Metrics() {
			fields[column] = value
		}

		// The file path is a tag, not a field: two records can share the same
		// architecture identity (nested and root-level reports), and points
		// with identical tag sets and timestamp overwrite each other.
		point := influxdb2.NewPoint("sweep_metrics",
			map[string]string{
				"sweep_id":     sweepID,
				"family":       dataset.Name,
				"architecture": record.Architecture,
				"file_path":    record.Path,
			},
			fields,
			endTime)
		points = append(points, point)
	}
	return points
}

func (idb *InfluxDBClient) WriteMetadata(metadata *SweepMetadata) error {
	ctx := context.Background()

	point := influxdb2.NewPoint("sweep_meta",
		map[string]string{
			"sweep_id": metadata.SweepID,
		},
		map[string]interface{}{
			"sweep_name":           metadata.SweepName,
			"description":          metadata.Description,
			"total_configurations": metadata.TotalConfigurations,
			"performance_reports":  metadata.PerformanceReports,
			"power_reports":        metadata.PowerReports,
			"sweep_started":        metadata.SweepStarted,
			"sweep_finished":       metadata.SweepFinished,
			"duration_seconds":     metadata.DurationSeconds,
			"driver_version":       metadata.DriverVersion,
			"hostname":             metadata.Hostname,
			"config_file":          metadata.ConfigFile,
		},
		time.Now())

	if err := idb.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// CollectSweepMetadata gathers the metadata measurement for one finished
// sweep.
func CollectSweepMetadata(sweepID, sweepName, description, configContent string, totalConfigurations int, result *aggregate.Result, startTime, endTime time.Time, driverVersion string) *SweepMetadata {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &SweepMetadata{
		SweepID:             sweepID,
		SweepName:           sweepName,
		Description:         description,
		TotalConfigurations: totalConfigurations,
		PerformanceReports:  len(result.Performance.Rows),
		PowerReports:        len(result.Power.Rows),
		SweepStarted:        startTime.Format(time.RFC3339),
		SweepFinished:       endTime.Format(time.RFC3339),
		DurationSeconds:     int64(endTime.Sub(startTime).Seconds()),
		DriverVersion:       driverVersion,
		Hostname:            hostname,
		ConfigFile:          configContent,
	}
}

func (idb *InfluxDBClient) Close() {
	if idb.client != nil {
		idb.client.Close()
	}
}
