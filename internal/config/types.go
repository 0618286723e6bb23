package config

import (
	"sniper-sweep/internal/paramspace"
)

const (
	ExecutionModeLocal  = "local"
	ExecutionModeDocker = "docker"
)

type SweepConfig struct {
	Sweep      SweepInfo        `yaml:"sweep"`
	Parameters paramspace.Space `yaml:"parameters"`
}

type SweepInfo struct {
	Name          string          `yaml:"name"`
	Description   string          `yaml:"description"`
	LogLevel      string          `yaml:"log_level"`
	SniperPath    string          `yaml:"sniper_path"`
	ConfigFile    string          `yaml:"config_file"`
	BenchmarkPath string          `yaml:"benchmark_path"`
	OutputDir     string          `yaml:"output_dir"`
	Execution     ExecutionConfig `yaml:"execution"`
	Export        ExportConfig    `yaml:"export"`
}

type ExecutionConfig struct {
	Mode  string `yaml:"mode"`
	Image string `yaml:"image,omitempty"`
}

type ExportConfig struct {
	InfluxDB bool `yaml:"influxdb"`
	Artifact bool `yaml:"artifact"`
}

// Mode returns the configured execution mode, defaulting to local execution.
func (e ExecutionConfig) ModeOrDefault() string {
	if e.Mode == "" {
		return ExecutionModeLocal
	}
	return e.Mode
}
