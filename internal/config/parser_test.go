package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const validConfig = `
sweep:
  name: l2-sweep
  sniper_path: /opt/sniper/run-sniper
  config_file: gainestown.cfg
  benchmark_path: ./bench
  output_dir: ./results
parameters:
  caches:
    l2_cache:
      cache_size: [256, 512]
      associativity: [4, 8]
  tlbs:
    dtlb:
      entries: [64]
`

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Sweep.Name != "l2-sweep" {
		t.Errorf("unexpected name %q", cfg.Sweep.Name)
	}
	if cfg.Sweep.Execution.ModeOrDefault() != ExecutionModeLocal {
		t.Errorf("expected default execution mode local, got %q", cfg.Sweep.Execution.ModeOrDefault())
	}
	if got := cfg.Parameters.Count(); got != 4 {
		t.Errorf("expected 4 configurations, got %d", got)
	}
}

func TestLoadConfig_JSONDocument(t *testing.T) {
	// JSON is a YAML subset; the original tool used JSON sweep documents.
	content := `{"sweep": {"name": "j", "sniper_path": "/s", "config_file": "c", "benchmark_path": "b", "output_dir": "o"}, "parameters": {"caches": {"l1_dcache": {"cache_size": [32, 64]}}}}`
	path := writeConfigFile(t, content)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.Parameters.Count(); got != 2 {
		t.Errorf("expected 2 configurations, got %d", got)
	}
}

func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("SNIPER_HOME", "/opt/sniper")

	content := strings.Replace(validConfig, "/opt/sniper/run-sniper", "${SNIPER_HOME}/run-sniper", 1)
	path := writeConfigFile(t, content)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Sweep.SniperPath != "/opt/sniper/run-sniper" {
		t.Errorf("env var not expanded: %q", cfg.Sweep.SniperPath)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(c string) string { return strings.Replace(c, "name: l2-sweep", "name: \"\"", 1) },
			wantErr: "sweep name is required",
		},
		{
			name:    "missing sniper path",
			mutate:  func(c string) string { return strings.Replace(c, "  sniper_path: /opt/sniper/run-sniper\n", "", 1) },
			wantErr: "sniper_path is required",
		},
		{
			name: "unknown execution mode",
			mutate: func(c string) string {
				return strings.Replace(c, "output_dir: ./results", "output_dir: ./results\n  execution:\n    mode: slurm", 1)
			},
			wantErr: "unknown execution mode",
		},
		{
			name: "docker mode without image",
			mutate: func(c string) string {
				return strings.Replace(c, "output_dir: ./results", "output_dir: ./results\n  execution:\n    mode: docker", 1)
			},
			wantErr: "requires an image",
		},
		{
			name:    "non-positive axis value",
			mutate:  func(c string) string { return strings.Replace(c, "entries: [64]", "entries: [0]", 1) },
			wantErr: "must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.mutate(validConfig))
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigWithContent_ReturnsOriginalContent(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	_, content, err := LoadConfigWithContent(path)
	if err != nil {
		t.Fatalf("LoadConfigWithContent: %v", err)
	}
	if content != validConfig {
		t.Error("expected original file content to be preserved")
	}
}
