package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"sniper-sweep/internal/logging"
	"sniper-sweep/internal/paramspace"

	"gopkg.in/yaml.v3"
)

func LoadConfig(filepath string) (*SweepConfig, error) {
	config, _, err := LoadConfigWithContent(filepath)
	return config, err
}

// LoadConfigWithContent loads and validates a sweep configuration and returns
// the raw file content alongside it for archival in sweep exports. YAML and
// JSON documents both load through this path.
func LoadConfigWithContent(filepath string) (*SweepConfig, string, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(filepath)
	if err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to read sweep config file")
		return nil, "", err
	}

	originalContent := string(data)

	// Expand environment variables
	expanded := expandEnvVars(originalContent)

	var config SweepConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		logger.WithField("filepath", filepath).WithError(err).Error("Failed to parse sweep config file")
		return nil, "", err
	}

	if err := validateConfig(&config); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	return &config, originalContent, nil
}

func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

func validateConfig(config *SweepConfig) error {
	if config.Sweep.Name == "" {
		return fmt.Errorf("sweep name is required")
	}

	if config.Sweep.SniperPath == "" {
		return fmt.Errorf("sniper_path is required")
	}
	if config.Sweep.ConfigFile == "" {
		return fmt.Errorf("config_file is required")
	}
	if config.Sweep.BenchmarkPath == "" {
		return fmt.Errorf("benchmark_path is required")
	}
	if config.Sweep.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	switch config.Sweep.Execution.ModeOrDefault() {
	case ExecutionModeLocal:
	case ExecutionModeDocker:
		if config.Sweep.Execution.Image == "" {
			return fmt.Errorf("execution mode docker requires an image")
		}
	default:
		return fmt.Errorf("unknown execution mode %q", config.Sweep.Execution.Mode)
	}

	if err := validateSpace(&config.Parameters); err != nil {
		return err
	}

	return nil
}

func validateSpace(space *paramspace.Space) error {
	caches := map[paramspace.Role]paramspace.CacheParams{
		paramspace.RoleL1ICache: space.Caches.L1ICache,
		paramspace.RoleL1DCache: space.Caches.L1DCache,
		paramspace.RoleL2Cache:  space.Caches.L2Cache,
		paramspace.RoleL3Cache:  space.Caches.L3Cache,
		paramspace.RoleL4Cache:  space.Caches.L4Cache,
	}
	for role, params := range caches {
		if err := validatePositive(role, "cache_size", params.CacheSize); err != nil {
			return err
		}
		if err := validatePositive(role, "cache_block_size", params.CacheBlockSize); err != nil {
			return err
		}
		if err := validatePositive(role, "associativity", params.Associativity); err != nil {
			return err
		}
		for _, repl := range params.Replacement {
			if strings.TrimSpace(repl) == "" {
				return fmt.Errorf("%s: replacement policy must not be empty", role)
			}
		}
	}

	tlbs := map[paramspace.Role]paramspace.TLBParams{
		paramspace.RoleITLB: space.TLBs.ITLB,
		paramspace.RoleDTLB: space.TLBs.DTLB,
	}
	for role, params := range tlbs {
		if err := validatePositive(role, "entries", params.Entries); err != nil {
			return err
		}
		if err := validatePositive(role, "associativity", params.Associativity); err != nil {
			return err
		}
		if err := validatePositive(role, "page_size", params.PageSize); err != nil {
			return err
		}
	}

	return nil
}

func validatePositive(role paramspace.Role, axis string, values []int) error {
	for _, v := range values {
		if v <= 0 {
			return fmt.Errorf("%s: %s value %d must be greater than 0", role, axis, v)
		}
	}
	return nil
}
