// Package runner executes the external simulator once per configuration,
// strictly sequentially and fail-fast: the first non-zero exit aborts the
// sweep, since a failed run leaves no analyzable report and silently skipped
// runs would distort the aggregate tables.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sniper-sweep/internal/config"
	"sniper-sweep/internal/logging"
	"sniper-sweep/internal/paramspace"

	"github.com/sirupsen/logrus"
)

// Executor runs one fully-built simulator invocation and returns an error on
// non-zero exit.
type Executor interface {
	Run(ctx context.Context, argv []string) error
}

// BuildCommand assembles the simulator argv for one configuration: base
// config file, one -c flag per override, the index-named output directory,
// and the fixed benchmark invocation. Value-identical configurations always
// produce byte-identical argv.
func BuildCommand(cfg *config.SweepConfig, configuration paramspace.Configuration) []string {
	argv := []string{
		cfg.Sweep.SniperPath,
		"-v",
		"--power",
		"-n", "1",
		"-c", cfg.Sweep.ConfigFile,
	}
	for _, override := range configuration.Overrides() {
		argv = append(argv, "-c", override)
	}
	argv = append(argv,
		"-d", OutputDir(cfg, configuration.Index),
		"--", cfg.Sweep.BenchmarkPath,
		"-p", "1",
	)
	return argv
}

// OutputDir returns the per-run output directory, named deterministically by
// the configuration's 1-based index.
func OutputDir(cfg *config.SweepConfig, index int) string {
	return filepath.Join(cfg.Sweep.OutputDir, fmt.Sprintf("configuration_%d", index))
}

// NewExecutor picks the executor for the configured execution mode.
func NewExecutor(cfg *config.SweepConfig) (Executor, error) {
	switch cfg.Sweep.Execution.ModeOrDefault() {
	case config.ExecutionModeLocal:
		return &localExecutor{}, nil
	case config.ExecutionModeDocker:
		return newDockerExecutor(cfg)
	default:
		return nil, fmt.Errorf("unknown execution mode %q", cfg.Sweep.Execution.Mode)
	}
}

// RunSweep executes every configuration in enumeration order. The context
// cancels the sweep between runs and interrupts a running simulator.
func RunSweep(ctx context.Context, cfg *config.SweepConfig, configurations []paramspace.Configuration, executor Executor) error {
	logger := logging.GetLogger()

	for _, configuration := range configurations {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sweep interrupted: %w", err)
		}

		argv := BuildCommand(cfg, configuration)
		logger.WithFields(logrus.Fields{
			"configuration": configuration.Index,
			"total":         len(configurations),
			"command":       strings.Join(argv, " "),
		}).Info("Running configuration")

		if err := executor.Run(ctx, argv); err != nil {
			logger.WithField("configuration", configuration.Index).WithError(err).Error("Simulator run failed, aborting sweep")
			return fmt.Errorf("configuration %d: %w", configuration.Index, err)
		}

		logger.WithFields(logrus.Fields{
			"configuration": configuration.Index,
			"output_dir":    OutputDir(cfg, configuration.Index),
		}).Info("Configuration completed")
	}

	return nil
}

type localExecutor struct{}

func (e *localExecutor) Run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("%s exited with status %d", argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return nil
}
