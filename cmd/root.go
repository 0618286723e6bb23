package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"sniper-sweep/internal/aggregate"
	"sniper-sweep/internal/config"
	"sniper-sweep/internal/database"
	"sniper-sweep/internal/logging"
	"sniper-sweep/internal/plot"
	"sniper-sweep/internal/runner"

	"github.com/joho/godotenv"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

func Execute() error {
	loadEnvironment()

	var configFile string
	var workspace string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "sniper-sweep",
		Short: "Design-space exploration driver for the Sniper simulator",
		Long:  "Expands cache/TLB parameter ranges into concrete configurations, runs the Sniper simulator once per configuration, and aggregates the performance and power reports",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				if err := logging.SetLogLevel(logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full parameter sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(configFile)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a sweep configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(configFile)
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Aggregate reports from an existing output tree",
		Long:  "Parse all performance and power reports under a workspace, export summary tables and charts, and print descriptive statistics without running the simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeWorkspace(workspace, xid.New().String())
		},
	}

	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to sweep configuration file")
	runCmd.MarkFlagRequired("config")

	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to sweep configuration file")
	validateCmd.MarkFlagRequired("config")

	analyzeCmd.Flags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory containing run output directories")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(analyzeCmd)

	return rootCmd.Execute()
}

func loadEnvironment() {
	logger := logging.GetLogger()

	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		} else {
			logger.WithField("file", envFile).Debug("Loaded environment variables")
		}
		return
	}

	if execPath, err := os.Executable(); err == nil {
		envFile = filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
			} else {
				logger.WithField("file", envFile).Debug("Loaded environment variables")
			}
		}
	}
}

func validateConfig(configFile string) error {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Configuration validation failed")
		return err
	}

	logger.WithFields(logrus.Fields{
		"config_file":          configFile,
		"total_configurations": cfg.Parameters.Count(),
	}).Info("Configuration is valid")
	return nil
}

func runSweep(configFile string) error {
	logger := logging.GetLogger()

	cfg, configContent, err := config.LoadConfigWithContent(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Failed to load configuration")
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Sweep.LogLevel != "" {
		if err := logging.SetLogLevel(cfg.Sweep.LogLevel); err != nil {
			logger.WithField("log_level", cfg.Sweep.LogLevel).WithError(err).Warn("Invalid log level in config, using INFO")
			logging.SetLogLevel("info")
		}
	}

	sweepID := xid.New().String()

	configurations := cfg.Parameters.Enumerate()
	logger.WithFields(logrus.Fields{
		"sweep_id":             sweepID,
		"name":                 cfg.Sweep.Name,
		"total_configurations": len(configurations),
		"execution_mode":       cfg.Sweep.Execution.ModeOrDefault(),
	}).Info("Starting sweep")

	executor, err := runner.NewExecutor(cfg)
	if err != nil {
		return err
	}
	if closer, ok := executor.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// Interrupts cancel the running simulator and stop the sweep.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		if awaitInterrupt(ctx, sigChan) {
			logger.Info("Received interrupt signal, stopping sweep")
			cancel()
		}
	}()

	startTime := time.Now()
	if err := runner.RunSweep(ctx, cfg, configurations, executor); err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	endTime := time.Now()

	logger.Info("All configurations completed, analyzing results")

	result, err := aggregate.Analyze(cfg.Sweep.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to aggregate results: %w", err)
	}

	if !result.HasData() {
		logger.Info("No simulation or power data found to analyze")
		return nil
	}

	if err := aggregate.Export(cfg.Sweep.OutputDir, result); err != nil {
		return err
	}
	aggregate.PrintStatistics(result)

	if err := plot.GenerateCharts(cfg.Sweep.OutputDir, sweepID, result); err != nil {
		return err
	}

	return exportSweep(cfg, configContent, sweepID, len(configurations), result, startTime, endTime)
}

// awaitInterrupt blocks until a signal arrives or the context ends, and
// reports whether a signal was the cause. Returning on context end lets the
// watching goroutine exit with the sweep instead of leaking.
func awaitInterrupt(ctx context.Context, sigChan <-chan os.Signal) bool {
	select {
	case <-sigChan:
		return true
	case <-ctx.Done():
		return false
	}
}

func exportSweep(cfg *config.SweepConfig, configContent, sweepID string, totalConfigurations int, result *aggregate.Result, startTime, endTime time.Time) error {
	logger := logging.GetLogger()

	if cfg.Sweep.Export.Artifact {
		artifact := database.BuildSweepArtifact(sweepID, cfg.Sweep.Name, configContent, totalConfigurations, result, startTime, endTime)
		path, err := database.WriteSweepArtifact(database.DefaultArtifactDir(cfg.Sweep.OutputDir), artifact)
		if err != nil {
			logger.WithError(err).Error("Failed to write sweep artifact")
			return fmt.Errorf("failed to write sweep artifact: %w", err)
		}
		logger.WithField("file", path).Info("Sweep artifact written")
	}

	if cfg.Sweep.Export.InfluxDB {
		dbConfig, err := database.ConfigFromEnv()
		if err != nil {
			logger.WithError(err).Error("Incomplete InfluxDB environment")
			return err
		}

		dbClient, err := database.NewInfluxDBClient(dbConfig)
		if err != nil {
			return fmt.Errorf("failed to create database client: %w", err)
		}
		defer dbClient.Close()

		if err := dbClient.WriteSweepResults(sweepID, result, endTime); err != nil {
			logger.WithError(err).Error("Failed to export sweep results")
			return err
		}

		metadata := database.CollectSweepMetadata(sweepID, cfg.Sweep.Name, cfg.Sweep.Description, configContent, totalConfigurations, result, startTime, endTime, Version)
		if err := dbClient.WriteMetadata(metadata); err != nil {
			logger.WithError(err).Error("Failed to export sweep metadata")
			return err
		}

		logger.WithField("sweep_id", sweepID).Info("Sweep results exported to InfluxDB")
	}

	logger.WithFields(logrus.Fields{
		"sweep_id": sweepID,
		"duration": endTime.Sub(startTime),
	}).Info("Sweep completed")

	return nil
}

func analyzeWorkspace(workspace, sweepID string) error {
	logger := logging.GetLogger()

	result, err := aggregate.Analyze(workspace)
	if err != nil {
		return fmt.Errorf("failed to aggregate results: %w", err)
	}

	if !result.HasData() {
		logger.Info("No simulation or power data found to analyze")
		return nil
	}

	if err := aggregate.Export(workspace, result); err != nil {
		return err
	}
	aggregate.PrintStatistics(result)

	if err := plot.GenerateCharts(workspace, sweepID, result); err != nil {
		return err
	}

	logger.WithField("dir", filepath.Join(workspace, aggregate.ResultsDirName)).Info("Analysis complete")
	return nil
}
