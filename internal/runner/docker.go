package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"sniper-sweep/internal/config"
	"sniper-sweep/internal/logging"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/sirupsen/logrus"
)

// dockerExecutor runs each simulator invocation inside a container of the
// configured image, for setups where Sniper is distributed as a Docker image
// rather than installed on the host. The config file, benchmark, and output
// directories are bind-mounted at their host paths so the argv is identical
// to local execution.
type dockerExecutor struct {
	client *client.Client
	image  string
	binds  []string
	pulled bool
}

func newDockerExecutor(cfg *config.SweepConfig) (*dockerExecutor, error) {
	logger := logging.GetLogger()

	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		logger.WithError(err).Error("Failed to create Docker client")
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	binds, err := executionBinds(cfg)
	if err != nil {
		return nil, err
	}

	return &dockerExecutor{
		client: dockerClient,
		image:  cfg.Sweep.Execution.Image,
		binds:  binds,
	}, nil
}

// executionBinds mounts the directories the simulator reads and writes:
// the base config file's directory, the benchmark directory, and the sweep
// output root.
func executionBinds(cfg *config.SweepConfig) ([]string, error) {
	dirs := []string{
		filepath.Dir(cfg.Sweep.ConfigFile),
		filepath.Dir(cfg.Sweep.BenchmarkPath),
		cfg.Sweep.OutputDir,
	}

	seen := make(map[string]bool)
	var binds []string
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve bind path %s: %w", dir, err)
		}
		if !seen[abs] {
			seen[abs] = true
			binds = append(binds, fmt.Sprintf("%s:%s", abs, abs))
		}
	}
	return binds, nil
}

// containerSpec builds the container configuration for one run. The argv is
// handed to the container unmodified, so containerized runs see the same
// command line as local ones.
func (e *dockerExecutor) containerSpec(argv []string) (*container.Config, *container.HostConfig) {
	return &container.Config{
			Image: e.image,
			Cmd:   argv,
		},
		&container.HostConfig{
			Binds:      e.binds,
			AutoRemove: false,
		}
}

func (e *dockerExecutor) Run(ctx context.Context, argv []string) error {
	logger := logging.GetLogger()

	if err := e.ensureImage(ctx); err != nil {
		return err
	}

	containerConfig, hostConfig := e.containerSpec(argv)
	resp, err := e.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		logger.WithField("image", e.image).WithError(err).Error("Failed to create simulator container")
		return fmt.Errorf("failed to create container: %w", err)
	}
	containerID := resp.ID
	defer e.removeContainer(containerID)

	if err := e.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		logger.WithField("container_id", containerID[:12]).WithError(err).Error("Failed to start simulator container")
		return fmt.Errorf("failed to start container: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"container_id": containerID[:12],
		"image":        e.image,
	}).Debug("Simulator container started")

	statusCh, errCh := e.client.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed waiting for container: %w", err)
	case status := <-statusCh:
		if status.StatusCode != 0 {
			return fmt.Errorf("%s exited with status %d", argv[0], status.StatusCode)
		}
	}

	return nil
}

func (e *dockerExecutor) ensureImage(ctx context.Context) error {
	if e.pulled {
		return nil
	}
	logger := logging.GetLogger()

	logger.WithField("image", e.image).Info("Pulling simulator image")
	pullResp, err := e.client.ImagePull(ctx, e.image, types.ImagePullOptions{})
	if err != nil {
		logger.WithField("image", e.image).WithError(err).Error("Failed to pull simulator image")
		return fmt.Errorf("failed to pull image %s: %w", e.image, err)
	}
	defer pullResp.Close()

	if _, err := io.Copy(io.Discard, pullResp); err != nil {
		return fmt.Errorf("failed to complete image pull for %s: %w", e.image, err)
	}

	e.pulled = true
	logger.WithField("image", e.image).Info("Simulator image pulled")
	return nil
}

func (e *dockerExecutor) removeContainer(containerID string) {
	logger := logging.GetLogger()

	removeOptions := container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	}
	if err := e.client.ContainerRemove(context.Background(), containerID, removeOptions); err != nil {
		if !client.IsErrNotFound(err) {
			logger.WithField("container_id", containerID[:12]).WithError(err).Warn("Failed to remove simulator container")
		}
	}
}

// Close releases the Docker client. Executors for other modes have nothing to
// release, so Close is only part of the docker path.
func (e *dockerExecutor) Close() error {
	return e.client.Close()
}
