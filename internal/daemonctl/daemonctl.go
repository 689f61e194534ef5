// Package daemonctl starts, stops, and queries the daemon from the CLI side.
package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/nanobar-io/nanobar/internal/config"
	"github.com/nanobar-io/nanobar/internal/ipc"
	"github.com/nanobar-io/nanobar/internal/models"
)

// ErrStartupTimeout means a spawned daemon never answered ping.
var ErrStartupTimeout = errors.New("daemon failed to start")

// Spawner launches a detached daemon process.
type Spawner func() error

// Controller drives the daemon through its control socket.
type Controller struct {
	client   *ipc.Client
	paths    config.Paths
	spawn    Spawner
	attempts int
	interval time.Duration
}

// New returns a controller for the daemon at paths. A nil spawn re-executes
// the current binary as `nanobar daemon`.
func New(paths config.Paths, settings *models.Settings, spawn Spawner) *Controller {
	if spawn == nil {
		spawn = spawnSelf
	}
	attempts := settings.Client.StartupAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Controller{
		client:   ipc.NewClient(paths.Socket, settings.Client.Timeout),
		paths:    paths,
		spawn:    spawn,
		attempts: attempts,
		interval: settings.Client.StartupInterval,
	}
}

// Running reports whether the daemon answers ping.
func (c *Controller) Running(ctx context.Context) bool {
	return c.client.Ping(ctx)
}

// Send performs one raw exchange.
func (c *Controller) Send(ctx context.Context, request string) (string, error) {
	return c.client.Send(ctx, request)
}

// Command sends a mutating request and checks the acknowledgement.
func (c *Controller) Command(ctx context.Context, request string) error {
	resp, err := c.client.Send(ctx, request)
	if err != nil {
		return err
	}
	if resp != ipc.ResponseOK {
		return fmt.Errorf("daemon rejected %q: %s", request, resp)
	}
	return nil
}

// State returns the daemon's visibility.
func (c *Controller) State(ctx context.Context) (models.Visibility, error) {
	resp, err := c.client.Send(ctx, ipc.RequestState)
	if err != nil {
		return models.Visible, err
	}
	switch resp {
	case ipc.ResponseHidden:
		return models.Hidden, nil
	case ipc.ResponseVisible:
		return models.Visible, nil
	}
	return models.Visible, fmt.Errorf("unexpected state response %q", resp)
}

// Start launches a daemon and waits until it answers. Starting a running
// daemon is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	if c.Running(ctx) {
		return nil
	}
	if err := c.spawn(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	for range c.attempts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.interval):
		}
		if c.Running(ctx) {
			return nil
		}
	}
	return fmt.Errorf("%w within %s", ErrStartupTimeout, time.Duration(c.attempts)*c.interval)
}

// Stop asks the daemon to exit.
func (c *Controller) Stop(ctx context.Context) error {
	return c.Command(ctx, ipc.RequestStop)
}

// PID returns the PID record of the daemon, or nil if none exists.
func (c *Controller) PID() (*config.PIDInfo, error) {
	return config.InspectPID(c.paths.PID)
}

func spawnSelf() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe, "daemon") //nolint:gosec
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
