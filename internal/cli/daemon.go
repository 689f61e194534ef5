package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanobar-io/nanobar/internal/config"
	"github.com/nanobar-io/nanobar/internal/daemon"
	"github.com/nanobar-io/nanobar/internal/daemon/tray"
)

var headless bool

var daemonCmd = &cobra.Command{
	Use:    "daemon",
	Short:  "Internal: run as daemon process",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runDaemon,
}

func init() {
	daemonCmd.Flags().BoolVar(&headless, "headless", false, "Run without the status bar (for development)")
}

// runDaemon must run on the main goroutine: the status bar loop takes it over.
func runDaemon(cmd *cobra.Command, args []string) error {
	settingsPath, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettingsFrom(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	paths := config.RuntimePaths()
	logger, logFile, err := openDaemonLog(paths.Log, settings.Daemon.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	d, err := daemon.New(daemon.Options{
		Paths:         paths,
		Settings:      settings,
		SettingsPath:  settingsPath,
		Host:          tray.NewHost(headless, logger),
		Logger:        logger,
		HandleSignals: true,
	})
	if err != nil {
		return err
	}

	if err := d.Listen(); err != nil {
		logger.Error("daemon failed to start", "error", err)
		return err
	}
	d.Run()
	return nil
}

// openDaemonLog returns a logger writing to path. The daemon runs detached,
// so the file is its only output.
func openDaemonLog(path, level string) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open daemon log: %w", err)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, f, nil
}
