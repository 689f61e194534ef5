// Package cli implements the nanobar CLI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nanobar-io/nanobar/internal/config"
	"github.com/nanobar-io/nanobar/internal/daemonctl"
	"github.com/nanobar-io/nanobar/internal/models"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nanobar",
	Short: "macOS menu bar manager",
	Long: `nanobar adds a divider to the macOS menu bar. Items left of the
divider can be hidden and shown again from the command line.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// FormatError renders err the way every failing command reports it.
func FormatError(err error) string {
	return styleError.Render("error:") + " " + err.Error()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(autostartCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what client commands share.
type env struct {
	settings *models.Settings
	paths    config.Paths
	logger   *slog.Logger
	ctl      *daemonctl.Controller
}

func newEnv() (*env, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	paths := config.RuntimePaths()
	return &env{
		settings: settings,
		paths:    paths,
		logger:   logger,
		ctl:      daemonctl.New(paths, settings, nil),
	}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
