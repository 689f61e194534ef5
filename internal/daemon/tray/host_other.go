//go:build !darwin

package tray

import (
	"log/slog"
	"runtime"

	"github.com/nanobar-io/nanobar/internal/daemon"
)

func newPlatformHost(logger *slog.Logger) daemon.Host {
	logger.Warn("no status bar on this platform, running headless", "os", runtime.GOOS)
	return NewHeadless(logger)
}
