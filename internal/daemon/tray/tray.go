// Package tray provides the UI hosts the daemon runs on: the macOS status
// bar and a headless loop for other platforms and development.
package tray

import (
	"log/slog"

	"github.com/nanobar-io/nanobar/internal/daemon"
	"github.com/nanobar-io/nanobar/internal/models"
)

// Menu item titles shared by every host that shows a menu.
const (
	menuHide = "Hide items"
	menuShow = "Show items"
	menuQuit = "Quit nanobar"
)

// menuCommands maps menu titles to the commands they raise.
var menuCommands = map[string]models.Command{
	menuHide: models.CommandHide,
	menuShow: models.CommandShow,
	menuQuit: models.CommandStop,
}

// NewHost returns the status bar host, or a headless one when asked or when
// the platform has no status bar.
func NewHost(headless bool, logger *slog.Logger) daemon.Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "tray")
	if headless {
		return NewHeadless(logger)
	}
	return newPlatformHost(logger)
}
