// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"os"
	"testing"
	"time"

	"github.com/nanobar-io/nanobar/internal/config"
	"github.com/nanobar-io/nanobar/internal/models"
)

// ShortTempDir returns a fresh directory whose path is short enough for a
// unix socket (t.TempDir paths exceed sun_path on macOS).
func ShortTempDir(t testing.TB) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "nb")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

// RuntimePaths returns daemon runtime paths inside a fresh short directory.
func RuntimePaths(t testing.TB) config.Paths {
	t.Helper()
	return config.RuntimePathsIn(ShortTempDir(t))
}

// SettingsOption customizes test settings.
type SettingsOption func(*models.Settings)

// NewSettings returns default settings with test-friendly timings applied
// before opts.
func NewSettings(opts ...SettingsOption) *models.Settings {
	s := models.NewSettings()
	s.Positioning.SettleDelay = 0
	s.Client.StartupAttempts = 20
	s.Client.StartupInterval = 10 * time.Millisecond
	s.Daemon.ReadTimeout = 500 * time.Millisecond
	for _, opt := range opts {
		opt(s)
	}
	return s
}
