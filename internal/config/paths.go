// Package config handles configuration loading and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the per-user nanobar directory.
	GlobalDirName = ".nanobar"

	// SettingsFileName is the settings file inside the global directory.
	SettingsFileName = "settings.yaml"
)

// Runtime file names, all placed in the system temp directory.
const (
	SocketFileName = "nanobar.sock"
	PIDFileName    = "nanobar.pid"
	LockFileName   = "nanobar.lock"
	LogFileName    = "nanobar.log"
)

// Paths locates the files a daemon instance owns.
type Paths struct {
	Socket string
	PID    string
	Lock   string
	Log    string
}

// RuntimePaths returns the runtime paths under os.TempDir().
func RuntimePaths() Paths {
	return RuntimePathsIn(os.TempDir())
}

// RuntimePathsIn returns the runtime paths under dir.
func RuntimePathsIn(dir string) Paths {
	return Paths{
		Socket: filepath.Join(dir, SocketFileName),
		PID:    filepath.Join(dir, PIDFileName),
		Lock:   filepath.Join(dir, LockFileName),
		Log:    filepath.Join(dir, LogFileName),
	}
}

// GlobalDir returns the path to the global nanobar directory (~/.nanobar/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}
