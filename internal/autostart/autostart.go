// Package autostart registers the daemon as a per-user LaunchAgent.
package autostart

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
)

// Label identifies the agent to launchd.
const Label = "io.nanobar.agent"

var plistTemplate = template.Must(template.New("plist").Funcs(template.FuncMap{
	"xml": xmlEscape,
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{xml .Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{xml .Executable}}</string>
		<string>daemon</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<false/>
	<key>ProcessType</key>
	<string>Interactive</string>
</dict>
</plist>
`))

// Manager installs and removes the LaunchAgent descriptor.
type Manager struct {
	path string
}

// New returns a manager for the current user's LaunchAgents directory.
func New() (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewAt(filepath.Join(home, "Library", "LaunchAgents")), nil
}

// NewAt returns a manager that keeps the descriptor in dir.
func NewAt(dir string) *Manager {
	return &Manager{path: filepath.Join(dir, Label+".plist")}
}

// Path returns the descriptor location.
func (m *Manager) Path() string {
	return m.path
}

// IsInstalled reports whether the descriptor exists.
func (m *Manager) IsInstalled() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Install writes a descriptor that runs exe's daemon at login.
func (m *Manager) Install(exe string) error {
	if !filepath.IsAbs(exe) {
		return fmt.Errorf("executable path must be absolute: %s", exe)
	}

	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, struct{ Label, Executable string }{Label, exe}); err != nil {
		return fmt.Errorf("render launch agent: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create launch agents directory: %w", err)
	}
	if err := os.WriteFile(m.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write launch agent: %w", err)
	}
	return nil
}

// Uninstall removes the descriptor. A missing descriptor is not an error.
func (m *Manager) Uninstall() error {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove launch agent: %w", err)
	}
	return nil
}

func xmlEscape(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
