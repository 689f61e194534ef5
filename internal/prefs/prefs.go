// Package prefs reads and writes macOS user defaults and resolves bundle
// identifiers for running processes.
package prefs

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Executor abstracts command execution for the store.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
}

// Defaults is the `defaults` database.
type Defaults struct {
	exec    Executor
	timeout time.Duration
}

// NewDefaults returns a store backed by the defaults and lsappinfo tools.
func NewDefaults() *Defaults {
	return NewDefaultsWithExecutor(nil)
}

// NewDefaultsWithExecutor allows injecting a custom executor for testing.
func NewDefaultsWithExecutor(e Executor) *Defaults {
	if e == nil {
		e = commandExecutor{}
	}
	return &Defaults{exec: e, timeout: defaultTimeout}
}

func (d *Defaults) run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.exec.Run(ctx, binary, args)
}

// ReadFloat returns the float stored under key in domain. ok is false when
// the key is absent or does not hold a number.
func (d *Defaults) ReadFloat(ctx context.Context, domain, key string) (value float64, ok bool) {
	out, err := d.run(ctx, "defaults", "read", domain, key)
	if err != nil {
		return 0, false
	}
	value, err = strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// WriteFloat stores value under key in domain.
func (d *Defaults) WriteFloat(ctx context.Context, domain, key string, value float64) error {
	formatted := strconv.FormatFloat(value, 'f', 1, 64)
	if _, err := d.run(ctx, "defaults", "write", domain, key, "-float", formatted); err != nil {
		return fmt.Errorf("defaults write %s %q: %w", domain, key, err)
	}
	return nil
}

// BundleID returns the bundle identifier of the app running as pid.
func (d *Defaults) BundleID(ctx context.Context, pid int) (string, bool) {
	out, err := d.run(ctx, "lsappinfo", "info", "-only", "bundleid", strconv.Itoa(pid))
	if err != nil {
		return "", false
	}
	return ParseBundleID(string(out))
}

// ParseBundleID extracts the value from lsappinfo output of the form
// `"CFBundleIdentifier"="com.example.App"`.
func ParseBundleID(output string) (string, bool) {
	parts := strings.Split(output, `"`)
	if len(parts) < 4 || parts[3] == "" {
		return "", false
	}
	return parts[3], true
}
