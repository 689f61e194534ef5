package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// WritePID records pid in the PID file at path.
func WritePID(path string, pid int) error {
	content := strconv.Itoa(pid) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

// ReadPID reads the PID file at path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID format: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID value: %d", pid)
	}
	return pid, nil
}

// RemovePID removes the PID file. A missing file is not an error.
func RemovePID(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// PIDInfo describes the daemon recorded in a PID file.
type PIDInfo struct {
	PID       int
	Alive     bool
	StartedAt time.Time // modification time of the PID file
}

// InspectPID reads the PID file and checks whether the process is alive.
// Returns nil if the file doesn't exist.
func InspectPID(path string) (*PIDInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	pid, err := ReadPID(path)
	if err != nil {
		return nil, err
	}

	info := &PIDInfo{PID: pid, StartedAt: st.ModTime()}

	// Signal 0 checks for existence without delivering anything.
	process, err := os.FindProcess(pid)
	if err == nil {
		info.Alive = process.Signal(syscall.Signal(0)) == nil
	}
	return info, nil
}
