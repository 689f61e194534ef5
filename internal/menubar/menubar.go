// Package menubar enumerates the status items on the macOS menu bar.
package menubar

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"slices"
	"time"

	"github.com/nanobar-io/nanobar/internal/models"
)

// statusItemLayer is the CoreGraphics window layer of menu bar status items.
const statusItemLayer = 25

const defaultTimeout = 5 * time.Second

// windowListScript dumps every window, on screen or not, so items pushed off
// the left edge are listed too.
const windowListScript = `ObjC.import('CoreGraphics');
var windows = ObjC.deepUnwrap(ObjC.castRefToObject($.CGWindowListCopyWindowInfo(0, 0))) || [];
JSON.stringify(windows.map(function (w) {
  var b = w.kCGWindowBounds || {};
  return {
    layer: w.kCGWindowLayer || 0,
    id: w.kCGWindowNumber || 0,
    owner: w.kCGWindowOwnerName || "",
    pid: w.kCGWindowOwnerPID || 0,
    x: b.X || 0,
    width: b.Width || 0
  };
}));`

// Executor abstracts command execution for the lister.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
}

// Lister reads the window list through osascript.
type Lister struct {
	exec    Executor
	timeout time.Duration
}

// NewLister returns a lister backed by os/exec.
func NewLister() *Lister {
	return NewListerWithExecutor(nil)
}

// NewListerWithExecutor allows injecting a custom executor for testing.
func NewListerWithExecutor(e Executor) *Lister {
	if e == nil {
		e = commandExecutor{}
	}
	return &Lister{exec: e, timeout: defaultTimeout}
}

// List returns the current status items ordered left to right.
func (l *Lister) List(ctx context.Context) ([]models.MenuBarItem, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	out, err := l.exec.Run(ctx, "osascript", []string{"-l", "JavaScript", "-e", windowListScript})
	if err != nil {
		return nil, fmt.Errorf("read window list: %w", err)
	}
	return Parse(out)
}

type windowInfo struct {
	Layer int     `json:"layer"`
	ID    uint32  `json:"id"`
	Owner string  `json:"owner"`
	PID   int     `json:"pid"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

// Parse decodes the window list, keeps status items, and sorts them by x.
// Items at x == 0 are detached; items at negative x were pushed off screen
// and are kept.
func Parse(data []byte) ([]models.MenuBarItem, error) {
	var windows []windowInfo
	if err := json.Unmarshal(data, &windows); err != nil {
		return nil, fmt.Errorf("parse window list: %w", err)
	}

	items := make([]models.MenuBarItem, 0, len(windows))
	for _, w := range windows {
		if w.Layer != statusItemLayer || w.X == 0 {
			continue
		}
		items = append(items, models.MenuBarItem{
			WindowID:  w.ID,
			OwnerName: w.Owner,
			OwnerPID:  w.PID,
			X:         w.X,
			Width:     w.Width,
		})
	}
	slices.SortStableFunc(items, func(a, b models.MenuBarItem) int {
		return cmp.Compare(a.X, b.X)
	})
	return items, nil
}
