package daemon

import (
	"sync/atomic"

	"github.com/nanobar-io/nanobar/internal/models"
)

// Host is the UI-owning execution context.
type Host interface {
	// Run blocks the calling goroutine, which must be the main goroutine
	// locked to the main thread, running the UI loop. ready is invoked once,
	// off the UI thread, when Post becomes usable.
	Run(ready func())
	// Post schedules fn to run on the UI thread. It never blocks on fn.
	Post(fn func())
	// NewIndicator creates the divider and pusher. UI thread only.
	// sink receives commands raised by in-process UI events; it may be
	// called from any goroutine.
	NewIndicator(look models.DividerConfig, sink func(models.Command)) (Indicator, error)
}

// Indicator is the on-screen divider and its pusher. Every method must be
// called on the UI thread.
type Indicator interface {
	SetGlyph(glyph string)
	SetTooltip(tooltip string)
	// SetExtent sets the pusher length; 0 collapses it.
	SetExtent(extent float64)
}

// Handle owns the live indicator. It is created and dereferenced only on
// the UI thread; other goroutines never see it.
type Handle struct {
	indicator Indicator
}

func newHandle(ind Indicator) *Handle {
	if ind == nil {
		return nil
	}
	return &Handle{indicator: ind}
}

// Valid reports whether the handle wraps a live indicator.
func (h *Handle) Valid() bool {
	return h != nil && h.indicator != nil
}

// Context is the process-wide daemon state.
//
// Thread affinity:
//   - pending: any goroutine, atomic read-modify-write only.
//   - visibility: written on the UI thread, read anywhere.
//   - handle: published once on the UI thread, loaded only on the UI thread.
type Context struct {
	pending    atomic.Int32
	visibility atomic.Int32
	handle     atomic.Pointer[Handle]
}

// stage overwrites the pending slot with cmd.
func (c *Context) stage(cmd models.Command) {
	c.pending.Store(int32(cmd))
}

// take empties the pending slot and returns what it held.
func (c *Context) take() models.Command {
	return models.Command(c.pending.Swap(int32(models.CommandNone)))
}

// Visibility returns the current divider state.
func (c *Context) Visibility() models.Visibility {
	return models.Visibility(c.visibility.Load())
}

func (c *Context) setVisibility(v models.Visibility) {
	c.visibility.Store(int32(v))
}

func (c *Context) publish(h *Handle) {
	c.handle.Store(h)
}

func (c *Context) current() *Handle {
	return c.handle.Load()
}
