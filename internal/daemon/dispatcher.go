package daemon

import (
	"github.com/nanobar-io/nanobar/internal/models"
)

// Dispatcher hands commands from any goroutine to the UI thread.
type Dispatcher struct {
	ctx   *Context
	host  Host
	apply func(h *Handle, cmd models.Command)
}

// NewDispatcher returns a dispatcher that runs apply on host's UI thread.
func NewDispatcher(ctx *Context, host Host, apply func(h *Handle, cmd models.Command)) *Dispatcher {
	return &Dispatcher{ctx: ctx, host: host, apply: apply}
}

// Submit stages cmd, replacing any command not yet drained, and requests a
// drain on the UI thread.
func (d *Dispatcher) Submit(cmd models.Command) {
	d.ctx.stage(cmd)
	d.host.Post(d.drain)
}

// drain runs on the UI thread. A command that arrives before the indicator
// is published is dropped.
func (d *Dispatcher) drain() {
	cmd := d.ctx.take()
	h := d.ctx.current()
	if !h.Valid() || cmd == models.CommandNone {
		return
	}
	d.apply(h, cmd)
}
