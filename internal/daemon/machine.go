package daemon

import (
	"log/slog"

	"github.com/nanobar-io/nanobar/internal/models"
)

// machine applies commands to the indicator. UI thread only.
type machine struct {
	ctx    *Context
	look   func() models.DividerConfig
	stop   func()
	logger *slog.Logger
}

func (m *machine) apply(h *Handle, cmd models.Command) {
	look := m.look()
	switch cmd {
	case models.CommandHide:
		m.render(h, look, models.Hidden)
		m.ctx.setVisibility(models.Hidden)
	case models.CommandShow:
		m.render(h, look, models.Visible)
		m.ctx.setVisibility(models.Visible)
	case models.CommandStop:
		h.indicator.SetExtent(0)
		m.ctx.setVisibility(models.Visible)
		m.stop()
		return
	default:
		return
	}
	m.logger.Debug("command applied", "command", cmd.String(), "state", m.ctx.Visibility().String())
}

// render sets the visuals for v. Applying it twice is harmless.
func (m *machine) render(h *Handle, look models.DividerConfig, v models.Visibility) {
	if v == models.Hidden {
		h.indicator.SetExtent(look.HiddenExtent)
		h.indicator.SetGlyph(look.HiddenGlyph)
		return
	}
	h.indicator.SetExtent(0)
	h.indicator.SetGlyph(look.VisibleGlyph)
}
