package tray

import (
	"log/slog"
	"sync"

	"github.com/nanobar-io/nanobar/internal/daemon"
	"github.com/nanobar-io/nanobar/internal/models"
)

const postBacklog = 32

// Headless is a UI host without a screen. Its loop runs on the goroutine
// that calls Run and the indicator only logs what it would draw.
type Headless struct {
	posts    chan func()
	quit     chan struct{}
	quitOnce sync.Once
	logger   *slog.Logger

	mu        sync.Mutex
	indicator *LogIndicator
	sink      func(models.Command)
}

// NewHeadless returns a headless host.
func NewHeadless(logger *slog.Logger) *Headless {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Headless{
		posts:  make(chan func(), postBacklog),
		quit:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes posted work until Quit.
func (h *Headless) Run(ready func()) {
	h.logger.Info("running headless")
	go ready()
	for {
		select {
		case fn := <-h.posts:
			fn()
		case <-h.quit:
			return
		}
	}
}

// Post queues fn for the loop. Work posted after Quit is discarded.
func (h *Headless) Post(fn func()) {
	select {
	case h.posts <- fn:
	case <-h.quit:
	}
}

// Quit stops the loop.
func (h *Headless) Quit() {
	h.quitOnce.Do(func() { close(h.quit) })
}

// NewIndicator returns a logging indicator.
func (h *Headless) NewIndicator(look models.DividerConfig, sink func(models.Command)) (daemon.Indicator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.indicator = &LogIndicator{logger: h.logger}
	h.sink = sink
	return h.indicator, nil
}

// Indicator returns the indicator created by NewIndicator, if any.
func (h *Headless) Indicator() *LogIndicator {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.indicator
}

// Click raises the command bound to a menu title, as a status bar click
// would. Unknown titles are ignored.
func (h *Headless) Click(title string) {
	h.mu.Lock()
	sink := h.sink
	h.mu.Unlock()

	cmd, ok := menuCommands[title]
	if !ok || sink == nil {
		return
	}
	sink(cmd)
}

// LogIndicator records and logs the divider visuals.
type LogIndicator struct {
	logger *slog.Logger

	mu      sync.Mutex
	glyph   string
	tooltip string
	extent  float64
}

func (l *LogIndicator) SetGlyph(glyph string) {
	l.mu.Lock()
	l.glyph = glyph
	l.mu.Unlock()
	l.logger.Info("divider glyph", "glyph", glyph)
}

func (l *LogIndicator) SetTooltip(tooltip string) {
	l.mu.Lock()
	l.tooltip = tooltip
	l.mu.Unlock()
}

func (l *LogIndicator) SetExtent(extent float64) {
	l.mu.Lock()
	l.extent = extent
	l.mu.Unlock()
	l.logger.Info("pusher length", "length", extent)
}

// State returns what the indicator currently shows.
func (l *LogIndicator) State() (glyph, tooltip string, extent float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.glyph, l.tooltip, l.extent
}
