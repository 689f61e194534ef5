package daemon

import (
	"errors"
	"sync"

	"github.com/nanobar-io/nanobar/internal/models"
)

type fakeIndicator struct {
	mu      sync.Mutex
	glyph   string
	tooltip string
	extent  float64
	calls   []string
}

func (f *fakeIndicator) SetGlyph(glyph string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.glyph = glyph
	f.calls = append(f.calls, "glyph:"+glyph)
}

func (f *fakeIndicator) SetTooltip(tooltip string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tooltip = tooltip
}

func (f *fakeIndicator) SetExtent(extent float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extent = extent
}

func (f *fakeIndicator) snapshot() (glyph string, extent float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.glyph, f.extent
}

func (f *fakeIndicator) glyphCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// manualHost queues posted work until the test drains it.
type manualHost struct {
	mu        sync.Mutex
	queue     []func()
	indicator *fakeIndicator
}

func (h *manualHost) Run(ready func()) { ready() }

func (h *manualHost) Post(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, fn)
}

func (h *manualHost) NewIndicator(models.DividerConfig, func(models.Command)) (Indicator, error) {
	if h.indicator == nil {
		h.indicator = &fakeIndicator{}
	}
	return h.indicator, nil
}

func (h *manualHost) pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// runAll drains the queue, including work posted while draining.
func (h *manualHost) runAll() {
	for {
		h.mu.Lock()
		if len(h.queue) == 0 {
			h.mu.Unlock()
			return
		}
		fn := h.queue[0]
		h.queue = h.queue[1:]
		h.mu.Unlock()
		fn()
	}
}

// loopHost runs posted work on a dedicated goroutine until quit.
type loopHost struct {
	posts     chan func()
	quit      chan struct{}
	quitOnce  sync.Once
	indicator *fakeIndicator
	failNew   bool

	mu   sync.Mutex
	sink func(models.Command)
}

func newLoopHost() *loopHost {
	return &loopHost{
		posts:     make(chan func(), 64),
		quit:      make(chan struct{}),
		indicator: &fakeIndicator{},
	}
}

func (h *loopHost) Run(ready func()) {
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

func (h *loopHost) Post(fn func()) {
	select {
	case h.posts <- fn:
	case <-h.quit:
	}
}

func (h *loopHost) NewIndicator(_ models.DividerConfig, sink func(models.Command)) (Indicator, error) {
	if h.failNew {
		return nil, errors.New("no status bar")
	}
	h.mu.Lock()
	h.sink = sink
	h.mu.Unlock()
	return h.indicator, nil
}

// click raises cmd the way a tray menu item would.
func (h *loopHost) click(cmd models.Command) {
	h.mu.Lock()
	sink := h.sink
	h.mu.Unlock()
	sink(cmd)
}

func (h *loopHost) stop() {
	h.quitOnce.Do(func() { close(h.quit) })
}
