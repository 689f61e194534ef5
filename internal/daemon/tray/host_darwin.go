//go:build darwin

package tray

/*
#cgo LDFLAGS: -framework Cocoa
#include <stdint.h>
#include <stdlib.h>

void nb_post_main(uintptr_t h);
void nb_pusher_create(const char *autosave);
void nb_pusher_set_length(double length);
*/
import "C"

import (
	"log/slog"
	"runtime/cgo"
	"sync/atomic"
	"unsafe"

	"github.com/getlantern/systray"

	"github.com/nanobar-io/nanobar/internal/daemon"
	"github.com/nanobar-io/nanobar/internal/models"
)

func newPlatformHost(logger *slog.Logger) daemon.Host {
	return &statusBarHost{logger: logger}
}

// statusBarHost runs the Cocoa event loop through systray. The systray item
// is the divider; a second status item created in Objective-C is the pusher.
type statusBarHost struct {
	logger *slog.Logger
	sink   atomic.Pointer[func(models.Command)]
}

func (h *statusBarHost) Run(ready func()) {
	systray.Run(func() {
		h.buildMenu()
		go ready()
	}, func() {
		h.logger.Info("status bar loop exited")
	})
}

// Post hands fn to the main dispatch queue.
func (h *statusBarHost) Post(fn func()) {
	C.nb_post_main(C.uintptr_t(cgo.NewHandle(fn)))
}

//export nanobarRunPosted
func nanobarRunPosted(h C.uintptr_t) {
	handle := cgo.Handle(h)
	fn := handle.Value().(func())
	handle.Delete()
	fn()
}

func (h *statusBarHost) NewIndicator(look models.DividerConfig, sink func(models.Command)) (daemon.Indicator, error) {
	h.sink.Store(&sink)

	slot := C.CString(look.PusherSlot)
	defer C.free(unsafe.Pointer(slot))
	C.nb_pusher_create(slot)

	h.logger.Info("status items created", "divider_slot", look.Slot, "pusher_slot", look.PusherSlot)
	return statusBarIndicator{}, nil
}

func (h *statusBarHost) buildMenu() {
	hide := systray.AddMenuItem(menuHide, "Collapse items left of the divider")
	show := systray.AddMenuItem(menuShow, "Reveal hidden items")
	systray.AddSeparator()
	quit := systray.AddMenuItem(menuQuit, "Stop the nanobar daemon")

	go func() {
		for {
			var cmd models.Command
			select {
			case <-hide.ClickedCh:
				cmd = menuCommands[menuHide]
			case <-show.ClickedCh:
				cmd = menuCommands[menuShow]
			case <-quit.ClickedCh:
				cmd = menuCommands[menuQuit]
			}
			if sink := h.sink.Load(); sink != nil {
				(*sink)(cmd)
			}
		}
	}()
}

type statusBarIndicator struct{}

func (statusBarIndicator) SetGlyph(glyph string) {
	systray.SetTitle(glyph)
}

func (statusBarIndicator) SetTooltip(tooltip string) {
	systray.SetTooltip(tooltip)
}

func (statusBarIndicator) SetExtent(extent float64) {
	C.nb_pusher_set_length(C.double(extent))
}
