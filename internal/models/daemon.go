package models

import (
	"strings"
)

// Command is a request for the daemon's UI thread. The zero value is None.
type Command int32

// Commands carried by the pending slot.
const (
	CommandNone Command = iota
	CommandHide
	CommandShow
	CommandStop
)

// String returns the wire word for the command.
func (c Command) String() string {
	switch c {
	case CommandHide:
		return "hide"
	case CommandShow:
		return "show"
	case CommandStop:
		return "stop"
	default:
		return "none"
	}
}

// ParseCommand maps a wire word to a mutating command.
// Only hide, show and stop are mutating; everything else reports false.
func ParseCommand(s string) (Command, bool) {
	switch strings.TrimSpace(s) {
	case "hide":
		return CommandHide, true
	case "show":
		return CommandShow, true
	case "stop":
		return CommandStop, true
	default:
		return CommandNone, false
	}
}

// Visibility is the divider state as seen by clients.
type Visibility int32

// Visibility states. The zero value is Visible.
const (
	Visible Visibility = iota
	Hidden
)

// String returns "visible" or "hidden".
func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}
