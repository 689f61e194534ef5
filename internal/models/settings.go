package models

import "time"

// DividerConfig holds the look of the divider and pusher items.
type DividerConfig struct {
	VisibleGlyph string  `yaml:"visible_glyph"`
	HiddenGlyph  string  `yaml:"hidden_glyph"`
	HiddenExtent float64 `yaml:"hidden_extent"` // pusher length while hidden
	Tooltip      string  `yaml:"tooltip"`
	Slot         string  `yaml:"slot"`        // autosave name of the divider
	PusherSlot   string  `yaml:"pusher_slot"` // autosave name of the pusher
}

// PositioningConfig holds the divider placement parameters.
type PositioningConfig struct {
	Domain       string        `yaml:"domain"`     // defaults domain nanobar persists under
	OwnerName    string        `yaml:"owner_name"` // window owner name of our own items
	Margin       float64       `yaml:"margin"`
	Minimum      float64       `yaml:"minimum"`
	PusherOffset float64       `yaml:"pusher_offset"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
}

// ClientConfig holds the CLI side timeouts.
type ClientConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	StartupAttempts int           `yaml:"startup_attempts"`
	StartupInterval time.Duration `yaml:"startup_interval"`
}

// DaemonConfig holds daemon process settings.
type DaemonConfig struct {
	ReadTimeout time.Duration `yaml:"read_timeout"`
	LogLevel    string        `yaml:"log_level"` // "debug" | "info" | "warn" | "error"
}

// Settings represents global application settings.
// This corresponds to ~/.nanobar/settings.yaml.
type Settings struct {
	Version     int               `yaml:"version"`
	Divider     DividerConfig     `yaml:"divider"`
	Positioning PositioningConfig `yaml:"positioning"`
	Client      ClientConfig      `yaml:"client"`
	Daemon      DaemonConfig      `yaml:"daemon"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Divider: DividerConfig{
			VisibleGlyph: "|",
			HiddenGlyph:  "",
			HiddenExtent: 10000,
			Tooltip:      "nanobar",
			Slot:         "Item-0",
			PusherSlot:   "Item-1",
		},
		Positioning: PositioningConfig{
			Domain:       "nanobar",
			OwnerName:    "nanobar",
			Margin:       20,
			Minimum:      1,
			PusherOffset: 1,
			SettleDelay:  300 * time.Millisecond,
		},
		Client: ClientConfig{
			Timeout:         2 * time.Second,
			StartupAttempts: 50,
			StartupInterval: 100 * time.Millisecond,
		},
		Daemon: DaemonConfig{
			ReadTimeout: time.Second,
			LogLevel:    "info",
		},
	}
}

// PositionKey returns the preference key holding the saved position of slot.
func PositionKey(slot string) string {
	return "NSStatusItem Preferred Position " + slot
}
