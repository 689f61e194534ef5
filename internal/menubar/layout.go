package menubar

import (
	"github.com/nanobar-io/nanobar/internal/models"
)

// expandedWidth is the width above which one of our items counts as an
// expanded pusher.
const expandedWidth = 100

// Markers annotate items in listings.
const (
	MarkerDivider  = "<-- divider"
	MarkerPusher   = "<-- pusher"
	MarkerHidden   = "[hidden]"
	MarkerWillHide = "[will hide]"
)

// Layout interprets a snapshot relative to our own divider.
type Layout struct {
	Items []models.MenuBarItem
	owner string
}

// NewLayout wraps items, which must be sorted by x. owner is the name our
// own status items are listed under.
func NewLayout(items []models.MenuBarItem, owner string) *Layout {
	return &Layout{Items: items, owner: owner}
}

// IsOwn reports whether item belongs to us.
func (l *Layout) IsOwn(item models.MenuBarItem) bool {
	return item.OwnerName == l.owner
}

// Divider returns our rightmost item; the pusher always sits to its left.
func (l *Layout) Divider() (models.MenuBarItem, bool) {
	for i := len(l.Items) - 1; i >= 0; i-- {
		if l.IsOwn(l.Items[i]) {
			return l.Items[i], true
		}
	}
	return models.MenuBarItem{}, false
}

// Expanded reports whether our pusher currently holds items off screen.
func (l *Layout) Expanded() bool {
	for _, item := range l.Items {
		if l.IsOwn(item) && item.Width > expandedWidth {
			return true
		}
	}
	return false
}

// Marker returns the annotation for the item at index i, or "".
func (l *Layout) Marker(i int) string {
	item := l.Items[i]
	divider, ok := l.Divider()
	switch {
	case l.IsOwn(item) && ok && item.WindowID == divider.WindowID:
		return MarkerDivider
	case l.IsOwn(item):
		return MarkerPusher
	case item.X < 0:
		return MarkerHidden
	case ok && !l.Expanded() && item.X < divider.X:
		return MarkerWillHide
	}
	return ""
}

// Split partitions foreign items into those left of the divider, which a
// hide collapses, and those right of it. ok is false without a divider.
func (l *Layout) Split() (hidden, visible []models.MenuBarItem, ok bool) {
	divider, ok := l.Divider()
	if !ok {
		return nil, nil, false
	}
	for _, item := range l.Items {
		if l.IsOwn(item) {
			continue
		}
		switch {
		case item.X < divider.X:
			hidden = append(hidden, item)
		case item.X > divider.X:
			visible = append(visible, item)
		}
	}
	return hidden, visible, true
}
