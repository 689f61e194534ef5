package models

// MenuBarItem is one status-area element from a window list snapshot.
type MenuBarItem struct {
	WindowID  uint32
	OwnerName string
	OwnerPID  int
	X         float64
	Width     float64
}

// Right returns the x coordinate of the item's right edge.
func (i MenuBarItem) Right() float64 {
	return i.X + i.Width
}
