// Package wm defines the window records stagehand works with and the
// wmctrl-backed client that queries and mutates them.
package wm

// Handle is an opaque window id as printed by the window manager tool
// (e.g. "0x03a00007"). Handles are unique among currently open windows
// and are never reused within a single run.
type Handle string

// Window is one row of a window snapshot. A later state of the same
// window is a new Window with the same Handle; records are never
// mutated in place.
type Window struct {
	Handle  Handle
	Desktop int // 0-based window manager index; -1 for sticky windows
	PID     int
	Title   string
}

// Snapshot is the full list of windows open at one instant, in the
// order the tool reported them. That order is significant: correlation
// scans it front to back, so the first match wins ties.
type Snapshot struct {
	Windows []Window
}

// Handles projects the snapshot to its handle set. Snapshots taken at
// different instants are compared only through this set, never by
// record content, since titles and desktops legitimately change.
func (s Snapshot) Handles() map[Handle]struct{} {
	set := make(map[Handle]struct{}, len(s.Windows))
	for _, w := range s.Windows {
		set[w.Handle] = struct{}{}
	}
	return set
}
