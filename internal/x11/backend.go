package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/stagehand/internal/wm"
)

// Backend serves window snapshots and mutations over a live X connection.
// It is interchangeable with the wmctrl client: handles print the same
// way and relocation takes the same 1-based workspace numbers.
type Backend struct {
	conn *Connection
}

// Connect opens the X display. A failure reports wm.ErrUnavailable so
// callers can treat a missing display like a missing tool.
func Connect() (*Backend, error) {
	conn, err := NewConnection()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wm.ErrUnavailable, err)
	}
	return &Backend{conn: conn}, nil
}

// Close releases the X connection.
func (b *Backend) Close() {
	b.conn.Close()
}

// ListWindows reads the EWMH client list. Window order follows
// _NET_CLIENT_LIST, which is also the order wmctrl prints, so correlation
// scans both backends the same way.
func (b *Backend) ListWindows() (wm.Snapshot, error) {
	clients, err := ewmh.ClientListGet(b.conn.XUtil)
	if err != nil {
		return wm.Snapshot{}, fmt.Errorf("failed to get client list: %w", err)
	}

	windows := make([]wm.Window, 0, len(clients))
	for _, windowID := range clients {
		// A window whose desktop cannot be read stays in the snapshot;
		// correlation matches on pid and title, not placement.
		desktop := 0
		if d, err := b.conn.windowDesktop(uint32(windowID)); err == nil {
			desktop = d
		}

		pid := 0
		if p, err := ewmh.WmPidGet(b.conn.XUtil, windowID); err == nil {
			pid = int(p)
		}

		windows = append(windows, wm.Window{
			Handle:  wm.Handle(fmt.Sprintf("0x%08x", uint32(windowID))),
			Desktop: desktop,
			PID:     pid,
			Title:   b.windowTitle(windowID),
		})
	}

	return wm.Snapshot{Windows: windows}, nil
}

// Rename sets the EWMH window name.
func (b *Backend) Rename(h wm.Handle, title string) error {
	windowID, err := parseHandle(h)
	if err != nil {
		return err
	}
	if err := ewmh.WmNameSet(b.conn.XUtil, xproto.Window(windowID), title); err != nil {
		return fmt.Errorf("failed to rename window %s: %w", h, err)
	}
	return nil
}

// Relocate moves a window to a workspace. The workspace is 1-based as the
// desktop shows it; the X desktop index is one lower.
func (b *Backend) Relocate(h wm.Handle, workspace int) error {
	if workspace < 1 {
		return fmt.Errorf("workspace %d is out of range (numbering starts at 1)", workspace)
	}
	windowID, err := parseHandle(h)
	if err != nil {
		return err
	}
	if err := b.conn.moveToDesktop(windowID, workspace-1); err != nil {
		return fmt.Errorf("failed to move window %s: %w", h, err)
	}
	return nil
}

func (b *Backend) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(b.conn.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(b.conn.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return ""
}

func parseHandle(h wm.Handle) (uint32, error) {
	s := strings.TrimPrefix(string(h), "0x")
	id, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed window handle %q", h)
	}
	return uint32(id), nil
}
