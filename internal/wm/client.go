package wm

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnavailable is returned when the window manager tool is not installed.
var ErrUnavailable = errors.New("wmctrl is not available in PATH")

// ErrMalformedOutput is returned when the tool's window list cannot be parsed.
var ErrMalformedOutput = errors.New("malformed window list output")

// Client talks to a wmctrl-compatible window manager tool. Queries go
// through the list-with-pid command; mutations are keyed by window
// handle and their success is not verified.
type Client struct {
	path string
}

// NewClient creates a client for the given tool path ("wmctrl" when empty).
func NewClient(path string) *Client {
	if strings.TrimSpace(path) == "" {
		path = "wmctrl"
	}
	return &Client{path: path}
}

// Available returns true if the tool is installed.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.path)
	return err == nil
}

func (c *Client) invoke(args ...string) ([]byte, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}
	out, err := exec.Command(c.path, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
				return nil, fmt.Errorf("%w (%s)", err, msg)
			}
		}
		return nil, err
	}
	return out, nil
}

// ListWindows queries the tool for all currently open windows. There is
// no caching: every call reflects the tool's current output exactly.
// Partial results are never returned; a single bad row fails the whole
// snapshot.
func (c *Client) ListWindows() (Snapshot, error) {
	out, err := c.invoke("-l", "-p")
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s -l -p failed: %w", c.path, err)
	}
	return parseWindowList(out)
}

// parseWindowList decodes the tool's list-with-pid rows. Each row has at
// least 5 whitespace-separated columns: handle, desktop, pid, host, and
// the title tokens. Shorter rows are a contract violation of the tool.
func parseWindowList(out []byte) (Snapshot, error) {
	var snap Snapshot
	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return Snapshot{}, fmt.Errorf("window list line %d: %q: %w", i+1, line, ErrMalformedOutput)
		}
		desktop, err := strconv.Atoi(fields[1])
		if err != nil {
			return Snapshot{}, fmt.Errorf("window list line %d: bad desktop %q: %w", i+1, fields[1], ErrMalformedOutput)
		}
		pid, err := strconv.Atoi(fields[2])
		if err != nil {
			return Snapshot{}, fmt.Errorf("window list line %d: bad pid %q: %w", i+1, fields[2], ErrMalformedOutput)
		}
		snap.Windows = append(snap.Windows, Window{
			Handle:  Handle(fields[0]),
			Desktop: desktop,
			PID:     pid,
			Title:   strings.Join(fields[4:], " "),
		})
	}
	return snap, nil
}

// Rename sets the window title. Fire and forget: if the handle is gone
// the tool fails silently and that is fine.
func (c *Client) Rename(h Handle, title string) error {
	if _, err := c.invoke("-i", "-r", string(h), "-T", title); err != nil {
		return fmt.Errorf("%s rename %s failed: %w", c.path, h, err)
	}
	return nil
}

// Relocate moves the window to a workspace. The caller passes the
// user-facing 1-based workspace number; the window manager indexes
// desktops from 0, so the translation happens here and nowhere else.
func (c *Client) Relocate(h Handle, workspace int) error {
	if workspace < 1 {
		return fmt.Errorf("workspace %d is out of range (numbering starts at 1)", workspace)
	}
	if _, err := c.invoke("-i", "-r", string(h), "-t", strconv.Itoa(workspace-1)); err != nil {
		return fmt.Errorf("%s relocate %s failed: %w", c.path, h, err)
	}
	return nil
}
