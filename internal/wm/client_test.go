//go:build !windows

package wm

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupStubWmctrl(t *testing.T) (stubDir string, logPath string) {
	t.Helper()

	dir := t.TempDir()
	wmctrlPath := filepath.Join(dir, "wmctrl")
	logPath = filepath.Join(dir, "wmctrl.log")

	script := `#!/bin/sh
set -eu

if [ -n "${WMCTRL_STUB_LOG:-}" ]; then
  printf '%s\n' "$*" >> "${WMCTRL_STUB_LOG}"
fi

if [ -n "${WMCTRL_STUB_EXIT:-}" ]; then
  if [ -n "${WMCTRL_STUB_STDERR:-}" ]; then
    printf '%s\n' "${WMCTRL_STUB_STDERR}" 1>&2
  fi
  exit "${WMCTRL_STUB_EXIT}"
fi

case "${1:-}" in
  -l)
    if [ -n "${WMCTRL_STUB_LIST:-}" ]; then
      printf '%s' "${WMCTRL_STUB_LIST}"
    fi
    ;;
esac
exit 0
`
	if err := os.WriteFile(wmctrlPath, []byte(script), 0o755); err != nil {
		t.Fatalf("write wmctrl stub: %v", err)
	}

	t.Setenv("PATH", dir)
	t.Setenv("WMCTRL_STUB_LOG", logPath)
	t.Setenv("WMCTRL_STUB_LIST", "")
	t.Setenv("WMCTRL_STUB_EXIT", "")
	t.Setenv("WMCTRL_STUB_STDERR", "")

	return dir, logPath
}

func setupNoWmctrl(t *testing.T) {
	t.Helper()
	t.Setenv("PATH", t.TempDir())
}

func readStubLog(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		t.Fatalf("read log: %v", err)
	}
	out := strings.TrimSpace(string(data))
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestClientAvailable(t *testing.T) {
	cases := []struct {
		name     string
		withStub bool
		want     bool
	}{
		{name: "missing", withStub: false, want: false},
		{name: "present", withStub: true, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.withStub {
				setupStubWmctrl(t)
			} else {
				setupNoWmctrl(t)
			}
			if got := NewClient("").Available(); got != tc.want {
				t.Fatalf("Available()=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestListWindows(t *testing.T) {
	list := "0x03a00007  0 1301 host xterm\n" +
		"0x04000003 -1 1422 host Mozilla Firefox\n" +
		"0x04a00011  2 1500 host TeXstudio 4.7.2 main.tex\n"

	setupStubWmctrl(t)
	t.Setenv("WMCTRL_STUB_LIST", list)

	snap, err := NewClient("").ListWindows()
	if err != nil {
		t.Fatalf("ListWindows() err=%v", err)
	}

	want := []Window{
		{Handle: "0x03a00007", Desktop: 0, PID: 1301, Title: "xterm"},
		{Handle: "0x04000003", Desktop: -1, PID: 1422, Title: "Mozilla Firefox"},
		{Handle: "0x04a00011", Desktop: 2, PID: 1500, Title: "TeXstudio 4.7.2 main.tex"},
	}
	if len(snap.Windows) != len(want) {
		t.Fatalf("ListWindows()=%d windows, want %d", len(snap.Windows), len(want))
	}
	for i, w := range want {
		if snap.Windows[i] != w {
			t.Errorf("window[%d]=%+v, want %+v", i, snap.Windows[i], w)
		}
	}

	handles := snap.Handles()
	if len(handles) != 3 {
		t.Fatalf("Handles()=%d entries, want 3", len(handles))
	}
	if _, ok := handles["0x04000003"]; !ok {
		t.Errorf("Handles() missing 0x04000003")
	}
}

func TestListWindowsToolMissing(t *testing.T) {
	setupNoWmctrl(t)

	_, err := NewClient("").ListWindows()
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ListWindows() err=%v, want %v", err, ErrUnavailable)
	}
}

func TestListWindowsToolFailure(t *testing.T) {
	setupStubWmctrl(t)
	t.Setenv("WMCTRL_STUB_EXIT", "1")
	t.Setenv("WMCTRL_STUB_STDERR", "Cannot open display")

	_, err := NewClient("").ListWindows()
	if err == nil {
		t.Fatal("ListWindows() err=nil, want error")
	}
	if !strings.Contains(err.Error(), "Cannot open display") {
		t.Fatalf("ListWindows() err=%v, want stderr detail", err)
	}
}

func TestParseWindowList(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "empty output", in: "", want: 0},
		{name: "blank lines skipped", in: "\n\n0x01 0 10 host title\n\n", want: 1},
		{name: "short row", in: "0x01 0 10 host\n", wantErr: true},
		{name: "bad desktop", in: "0x01 x 10 host title\n", wantErr: true},
		{name: "bad pid", in: "0x01 0 pid host title\n", wantErr: true},
		{name: "multiword title", in: "0x01 0 10 host a b c\n", want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := parseWindowList([]byte(tc.in))
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseWindowList(%q) err=%v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedOutput) {
					t.Fatalf("parseWindowList(%q) err=%v, want %v", tc.in, err, ErrMalformedOutput)
				}
				return
			}
			if len(snap.Windows) != tc.want {
				t.Fatalf("parseWindowList(%q)=%d windows, want %d", tc.in, len(snap.Windows), tc.want)
			}
		})
	}
}

func TestRename(t *testing.T) {
	_, logPath := setupStubWmctrl(t)

	if err := NewClient("").Rename("0x03a00007", "work-shell"); err != nil {
		t.Fatalf("Rename() err=%v", err)
	}

	lines := readStubLog(t, logPath)
	if len(lines) != 1 {
		t.Fatalf("wmctrl log lines=%d, want 1 (%v)", len(lines), lines)
	}
	if want := "-i -r 0x03a00007 -T work-shell"; lines[0] != want {
		t.Fatalf("wmctrl log[0]=%q, want %q", lines[0], want)
	}
}

func TestRelocateTranslatesWorkspace(t *testing.T) {
	cases := []struct {
		name      string
		workspace int
		wantArgs  string
		wantErr   bool
	}{
		{name: "workspace 1 is index 0", workspace: 1, wantArgs: "-i -r 0x01 -t 0"},
		{name: "workspace 4 is index 3", workspace: 4, wantArgs: "-i -r 0x01 -t 3"},
		{name: "workspace 0 rejected", workspace: 0, wantErr: true},
		{name: "negative rejected", workspace: -2, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, logPath := setupStubWmctrl(t)

			err := NewClient("").Relocate("0x01", tc.workspace)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Relocate(0x01, %d) err=%v, wantErr %v", tc.workspace, err, tc.wantErr)
			}

			lines := readStubLog(t, logPath)
			if tc.wantErr {
				if len(lines) != 0 {
					t.Fatalf("Relocate should not invoke the tool on bad input, got %v", lines)
				}
				return
			}
			if len(lines) != 1 || lines[0] != tc.wantArgs {
				t.Fatalf("wmctrl log=%v, want [%q]", lines, tc.wantArgs)
			}
		})
	}
}
