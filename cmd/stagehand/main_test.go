package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/stagehand/internal/session"
	"github.com/1broseidon/stagehand/internal/wm"
)

func writePlan(t *testing.T, home, name, content string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "stagehand", "sessions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunSessionShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writePlan(t, home, "writing", "steps:\n  - kind: terminal\n    workspace: 2\n")

	if rc := runSession([]string{"show", "writing"}); rc != 0 {
		t.Fatalf("session show rc=%d, want 0", rc)
	}
	if rc := runSession([]string{"show", "missing"}); rc != 1 {
		t.Fatalf("session show for a missing plan rc=%d, want 1", rc)
	}
	if rc := runSession([]string{"show"}); rc != 2 {
		t.Fatalf("session show without a name rc=%d, want 2", rc)
	}
}

func TestRunSessionList(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writePlan(t, home, "analysis", "steps:\n  - kind: editor\n    workspace: 1\n")

	if rc := runSession([]string{"list"}); rc != 0 {
		t.Fatalf("session list rc=%d, want 0", rc)
	}
	if rc := runSession([]string{"bogus"}); rc != 2 {
		t.Fatalf("unknown session command rc=%d, want 2", rc)
	}
}

func TestRunConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if rc := runConfig([]string{"print", "-defaults"}); rc != 0 {
		t.Fatalf("config print -defaults rc=%d, want 0", rc)
	}
	if rc := runConfig([]string{"validate"}); rc != 0 {
		t.Fatalf("config validate rc=%d, want 0 with no config file", rc)
	}

	cfgDir := filepath.Join(home, ".config", "stagehand")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	bad := "poll:\n  attempts: 0\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	if rc := runConfig([]string{"validate"}); rc != 1 {
		t.Fatalf("config validate rc=%d, want 1 for zero poll attempts", rc)
	}
}

func TestRunHistoryWithNoLog(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if rc := runHistory(nil); rc != 0 {
		t.Fatalf("history rc=%d, want 0 when the log does not exist", rc)
	}
	if rc := runHistory([]string{"extra"}); rc != 2 {
		t.Fatalf("history with a positional argument rc=%d, want 2", rc)
	}
}

func TestWindowRow(t *testing.T) {
	w := wm.Window{
		Handle:  "0x03a00007",
		Desktop: 1,
		PID:     4242,
		Title:   "a very long window title that does not fit in a narrow terminal",
	}

	row := windowRow(w, 40)
	if got := len([]rune(row)); got > 40 {
		t.Fatalf("row length = %d, want <= 40: %q", got, row)
	}
	if !strings.HasPrefix(row, "0x03a00007") {
		t.Fatalf("row = %q, want the handle first", row)
	}

	full := windowRow(w, 0)
	if !strings.HasSuffix(full, w.Title) {
		t.Fatalf("untruncated row = %q, want the full title", full)
	}

	sticky := windowRow(wm.Window{Handle: "0x0b", Desktop: -1, PID: 7, Title: "panel"}, 0)
	if !strings.Contains(sticky, " -1 ") {
		t.Fatalf("sticky row = %q, want desktop -1", sticky)
	}
}

func TestDescribeStep(t *testing.T) {
	tests := []struct {
		name string
		step session.Step
		want string
	}{
		{
			name: "terminal",
			step: session.Step{
				Kind:      session.KindTerminal,
				Workspace: 2,
				Directory: "/tmp/w",
				Command:   "make watch",
				Title:     "build",
			},
			want: `terminal ws=2 dir=/tmp/w command="make watch" title="build"`,
		},
		{
			name: "lab",
			step: session.Step{
				Kind:      session.KindLab,
				Workspace: 3,
				Directory: "/tmp",
				Name:      "exp",
				Port:      9100,
			},
			want: "lab ws=3 dir=/tmp name=exp port=9100",
		},
		{
			name: "editor",
			step: session.Step{Kind: session.KindEditor, Workspace: 1, File: "/tmp/main.tex"},
			want: "editor ws=1 file=/tmp/main.tex",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := describeStep(tc.step); got != tc.want {
				t.Fatalf("describeStep = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRepeatedFlag(t *testing.T) {
	var r repeatedFlag
	if err := r.Set("--hide-menubar"); err != nil {
		t.Fatal(err)
	}
	if err := r.Set("--zoom=1.2"); err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 || r[1] != "--zoom=1.2" {
		t.Fatalf("repeatedFlag = %v", r)
	}
	if got := r.String(); got != "--hide-menubar --zoom=1.2" {
		t.Fatalf("String() = %q", got)
	}
}
