package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Enabled:   true,
		FilePath:  filepath.Join(t.TempDir(), "state", "launches.log"),
		MaxSizeMB: 5,
		MaxFiles:  3,
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRecorderWritesEntry(t *testing.T) {
	cfg := testConfig(t)
	rec, err := NewRecorder(cfg)
	if err != nil {
		t.Fatalf("NewRecorder() err=%v", err)
	}

	rec.Record(ActionLaunch, map[string]interface{}{
		"workspace": 2,
		"profile":   "terminal",
		"handle":    "0x03a00007",
		"argv":      "gnome-terminal --window-with-profile=default",
	})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}

	content := readLog(t, cfg.FilePath)
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(lines))
	}

	line := lines[0]
	if !strings.Contains(line, "[LAUNCH] run="+rec.RunID()) {
		t.Errorf("entry missing action and run id: %q", line)
	}
	// Detail keys come out sorted, strings quoted.
	want := ` argv="gnome-terminal --window-with-profile=default" handle="0x03a00007" profile="terminal" workspace=2`
	if !strings.HasSuffix(line, want) {
		t.Errorf("entry details = %q, want suffix %q", line, want)
	}
}

func TestRunIDIsUUID(t *testing.T) {
	rec, err := NewRecorder(Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewRecorder() err=%v", err)
	}
	if _, err := uuid.Parse(rec.RunID()); err != nil {
		t.Fatalf("RunID() = %q, not a uuid: %v", rec.RunID(), err)
	}
}

func TestRecorderDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enabled = false

	rec, err := NewRecorder(cfg)
	if err != nil {
		t.Fatalf("NewRecorder() err=%v", err)
	}
	rec.Record(ActionLaunch, map[string]interface{}{"profile": "terminal"})
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}

	if _, err := os.Stat(cfg.FilePath); !os.IsNotExist(err) {
		t.Fatalf("disabled recorder created %s", cfg.FilePath)
	}
}

func TestRecorderRotation(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxFiles = 2
	rec, err := NewRecorder(cfg)
	if err != nil {
		t.Fatalf("NewRecorder() err=%v", err)
	}
	defer rec.Close()

	forceRotate := func() {
		rec.mu.Lock()
		rec.currentSize = int64(cfg.MaxSizeMB) * 1024 * 1024
		rec.mu.Unlock()
	}

	rec.Record(ActionLaunch, map[string]interface{}{"profile": "first"})
	forceRotate()
	rec.Record(ActionLaunch, map[string]interface{}{"profile": "second"})
	forceRotate()
	rec.Record(ActionLaunch, map[string]interface{}{"profile": "third"})

	if got := readLog(t, cfg.FilePath); !strings.Contains(got, `profile="third"`) {
		t.Errorf("current log = %q, want the newest entry", got)
	}
	if got := readLog(t, cfg.FilePath+".1"); !strings.Contains(got, `profile="second"`) {
		t.Errorf(".1 = %q, want the previous entry", got)
	}
	if got := readLog(t, cfg.FilePath+".2"); !strings.Contains(got, `profile="first"`) {
		t.Errorf(".2 = %q, want the oldest kept entry", got)
	}

	// One more rotation pushes the oldest file out.
	forceRotate()
	rec.Record(ActionLaunch, map[string]interface{}{"profile": "fourth"})

	if got := readLog(t, cfg.FilePath+".2"); !strings.Contains(got, `profile="second"`) {
		t.Errorf(".2 after drop = %q, want the second entry", got)
	}
	if content, err := os.ReadFile(cfg.FilePath + ".2"); err == nil && strings.Contains(string(content), `profile="first"`) {
		t.Errorf("oldest entry survived rotation: %q", content)
	}
	if _, err := os.Stat(cfg.FilePath + ".3"); !os.IsNotExist(err) {
		t.Errorf("rotation kept more than MaxFiles files")
	}
}

func TestTail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launches.log")
	if err := os.WriteFile(path, []byte("a\nb\nc\nd\ne\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := Tail(path, 2)
	if err != nil {
		t.Fatalf("Tail() err=%v", err)
	}
	if len(got) != 2 || got[0] != "d" || got[1] != "e" {
		t.Fatalf("Tail(2) = %v, want [d e]", got)
	}

	got, err = Tail(path, 0)
	if err != nil {
		t.Fatalf("Tail() err=%v", err)
	}
	if len(got) != 5 {
		t.Fatalf("Tail(0) returned %d lines, want all 5", len(got))
	}

	got, err = Tail(filepath.Join(dir, "missing.log"), 3)
	if err != nil {
		t.Fatalf("Tail(missing) err=%v", err)
	}
	if got != nil {
		t.Fatalf("Tail(missing) = %v, want nil", got)
	}
}
