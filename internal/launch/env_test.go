package launch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stubDetectFns(
	detectSession func() (string, string),
	detectSocket func(string) string,
) func() {
	origSession := detectSessionX11EnvFn
	origSocket := detectDisplayFromSocketFn
	detectSessionX11EnvFn = detectSession
	detectDisplayFromSocketFn = detectSocket
	return func() {
		detectSessionX11EnvFn = origSession
		detectDisplayFromSocketFn = origSocket
	}
}

func TestResolveGUIEnv_UsesProcessEnv(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return ":99", "/tmp/should-not-be-used" },
		func(string) string { return ":88" },
	)
	defer restore()

	t.Setenv("DISPLAY", ":7")
	t.Setenv("XAUTHORITY", "/tmp/xauth-existing")

	env, err := ResolveGUIEnv(GUIEnv{Display: ":1", XAuthority: "/tmp/cfg"})
	if err != nil {
		t.Fatalf("ResolveGUIEnv returned error: %v", err)
	}
	if env.Display != ":7" {
		t.Fatalf("Display = %q, want %q", env.Display, ":7")
	}
	if env.XAuthority != "/tmp/xauth-existing" {
		t.Fatalf("XAuthority = %q, want %q", env.XAuthority, "/tmp/xauth-existing")
	}
}

func TestResolveGUIEnv_UsesConfigAndFallsBackToHomeXAuthority(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)
	defer restore()

	home := t.TempDir()
	xauth := filepath.Join(home, ".Xauthority")
	if err := os.WriteFile(xauth, []byte("cookie"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}

	t.Setenv("DISPLAY", "")
	t.Setenv("XAUTHORITY", "")
	t.Setenv("HOME", home)

	env, err := ResolveGUIEnv(GUIEnv{Display: ":1"})
	if err != nil {
		t.Fatalf("ResolveGUIEnv returned error: %v", err)
	}
	if env.Display != ":1" {
		t.Fatalf("Display = %q, want %q", env.Display, ":1")
	}
	if env.XAuthority != xauth {
		t.Fatalf("XAuthority = %q, want %q", env.XAuthority, xauth)
	}
}

func TestResolveGUIEnv_UsesDetectedValues(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return ":5", "/tmp/xauth-detected" },
		func(string) string { return "" },
	)
	defer restore()

	t.Setenv("DISPLAY", "")
	t.Setenv("XAUTHORITY", "")
	t.Setenv("HOME", t.TempDir())

	env, err := ResolveGUIEnv(GUIEnv{})
	if err != nil {
		t.Fatalf("ResolveGUIEnv returned error: %v", err)
	}
	if env.Display != ":5" {
		t.Fatalf("Display = %q, want %q", env.Display, ":5")
	}
	if env.XAuthority != "/tmp/xauth-detected" {
		t.Fatalf("XAuthority = %q, want %q", env.XAuthority, "/tmp/xauth-detected")
	}
}

func TestResolveGUIEnv_FallsBackToSocketScan(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return ":2" },
	)
	defer restore()

	t.Setenv("DISPLAY", "")
	t.Setenv("XAUTHORITY", "")
	t.Setenv("HOME", t.TempDir())

	env, err := ResolveGUIEnv(GUIEnv{})
	if err != nil {
		t.Fatalf("ResolveGUIEnv returned error: %v", err)
	}
	if env.Display != ":2" {
		t.Fatalf("Display = %q, want %q", env.Display, ":2")
	}
}

func TestResolveGUIEnv_ReturnsClearErrorWhenDisplayUnavailable(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)
	defer restore()

	t.Setenv("DISPLAY", "")
	t.Setenv("XAUTHORITY", "")
	t.Setenv("HOME", t.TempDir())

	_, err := ResolveGUIEnv(GUIEnv{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "requires DISPLAY") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDetectDisplayFromSockets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "X0"), []byte{}, 0600); err != nil {
		t.Fatalf("write X0: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "X2"), []byte{}, 0600); err != nil {
		t.Fatalf("write X2: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "not-a-display"), []byte{}, 0600); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	if got := detectDisplayFromSockets(dir); got != ":2" {
		t.Fatalf("detectDisplayFromSockets = %q, want %q", got, ":2")
	}
}

func TestParseLoginctlSessions(t *testing.T) {
	out := strings.Join([]string{
		"1 1000 george seat0",
		"2 1001 alice seat0",
		"3 1000 george seat1",
		"",
	}, "\n")
	got := parseLoginctlSessions(out, "1000")
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("parseLoginctlSessions = %v, want [1 3]", got)
	}
}
