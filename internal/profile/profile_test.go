package profile

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/launch"
	"github.com/1broseidon/stagehand/internal/wm"
)

func argvString(spec launch.Spec) string {
	return strings.Join(spec.Argv, " ")
}

func TestTerminal(t *testing.T) {
	cfg := config.DefaultConfig().Terminal

	spec, err := Terminal(cfg, TerminalParams{
		Workspace: 2,
		Directory: "/tmp/project",
		Command:   "make watch",
		Options:   []string{"--hide-menubar"},
		Title:     "work-shell",
	})
	if err != nil {
		t.Fatalf("Terminal() err=%v", err)
	}

	want := "gnome-terminal --window-with-profile=default --working-directory=/tmp/project --hide-menubar -- make watch"
	if got := argvString(spec); got != want {
		t.Fatalf("argv=%q, want %q", got, want)
	}
	if spec.Workspace != 2 {
		t.Fatalf("workspace=%d, want 2", spec.Workspace)
	}
	if spec.Target != (correlate.Target{Field: correlate.FieldTitle, Pattern: "Terminal"}) {
		t.Fatalf("target=%+v, want title marker target", spec.Target)
	}
	if spec.NewTitle != "work-shell" {
		t.Fatalf("new title=%q, want work-shell", spec.NewTitle)
	}
}

func TestTerminalDefaults(t *testing.T) {
	cfg := config.DefaultConfig().Terminal

	spec, err := Terminal(cfg, TerminalParams{Workspace: 1})
	if err != nil {
		t.Fatalf("Terminal() err=%v", err)
	}
	if got := argvString(spec); got != "gnome-terminal --window-with-profile=default" {
		t.Fatalf("argv=%q, want bare profile invocation", got)
	}
	if spec.NewTitle != DefaultTerminalTitle {
		t.Fatalf("new title=%q, want %q", spec.NewTitle, DefaultTerminalTitle)
	}
}

func TestTerminalInlineCommandQuoting(t *testing.T) {
	cfg := config.DefaultConfig().Terminal

	spec, err := Terminal(cfg, TerminalParams{
		Workspace: 1,
		Command:   `vim "my notes.txt"`,
	})
	if err != nil {
		t.Fatalf("Terminal() err=%v", err)
	}
	n := len(spec.Argv)
	if n < 2 || spec.Argv[n-2] != "vim" || spec.Argv[n-1] != "my notes.txt" {
		t.Fatalf("argv tail=%v, want [vim, my notes.txt]", spec.Argv[n-2:])
	}
}

func TestTerminalTitleMarkerCollision(t *testing.T) {
	cfg := config.DefaultConfig().Terminal

	cases := []struct {
		title   string
		wantErr bool
	}{
		{title: "Terminal-session", wantErr: true},
		{title: "Terminal", wantErr: true},
		{title: "myTerminal notes", wantErr: true},
		{title: "work-shell", wantErr: false},
		{title: "notes Terminal", wantErr: false}, // marker beyond the first word
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			_, err := Terminal(cfg, TerminalParams{Workspace: 1, Title: tc.title})
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Terminal(title=%q) err=%v, want nil", tc.title, err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Terminal(title=%q) err=%v, want *ValidationError", tc.title, err)
			}
			if verr.Field != "title" {
				t.Fatalf("field=%q, want title", verr.Field)
			}
		})
	}
}

func TestTerminalUnterminatedQuote(t *testing.T) {
	cfg := config.DefaultConfig().Terminal

	_, err := Terminal(cfg, TerminalParams{Workspace: 1, Command: `echo "oops`})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "command" {
		t.Fatalf("Terminal() err=%v, want command validation error", err)
	}
}

func TestWorkspaceValidation(t *testing.T) {
	cfg := config.DefaultConfig()

	for _, ws := range []int{0, -3} {
		_, err := Terminal(cfg.Terminal, TerminalParams{Workspace: ws})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "workspace" {
			t.Fatalf("Terminal(ws=%d) err=%v, want workspace validation error", ws, err)
		}
	}
}

func TestBrowser(t *testing.T) {
	cfg := config.DefaultConfig().Browser

	spec, err := Browser(cfg, BrowserParams{Workspace: 3, URL: "localhost:8890/lab"})
	if err != nil {
		t.Fatalf("Browser() err=%v", err)
	}
	if got := argvString(spec); got != "firefox -new-window localhost:8890/lab" {
		t.Fatalf("argv=%q, want firefox new-window invocation", got)
	}
	if spec.Target != (correlate.Target{Field: correlate.FieldTitle, Pattern: "Mozilla"}) {
		t.Fatalf("target=%+v, want Mozilla title target", spec.Target)
	}
	if spec.NewTitle != DefaultBrowserTitle {
		t.Fatalf("new title=%q, want %q", spec.NewTitle, DefaultBrowserTitle)
	}
}

func TestEditor(t *testing.T) {
	cfg := config.DefaultConfig().Editor

	spec, err := Editor(cfg, EditorParams{Workspace: 2, File: "main.tex"})
	if err != nil {
		t.Fatalf("Editor() err=%v", err)
	}
	if got := argvString(spec); got != "texstudio --start-always main.tex" {
		t.Fatalf("argv=%q, want texstudio invocation", got)
	}
	if spec.Target != (correlate.Target{Field: correlate.FieldPID, SkipFirst: true}) {
		t.Fatalf("target=%+v, want pid target skipping the loader window", spec.Target)
	}
	if spec.NewTitle != "" {
		t.Fatalf("new title=%q, want none", spec.NewTitle)
	}
}

func TestCommand(t *testing.T) {
	spec, err := Command(CommandParams{Workspace: 1, Argv: []string{"gimp", "shot.png"}})
	if err != nil {
		t.Fatalf("Command() err=%v", err)
	}
	if spec.Target != (correlate.Target{Field: correlate.FieldPID}) {
		t.Fatalf("target=%+v, want pid target", spec.Target)
	}

	spec, err = Command(CommandParams{
		Workspace:  1,
		Argv:       []string{"gimp"},
		MatchTitle: "GNU",
		SkipFirst:  true,
	})
	if err != nil {
		t.Fatalf("Command() err=%v", err)
	}
	if spec.Target != (correlate.Target{Field: correlate.FieldTitle, Pattern: "GNU", SkipFirst: true}) {
		t.Fatalf("target=%+v, want title target with skip-first", spec.Target)
	}

	_, err = Command(CommandParams{Workspace: 1})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "argv" {
		t.Fatalf("Command() err=%v, want argv validation error", err)
	}
}

type fakeLauncher struct {
	specs  []launch.Spec
	failAt int // 1-based call index that fails; 0 never fails
}

func (f *fakeLauncher) LaunchAndMove(s launch.Spec) (wm.Handle, error) {
	f.specs = append(f.specs, s)
	if f.failAt == len(f.specs) {
		return "", errors.New("correlate: no new window matching title \"Terminal\" after 2 attempts")
	}
	return wm.Handle(fmt.Sprintf("0x%02x", len(f.specs))), nil
}

func labConfig() *config.Config {
	cfg := config.DefaultConfig()
	// No startup pause in tests.
	cfg.Lab.StartupDelayMS = 0
	return cfg
}

func TestRunLab(t *testing.T) {
	l := &fakeLauncher{}

	res, err := RunLab(l, labConfig(), LabParams{
		Workspace: 2,
		Directory: "/tmp",
		Name:      "thesis",
	})
	if err != nil {
		t.Fatalf("RunLab() err=%v", err)
	}

	if len(l.specs) != 2 {
		t.Fatalf("launches=%d, want 2", len(l.specs))
	}
	term, browser := l.specs[0], l.specs[1]

	if term.Workspace != 2 || browser.Workspace != 2 {
		t.Fatalf("workspaces=(%d,%d), want both on 2", term.Workspace, browser.Workspace)
	}
	wantTerm := "gnome-terminal --window-with-profile=Jupyter --working-directory=/tmp -- jupyter lab --port=8890 --no-browser"
	if got := argvString(term); got != wantTerm {
		t.Fatalf("terminal argv=%q, want %q", got, wantTerm)
	}
	if term.NewTitle != "thesis-JL" {
		t.Fatalf("terminal title=%q, want thesis-JL", term.NewTitle)
	}
	if got := argvString(browser); got != "firefox -new-window localhost:8890/lab" {
		t.Fatalf("browser argv=%q, want firefox at the lab url", got)
	}
	if browser.NewTitle != "thesis-JL-Firefox" {
		t.Fatalf("browser title=%q, want thesis-JL-Firefox", browser.NewTitle)
	}

	if res.TerminalHandle != "0x01" || res.BrowserHandle != "0x02" {
		t.Fatalf("handles=%+v, want the two launched windows", res)
	}
	if res.URL != "localhost:8890/lab" {
		t.Fatalf("url=%q, want localhost:8890/lab", res.URL)
	}
}

func TestRunLabPortOverride(t *testing.T) {
	l := &fakeLauncher{}

	res, err := RunLab(l, labConfig(), LabParams{
		Workspace: 1,
		Directory: "/tmp",
		Name:      "x",
		Port:      9100,
	})
	if err != nil {
		t.Fatalf("RunLab() err=%v", err)
	}
	if !strings.Contains(argvString(l.specs[0]), "--port=9100") {
		t.Fatalf("terminal argv=%q, want the overridden port", argvString(l.specs[0]))
	}
	if res.URL != "localhost:9100/lab" {
		t.Fatalf("url=%q, want localhost:9100/lab", res.URL)
	}
}

func TestRunLabStopsAfterServerFailure(t *testing.T) {
	l := &fakeLauncher{failAt: 1}

	_, err := RunLab(l, labConfig(), LabParams{Workspace: 2, Directory: "/tmp", Name: "x"})
	if err == nil || !strings.Contains(err.Error(), "notebook server:") {
		t.Fatalf("RunLab() err=%v, want the server stage named", err)
	}
	if len(l.specs) != 1 {
		t.Fatalf("launches=%d, want the browser skipped after a failed server", len(l.specs))
	}
}

func TestRunLabValidation(t *testing.T) {
	cases := []struct {
		name      string
		params    LabParams
		wantField string
	}{
		{name: "missing name", params: LabParams{Workspace: 1, Directory: "/tmp"}, wantField: "name"},
		{name: "missing directory", params: LabParams{Workspace: 1, Name: "x"}, wantField: "directory"},
		{name: "bad workspace", params: LabParams{Workspace: 0, Directory: "/tmp", Name: "x"}, wantField: "workspace"},
		{name: "bad port", params: LabParams{Workspace: 1, Directory: "/tmp", Name: "x", Port: 70000}, wantField: "port"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := &fakeLauncher{}
			_, err := RunLab(l, labConfig(), tc.params)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.wantField {
				t.Fatalf("RunLab() err=%v, want %s validation error", err, tc.wantField)
			}
			if len(l.specs) != 0 {
				t.Fatalf("launches=%d, want none on invalid input", len(l.specs))
			}
		})
	}
}

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{name: "plain words", in: "jupyter lab --port=8890", want: []string{"jupyter", "lab", "--port=8890"}},
		{name: "double quotes", in: `vim "my file.txt"`, want: []string{"vim", "my file.txt"}},
		{name: "single quotes", in: "echo 'a  b'", want: []string{"echo", "a  b"}},
		{name: "escaped space", in: `cat a\ b`, want: []string{"cat", "a b"}},
		{name: "empty", in: "", want: nil},
		{name: "unterminated quote", in: `echo "oops`, wantErr: true},
		{name: "trailing escape", in: `echo \`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SplitCommand(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("SplitCommand(%q) err=%v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if strings.Join(got, "\x00") != strings.Join(tc.want, "\x00") {
				t.Fatalf("SplitCommand(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
