package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/history"
	"github.com/1broseidon/stagehand/internal/launch"
	"github.com/1broseidon/stagehand/internal/profile"
	"github.com/1broseidon/stagehand/internal/runtimepath"
	"github.com/1broseidon/stagehand/internal/wm"
	"github.com/1broseidon/stagehand/internal/x11"
)

// repeatedFlag collects a flag given more than once.
type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, " ") }

func (r *repeatedFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

// toolkit bundles what a window-facing command needs: the loaded config,
// the selected backend, and the orchestrator built on top of it.
type toolkit struct {
	cfg      *config.Config
	source   correlate.Source
	mutator  launch.Mutator
	launcher *launch.Orchestrator
	lockPath string
	close    func()
}

// openToolkit loads config, resolves the GUI environment, and connects the
// configured backend. The caller must close the toolkit.
func openToolkit() (*toolkit, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	env, err := launch.ResolveGUIEnv(launch.GUIEnv{
		Display:    cfg.Display,
		XAuthority: cfg.XAuthority,
	})
	if err != nil {
		return nil, err
	}
	if err := env.Apply(); err != nil {
		return nil, err
	}

	tk := &toolkit{cfg: cfg, close: func() {}}

	switch cfg.Backend {
	case config.BackendX11:
		backend, err := x11.Connect()
		if err != nil {
			return nil, err
		}
		tk.source = backend
		tk.mutator = backend
		tk.close = backend.Close
	default:
		client := wm.NewClient(cfg.WmctrlPath)
		if !client.Available() {
			return nil, fmt.Errorf("wmctrl not found at %q; install it or set wmctrl_path", cfg.WmctrlPath)
		}
		tk.source = client
		tk.mutator = client
	}

	tk.launcher = launch.New(tk.source, tk.mutator, correlate.Options{
		Attempts: cfg.Poll.Attempts,
		Interval: cfg.Poll.Interval(),
	}, nil)

	lockPath, err := runtimepath.LockPath()
	if err != nil {
		tk.close()
		return nil, err
	}
	tk.lockPath = lockPath

	return tk, nil
}

// openRecorder opens the history log. Failures degrade to a warning so a
// broken log never blocks a launch.
func openRecorder(cfg *config.Config) *history.Recorder {
	hc := cfg.GetHistoryConfig()
	rec, err := history.NewRecorder(history.Config{
		Enabled:   hc.Enabled,
		FilePath:  hc.File,
		MaxSizeMB: hc.MaxSizeMB,
		MaxFiles:  hc.MaxFiles,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: launch history disabled: %v\n", err)
		return nil
	}
	return rec
}

// launchOne takes the run lock, launches, and records the outcome.
func launchOne(tk *toolkit, rec *history.Recorder, profileName string, spec launch.Spec) (wm.Handle, error) {
	lock, err := launch.AcquireRunLock(tk.lockPath)
	if err != nil {
		return "", err
	}
	defer lock.Unlock()

	handle, err := tk.launcher.LaunchAndMove(spec)

	details := map[string]interface{}{
		"profile":   profileName,
		"workspace": spec.Workspace,
		"argv":      strings.Join(spec.Argv, " "),
	}
	if err != nil {
		details["error"] = err.Error()
		rec.Record(history.ActionLaunch, details)
		return "", err
	}
	details["handle"] = string(handle)
	rec.Record(history.ActionLaunch, details)
	return handle, nil
}

func runTerminal(args []string) int {
	fs := flag.NewFlagSet("terminal", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand terminal -ws N [-dir DIR] [-cmd CMD] [-title T] [-profile P] [-opt O]...")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Launch a terminal window and place it on a workspace.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	ws := fs.Int("ws", 0, "Target workspace (1-based, as the pager shows)")
	dir := fs.String("dir", "", "Working directory for the terminal")
	cmd := fs.String("cmd", "", "Command to run inside the terminal")
	title := fs.String("title", "", "Title for the new window")
	prof := fs.String("profile", "", "Terminal profile (default from config)")
	var opts repeatedFlag
	fs.Var(&opts, "opt", "Extra emulator option (repeatable)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "terminal takes no arguments")
		fs.Usage()
		return 2
	}
	if *ws < 1 {
		fmt.Fprintln(os.Stderr, "terminal requires -ws N (workspaces are numbered from 1)")
		fs.Usage()
		return 2
	}

	tk, err := openToolkit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer tk.close()

	spec, err := profile.Terminal(tk.cfg.Terminal, profile.TerminalParams{
		Workspace: *ws,
		Directory: *dir,
		Command:   *cmd,
		Options:   opts,
		Title:     *title,
		Profile:   *prof,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rec := openRecorder(tk.cfg)
	defer rec.Close()

	handle, err := launchOne(tk, rec, "terminal", spec)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("window: %s\n", handle)
	fmt.Printf("workspace: %d\n", *ws)
	return 0
}

func runBrowser(args []string) int {
	fs := flag.NewFlagSet("browser", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand browser -ws N [-url URL] [-title T]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a new browser window and place it on a workspace.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	ws := fs.Int("ws", 0, "Target workspace (1-based, as the pager shows)")
	url := fs.String("url", "", "URL to open")
	title := fs.String("title", "", "Title for the new window")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "browser takes no arguments")
		fs.Usage()
		return 2
	}
	if *ws < 1 {
		fmt.Fprintln(os.Stderr, "browser requires -ws N (workspaces are numbered from 1)")
		fs.Usage()
		return 2
	}

	tk, err := openToolkit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer tk.close()

	spec, err := profile.Browser(tk.cfg.Browser, profile.BrowserParams{
		Workspace: *ws,
		URL:       *url,
		Title:     *title,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rec := openRecorder(tk.cfg)
	defer rec.Close()

	handle, err := launchOne(tk, rec, "browser", spec)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("window: %s\n", handle)
	fmt.Printf("workspace: %d\n", *ws)
	return 0
}

func runLab(args []string) int {
	fs := flag.NewFlagSet("lab", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand lab -ws N -dir DIR -name PREFIX [-port P]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start a notebook server in a terminal, then open a browser on it.")
		fmt.Fprintln(os.Stderr, "Both windows land on the same workspace, titled PREFIX-JL and")
		fmt.Fprintln(os.Stderr, "PREFIX-JL-Firefox.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	ws := fs.Int("ws", 0, "Target workspace (1-based, as the pager shows)")
	dir := fs.String("dir", "", "Directory to serve notebooks from")
	name := fs.String("name", "", "Window title prefix")
	port := fs.Int("port", 0, "Server port (default from config)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "lab takes no arguments")
		fs.Usage()
		return 2
	}
	if *ws < 1 {
		fmt.Fprintln(os.Stderr, "lab requires -ws N (workspaces are numbered from 1)")
		fs.Usage()
		return 2
	}
	if *dir == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "lab requires -dir DIR and -name PREFIX")
		fs.Usage()
		return 2
	}

	tk, err := openToolkit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer tk.close()

	rec := openRecorder(tk.cfg)
	defer rec.Close()

	// One lock across both launches so no other run can interleave
	// between the server terminal and the browser.
	lock, err := launch.AcquireRunLock(tk.lockPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lock.Unlock()

	res, err := profile.RunLab(tk.launcher, tk.cfg, profile.LabParams{
		Workspace: *ws,
		Directory: *dir,
		Name:      *name,
		Port:      *port,
	})

	details := map[string]interface{}{
		"profile":   "lab",
		"workspace": *ws,
		"name":      *name,
	}
	if err != nil {
		details["error"] = err.Error()
		rec.Record(history.ActionLaunch, details)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	details["handles"] = string(res.TerminalHandle) + "," + string(res.BrowserHandle)
	details["url"] = res.URL
	rec.Record(history.ActionLaunch, details)

	fmt.Printf("terminal: %s\n", res.TerminalHandle)
	fmt.Printf("browser: %s\n", res.BrowserHandle)
	fmt.Printf("url: %s\n", res.URL)
	return 0
}

func runEditor(args []string) int {
	fs := flag.NewFlagSet("editor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand editor -ws N [-file FILE]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Launch the document editor and place its window on a workspace.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	ws := fs.Int("ws", 0, "Target workspace (1-based, as the pager shows)")
	file := fs.String("file", "", "File to open")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "editor takes no arguments")
		fs.Usage()
		return 2
	}
	if *ws < 1 {
		fmt.Fprintln(os.Stderr, "editor requires -ws N (workspaces are numbered from 1)")
		fs.Usage()
		return 2
	}

	tk, err := openToolkit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer tk.close()

	spec, err := profile.Editor(tk.cfg.Editor, profile.EditorParams{
		Workspace: *ws,
		File:      *file,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rec := openRecorder(tk.cfg)
	defer rec.Close()

	handle, err := launchOne(tk, rec, "editor", spec)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("window: %s\n", handle)
	fmt.Printf("workspace: %d\n", *ws)
	return 0
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand run -ws N [-title T] [-match-title M] [-skip-first] -- PROGRAM [ARGS...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Launch PROGRAM and place the window it creates on a workspace.")
		fmt.Fprintln(os.Stderr, "The window is found by the spawned pid unless -match-title is given.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	ws := fs.Int("ws", 0, "Target workspace (1-based, as the pager shows)")
	title := fs.String("title", "", "Rename the window after it is found")
	matchTitle := fs.String("match-title", "", "Find the window by this title fragment instead of the pid")
	skipFirst := fs.Bool("skip-first", false, "Skip the first matching window (programs that open a transient window first)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *ws < 1 {
		fmt.Fprintln(os.Stderr, "run requires -ws N (workspaces are numbered from 1)")
		fs.Usage()
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "run requires a command after --")
		fs.Usage()
		return 2
	}

	tk, err := openToolkit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer tk.close()

	spec, err := profile.Command(profile.CommandParams{
		Workspace:  *ws,
		Argv:       fs.Args(),
		Title:      *title,
		MatchTitle: *matchTitle,
		SkipFirst:  *skipFirst,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rec := openRecorder(tk.cfg)
	defer rec.Close()

	handle, err := launchOne(tk, rec, "run", spec)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("window: %s\n", handle)
	fmt.Printf("workspace: %d\n", *ws)
	return 0
}
