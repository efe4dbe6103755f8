package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/stagehand/internal/launch"
	"github.com/1broseidon/stagehand/internal/session"
)

func printSessionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  stagehand session load <name>    Run a stored session plan")
	fmt.Fprintln(w, "  stagehand session list           List stored session plans")
	fmt.Fprintln(w, "  stagehand session show <name>    Show a session plan")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Plans live in ~/.config/stagehand/sessions/<name>.yaml.")
}

func runSession(args []string) int {
	if len(args) == 0 {
		printSessionUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printSessionUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "load":
		return runSessionLoad(args[1:])
	case "list":
		return runSessionList(args[1:])
	case "show":
		return runSessionShow(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown session command: %s\n\n", args[0])
		printSessionUsage(os.Stderr)
		return 2
	}
}

func runSessionLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand session load <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the named plan step by step. The first failing step aborts the")
		fmt.Fprintln(os.Stderr, "run; windows already launched stay where they were placed.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "session load requires <name>")
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)

	plan, err := session.Load(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	tk, err := openToolkit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer tk.close()

	rec := openRecorder(tk.cfg)
	defer rec.Close()

	// One lock across the whole plan so its launches are not interleaved
	// with other runs.
	lock, err := launch.AcquireRunLock(tk.lockPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lock.Unlock()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	runner := session.NewRunner(tk.launcher, tk.cfg, logger, rec)
	res, err := runner.Run(name, plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session %s: completed %d of %d steps: %v\n",
			name, res.StepsCompleted, len(plan.Steps), err)
		return 1
	}

	handles := make([]string, len(res.Handles))
	for i, h := range res.Handles {
		handles[i] = string(h)
	}
	fmt.Printf("steps_completed: %d\n", res.StepsCompleted)
	fmt.Printf("windows: %s\n", strings.Join(handles, " "))
	return 0
}

func runSessionList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand session list")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "session list takes no arguments")
		fs.Usage()
		return 2
	}

	names, err := session.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, name := range names {
		fmt.Printf("- %s\n", name)
	}
	return 0
}

func runSessionShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand session show <name>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "session show requires <name>")
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)

	plan, err := session.Load(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("session: %s\n", name)
	if plan.Description != "" {
		fmt.Printf("description: %s\n", plan.Description)
	}
	if plan.StepDelayMS > 0 {
		fmt.Printf("step_delay_ms: %d\n", plan.StepDelayMS)
	}
	fmt.Println("steps:")
	for i, step := range plan.Steps {
		fmt.Printf("  %d. %s\n", i+1, describeStep(step))
	}
	return 0
}

// describeStep renders one plan step as a single line for session show.
func describeStep(s session.Step) string {
	parts := []string{string(s.Kind), fmt.Sprintf("ws=%d", s.Workspace)}
	if s.Directory != "" {
		parts = append(parts, "dir="+s.Directory)
	}
	if s.Command != "" {
		parts = append(parts, fmt.Sprintf("command=%q", s.Command))
	}
	if s.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", s.Title))
	}
	if s.File != "" {
		parts = append(parts, "file="+s.File)
	}
	if s.URL != "" {
		parts = append(parts, "url="+s.URL)
	}
	if s.Name != "" {
		parts = append(parts, "name="+s.Name)
	}
	if s.Port != 0 {
		parts = append(parts, fmt.Sprintf("port=%d", s.Port))
	}
	return strings.Join(parts, " ")
}
