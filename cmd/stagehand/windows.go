package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/stagehand/internal/wm"
)

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stagehand windows [-l]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List open windows: handle, desktop (0-based, -1 sticky), pid, title.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	long := fs.Bool("l", false, "Print full titles without truncation")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	tk, err := openToolkit()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer tk.close()

	snap, err := tk.source.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	width := 0
	if !*long && term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	for _, w := range snap.Windows {
		fmt.Println(windowRow(w, width))
	}
	return 0
}

// windowRow formats one window line. width > 0 truncates the title so the
// row fits in that many columns.
func windowRow(w wm.Window, width int) string {
	prefix := fmt.Sprintf("%-12s %3d %7d  ", w.Handle, w.Desktop, w.PID)
	title := w.Title
	if width > 0 {
		room := width - len(prefix)
		if room < 1 {
			room = 1
		}
		if r := []rune(title); len(r) > room {
			title = string(r[:room])
		}
	}
	return prefix + title
}
