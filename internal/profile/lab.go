package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/wm"
)

// LabParams configures the composite notebook launch: a local notebook
// server in a terminal plus a browser window on it.
type LabParams struct {
	Workspace int
	Directory string
	Name      string // title prefix for both windows
	Port      int    // 0 uses the configured port
}

// LabResult reports the two windows the composite created.
type LabResult struct {
	TerminalHandle wm.Handle
	BrowserHandle  wm.Handle
	URL            string
}

// RunLab starts the notebook server terminal, waits the configured startup
// delay, then opens a browser window on the server. Both windows land on
// the same workspace. The delay gives the server time to start listening;
// it is a heuristic, not a readiness check. A failed server launch stops
// the composite before the browser starts.
func RunLab(l Launcher, cfg *config.Config, p LabParams) (LabResult, error) {
	if err := validateWorkspace(p.Workspace); err != nil {
		return LabResult{}, err
	}
	if strings.TrimSpace(p.Name) == "" {
		return LabResult{}, &ValidationError{Field: "name", Reason: "a title prefix is required"}
	}
	if strings.TrimSpace(p.Directory) == "" {
		return LabResult{}, &ValidationError{Field: "directory", Reason: "a working directory is required"}
	}
	if p.Port < 0 || p.Port > 65535 {
		return LabResult{}, &ValidationError{Field: "port", Reason: fmt.Sprintf("%d is out of range (1..65535)", p.Port)}
	}

	port := p.Port
	if port == 0 {
		port = cfg.Lab.Port
	}

	termSpec, err := Terminal(cfg.Terminal, TerminalParams{
		Workspace: p.Workspace,
		Directory: p.Directory,
		Command:   fmt.Sprintf("jupyter lab --port=%d --no-browser", port),
		Title:     p.Name + "-JL",
		Profile:   cfg.Lab.TerminalProfile,
	})
	if err != nil {
		return LabResult{}, err
	}
	termHandle, err := l.LaunchAndMove(termSpec)
	if err != nil {
		return LabResult{}, fmt.Errorf("notebook server: %w", err)
	}

	if d := cfg.Lab.StartupDelay(); d > 0 {
		time.Sleep(d)
	}

	url := fmt.Sprintf("localhost:%d/lab", port)
	browserSpec, err := Browser(cfg.Browser, BrowserParams{
		Workspace: p.Workspace,
		URL:       url,
		Title:     p.Name + "-JL-Firefox",
	})
	if err != nil {
		return LabResult{}, err
	}
	browserHandle, err := l.LaunchAndMove(browserSpec)
	if err != nil {
		return LabResult{}, fmt.Errorf("browser: %w", err)
	}

	return LabResult{
		TerminalHandle: termHandle,
		BrowserHandle:  browserHandle,
		URL:            url,
	}, nil
}
