package session

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/history"
	"github.com/1broseidon/stagehand/internal/launch"
	"github.com/1broseidon/stagehand/internal/profile"
	"github.com/1broseidon/stagehand/internal/wm"
)

// Runner executes a plan step by step through the launch profiles.
type Runner struct {
	launcher profile.Launcher
	cfg      *config.Config
	logger   *slog.Logger
	recorder *history.Recorder
}

// NewRunner wires a runner. A nil logger discards step logs; a nil recorder
// skips history.
func NewRunner(l profile.Launcher, cfg *config.Config, logger *slog.Logger, rec *history.Recorder) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{launcher: l, cfg: cfg, logger: logger, recorder: rec}
}

// Result reports how far a session run got.
type Result struct {
	StepsCompleted int
	Handles        []wm.Handle
}

// Run executes the plan in order, pausing the configured delay between
// steps. The first failing step aborts the run; windows already launched
// stay where they were placed. Errors carry the 1-based step number.
func (r *Runner) Run(name string, plan *Plan) (Result, error) {
	var res Result

	r.recorder.Record(history.ActionSession, map[string]interface{}{
		"name":  name,
		"steps": len(plan.Steps),
	})

	for i, step := range plan.Steps {
		r.logger.Info("session step",
			"session", name,
			"step", i+1,
			"kind", string(step.Kind),
			"workspace", step.Workspace)

		handles, err := r.runStep(step)
		if err != nil {
			r.recorder.Record(history.ActionStep, map[string]interface{}{
				"session": name,
				"step":    i + 1,
				"kind":    string(step.Kind),
				"error":   err.Error(),
			})
			return res, fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		}

		res.StepsCompleted++
		res.Handles = append(res.Handles, handles...)
		r.recorder.Record(history.ActionStep, map[string]interface{}{
			"session": name,
			"step":    i + 1,
			"kind":    string(step.Kind),
			"handles": handleList(handles),
		})

		if d := plan.StepDelay(); d > 0 && i < len(plan.Steps)-1 {
			time.Sleep(d)
		}
	}

	return res, nil
}

func (r *Runner) runStep(s Step) ([]wm.Handle, error) {
	switch s.Kind {
	case KindTerminal:
		spec, err := profile.Terminal(r.cfg.Terminal, profile.TerminalParams{
			Workspace: s.Workspace,
			Directory: s.Directory,
			Command:   s.Command,
			Title:     s.Title,
		})
		if err != nil {
			return nil, err
		}
		return r.launchOne(spec)

	case KindBrowser:
		spec, err := profile.Browser(r.cfg.Browser, profile.BrowserParams{
			Workspace: s.Workspace,
			URL:       s.URL,
			Title:     s.Title,
		})
		if err != nil {
			return nil, err
		}
		return r.launchOne(spec)

	case KindEditor:
		spec, err := profile.Editor(r.cfg.Editor, profile.EditorParams{
			Workspace: s.Workspace,
			File:      s.File,
		})
		if err != nil {
			return nil, err
		}
		return r.launchOne(spec)

	case KindLab:
		lab, err := profile.RunLab(r.launcher, r.cfg, profile.LabParams{
			Workspace: s.Workspace,
			Directory: s.Directory,
			Name:      s.Name,
			Port:      s.Port,
		})
		if err != nil {
			return nil, err
		}
		return []wm.Handle{lab.TerminalHandle, lab.BrowserHandle}, nil

	case KindRun:
		argv, err := profile.SplitCommand(s.Command)
		if err != nil {
			return nil, err
		}
		spec, err := profile.Command(profile.CommandParams{
			Workspace: s.Workspace,
			Argv:      argv,
			Title:     s.Title,
		})
		if err != nil {
			return nil, err
		}
		return r.launchOne(spec)
	}

	return nil, fmt.Errorf("unknown kind %q", s.Kind)
}

func (r *Runner) launchOne(spec launch.Spec) ([]wm.Handle, error) {
	h, err := r.launcher.LaunchAndMove(spec)
	if err != nil {
		return nil, err
	}
	return []wm.Handle{h}, nil
}

func handleList(hs []wm.Handle) string {
	parts := make([]string, len(hs))
	for i, h := range hs {
		parts[i] = string(h)
	}
	return strings.Join(parts, ",")
}
