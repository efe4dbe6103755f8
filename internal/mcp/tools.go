package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stagehand/internal/history"
	"github.com/1broseidon/stagehand/internal/launch"
	"github.com/1broseidon/stagehand/internal/profile"
	"github.com/1broseidon/stagehand/internal/session"
	"github.com/1broseidon/stagehand/internal/wm"
)

// launchLocked runs one launch under the cross-process run lock and
// records it in the history log.
func (s *Server) launchLocked(profileName string, spec launch.Spec) (wm.Handle, error) {
	lock, err := launch.AcquireRunLock(s.deps.LockPath)
	if err != nil {
		return "", err
	}
	defer lock.Unlock()

	handle, err := s.deps.Launcher.LaunchAndMove(spec)

	details := map[string]interface{}{
		"profile":   profileName,
		"workspace": spec.Workspace,
		"argv":      strings.Join(spec.Argv, " "),
	}
	if err != nil {
		details["error"] = err.Error()
		s.deps.Recorder.Record(history.ActionLaunch, details)
		s.logger.Error("launch failed", "profile", profileName, "error", err)
		return "", err
	}
	details["handle"] = string(handle)
	s.deps.Recorder.Record(history.ActionLaunch, details)
	s.logger.Info("launched", "profile", profileName, "handle", string(handle), "workspace", spec.Workspace)
	return handle, nil
}

func (s *Server) handleLaunchTerminal(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchTerminalInput) (*mcpsdk.CallToolResult, LaunchTerminalOutput, error) {
	spec, err := profile.Terminal(s.config.Terminal, profile.TerminalParams{
		Workspace: args.Workspace,
		Directory: args.Directory,
		Command:   args.Command,
		Options:   args.Options,
		Title:     args.Title,
		Profile:   args.Profile,
	})
	if err != nil {
		return nil, LaunchTerminalOutput{}, err
	}

	handle, err := s.launchLocked("terminal", spec)
	if err != nil {
		return nil, LaunchTerminalOutput{}, err
	}
	return nil, LaunchTerminalOutput{Handle: string(handle), Workspace: args.Workspace}, nil
}

func (s *Server) handleLaunchBrowser(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchBrowserInput) (*mcpsdk.CallToolResult, LaunchBrowserOutput, error) {
	spec, err := profile.Browser(s.config.Browser, profile.BrowserParams{
		Workspace: args.Workspace,
		URL:       args.URL,
		Title:     args.Title,
	})
	if err != nil {
		return nil, LaunchBrowserOutput{}, err
	}

	handle, err := s.launchLocked("browser", spec)
	if err != nil {
		return nil, LaunchBrowserOutput{}, err
	}
	return nil, LaunchBrowserOutput{Handle: string(handle), Workspace: args.Workspace}, nil
}

func (s *Server) handleOpenLab(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenLabInput) (*mcpsdk.CallToolResult, OpenLabOutput, error) {
	// The composite holds the lock across both launches so no other run
	// can interleave between the server terminal and the browser.
	lock, err := launch.AcquireRunLock(s.deps.LockPath)
	if err != nil {
		return nil, OpenLabOutput{}, err
	}
	defer lock.Unlock()

	res, err := profile.RunLab(s.deps.Launcher, s.config, profile.LabParams{
		Workspace: args.Workspace,
		Directory: args.Directory,
		Name:      args.Name,
		Port:      args.Port,
	})

	details := map[string]interface{}{
		"profile":   "lab",
		"workspace": args.Workspace,
		"name":      args.Name,
	}
	if err != nil {
		details["error"] = err.Error()
		s.deps.Recorder.Record(history.ActionLaunch, details)
		s.logger.Error("launch failed", "profile", "lab", "error", err)
		return nil, OpenLabOutput{}, err
	}
	details["handles"] = string(res.TerminalHandle) + "," + string(res.BrowserHandle)
	details["url"] = res.URL
	s.deps.Recorder.Record(history.ActionLaunch, details)
	s.logger.Info("launched", "profile", "lab", "url", res.URL, "workspace", args.Workspace)

	return nil, OpenLabOutput{
		TerminalHandle: string(res.TerminalHandle),
		BrowserHandle:  string(res.BrowserHandle),
		URL:            res.URL,
	}, nil
}

func (s *Server) handleLaunchEditor(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchEditorInput) (*mcpsdk.CallToolResult, LaunchEditorOutput, error) {
	spec, err := profile.Editor(s.config.Editor, profile.EditorParams{
		Workspace: args.Workspace,
		File:      args.File,
	})
	if err != nil {
		return nil, LaunchEditorOutput{}, err
	}

	handle, err := s.launchLocked("editor", spec)
	if err != nil {
		return nil, LaunchEditorOutput{}, err
	}
	return nil, LaunchEditorOutput{Handle: string(handle), Workspace: args.Workspace}, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	spec, err := profile.Command(profile.CommandParams{
		Workspace:  args.Workspace,
		Argv:       args.Argv,
		Title:      args.Title,
		MatchTitle: args.MatchTitle,
		SkipFirst:  args.SkipFirst,
	})
	if err != nil {
		return nil, RunCommandOutput{}, err
	}

	handle, err := s.launchLocked("run", spec)
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	return nil, RunCommandOutput{Handle: string(handle), Workspace: args.Workspace}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	snap, err := s.deps.Source.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	windows := make([]WindowInfo, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		windows = append(windows, WindowInfo{
			Handle:  string(w.Handle),
			Desktop: w.Desktop,
			PID:     w.PID,
			Title:   w.Title,
		})
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MoveWindowOutput, error) {
	if strings.TrimSpace(args.Handle) == "" {
		return nil, MoveWindowOutput{}, fmt.Errorf("handle is required")
	}
	if err := s.deps.Mutator.Relocate(wm.Handle(args.Handle), args.Workspace); err != nil {
		return nil, MoveWindowOutput{}, err
	}
	s.logger.Info("window moved", "handle", args.Handle, "workspace", args.Workspace)
	return nil, MoveWindowOutput{Moved: true}, nil
}

func (s *Server) handleRenameWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args RenameWindowInput) (*mcpsdk.CallToolResult, RenameWindowOutput, error) {
	if strings.TrimSpace(args.Handle) == "" {
		return nil, RenameWindowOutput{}, fmt.Errorf("handle is required")
	}
	if args.Title == "" {
		return nil, RenameWindowOutput{}, fmt.Errorf("title is required")
	}
	if err := s.deps.Mutator.Rename(wm.Handle(args.Handle), args.Title); err != nil {
		return nil, RenameWindowOutput{}, err
	}
	s.logger.Info("window renamed", "handle", args.Handle, "title", args.Title)
	return nil, RenameWindowOutput{Renamed: true}, nil
}

func (s *Server) handleLoadSession(_ context.Context, _ *mcpsdk.CallToolRequest, args LoadSessionInput) (*mcpsdk.CallToolResult, LoadSessionOutput, error) {
	plan, err := session.Load(args.Name)
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}

	lock, err := launch.AcquireRunLock(s.deps.LockPath)
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}
	defer lock.Unlock()

	runner := session.NewRunner(s.deps.Launcher, s.config, s.logger, s.deps.Recorder)
	res, err := runner.Run(args.Name, plan)
	if err != nil {
		return nil, LoadSessionOutput{}, fmt.Errorf("completed %d of %d steps: %w", res.StepsCompleted, len(plan.Steps), err)
	}

	handles := make([]string, len(res.Handles))
	for i, h := range res.Handles {
		handles[i] = string(h)
	}
	return nil, LoadSessionOutput{StepsCompleted: res.StepsCompleted, Handles: handles}, nil
}
