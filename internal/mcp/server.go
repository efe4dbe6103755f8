// Package mcp exposes the launch profiles to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/history"
	"github.com/1broseidon/stagehand/internal/launch"
	"github.com/1broseidon/stagehand/internal/profile"
)

const (
	ServerName    = "stagehand"
	ServerVersion = "0.1.0"
)

// Deps are the window-manager facing pieces the tools drive. Source and
// Mutator talk to the active backend; Launcher is the orchestrator built
// on top of them.
type Deps struct {
	Source   correlate.Source
	Mutator  launch.Mutator
	Launcher profile.Launcher
	Recorder *history.Recorder // nil skips history
	LockPath string
}

// Server is the MCP server for stagehand window launches.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	deps      Deps
	logger    *slog.Logger
}

// NewServer creates an MCP server driving the given backend.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Source == nil || deps.Mutator == nil || deps.Launcher == nil {
		return nil, fmt.Errorf("mcp server needs a window source, a mutator, and a launcher")
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases server resources.
func (s *Server) Close() error {
	if s == nil || s.deps.Recorder == nil {
		return nil
	}
	return s.deps.Recorder.Close()
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_terminal",
		Description: "Launch a terminal window on a workspace. Optionally set the working directory, run a command inside it, and title the window. Blocks until the new window appears and has been placed; returns its handle.",
	}, s.handleLaunchTerminal)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_browser",
		Description: "Open a new browser window, optionally on a URL, and place it on a workspace. Returns the window handle.",
	}, s.handleLaunchBrowser)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_lab",
		Description: "Start a local notebook server in a terminal, wait for it to come up, then open a browser window on it. Both windows land on the same workspace and are titled <name>-JL and <name>-JL-Firefox. Returns both handles and the server URL.",
	}, s.handleOpenLab)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_editor",
		Description: "Launch the document editor, optionally opening a file, and place its window on a workspace. The editor's transient first window is skipped automatically.",
	}, s.handleLaunchEditor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Start an arbitrary command and place the window it creates on a workspace. Correlates the window by the spawned pid unless match_title is given. Returns the window handle.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all open windows with handle, desktop (0-based, -1 for sticky windows), pid, and title.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a workspace by handle. Workspace numbers are 1-based as the desktop pager shows them.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rename_window",
		Description: "Set a window's title by handle.",
	}, s.handleRenameWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_session",
		Description: "Run a stored session plan: an ordered list of launch steps defined in ~/.config/stagehand/sessions/<name>.yaml. Steps run sequentially and the first failure aborts the rest; windows already launched stay. Returns how many steps completed and the handles of the created windows.",
	}, s.handleLoadSession)
}
