package mcp

// LaunchTerminalInput is the input for the launch_terminal tool.
type LaunchTerminalInput struct {
	Workspace int      `json:"workspace" jsonschema:"required,Target workspace number (1-based, as the desktop pager shows it)"`
	Directory string   `json:"directory,omitempty" jsonschema:"Working directory for the terminal"`
	Command   string   `json:"command,omitempty" jsonschema:"Command to run inside the terminal, shell quoting respected"`
	Title     string   `json:"title,omitempty" jsonschema:"Window title after launch (default: launched term). The first word must not contain the terminal's title marker."`
	Profile   string   `json:"profile,omitempty" jsonschema:"Terminal emulator profile (default: the configured profile)"`
	Options   []string `json:"options,omitempty" jsonschema:"Extra emulator arguments placed before the command separator"`
}

// LaunchTerminalOutput is the output for the launch_terminal tool.
type LaunchTerminalOutput struct {
	Handle    string `json:"handle"`
	Workspace int    `json:"workspace"`
}

// LaunchBrowserInput is the input for the launch_browser tool.
type LaunchBrowserInput struct {
	Workspace int    `json:"workspace" jsonschema:"required,Target workspace number (1-based)"`
	URL       string `json:"url,omitempty" jsonschema:"URL to open in the new window"`
	Title     string `json:"title,omitempty" jsonschema:"Window title after launch (default: Firefox)"`
}

// LaunchBrowserOutput is the output for the launch_browser tool.
type LaunchBrowserOutput struct {
	Handle    string `json:"handle"`
	Workspace int    `json:"workspace"`
}

// OpenLabInput is the input for the open_lab tool.
type OpenLabInput struct {
	Workspace int    `json:"workspace" jsonschema:"required,Target workspace number (1-based) for both windows"`
	Directory string `json:"directory" jsonschema:"required,Working directory the notebook server starts in"`
	Name      string `json:"name" jsonschema:"required,Title prefix; the windows are named <name>-JL and <name>-JL-Firefox"`
	Port      int    `json:"port,omitempty" jsonschema:"Notebook server port (default: the configured port)"`
}

// OpenLabOutput is the output for the open_lab tool.
type OpenLabOutput struct {
	TerminalHandle string `json:"terminal_handle"`
	BrowserHandle  string `json:"browser_handle"`
	URL            string `json:"url"`
}

// LaunchEditorInput is the input for the launch_editor tool.
type LaunchEditorInput struct {
	Workspace int    `json:"workspace" jsonschema:"required,Target workspace number (1-based)"`
	File      string `json:"file,omitempty" jsonschema:"Document to open; empty starts an empty editor"`
}

// LaunchEditorOutput is the output for the launch_editor tool.
type LaunchEditorOutput struct {
	Handle    string `json:"handle"`
	Workspace int    `json:"workspace"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Workspace int      `json:"workspace" jsonschema:"required,Target workspace number (1-based)"`
	Argv      []string `json:"argv" jsonschema:"required,Command to start, program first"`
	Title     string   `json:"title,omitempty" jsonschema:"Rename the window after launch; empty leaves the title alone"`
	// MatchTitle switches correlation from the spawned pid to the first
	// word of the window title. Use it for programs whose windows are not
	// owned by the started process.
	MatchTitle string `json:"match_title,omitempty" jsonschema:"Correlate by this first-title-word pattern instead of the spawned pid"`
	SkipFirst  bool   `json:"skip_first,omitempty" jsonschema:"Skip the first matching window and take the next one (for programs that open a transient window first)"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Handle    string `json:"handle"`
	Workspace int    `json:"workspace"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes one open window.
type WindowInfo struct {
	Handle  string `json:"handle"`
	Desktop int    `json:"desktop"`
	PID     int    `json:"pid"`
	Title   string `json:"title"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	Handle    string `json:"handle" jsonschema:"required,Window handle from list_windows or a launch tool"`
	Workspace int    `json:"workspace" jsonschema:"required,Target workspace number (1-based)"`
}

// MoveWindowOutput is the output for the move_window tool.
type MoveWindowOutput struct {
	Moved bool `json:"moved"`
}

// RenameWindowInput is the input for the rename_window tool.
type RenameWindowInput struct {
	Handle string `json:"handle" jsonschema:"required,Window handle from list_windows or a launch tool"`
	Title  string `json:"title" jsonschema:"required,New window title"`
}

// RenameWindowOutput is the output for the rename_window tool.
type RenameWindowOutput struct {
	Renamed bool `json:"renamed"`
}

// LoadSessionInput is the input for the load_session tool.
type LoadSessionInput struct {
	Name string `json:"name" jsonschema:"required,Session plan name (a YAML file under ~/.config/stagehand/sessions)"`
}

// LoadSessionOutput is the output for the load_session tool.
type LoadSessionOutput struct {
	StepsCompleted int      `json:"steps_completed"`
	Handles        []string `json:"handles"`
}
