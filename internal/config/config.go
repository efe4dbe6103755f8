package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backend selects how stagehand talks to the window manager.
type Backend string

const (
	// BackendWmctrl shells out to the wmctrl tool.
	BackendWmctrl Backend = "wmctrl"
	// BackendX11 reads and writes EWMH properties over a direct X
	// connection.
	BackendX11 Backend = "x11"
)

// PollConfig bounds the correlation polling loop.
type PollConfig struct {
	// Attempts is the number of snapshot passes before a search gives up.
	Attempts int `yaml:"attempts"`
	// IntervalMS is the pause between passes, in milliseconds.
	IntervalMS int `yaml:"interval_ms"`
}

// Interval returns the pause between polling passes as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// TerminalConfig describes the terminal emulator profile launches use.
type TerminalConfig struct {
	Program string `yaml:"program"`
	Profile string `yaml:"profile"`
	// TitleMarker is the word the emulator is known to put first in new
	// window titles. Title correlation and the rename collision guard both
	// key off it.
	TitleMarker string `yaml:"title_marker"`
}

// BrowserConfig describes the browser profile launches use.
type BrowserConfig struct {
	Program string `yaml:"program"`
	// TitleMarker is a stable first word of the browser's window title.
	// Stability across versions and locales is an external assumption.
	TitleMarker string `yaml:"title_marker"`
}

// EditorConfig describes the document editor profile launches use.
type EditorConfig struct {
	Program string `yaml:"program"`
}

// LabConfig tunes the composite notebook-server-plus-browser launch.
type LabConfig struct {
	Port int `yaml:"port"`
	// StartupDelayMS is the pause between starting the server terminal and
	// opening the browser. A heuristic, not a readiness check.
	StartupDelayMS  int    `yaml:"startup_delay_ms"`
	TerminalProfile string `yaml:"terminal_profile"`
}

// StartupDelay returns the lab startup pause as a duration.
func (l LabConfig) StartupDelay() time.Duration {
	return time.Duration(l.StartupDelayMS) * time.Millisecond
}

// HistoryConfig configures the launch history log.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
	// File is the log path (default: ~/.local/share/stagehand/launches.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 5)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Backend    Backend        `yaml:"backend"`
	WmctrlPath string         `yaml:"wmctrl_path"`
	Poll       PollConfig     `yaml:"poll"`
	Terminal   TerminalConfig `yaml:"terminal"`
	Browser    BrowserConfig  `yaml:"browser"`
	Editor     EditorConfig   `yaml:"editor"`
	Lab        LabConfig      `yaml:"lab"`
	History    HistoryConfig  `yaml:"history,omitempty"`
	// Display and XAuthority seed GUI environment resolution when the
	// process itself was started without one (ssh, MCP clients). Empty
	// means detect.
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:    BackendWmctrl,
		WmctrlPath: "wmctrl",
		Poll: PollConfig{
			Attempts:   1000,
			IntervalMS: 50,
		},
		Terminal: TerminalConfig{
			Program:     "gnome-terminal",
			Profile:     "default",
			TitleMarker: "Terminal",
		},
		Browser: BrowserConfig{
			Program:     "firefox",
			TitleMarker: "Mozilla",
		},
		Editor: EditorConfig{
			Program: "texstudio",
		},
		Lab: LabConfig{
			Port:            8890,
			StartupDelayMS:  200,
			TerminalProfile: "Jupyter",
		},
		History: HistoryConfig{
			Enabled:   true,
			MaxSizeMB: 5,
			MaxFiles:  3,
		},
	}
}

// GetHistoryConfig returns the history configuration with defaults applied.
func (c *Config) GetHistoryConfig() HistoryConfig {
	if c == nil {
		return HistoryConfig{}
	}
	cfg := c.History
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/stagehand/launches.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	return cfg
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendWmctrl, BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: wmctrl, x11")}
	}
	if strings.TrimSpace(c.WmctrlPath) == "" {
		return &ValidationError{Path: "wmctrl_path", Err: fmt.Errorf("wmctrl_path must not be empty")}
	}
	if c.Poll.Attempts <= 0 {
		return &ValidationError{Path: "poll.attempts", Err: fmt.Errorf("attempts must be > 0")}
	}
	if c.Poll.IntervalMS <= 0 {
		return &ValidationError{Path: "poll.interval_ms", Err: fmt.Errorf("interval_ms must be > 0")}
	}
	if strings.TrimSpace(c.Terminal.Program) == "" {
		return &ValidationError{Path: "terminal.program", Err: fmt.Errorf("program must not be empty")}
	}
	if err := validateMarker(c.Terminal.TitleMarker); err != nil {
		return &ValidationError{Path: "terminal.title_marker", Err: err}
	}
	if strings.TrimSpace(c.Browser.Program) == "" {
		return &ValidationError{Path: "browser.program", Err: fmt.Errorf("program must not be empty")}
	}
	if err := validateMarker(c.Browser.TitleMarker); err != nil {
		return &ValidationError{Path: "browser.title_marker", Err: err}
	}
	if strings.TrimSpace(c.Editor.Program) == "" {
		return &ValidationError{Path: "editor.program", Err: fmt.Errorf("program must not be empty")}
	}
	if c.Lab.Port < 1 || c.Lab.Port > 65535 {
		return &ValidationError{Path: "lab.port", Err: fmt.Errorf("port must be between 1 and 65535")}
	}
	if c.Lab.StartupDelayMS < 0 {
		return &ValidationError{Path: "lab.startup_delay_ms", Err: fmt.Errorf("startup_delay_ms must be >= 0")}
	}
	if strings.TrimSpace(c.Lab.TerminalProfile) == "" {
		return &ValidationError{Path: "lab.terminal_profile", Err: fmt.Errorf("terminal_profile must not be empty")}
	}
	if c.History.MaxSizeMB < 0 {
		return &ValidationError{Path: "history.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.History.MaxFiles < 0 {
		return &ValidationError{Path: "history.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

// validateMarker rejects markers that can never match a first title token.
func validateMarker(marker string) error {
	if strings.TrimSpace(marker) == "" {
		return fmt.Errorf("title_marker must not be empty")
	}
	if len(strings.Fields(marker)) != 1 {
		return fmt.Errorf("title_marker must be a single word")
	}
	return nil
}
