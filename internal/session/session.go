// Package session loads and runs named launch plans: ordered launch steps
// stored as YAML under the user's config directory.
package session

import (
	"fmt"
	"strings"
	"time"
)

// StepKind selects the profile a step launches through.
type StepKind string

const (
	KindTerminal StepKind = "terminal"
	KindBrowser  StepKind = "browser"
	KindLab      StepKind = "lab"
	KindEditor   StepKind = "editor"
	KindRun      StepKind = "run"
)

// Step is one launch in a plan. Which fields apply depends on the kind.
type Step struct {
	Kind      StepKind `yaml:"kind"`
	Workspace int      `yaml:"workspace"`
	Directory string   `yaml:"directory,omitempty"` // terminal, lab
	Command   string   `yaml:"command,omitempty"`   // terminal, run
	Title     string   `yaml:"title,omitempty"`     // terminal, browser, run
	File      string   `yaml:"file,omitempty"`      // editor
	URL       string   `yaml:"url,omitempty"`       // browser
	Name      string   `yaml:"name,omitempty"`      // lab
	Port      int      `yaml:"port,omitempty"`      // lab
}

// Plan is a named session: steps executed in order.
type Plan struct {
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
	StepDelayMS int    `yaml:"step_delay_ms,omitempty"`
}

// StepDelay returns the pause inserted between steps.
func (p *Plan) StepDelay() time.Duration {
	return time.Duration(p.StepDelayMS) * time.Millisecond
}

// Validate checks the plan before any step runs. Errors carry the 1-based
// step number.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("a session needs at least one step")
	}
	if p.StepDelayMS < 0 {
		return fmt.Errorf("step_delay_ms must be >= 0, got %d", p.StepDelayMS)
	}
	for i := range p.Steps {
		if err := p.Steps[i].validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	switch s.Kind {
	case KindTerminal, KindBrowser, KindLab, KindEditor, KindRun:
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}

	if s.Workspace < 1 {
		return fmt.Errorf("workspace must be >= 1, got %d", s.Workspace)
	}

	switch s.Kind {
	case KindLab:
		if strings.TrimSpace(s.Directory) == "" {
			return fmt.Errorf("lab steps need a directory")
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("lab steps need a name")
		}
		if s.Port < 0 || s.Port > 65535 {
			return fmt.Errorf("port must be within 1..65535, got %d", s.Port)
		}
	case KindRun:
		if strings.TrimSpace(s.Command) == "" {
			return fmt.Errorf("run steps need a command")
		}
	}
	return nil
}
