package profile

import (
	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/launch"
)

// CommandParams configures a generic launch: an arbitrary argv placed on a
// workspace. This is the raw orchestrator surface exposed as a profile.
type CommandParams struct {
	Workspace int
	Argv      []string
	Title     string // rename after launch; empty leaves the title alone
	// MatchTitle correlates by first-title-token pattern instead of the
	// spawned pid. Use it for programs whose windows are not owned by the
	// started process.
	MatchTitle string
	SkipFirst  bool
}

// Command builds the launch spec for an arbitrary command.
func Command(p CommandParams) (launch.Spec, error) {
	if err := validateWorkspace(p.Workspace); err != nil {
		return launch.Spec{}, err
	}
	if len(p.Argv) == 0 {
		return launch.Spec{}, &ValidationError{Field: "argv", Reason: "command must not be empty"}
	}

	target := correlate.Target{Field: correlate.FieldPID, SkipFirst: p.SkipFirst}
	if p.MatchTitle != "" {
		target = correlate.Target{Field: correlate.FieldTitle, Pattern: p.MatchTitle, SkipFirst: p.SkipFirst}
	}

	return launch.Spec{
		Argv:      p.Argv,
		Workspace: p.Workspace,
		Target:    target,
		NewTitle:  p.Title,
	}, nil
}
