// Package profile builds launch specs for the application families stagehand
// knows how to place: terminal sessions, browser windows, document editors,
// arbitrary commands, and the composite notebook workflow.
package profile

import (
	"fmt"

	"github.com/1broseidon/stagehand/internal/launch"
	"github.com/1broseidon/stagehand/internal/wm"
)

// Launcher runs one launch through the orchestrator.
type Launcher interface {
	LaunchAndMove(launch.Spec) (wm.Handle, error)
}

// ValidationError reports launch input rejected before any process was
// started.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validateWorkspace(ws int) error {
	if ws < 1 {
		return &ValidationError{
			Field:  "workspace",
			Reason: fmt.Sprintf("%d is out of range (numbering starts at 1)", ws),
		}
	}
	return nil
}
