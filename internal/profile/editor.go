package profile

import (
	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/launch"
)

// EditorParams configures one document editor launch.
type EditorParams struct {
	Workspace int
	File      string // document to open; empty starts an empty editor
}

// Editor builds the launch spec for the document editor. The editor opens a
// loader window before its document window, so correlation skips the first
// match on the spawned pid.
func Editor(cfg config.EditorConfig, p EditorParams) (launch.Spec, error) {
	if err := validateWorkspace(p.Workspace); err != nil {
		return launch.Spec{}, err
	}

	argv := []string{cfg.Program, "--start-always"}
	if p.File != "" {
		argv = append(argv, p.File)
	}

	return launch.Spec{
		Argv:      argv,
		Workspace: p.Workspace,
		Target:    correlate.Target{Field: correlate.FieldPID, SkipFirst: true},
	}, nil
}
