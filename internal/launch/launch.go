// Package launch sequences a single application launch: take a baseline
// window snapshot, start the process, resolve the window it creates, then
// apply the optional rename and the workspace move.
package launch

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/wm"
)

// Spec describes one launch.
type Spec struct {
	// Argv is the command to start, program first.
	Argv []string
	// Workspace is the 1-based target workspace as the desktop shows it.
	Workspace int
	// Target identifies the window the command is expected to create. A
	// pid target with an empty pattern is completed with the spawned
	// process id.
	Target correlate.Target
	// NewTitle renames the resolved window; empty leaves the title alone.
	NewTitle string
}

// Mutator issues rename and relocation commands for a window handle.
type Mutator interface {
	Rename(h wm.Handle, title string) error
	Relocate(h wm.Handle, workspace int) error
}

// Orchestrator runs launches against one window manager session.
type Orchestrator struct {
	source  correlate.Source
	mutator Mutator
	poll    correlate.Options
	logger  *slog.Logger

	spawnFn func(argv []string) (int, error)
}

// New returns an Orchestrator polling with opts. A nil logger discards
// stage logs.
func New(source correlate.Source, mutator Mutator, opts correlate.Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		source:  source,
		mutator: mutator,
		poll:    opts,
		logger:  logger,
		spawnFn: spawnProcess,
	}
}

// LaunchAndMove starts the process described by spec, resolves its window
// and places it. It returns the resolved window handle.
//
// The spawned process is not waited on. Failures abort the remaining steps
// and name the stage that failed; there is no retry.
func (o *Orchestrator) LaunchAndMove(spec Spec) (wm.Handle, error) {
	snap, err := o.source.ListWindows()
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	baseline := snap.Handles()

	pid, err := o.spawnFn(spec.Argv)
	if err != nil {
		return "", fmt.Errorf("spawn: %w", err)
	}
	o.logger.Info("process started", "command", spec.Argv[0], "pid", pid)

	target := spec.Target
	if target.Field == correlate.FieldPID && target.Pattern == "" {
		target.Pattern = strconv.Itoa(pid)
	}

	handle, err := correlate.Resolve(o.source, baseline, target, o.poll)
	if err != nil {
		return "", fmt.Errorf("correlate: %w", err)
	}
	o.logger.Info("window resolved",
		"handle", handle,
		"field", target.Field.String(),
		"pattern", target.Pattern)

	if spec.NewTitle != "" {
		if err := o.mutator.Rename(handle, spec.NewTitle); err != nil {
			return "", fmt.Errorf("rename: %w", err)
		}
	}
	if err := o.mutator.Relocate(handle, spec.Workspace); err != nil {
		return "", fmt.Errorf("relocate: %w", err)
	}
	o.logger.Info("window placed", "handle", handle, "workspace", spec.Workspace)

	return handle, nil
}
