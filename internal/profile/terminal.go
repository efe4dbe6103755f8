package profile

import (
	"fmt"
	"strings"

	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/launch"
)

// DefaultTerminalTitle is used when a terminal launch does not name its
// window.
const DefaultTerminalTitle = "launched term"

// TerminalParams configures one terminal launch.
type TerminalParams struct {
	Workspace int
	Directory string   // working directory; empty keeps the emulator default
	Command   string   // inline command run in the terminal, shell quoting respected
	Options   []string // extra arguments placed before the command separator
	Title     string   // window title after launch; empty uses DefaultTerminalTitle
	Profile   string   // emulator profile; empty uses the configured one
}

// Terminal builds the launch spec for a terminal session. The window is
// found by the emulator's title marker, so a requested title whose first
// word contains that marker is rejected before launch.
func Terminal(cfg config.TerminalConfig, p TerminalParams) (launch.Spec, error) {
	if err := validateWorkspace(p.Workspace); err != nil {
		return launch.Spec{}, err
	}

	title := p.Title
	if title == "" {
		title = DefaultTerminalTitle
	}
	if err := checkMarkerCollision(title, cfg.TitleMarker); err != nil {
		return launch.Spec{}, err
	}

	prof := p.Profile
	if prof == "" {
		prof = cfg.Profile
	}

	argv := []string{cfg.Program, "--window-with-profile=" + prof}
	if p.Directory != "" {
		argv = append(argv, "--working-directory="+p.Directory)
	}
	argv = append(argv, p.Options...)
	if p.Command != "" {
		words, err := SplitCommand(p.Command)
		if err != nil {
			return launch.Spec{}, &ValidationError{Field: "command", Reason: err.Error()}
		}
		argv = append(argv, "--")
		argv = append(argv, words...)
	}

	return launch.Spec{
		Argv:      argv,
		Workspace: p.Workspace,
		Target:    correlate.Target{Field: correlate.FieldTitle, Pattern: cfg.TitleMarker},
		NewTitle:  title,
	}, nil
}

// checkMarkerCollision rejects titles whose first word contains the title
// correlation marker.
func checkMarkerCollision(title, marker string) error {
	first := title
	if fields := strings.Fields(title); len(fields) > 0 {
		first = fields[0]
	}
	if marker != "" && strings.Contains(first, marker) {
		return &ValidationError{
			Field:  "title",
			Reason: fmt.Sprintf("first word %q collides with the correlation marker %q", first, marker),
		}
	}
	return nil
}

// SplitCommand splits an inline command into words, honoring single quotes,
// double quotes, and backslash escapes.
func SplitCommand(s string) ([]string, error) {
	var out []string

	var buf strings.Builder
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		out = append(out, buf.String())
		buf.Reset()
	}

	for _, r := range s {
		if escaped {
			buf.WriteRune(r)
			escaped = false
			continue
		}

		if !inSingle && r == '\\' {
			escaped = true
			continue
		}

		if !inDouble && r == '\'' {
			inSingle = !inSingle
			continue
		}
		if !inSingle && r == '"' {
			inDouble = !inDouble
			continue
		}

		if !inSingle && !inDouble {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				flush()
				continue
			}
		}

		buf.WriteRune(r)
	}

	if escaped {
		return nil, fmt.Errorf("unfinished escape in command")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quote in command")
	}

	flush()
	return out, nil
}
