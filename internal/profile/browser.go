package profile

import (
	"github.com/1broseidon/stagehand/internal/config"
	"github.com/1broseidon/stagehand/internal/correlate"
	"github.com/1broseidon/stagehand/internal/launch"
)

// DefaultBrowserTitle is used when a browser launch does not name its
// window.
const DefaultBrowserTitle = "Firefox"

// BrowserParams configures one browser window launch.
type BrowserParams struct {
	Workspace int
	URL       string // opened in the new window when set
	Title     string // window title after launch; empty uses DefaultBrowserTitle
}

// Browser builds the launch spec for a browser window. The window is found
// by the configured title marker, which is assumed stable across browser
// versions and locales.
func Browser(cfg config.BrowserConfig, p BrowserParams) (launch.Spec, error) {
	if err := validateWorkspace(p.Workspace); err != nil {
		return launch.Spec{}, err
	}

	title := p.Title
	if title == "" {
		title = DefaultBrowserTitle
	}

	argv := []string{cfg.Program, "-new-window"}
	if p.URL != "" {
		argv = append(argv, p.URL)
	}

	return launch.Spec{
		Argv:      argv,
		Workspace: p.Workspace,
		Target:    correlate.Target{Field: correlate.FieldTitle, Pattern: cfg.TitleMarker},
		NewTitle:  title,
	}, nil
}
