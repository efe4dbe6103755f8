package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawPoll struct {
	Attempts   *int `yaml:"attempts"`
	IntervalMS *int `yaml:"interval_ms"`
}

type RawTerminal struct {
	Program     *string `yaml:"program"`
	Profile     *string `yaml:"profile"`
	TitleMarker *string `yaml:"title_marker"`
}

type RawBrowser struct {
	Program     *string `yaml:"program"`
	TitleMarker *string `yaml:"title_marker"`
}

type RawEditor struct {
	Program *string `yaml:"program"`
}

type RawLab struct {
	Port            *int    `yaml:"port"`
	StartupDelayMS  *int    `yaml:"startup_delay_ms"`
	TerminalProfile *string `yaml:"terminal_profile"`
}

type RawHistory struct {
	Enabled   *bool   `yaml:"enabled"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include    IncludeList  `yaml:"include"`
	Backend    *string      `yaml:"backend"`
	WmctrlPath *string      `yaml:"wmctrl_path"`
	Poll       *RawPoll     `yaml:"poll"`
	Terminal   *RawTerminal `yaml:"terminal"`
	Browser    *RawBrowser  `yaml:"browser"`
	Editor     *RawEditor   `yaml:"editor"`
	Lab        *RawLab      `yaml:"lab"`
	History    *RawHistory  `yaml:"history"`
	Display    *string      `yaml:"display"`
	XAuthority *string      `yaml:"xauthority"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.WmctrlPath != nil {
		out.WmctrlPath = overlay.WmctrlPath
	}

	if overlay.Poll != nil {
		if out.Poll == nil {
			out.Poll = &RawPoll{}
		}
		if overlay.Poll.Attempts != nil {
			out.Poll.Attempts = overlay.Poll.Attempts
		}
		if overlay.Poll.IntervalMS != nil {
			out.Poll.IntervalMS = overlay.Poll.IntervalMS
		}
	}

	if overlay.Terminal != nil {
		if out.Terminal == nil {
			out.Terminal = &RawTerminal{}
		}
		if overlay.Terminal.Program != nil {
			out.Terminal.Program = overlay.Terminal.Program
		}
		if overlay.Terminal.Profile != nil {
			out.Terminal.Profile = overlay.Terminal.Profile
		}
		if overlay.Terminal.TitleMarker != nil {
			out.Terminal.TitleMarker = overlay.Terminal.TitleMarker
		}
	}

	if overlay.Browser != nil {
		if out.Browser == nil {
			out.Browser = &RawBrowser{}
		}
		if overlay.Browser.Program != nil {
			out.Browser.Program = overlay.Browser.Program
		}
		if overlay.Browser.TitleMarker != nil {
			out.Browser.TitleMarker = overlay.Browser.TitleMarker
		}
	}

	if overlay.Editor != nil {
		if out.Editor == nil {
			out.Editor = &RawEditor{}
		}
		if overlay.Editor.Program != nil {
			out.Editor.Program = overlay.Editor.Program
		}
	}

	if overlay.Lab != nil {
		if out.Lab == nil {
			out.Lab = &RawLab{}
		}
		if overlay.Lab.Port != nil {
			out.Lab.Port = overlay.Lab.Port
		}
		if overlay.Lab.StartupDelayMS != nil {
			out.Lab.StartupDelayMS = overlay.Lab.StartupDelayMS
		}
		if overlay.Lab.TerminalProfile != nil {
			out.Lab.TerminalProfile = overlay.Lab.TerminalProfile
		}
	}

	if overlay.History != nil {
		if out.History == nil {
			out.History = &RawHistory{}
		}
		if overlay.History.Enabled != nil {
			out.History.Enabled = overlay.History.Enabled
		}
		if overlay.History.File != nil {
			out.History.File = overlay.History.File
		}
		if overlay.History.MaxSizeMB != nil {
			out.History.MaxSizeMB = overlay.History.MaxSizeMB
		}
		if overlay.History.MaxFiles != nil {
			out.History.MaxFiles = overlay.History.MaxFiles
		}
	}

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}

	return out
}
