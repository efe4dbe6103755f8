package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

// BuildEffectiveConfig overlays raw file values on the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = Backend(*raw.Backend)
	}
	if raw.WmctrlPath != nil {
		cfg.WmctrlPath = *raw.WmctrlPath
	}

	if raw.Poll != nil {
		if raw.Poll.Attempts != nil {
			cfg.Poll.Attempts = *raw.Poll.Attempts
		}
		if raw.Poll.IntervalMS != nil {
			cfg.Poll.IntervalMS = *raw.Poll.IntervalMS
		}
	}

	if raw.Terminal != nil {
		if raw.Terminal.Program != nil {
			cfg.Terminal.Program = *raw.Terminal.Program
		}
		if raw.Terminal.Profile != nil {
			cfg.Terminal.Profile = *raw.Terminal.Profile
		}
		if raw.Terminal.TitleMarker != nil {
			cfg.Terminal.TitleMarker = *raw.Terminal.TitleMarker
		}
	}

	if raw.Browser != nil {
		if raw.Browser.Program != nil {
			cfg.Browser.Program = *raw.Browser.Program
		}
		if raw.Browser.TitleMarker != nil {
			cfg.Browser.TitleMarker = *raw.Browser.TitleMarker
		}
	}

	if raw.Editor != nil {
		if raw.Editor.Program != nil {
			cfg.Editor.Program = *raw.Editor.Program
		}
	}

	if raw.Lab != nil {
		if raw.Lab.Port != nil {
			cfg.Lab.Port = *raw.Lab.Port
		}
		if raw.Lab.StartupDelayMS != nil {
			cfg.Lab.StartupDelayMS = *raw.Lab.StartupDelayMS
		}
		if raw.Lab.TerminalProfile != nil {
			cfg.Lab.TerminalProfile = *raw.Lab.TerminalProfile
		}
	}

	if raw.History != nil {
		if raw.History.Enabled != nil {
			cfg.History.Enabled = *raw.History.Enabled
		}
		if raw.History.File != nil {
			cfg.History.File = *raw.History.File
		}
		if raw.History.MaxSizeMB != nil {
			cfg.History.MaxSizeMB = *raw.History.MaxSizeMB
		}
		if raw.History.MaxFiles != nil {
			cfg.History.MaxFiles = *raw.History.MaxFiles
		}
	}

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}

	return cfg
}
