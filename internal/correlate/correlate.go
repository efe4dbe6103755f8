// Package correlate resolves which window the window manager created for a
// freshly spawned process.
//
// The window manager exposes no create-window event stream, so the engine
// works by elimination: capture the set of window handles before the spawn,
// then poll for a window outside that set whose process id or title first
// token contains a caller-chosen pattern.
package correlate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/stagehand/internal/wm"
)

const (
	// DefaultAttempts bounds the polling loop. At DefaultInterval a window
	// has roughly 50 seconds to appear before the search gives up.
	DefaultAttempts = 1000
	DefaultInterval = 50 * time.Millisecond
)

// Field selects which window attribute a pattern is matched against.
type Field int

const (
	// FieldPID matches the pattern against the decimal owner process id.
	FieldPID Field = iota
	// FieldTitle matches the pattern against the first whitespace-separated
	// token of the window title.
	FieldTitle
)

func (f Field) String() string {
	switch f {
	case FieldPID:
		return "pid"
	case FieldTitle:
		return "title"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Target describes the window a launch expects to appear.
type Target struct {
	Field   Field
	Pattern string
	// SkipFirst discards the first matching window and resolves the one
	// after it. Applications that open a splash or loader window before
	// their real window need this.
	SkipFirst bool
}

func (t Target) matches(w wm.Window) bool {
	switch t.Field {
	case FieldPID:
		return strings.Contains(strconv.Itoa(w.PID), t.Pattern)
	case FieldTitle:
		fields := strings.Fields(w.Title)
		if len(fields) == 0 {
			return false
		}
		return strings.Contains(fields[0], t.Pattern)
	default:
		return false
	}
}

// Options bound the polling loop. A zero or negative Attempts falls back to
// DefaultAttempts; a zero Interval polls back to back without sleeping.
type Options struct {
	Attempts int
	Interval time.Duration
}

func DefaultOptions() Options {
	return Options{Attempts: DefaultAttempts, Interval: DefaultInterval}
}

// Source lists the windows currently known to the window manager.
type Source interface {
	ListWindows() (wm.Snapshot, error)
}

// ExhaustedError reports a search that ran out of polling attempts without
// seeing a matching new window.
type ExhaustedError struct {
	Field    Field
	Pattern  string
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no new window matching %s %q after %d attempts", e.Field, e.Pattern, e.Attempts)
}

// Resolve polls src until a window appears whose handle is outside baseline
// and whose selected field matches target. Each pass takes a fresh snapshot;
// records are scanned in the order the tool reports them, so when several
// new windows match in the same pass the earliest row wins.
//
// With SkipFirst set, the first match is ruled out alongside the baseline
// and the search runs again with a full attempt budget. A second matching
// window already visible in the same pass is taken right away.
//
// The returned handle is always absent from baseline. When the attempt
// budget runs out Resolve returns an *ExhaustedError; when src fails its
// error is returned as is.
func Resolve(src Source, baseline map[wm.Handle]struct{}, target Target, opts Options) (wm.Handle, error) {
	found, err := scan(src, baseline, target, opts)
	if err != nil {
		return "", err
	}
	if !target.SkipFirst {
		return found, nil
	}

	// Rule out only the throwaway: a real window that appeared in the
	// same pass as the first match must stay eligible.
	rebased := make(map[wm.Handle]struct{}, len(baseline)+1)
	for h := range baseline {
		rebased[h] = struct{}{}
	}
	rebased[found] = struct{}{}
	return scan(src, rebased, target, opts)
}

func scan(src Source, old map[wm.Handle]struct{}, target Target, opts Options) (wm.Handle, error) {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	for i := 0; i < attempts; i++ {
		snap, err := src.ListWindows()
		if err != nil {
			return "", err
		}
		for _, win := range snap.Windows {
			if _, known := old[win.Handle]; known {
				continue
			}
			if target.matches(win) {
				return win.Handle, nil
			}
		}
		if opts.Interval > 0 {
			time.Sleep(opts.Interval)
		}
	}
	return "", &ExhaustedError{Field: target.Field, Pattern: target.Pattern, Attempts: attempts}
}
