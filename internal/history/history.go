// Package history keeps the append-only launch log: one key=value line
// per orchestration action, rotated by size.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action labels one recorded entry.
type Action string

const (
	ActionLaunch  Action = "LAUNCH"
	ActionStep    Action = "STEP"
	ActionSession Action = "SESSION"
)

// Config holds the recorder settings.
type Config struct {
	Enabled   bool
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Recorder appends launch records to the history log. Every recorder gets
// a fresh run id so the entries of one invocation can be grouped.
type Recorder struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
	runID       string
}

// NewRecorder opens the history log. A disabled config yields an inert
// recorder whose Record calls do nothing.
func NewRecorder(cfg Config) (*Recorder, error) {
	r := &Recorder{config: cfg, runID: uuid.NewString()}
	if !cfg.Enabled {
		return r, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open history log %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat history log: %w", err)
	}

	r.file = f
	r.currentSize = stat.Size()
	return r, nil
}

// RunID returns the id stamped on every entry this recorder writes.
func (r *Recorder) RunID() string {
	if r == nil {
		return ""
	}
	return r.runID
}

// Record appends one entry. Detail keys are written in sorted order so the
// log stays diffable; string values are quoted.
func (r *Recorder) Record(action Action, details map[string]interface{}) {
	if r == nil || !r.config.Enabled {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return
	}

	maxBytes := int64(r.config.MaxSizeMB) * 1024 * 1024
	if r.currentSize >= maxBytes {
		if err := r.rotate(); err != nil {
			// Rotation failed, but keep recording into the old file.
			fmt.Fprintf(os.Stderr, "history rotation failed: %v\n", err)
		}
		if r.file == nil {
			return
		}
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	var sb strings.Builder
	sb.WriteString(timestamp)
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("] run=")
	sb.WriteString(r.runID)

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			switch val := details[k].(type) {
			case string:
				sb.WriteString(fmt.Sprintf(" %s=%q", k, val))
			default:
				sb.WriteString(fmt.Sprintf(" %s=%v", k, val))
			}
		}
	}

	sb.WriteString("\n")
	entry := sb.String()

	n, err := r.file.WriteString(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write history entry: %v\n", err)
		return
	}
	r.currentSize += int64(n)
}

// Close releases the log file.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.file.Close()
	r.file = nil
	return err
}

// rotate shifts launches.log to launches.log.1 and so on, dropping the
// oldest rotated file once MaxFiles is reached.
func (r *Recorder) rotate() error {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}

	basePath := r.config.FilePath
	for i := r.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		newPath := fmt.Sprintf("%s.%d", basePath, i+1)
		if i == r.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, newPath)
		}
	}

	if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate history log: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new history log: %w", err)
	}

	r.file = f
	r.currentSize = 0
	return nil
}

// Tail returns the last n lines of the history log. n <= 0 returns all
// lines; a missing log is empty, not an error.
func Tail(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimRight(string(data), "\n")
	if trimmed == "" {
		return nil, nil
	}
	lines := strings.Split(trimmed, "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
