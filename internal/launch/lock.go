package launch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireRunLock takes the cross-process launch lock. Two concurrent runs
// polling the same desktop can each observe the other's new window as a
// correlation match, so only one launch may be in flight at a time. The
// caller must Unlock the returned lock once the launch finishes.
func AcquireRunLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring launch lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another launch is in progress (lock held: %s)", path)
	}
	return lock, nil
}
