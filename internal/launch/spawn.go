package launch

import (
	"errors"
	"fmt"
	"os/exec"
)

// spawnProcess starts argv and returns the child's process id.
func spawnProcess(argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", argv[0], err)
	}
	// Do not wait; launched applications are long-lived.
	return cmd.Process.Pid, nil
}
