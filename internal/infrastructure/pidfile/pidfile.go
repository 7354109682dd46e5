// Package pidfile keeps a single simulation daemon per PID file.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned when a live process owns the PID file
var ErrAlreadyRunning = errors.New("simulation daemon is already running")

// PIDFile manages a process ID file for daemon single-instance enforcement
type PIDFile struct {
	path  string
	alive func(pid int) bool
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path, alive: isProcessRunning}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Owner returns the PID recorded in the file, or 0 if the file is missing or unreadable
func (p *PIDFile) Owner() int {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

// Acquire writes the current PID. A stale or malformed file is replaced; a
// file owned by a live process yields ErrAlreadyRunning.
func (p *PIDFile) Acquire() error {
	if owner := p.Owner(); owner != 0 && owner != os.Getpid() && p.alive(owner) {
		return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, owner)
	}

	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create PID directory: %w", err)
		}
	}

	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file if this process still owns it
func (p *PIDFile) Release() error {
	if owner := p.Owner(); owner != 0 && owner != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning sends signal 0 to the PID
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by another user
		return true
	default:
		return false
	}
}
