package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrNotRunning is returned by KillExisting when no live daemon owns the file
var ErrNotRunning = errors.New("no running daemon")

// PIDFile enforces a single farmsim daemon per PID file path
type PIDFile struct {
	path        string
	killTimeout time.Duration
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path, killTimeout: 10 * time.Second}
}

// Path returns the managed file path
func (p *PIDFile) Path() string { return p.path }

// Acquire writes the current PID. It fails if a live process already owns
// the file; stale or unreadable files are replaced.
func (p *PIDFile) Acquire() error {
	pid, err := p.ReadPID()
	switch {
	case err == nil && isProcessRunning(pid):
		return fmt.Errorf("daemon is already running (PID %d)", pid)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		_ = os.Remove(p.path)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the PID file if this process still owns it
func (p *PIDFile) Release() error {
	pid, err := p.ReadPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return os.Remove(p.path)
	}
	if pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// ReadPID returns the PID recorded in the file
func (p *PIDFile) ReadPID() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID file %s: %q", p.path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// KillExisting stops the daemon recorded in the file with SIGTERM, falling
// back to SIGKILL when it outlives the kill timeout. The file is removed.
func (p *PIDFile) KillExisting() error {
	pid, err := p.ReadPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotRunning
		}
		_ = os.Remove(p.path)
		return ErrNotRunning
	}
	if pid == os.Getpid() {
		return fmt.Errorf("refusing to kill the current process (PID %d)", pid)
	}
	if !isProcessRunning(pid) {
		_ = os.Remove(p.path)
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}

	deadline := time.Now().Add(p.killTimeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			_ = os.Remove(p.path)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err := process.Signal(syscall.SIGKILL); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	_ = os.Remove(p.path)
	return nil
}

// isProcessRunning probes the process with signal 0
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// FindProcess always succeeds on Unix
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to someone else
	return errors.Is(err, syscall.EPERM)
}
