package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is returned by Acquire when a live process owns the file
var ErrAlreadyRunning = errors.New("player service is already running")

// PIDFile keeps one player-service process per pid file path
type PIDFile struct {
	path string
}

// New returns a PIDFile for path. Nothing touches the filesystem until Acquire.
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the managed file path
func (p *PIDFile) Path() string {
	return p.path
}

// Owner returns the pid recorded in the file and whether that process is alive.
// A missing or unreadable file reports (0, false).
func (p *PIDFile) Owner() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, alive(pid)
}

// Acquire records the current pid. Stale or garbled files are replaced.
func (p *PIDFile) Acquire() error {
	if pid, running := p.Owner(); running && pid != os.Getpid() {
		return fmt.Errorf("%w (PID %d, %s)", ErrAlreadyRunning, pid, p.path)
	}

	if err := os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Terminate sends SIGTERM to the recorded owner, if it is alive
func (p *PIDFile) Terminate() error {
	pid, running := p.Owner()
	if !running {
		return nil
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to stop PID %d: %w", pid, err)
	}
	return nil
}

// Release removes the file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// alive probes pid with signal 0; EPERM still means the process exists
func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
