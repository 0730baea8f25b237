// Package proc owns the spawn/exec/wait cycle for child processes.
//
// A Supervisor launches exactly one child per call and never returns until
// that child has been reaped, so the caller can rely on the child's output
// and side effects being complete when control comes back.
package proc

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Command is one parsed input line: element 0 names the program, the rest are
// its positional arguments. The argument-vector terminator required by the OS
// call convention is never part of a Command; it is appended at the
// process-creation boundary.
type Command []string

// Name returns the program the command names, or "" for an empty command.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Empty reports whether the command names no program at all.
func (c Command) Empty() bool {
	return len(c) == 0
}

func (c Command) String() string {
	return strings.Join(c, " ")
}

// Exit codes reported for programs that never started, following the
// convention interactive shells use.
const (
	ExitNotFound      = 127
	ExitNotExecutable = 126
)

// ErrEmptyCommand reports a Launch call without a program name. Callers are
// expected to filter empty commands before launching.
var ErrEmptyCommand = errors.New("empty command")

// ExitDisposition is the terminal state of a child process: either a normal
// exit carrying a code, or termination by a signal.
type ExitDisposition struct {
	// Code is the exit status, or 128+N for death by signal N.
	Code int
	// Signal names the fatal signal. Empty for a normal exit.
	Signal string
}

// Exited reports whether the process ended on its own rather than by signal.
func (d ExitDisposition) Exited() bool {
	return d.Signal == ""
}

// Ok reports a normal exit with status zero.
func (d ExitDisposition) Ok() bool {
	return d.Exited() && d.Code == 0
}

func (d ExitDisposition) String() string {
	if d.Exited() {
		return fmt.Sprintf("exit status %d", d.Code)
	}
	return fmt.Sprintf("signal: %s", d.Signal)
}

// Stats counts supervisor activity. Spawned equals Reaped whenever no Launch
// call is in flight: every child created is reaped before Launch returns.
type Stats struct {
	Spawned int
	Reaped  int
}

// Supervisor runs one child process at a time. Each Launch call owns its
// child's handle exclusively from creation until the wait collects the exit
// disposition, so no locking is needed and no terminated child is ever left
// unreaped.
type Supervisor struct {
	// Fs is walked during program lookup. Defaults to the host filesystem.
	Fs afero.Fs
	// Env holds the child environment in "key=value" form. nil inherits the
	// supervisor's own environment.
	Env []string
	// Dir is the child working directory. "" inherits the supervisor's own.
	Dir string
	// Path overrides the PATH variable consulted during program lookup.
	Path string

	// Stdin, Stdout and Stderr are inherited by every child. Anything the
	// child writes lands here before Launch returns.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log *log.Logger

	stats Stats
}

// NewSupervisor returns a Supervisor wired to the host OS.
func NewSupervisor(logger *log.Logger) *Supervisor {
	return &Supervisor{
		Fs:     afero.NewOsFs(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    logger,
	}
}

// Stats reports how many children have been spawned and reaped so far.
func (s *Supervisor) Stats() Stats {
	return s.stats
}

func (s *Supervisor) searchPath() string {
	if s.Path != "" {
		return s.Path
	}
	for _, kv := range s.Env {
		if rest, ok := strings.CutPrefix(kv, "PATH="); ok {
			return rest
		}
	}
	return os.Getenv("PATH")
}

func (s *Supervisor) logger() *log.Logger {
	if s.Log == nil {
		return log.New(io.Discard)
	}
	return s.Log
}

// execFailed reports a program that could not be started. The reference
// behavior is the child writing a diagnostic and exiting nonzero; the parent
// observes only the distinguished disposition, never an error.
func (s *Supervisor) execFailed(name string, err error) ExitDisposition {
	code := ExitNotFound
	reason := "command not found"
	switch {
	case errors.Is(err, fs.ErrPermission):
		code = ExitNotExecutable
		reason = "permission denied"
	case errors.Is(err, syscall.ENOEXEC):
		code = ExitNotExecutable
		reason = "cannot execute binary file"
	}
	fmt.Fprintf(s.Stderr, "minish: %s: %s\n", name, reason)
	s.logger().Debug("exec failed", "program", name, "error", err)
	return ExitDisposition{Code: code}
}

// Launch performs one full spawn→exec→wait cycle for cmd and returns the
// child's exit disposition.
//
// The returned error is non-nil only when the operating system could not
// create a process at all; no child exists in that case and the caller may
// keep going. A program that could not be located or started surfaces as a
// completed disposition with a distinguishing code instead, exactly as if the
// child had reported the failed exec itself and died.
func (s *Supervisor) Launch(cmd Command) (ExitDisposition, error) {
	if cmd.Empty() {
		return ExitDisposition{}, ErrEmptyCommand
	}

	execPath, err := LookPath(s.Fs, s.searchPath(), cmd.Name())
	if err != nil {
		return s.execFailed(cmd.Name(), err), nil
	}

	child := &exec.Cmd{
		Path:   execPath,
		Args:   cmd,
		Env:    s.Env,
		Dir:    s.Dir,
		Stdin:  s.Stdin,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	}

	if err := child.Start(); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.Is(err, exec.ErrNotFound) || errors.Is(err, syscall.ENOEXEC) {
			// The program vanished, lost its mode bits, or was rejected by
			// the loader between lookup and start.
			return s.execFailed(cmd.Name(), err), nil
		}
		fmt.Fprintf(s.Stderr, "minish: %s: %v\n", cmd.Name(), err)
		return ExitDisposition{}, fmt.Errorf("spawn %s: %w", cmd.Name(), err)
	}
	s.stats.Spawned++
	s.logger().Debug("spawned child", "pid", child.Process.Pid, "argv", cmd.String())

	// Wait on the specific child just created, never "any child".
	waitErr := child.Wait()
	s.stats.Reaped++

	if child.ProcessState == nil {
		// Wait itself failed before producing a state. The handle is
		// gone either way.
		return ExitDisposition{Code: -1}, fmt.Errorf("wait %s: %w", cmd.Name(), waitErr)
	}

	disposition := dispositionFor(child.ProcessState)
	s.logger().Debug("reaped child", "pid", child.Process.Pid, "disposition", disposition.String())
	return disposition, nil
}

// dispositionFor converts the OS wait status into a tagged outcome.
func dispositionFor(state *os.ProcessState) ExitDisposition {
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		sig := status.Signal()
		return ExitDisposition{Code: 128 + int(sig), Signal: sig.String()}
	}
	return ExitDisposition{Code: state.ExitCode()}
}
