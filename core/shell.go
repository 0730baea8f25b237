// Package core implements the interactive read→launch→wait loop.
package core

import (
	"fmt"
	"io"

	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/minish/minish/core/config"
	"github.com/minish/minish/core/proc"
)

// ExitRequest is returned by Run when the session ended through the exit
// builtin with a nonzero code.
type ExitRequest struct {
	Code int
}

func (e ExitRequest) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Shell drives the outer loop: ask the reader for the next command, hand
// non-empty commands to the supervisor, and prompt again once the child has
// been reaped. At most one child is ever in flight.
type Shell struct {
	Reader     *CommandReader
	Supervisor *proc.Supervisor
	Config     *config.Configuration
	Log        *log.Logger

	source LineSource
	stdout io.Writer
	stderr io.Writer

	history  []string
	lastExit proc.ExitDisposition

	promptPaint *color.Color
	errPaint    *color.Color
}

// NewShell assembles a shell over the given streams. Children inherit the
// raw stdin, not the line-edited wrapper.
func NewShell(cfg *config.Configuration, logger *log.Logger, stdin io.Reader, stdout, stderr io.Writer, isTerminal func() bool) (*Shell, error) {
	rlCfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(stdin),
		Stdout:         stdout,
		Stderr:         stderr,
		FuncIsTerminal: isTerminal,
	}
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	instance, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	split := FieldsSplitter
	if cfg.Tokenizer == config.TokenizerShlex {
		split = ShlexSplitter
	}

	supervisor := proc.NewSupervisor(logger)
	supervisor.Stdin = stdin
	supervisor.Stdout = stdout
	supervisor.Stderr = stderr
	supervisor.Path = cfg.Path

	source := readlineSource{instance}
	shell := &Shell{
		Reader: &CommandReader{
			Source:  source,
			Split:   split,
			MaxLine: cfg.MaxLine,
		},
		Supervisor: supervisor,
		Config:     cfg,
		Log:        logger,
		source:     source,
		stdout:     stdout,
		stderr:     stderr,
	}
	shell.initColors(cfg.Color && isTerminal())

	return shell, nil
}

func (s *Shell) initColors(enabled bool) {
	s.promptPaint = color.New(color.FgGreen, color.Bold)
	s.errPaint = color.New(color.FgRed)
	if enabled {
		s.promptPaint.EnableColor()
		s.errPaint.EnableColor()
	} else {
		s.promptPaint.DisableColor()
		s.errPaint.DisableColor()
	}
}

func (s *Shell) prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = config.DefaultPrompt
	}
	return s.promptPaint.Sprint(prompt)
}

func (s *Shell) eprintf(format string, a ...interface{}) {
	fmt.Fprintln(s.stderr, s.errPaint.Sprintf("minish: "+format, a...))
}

// Run drives the loop until end-of-input. A clean EOF returns nil; every
// per-command failure is reported and the loop keeps prompting.
func (s *Shell) Run() error {
	if s.Config.Motd != "" {
		fmt.Fprintln(s.stdout, s.Config.Motd)
	}

	for {
		s.source.SetPrompt(s.prompt())

		cmd, err := s.Reader.Next()
		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err != nil:
			s.eprintf("%v", err)
			continue

		case cmd.Empty():
			continue // empty or interrupted line

		default:
			s.history = append(s.history, cmd.String())

			switch cmd.Name() {
			case "exit":
				if done, err := s.builtinExit(cmd); done {
					return err
				}
				continue
			case "cd":
				s.setLastExit(s.builtinCd(cmd))
				continue
			case "pwd":
				s.setLastExit(s.builtinPwd(cmd))
				continue
			case "history":
				s.setLastExit(s.builtinHistory(cmd))
				continue
			}

			disposition, err := s.Supervisor.Launch(cmd)
			if err != nil {
				// No child exists and the diagnostic is already out.
				s.Log.Debug("spawn failed", "error", err)
				continue
			}
			s.lastExit = disposition
		}
	}
}

func (s *Shell) setLastExit(code int) {
	s.lastExit = proc.ExitDisposition{Code: code}
}

// Close releases the line reader.
func (s *Shell) Close() error {
	if closer, ok := s.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
