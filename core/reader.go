package core

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"

	"github.com/minish/minish/core/proc"
)

// ErrLineTooLong reports an input line above the configured bound. The whole
// line has already been consumed: it is discarded, never truncated or merged
// with the line after it.
var ErrLineTooLong = errors.New("line too long")

// LineSource yields one line of input per call, without its terminator, and
// returns io.EOF once the input is exhausted.
type LineSource interface {
	SetPrompt(prompt string)
	ReadLine() (string, error)
}

// readlineSource adapts a readline.Instance to LineSource.
type readlineSource struct {
	*readline.Instance
}

func (r readlineSource) ReadLine() (string, error) {
	return r.Instance.Readline()
}

// Splitter turns one raw line into an argument vector.
type Splitter func(line string) (proc.Command, error)

// FieldsSplitter splits on runs of whitespace. This is the default and the
// only splitting the runner guarantees.
func FieldsSplitter(line string) (proc.Command, error) {
	return proc.Command(strings.Fields(line)), nil
}

// ShlexSplitter splits with POSIX-style quoting rules.
func ShlexSplitter(line string) (proc.Command, error) {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %v", err)
	}
	return proc.Command(tokens), nil
}

// CommandReader turns lines from a source into commands.
type CommandReader struct {
	Source LineSource
	Split  Splitter
	// MaxLine bounds one line in bytes; zero means unbounded. A line of
	// exactly MaxLine bytes is still valid, even without a terminator.
	MaxLine int
}

// Next reads one line and parses it into a Command. It returns io.EOF once
// the source is exhausted; that is normal termination, not an error. A
// whitespace-only line parses to an empty Command, which callers treat as
// "prompt again" rather than launching it. An interrupted read is reported
// the same way.
func (r *CommandReader) Next() (proc.Command, error) {
	line, err := r.Source.ReadLine()
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err == readline.ErrInterrupt:
		return nil, nil
	case err != nil:
		return nil, err
	}

	if r.MaxLine > 0 && len(line) > r.MaxLine {
		return nil, fmt.Errorf("%w: %d bytes, at most %d allowed", ErrLineTooLong, len(line), r.MaxLine)
	}

	return r.Split(line)
}
