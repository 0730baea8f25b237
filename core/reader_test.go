package core

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/abiosoft/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minish/minish/core/proc"
)

// stringSource replays a fixed set of lines and then reports end-of-input.
type stringSource struct {
	lines []string
	errs  []error
}

func (s *stringSource) SetPrompt(string) {}

func (s *stringSource) ReadLine() (string, error) {
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return "", err
	}
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func newReader(lines ...string) *CommandReader {
	return &CommandReader{
		Source:  &stringSource{lines: lines},
		Split:   FieldsSplitter,
		MaxLine: 100,
	}
}

func TestNextSplitsOnWhitespace(t *testing.T) {
	reader := newReader("echo  hi\tthere")

	cmd, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, proc.Command{"echo", "hi", "there"}, cmd)
}

func TestNextBlankLineIsEmptyCommand(t *testing.T) {
	for _, line := range []string{"", "   ", " \t "} {
		reader := newReader(line)

		cmd, err := reader.Next()
		require.NoError(t, err)
		assert.True(t, cmd.Empty(), "line %q", line)
	}
}

func TestNextEndOfInput(t *testing.T) {
	reader := newReader()

	_, err := reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNextInterruptIsEmptyCommand(t *testing.T) {
	reader := newReader()
	reader.Source = &stringSource{errs: []error{readline.ErrInterrupt}}

	cmd, err := reader.Next()
	require.NoError(t, err)
	assert.True(t, cmd.Empty())
}

func TestNextRejectsOverlongLine(t *testing.T) {
	reader := newReader(strings.Repeat("a", 101))

	_, err := reader.Next()
	assert.ErrorIs(t, err, ErrLineTooLong)

	// The overlong line was discarded whole, not merged into the next one.
	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNextAcceptsLineAtExactBound(t *testing.T) {
	line := strings.Repeat("a", 100)
	reader := newReader(line)

	cmd, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, proc.Command{line}, cmd)
}

func TestShlexSplitterHonorsQuoting(t *testing.T) {
	cmd, err := ShlexSplitter(`echo "hi there"`)
	require.NoError(t, err)
	assert.Equal(t, proc.Command{"echo", "hi there"}, cmd)
}

func TestShlexSplitterSyntaxError(t *testing.T) {
	reader := newReader(`echo "unterminated`)
	reader.Split = ShlexSplitter

	_, err := reader.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.False(t, errors.Is(err, io.EOF))
}
