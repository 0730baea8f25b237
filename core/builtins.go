package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"github.com/minish/minish/core/proc"
)

// SimpleBuiltin mirrors a standalone command's option handling for the few
// commands that must run inside the shell's own process.
type SimpleBuiltin struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string

	flags *getopt.Set
}

// Flags gets the builtin's flag set.
func (b *SimpleBuiltin) Flags() *getopt.Set {
	if b.flags == nil {
		b.flags = getopt.New()
	}

	return b.flags
}

// PrintHelp writes help for the builtin to the given writer.
func (b *SimpleBuiltin) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, b.Use)
	fmt.Fprintln(w, b.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	b.Flags().PrintOptions(w)
}

// Run the builtin, if flag parsing was successful call the callback.
func (b *SimpleBuiltin) Run(s *Shell, argv []string, callback func() int) int {
	opts := b.Flags()
	showHelp := opts.BoolLong("help", 'h', "show this help and exit")

	if err := opts.Getopt(argv, nil); err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", argv[0], err)
		b.PrintHelp(s.stderr)
		return 2
	}

	if *showHelp {
		b.PrintHelp(s.stdout)
		return 0
	}

	return callback()
}

// cwd is the directory children currently start in.
func (s *Shell) cwd() string {
	if s.Supervisor.Dir != "" {
		return s.Supervisor.Dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "/"
}

// builtinExit ends the session. Without an argument it reuses the last
// command's status. The second return is false when the session should keep
// going despite the request.
func (s *Shell) builtinExit(cmd proc.Command) (bool, error) {
	code := s.lastExit.Code
	switch {
	case len(cmd) > 2:
		s.eprintf("exit: too many arguments")
		return false, nil
	case len(cmd) == 2:
		parsed, err := strconv.Atoi(cmd[1])
		if err != nil {
			s.eprintf("exit: %s: numeric argument required", cmd[1])
			code = 2
		} else {
			code = parsed
		}
	}

	if code == 0 {
		return true, nil
	}
	return true, ExitRequest{Code: code}
}

// builtinCd changes the directory children start in. The shell process
// itself stays where it is.
func (s *Shell) builtinCd(cmd proc.Command) int {
	args := []string(cmd)
	switch len(args) {
	case 1:
		home := os.Getenv("HOME")
		if home == "" {
			s.eprintf("cd: HOME not set")
			return 1
		}
		args = append(args, home)
		fallthrough
	case 2:
		target := args[1]
		if !filepath.IsAbs(target) {
			target = filepath.Clean(filepath.Join(s.cwd(), target))
		}

		stat, err := s.Supervisor.Fs.Stat(target)
		switch {
		case err != nil:
			s.eprintf("cd: %s: no such file or directory", args[1])
			return 1
		case !stat.IsDir():
			s.eprintf("cd: %s: not a directory", args[1])
			return 1
		}

		s.Supervisor.Dir = target
		return 0
	default:
		s.eprintf("cd: too many arguments")
		return 1
	}
}

// builtinPwd prints the directory children start in.
func (s *Shell) builtinPwd(cmd proc.Command) int {
	builtin := &SimpleBuiltin{
		Use:   "pwd [-P]",
		Short: "Print the current working directory.",
	}
	physical := builtin.Flags().Bool('P', "resolve symbolic links")

	return builtin.Run(s, cmd, func() int {
		dir := s.cwd()
		if *physical {
			resolved, err := s.physicalDir(dir)
			if err != nil {
				s.eprintf("pwd: %v", err)
				return 1
			}
			dir = resolved
		}
		fmt.Fprintln(s.stdout, dir)
		return 0
	})
}

// physicalDir resolves dir through symbolic links. Filesystems that can't
// represent links, like the in-memory one used in tests, keep the logical
// path unchanged.
func (s *Shell) physicalDir(dir string) (string, error) {
	lstater, ok := s.Supervisor.Fs.(afero.Lstater)
	if !ok {
		return dir, nil
	}
	if _, lstatCalled, err := lstater.LstatIfPossible(dir); err != nil || !lstatCalled {
		return dir, err
	}
	return filepath.EvalSymlinks(dir)
}

// builtinHistory shows the commands entered this session.
func (s *Shell) builtinHistory(cmd proc.Command) int {
	builtin := &SimpleBuiltin{
		Use:   "history [-c]",
		Short: "Show commands entered this session.",
	}
	clear := builtin.Flags().Bool('c', "clear the session history")

	return builtin.Run(s, cmd, func() int {
		if *clear {
			s.history = nil
			return 0
		}
		for i, line := range s.history {
			fmt.Fprintf(s.stdout, "%5d  %s\n", i+1, line)
		}
		return 0
	})
}
