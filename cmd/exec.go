package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/minish/minish/core/logger"
	"github.com/minish/minish/core/proc"
)

var execStdoutPath string

// execCmd performs a single spawn/wait cycle without the interactive loop.
var execCmd = &cobra.Command{
	Use:   "exec -- PROGRAM [ARG...]",
	Short: "Run one command, wait for it and exit with its status.",
	Long: `exec runs the named program as a child process, blocks until it
terminates and exits with the child's own status (128+N if it died to
signal N).

With --stdout the child's standard output is connected to a freshly created
file instead of the terminal. The file is opened before the program starts,
so the program itself never knows the difference.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		appLog := logger.New(cmd.ErrOrStderr(), verbose)

		disposition, err := runExec(proc.Command(args), execStdoutPath, cmd.OutOrStdout(), cmd.ErrOrStderr(), appLog)
		if err != nil {
			return err
		}
		if !disposition.Ok() {
			os.Exit(disposition.Code)
		}
		return nil
	},
}

func runExec(command proc.Command, stdoutPath string, stdout, stderr io.Writer, appLog *log.Logger) (proc.ExitDisposition, error) {
	supervisor := proc.NewSupervisor(appLog)
	supervisor.Stdout = stdout
	supervisor.Stderr = stderr

	if stdoutPath != "" {
		fd, err := os.Create(stdoutPath)
		if err != nil {
			return proc.ExitDisposition{}, fmt.Errorf("redirect stdout: %w", err)
		}
		defer fd.Close()
		supervisor.Stdout = fd
	}

	return supervisor.Launch(command)
}

func init() {
	execCmd.Flags().StringVar(&execStdoutPath, "stdout", "", "send the child's standard output to this file")
	rootCmd.AddCommand(execCmd)
}
