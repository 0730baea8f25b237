package cmd

import (
	"errors"
	"os"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/minish/minish/core"
	"github.com/minish/minish/core/config"
	"github.com/minish/minish/core/logger"
)

var (
	cfgPath string
	verbose bool
)

func loadConfig() (*config.Configuration, error) {
	return config.Load(afero.NewOsFs(), cfgPath)
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "minish",
	Short: "A minimal interactive command runner.",
	Long: `minish reads one command per line, starts it as a child process and
waits for that child to finish before prompting for the next one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := logger.New(cmd.ErrOrStderr(), verbose)

		shell, err := core.NewShell(cfg, log, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), readline.DefaultIsTerminal)
		if err != nil {
			return err
		}

		runErr := shell.Run()
		if closeErr := shell.Close(); closeErr != nil {
			log.Warn("closing terminal", "error", closeErr)
		}

		var exit core.ExitRequest
		if errors.As(runErr, &exit) {
			os.Exit(exit.Code)
		}
		return runErr
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace process spawning and reaping")
}
