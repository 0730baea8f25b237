package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/minish/minish/core/config"
	"github.com/minish/minish/core/logger"
)

// initCmd writes the default configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the config directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		log := logger.New(cmd.ErrOrStderr(), verbose)

		_, err := config.Initialize(afero.NewOsFs(), cfgPath, log)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
