package cmd

import "github.com/spf13/cobra"

const defaultConfigPath = "config.yml"

type options struct {
	configPath string
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "tictactoe-duel",
		Short:        "Tic-tac-toe between a human and an automated player",
		Long:         "tictactoe-duel runs a 3x3 tic-tac-toe session loop between a human and an automated player, serves the board over HTTP and websocket, and can play headless matches between providers.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to the config file; the environment alone is used when the default file is missing")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newMatchCmd(opts),
		newProvidersCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}
