package cmd

import (
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-duel/internal"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the session loop with the console, HTTP API and websocket hub",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	conf, err := loadConfig(opts)
	if err != nil {
		return err
	}

	return app.RunApp(cmd.Context(), newLogger(conf, os.Stdout), conf)
}
