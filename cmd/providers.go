package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
)

func newProvidersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the automated players that can be selected",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(opts)
			if err != nil {
				return err
			}

			registry := service.NewDefaultRegistry(newLogger(conf, cmd.ErrOrStderr()), conf.Providers, conf.Game.Provider)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if _, err = fmt.Fprintln(w, "ID\tMODEL\tDEFAULT"); err != nil {
				return err
			}

			for _, provider := range registry.List() {
				isDefault := ""
				if provider.ID == registry.Default() {
					isDefault = "*"
				}

				if _, err = fmt.Fprintf(w, "%s\t%s\t%s\n", provider.ID, provider.Model, isDefault); err != nil {
					return err
				}
			}

			return w.Flush()
		},
	}
}
