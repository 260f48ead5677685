package main

import (
	"github.com/spf13/cobra"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/config"
)

func newRootCmd(v string) *cobra.Command {
	root := &cobra.Command{
		Use:           "actionnotes",
		Short:         "ActionNotes billing, usage and generation API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSlice("env-file", nil, "dotenv files to load (default ./.env if present)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newVersionCmd(v))
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, err := cmd.Flags().GetStringSlice("env-file")
	if err != nil {
		return nil, err
	}
	return config.Load(files...)
}
