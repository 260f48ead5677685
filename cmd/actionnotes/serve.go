package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/drewkhalil/ActionNotes-sub001/internal/app"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := app.NewLogger(cfg)
			logger.SetAsDefault(log)

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("startup failed", logger.Error(err))
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Error("shutdown cleanup failed", logger.Error(err))
				}
			}()

			log.Info("actionnotes starting", slog.String("version", version), slog.String("storage", cfg.Storage.Driver))
			return a.Run(cmd.Context())
		},
	}
}
