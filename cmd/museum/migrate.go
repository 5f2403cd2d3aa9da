package main

import (
	"fmt"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/config"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/pkg/logger"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateMigrate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			repo, err := openRepository(cfg, logger.New("museum", cfg.LogLevel))
			if err != nil {
				return err
			}
			return repo.Close()
		},
	}
}
