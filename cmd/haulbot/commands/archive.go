package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nurpe/haulbot/internal/db"
	"github.com/nurpe/haulbot/internal/model"
	"github.com/nurpe/haulbot/internal/repository"
)

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the contract archive",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count archived contracts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.ArchiveEnabled() {
				return fmt.Errorf("DB_DSN is not set")
			}
			database, err := db.New(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := database.DB(); err == nil {
				defer sqlDB.Close()
			}

			archive := repository.NewArchiveRepository(database)
			for _, status := range []model.ContractStatus{
				model.ContractStatusPending,
				model.ContractStatusAccepted,
				model.ContractStatusCompleted,
				model.ContractStatusExpired,
			} {
				count, err := archive.CountByStatus(cmd.Context(), status)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", status, count)
			}
			return nil
		},
	})
	return cmd
}
