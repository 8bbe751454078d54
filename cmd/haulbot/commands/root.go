package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nurpe/haulbot/internal/config"
	"github.com/nurpe/haulbot/internal/logger"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "haulbot",
		Short:         "Commodity delivery contracts service",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			log = logger.New(cfg.Environment)
			return nil
		},
	}

	root.AddCommand(serveCmd(), quoteCmd(), tokenCmd(), archiveCmd())
	return root.Execute()
}
