package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/haulbot/internal/auth"
	"github.com/nurpe/haulbot/internal/catalog"
	"github.com/nurpe/haulbot/internal/db"
	"github.com/nurpe/haulbot/internal/excel"
	httphandler "github.com/nurpe/haulbot/internal/http"
	"github.com/nurpe/haulbot/internal/http/middleware"
	"github.com/nurpe/haulbot/internal/pdf"
	"github.com/nurpe/haulbot/internal/pricing"
	"github.com/nurpe/haulbot/internal/repository"
	"github.com/nurpe/haulbot/internal/scheduler"
	"github.com/nurpe/haulbot/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the contracts HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cat, err := catalog.Load(cfg.Catalog.CommoditiesPath, cfg.Catalog.SystemsPath, log)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			store := repository.NewContractStore()
			engine := pricing.NewEngine(cfg.Pricing)
			contracts := service.NewContractService(store, engine, cat, cat, cfg.Contracts, log).
				WithDocuments(excel.NewGenerator(), pdf.NewGenerator())

			if cfg.ArchiveEnabled() {
				database, err := db.New(cfg, log)
				if err != nil {
					return fmt.Errorf("connect archive database: %w", err)
				}
				if sqlDB, err := database.DB(); err == nil {
					defer sqlDB.Close()
				}
				contracts.WithArchive(repository.NewArchiveRepository(database))
				log.Info().Msg("contract archive enabled")
			}

			handler := httphandler.NewHandler(contracts, cat, log)
			authMiddleware := middleware.Auth(auth.NewParser(cfg.Auth.AccessSecret))
			router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.CORS.AllowedOrigins, log)

			addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			sweeper := scheduler.NewSweeper(contracts, cfg.Contracts.SweepInterval, log)
			// Deferred database close runs after run has joined the sweeper.
			return run(ctx, server, sweeper)
		},
	}
}

// run serves until ctx is done or the listener fails, and returns only after
// the sweeper and the server have both stopped.
func run(ctx context.Context, server *http.Server, sweeper *scheduler.Sweeper) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		sweeper.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("starting haulbot")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return err
	}
	return nil
}
