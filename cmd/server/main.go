package main

import (
	"context"
	"fmt"
	"net/http"

	"ipl-auction/internal/config"
	"ipl-auction/internal/constants"
	fxmodules "ipl-auction/internal/fx"
	"ipl-auction/internal/middleware"
	"ipl-auction/internal/observability"
	"ipl-auction/internal/server"
	"ipl-auction/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(seedPlayers),
		fx.Invoke(runServer),
	).Run()
}

func seedPlayers(lc fx.Lifecycle, seeder *service.SeedService, cfg *config.Config, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n, err := seeder.SeedIfEmpty(ctx, cfg.SeedSource)
			if err != nil {
				logger.Error().Err(err).Msg("failed to seed player pools")
				return err
			}
			if n > 0 {
				logger.Info().Int("players", n).Msg("seeded player pools")
			}
			return nil
		},
	})
}

func runServer(
	lc fx.Lifecycle,
	auctionServer *server.AuctionServer,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	path, handler := auctionServer.Handler()
	mux.Handle(path, handler)
	mux.HandleFunc("GET /healthz", auctionServer.Healthz)
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", observability.Handler())
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	requestIDMiddleware := middleware.RequestID(logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: requestIDMiddleware(c.Handler(mux)),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
