package fx

import (
	"context"
	"fmt"

	"ipl-auction/internal/api"
	"ipl-auction/internal/config"
	"ipl-auction/internal/constants"
	"ipl-auction/internal/database"
	"ipl-auction/internal/logger"
	"ipl-auction/internal/repository"
	"ipl-auction/internal/server"
	"ipl-auction/internal/service"
	"ipl-auction/internal/storage"
	"ipl-auction/internal/storage/memory"
	"ipl-auction/internal/storage/postgres"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvidePlayerStore opens the store STORE_DRIVER selects and closes it when
// the app stops.
func ProvidePlayerStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (storage.PlayerStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn().Msg("using in-memory player store, sales are lost on restart")
		return memory.NewPlayerStore(), nil

	case config.StorePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
		defer cancel()

		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run postgres migrations: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				pool.Close()
				return nil
			},
		})
		logger.Info().Msg("postgres player store ready")
		return postgres.NewPlayerStore(pool), nil

	default:
		db, err := database.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				if err := db.Close(); err != nil {
					logger.Warn().Err(err).Msg("error closing database connection")
				}
				return nil
			},
		})
		return repository.NewPlayerRepository(db, logger), nil
	}
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	// store
	fx.Provide(ProvidePlayerStore),
	// api client
	fx.Provide(api.NewRosterClient),
	// svc
	fx.Provide(service.NewAuctionService),
	fx.Provide(service.NewDraftService),
	fx.Provide(service.NewSeedService),
	// server
	fx.Provide(server.NewAuctionServer),
)
