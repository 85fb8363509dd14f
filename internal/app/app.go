package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/services/cache"
	"github.com/ternarybob/lectio/internal/services/extraction"
	"github.com/ternarybob/lectio/internal/services/quota"
	badgerstore "github.com/ternarybob/lectio/internal/storage/badger"
)

// App wires configuration and services together for the HTTP server.
type App struct {
	Config    *common.Config
	Logger    arbor.ILogger
	Extractor interfaces.DocumentExtractor
	Cache     interfaces.ResponseCache
	Quota     interfaces.QuotaTracker

	db        *badgerstore.BadgerDB
	scheduler *cron.Cron
}

// New initializes all services from configuration.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	a.Extractor = extraction.NewService(config.Extraction, config.OCR, logger)

	if config.Cache.Enabled {
		db, err := badgerstore.NewBadgerDB(logger, &config.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache storage: %w", err)
		}
		a.db = db
		a.Cache = cache.NewService(db, &config.Cache, logger)

		if schedule := config.Cache.MaintenanceSchedule; schedule != "" {
			a.scheduler = cron.New()
			_, err := a.scheduler.AddFunc(schedule, func() {
				if err := a.Cache.Maintain(context.Background()); err != nil {
					logger.Warn().Err(err).Msg("Cache maintenance failed")
				}
			})
			if err != nil {
				return nil, fmt.Errorf("invalid cache maintenance schedule %q: %w", schedule, err)
			}
			a.scheduler.Start()
			logger.Debug().Str("schedule", schedule).Msg("Cache maintenance scheduled")
		}
	}

	if config.Quota.Enabled {
		a.Quota = quota.NewTracker(&config.Quota, logger)
	}

	logger.Info().
		Bool("cache", config.Cache.Enabled).
		Bool("quota", config.Quota.Enabled).
		Int64("max_file_size_mb", config.Extraction.MaxFileSizeMB).
		Msg("Application services initialized")

	return a, nil
}

// Close releases application resources.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close cache")
		}
	}
}
