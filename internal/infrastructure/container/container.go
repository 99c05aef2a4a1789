// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	nutritionapp "github.com/wodplate/v2/internal/application/nutrition"
	planapp "github.com/wodplate/v2/internal/application/plan"
	"github.com/wodplate/v2/internal/infrastructure/config"
	"github.com/wodplate/v2/internal/infrastructure/http/server"
	"github.com/wodplate/v2/internal/infrastructure/monitoring"
	gormstore "github.com/wodplate/v2/internal/infrastructure/persistence/gorm"
	"github.com/wodplate/v2/internal/infrastructure/persistence/memory"
	redisstore "github.com/wodplate/v2/internal/infrastructure/persistence/redis"
	"github.com/wodplate/v2/internal/infrastructure/provider/fdc"
	"github.com/wodplate/v2/internal/ports/inbound"
	"github.com/wodplate/v2/internal/ports/outbound"
	"github.com/wodplate/v2/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	StoreModule,
	ProviderModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides the Prometheus metrics bundle
var MonitoringModule = fx.Provide(
	monitoring.New,
)

// StoreModule provides the profile store selected by cache.backend. The
// *gorm.DB return is nil unless the gorm backend is active; the
// lifecycle hook checks before closing it.
var StoreModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.ProfileStore, *gorm.DB, error) {
		switch cfg.Cache.Backend {
		case "gorm":
			db, err := gormstore.Connect(cfg.Database, cfg.App.Debug, log)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to set up profile database: %w", err)
			}
			if err := gormstore.SeedProfiles(db, log); err != nil {
				log.Warn("Failed to seed nutrition profiles", zap.Error(err))
			}
			return gormstore.NewProfileStore(db), db, nil

		case "redis":
			store, err := redisstore.NewProfileStore(cfg.Redis, log)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to set up Redis profile store: %w", err)
			}
			return store, nil, nil

		case "memory":
			log.Info("Using in-memory profile store")
			return memory.NewProfileStore(), nil, nil

		default:
			return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
		}
	},
)

// ProviderModule provides the nutrition data provider
var ProviderModule = fx.Provide(
	func(cfg *config.Config, metrics *monitoring.Metrics, log *zap.Logger) outbound.NutritionProvider {
		return fdc.NewClient(cfg.Provider, metrics, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// Nutrition profile cache service
	func(
		store outbound.ProfileStore,
		provider outbound.NutritionProvider,
		cfg *config.Config,
		metrics *monitoring.Metrics,
		log *zap.Logger,
	) *nutritionapp.Service {
		return nutritionapp.NewService(store, provider, cfg.Cache.MaxAge, metrics, log)
	},

	// Plan validation service
	func(
		profiles *nutritionapp.Service,
		cfg *config.Config,
		metrics *monitoring.Metrics,
		log *zap.Logger,
	) inbound.PlanService {
		return planapp.NewService(profiles, cfg.Reconcile, metrics, log)
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.New,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting WODPlate application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("cache_backend", cfg.Cache.Backend),
			)

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down WODPlate application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if db != nil {
				sqlDB, err := db.DB()
				if err == nil {
					if err := sqlDB.Close(); err != nil {
						log.Error("Failed to close database connection", zap.Error(err))
					}
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
