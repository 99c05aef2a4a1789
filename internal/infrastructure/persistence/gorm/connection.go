package gorm

import (
	"fmt"
	"time"

	"github.com/wodplate/v2/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the database selected by config (postgres in
// production, sqlite for local development), applies pool settings and
// migrates the profile table.
func Connect(cfg config.DatabaseConfig, debug bool, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		path := ":memory:"
		if cfg.Database != "" {
			path = cfg.Database + ".db"
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := gormlogger.Silent
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(&ProfileEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate profile table: %w", err)
	}

	logger.Info("Connected to database",
		zap.String("driver", cfg.Driver),
		zap.String("database", cfg.Database),
	)

	return db, nil
}

// SeedProfiles inserts a handful of common profiles when the table is
// empty, so local runs work without a provider API key.
func SeedProfiles(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&ProfileEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	seed := []ProfileEntry{
		{NormalizedName: "chicken broilers breast meat raw", Calories: 120, ProteinG: 22.5, CarbsG: 0, FatG: 2.6, SourceID: "seed", LastUpdated: now},
		{NormalizedName: "rice white long grain raw", Calories: 365, ProteinG: 7.1, CarbsG: 80, FatG: 0.7, SourceID: "seed", LastUpdated: now},
		{NormalizedName: "oats rolled old fashioned dry", Calories: 379, ProteinG: 13.2, CarbsG: 67.7, FatG: 6.5, SourceID: "seed", LastUpdated: now},
		{NormalizedName: "egg", Calories: 143, ProteinG: 12.6, CarbsG: 0.7, FatG: 9.5, SourceID: "seed", LastUpdated: now},
		{NormalizedName: "oil olive extra virgin", Calories: 884, ProteinG: 0, CarbsG: 0, FatG: 100, SourceID: "seed", LastUpdated: now},
		{NormalizedName: "banana", Calories: 89, ProteinG: 1.1, CarbsG: 22.8, FatG: 0.3, SourceID: "seed", LastUpdated: now},
		{NormalizedName: "yogurt greek plain whole milk", Calories: 97, ProteinG: 9, CarbsG: 3.9, FatG: 5, SourceID: "seed", LastUpdated: now},
		{NormalizedName: "sweet potato raw unprepared", Calories: 86, ProteinG: 1.6, CarbsG: 20.1, FatG: 0.1, SourceID: "seed", LastUpdated: now},
	}

	if err := db.Create(&seed).Error; err != nil {
		return err
	}

	logger.Info("Seeded nutrition profiles", zap.Int("count", len(seed)))
	return nil
}
