package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "WODPlate", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gorm", cfg.Cache.Backend)
	assert.Equal(t, 90*24*time.Hour, cfg.Cache.MaxAge)
	assert.Equal(t, "https://api.nal.usda.gov/fdc/v1", cfg.Provider.BaseURL)
	assert.InDelta(t, 0.05, cfg.Reconcile.Tolerance, 0.0001)
	assert.Equal(t, 4, cfg.Reconcile.MaxIterations)
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("UnknownCacheBackend", func(t *testing.T) {
		cfg := base()
		cfg.Cache.Backend = "etcd"
		assert.Error(t, cfg.Validate())
	})

	t.Run("ToleranceOutOfRange", func(t *testing.T) {
		cfg := base()
		cfg.Reconcile.Tolerance = 0
		assert.Error(t, cfg.Validate())

		cfg.Reconcile.Tolerance = 1
		assert.Error(t, cfg.Validate())
	})

	t.Run("IterationBudgetMustBeBounded", func(t *testing.T) {
		cfg := base()
		cfg.Reconcile.MaxIterations = 0
		assert.Error(t, cfg.Validate())

		cfg.Reconcile.MaxIterations = 11
		assert.Error(t, cfg.Validate())

		cfg.Reconcile.MaxIterations = 10
		assert.NoError(t, cfg.Validate())
	})

	t.Run("NonPositiveMaxAge", func(t *testing.T) {
		cfg := base()
		cfg.Cache.MaxAge = 0
		assert.Error(t, cfg.Validate())
	})
}
