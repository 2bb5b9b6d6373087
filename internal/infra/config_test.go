package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Файла конфигурации в каталоге пакета нет: работаем на дефолтах
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.InDelta(t, 100, cfg.Server.IngestRateLimit, 1e-9)
	assert.Equal(t, int32(15), cfg.Database.MaxConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.InDelta(t, 0.3, cfg.Analytics.DefaultEps, 1e-9)
	assert.Equal(t, 10, cfg.Analytics.DefaultMinSamples)
	assert.Zero(t, cfg.Analytics.MaxPoints)
	assert.Zero(t, cfg.Analytics.AttributionCutoff)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ANALYTICS_DEFAULT_EPS", "0.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Analytics.DefaultEps, 1e-9)
}

func TestZonesCacheKey_Versioned(t *testing.T) {
	k1 := ZonesCacheKey("level-1", "", 0, 0.3, 10)
	k2 := ZonesCacheKey("level-1", "", 1, 0.3, 10)
	k3 := ZonesCacheKey("level-1", "sess-1", 0, 0.3, 10)

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, RedisNamespace)
}
