package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Empty(t, cfg.JournalDir)
	assert.Equal(t, 15*time.Second, cfg.BattleOrderWindow)
	assert.Empty(t, cfg.AdminToken)
	assert.Equal(t, 20.0, cfg.RateLimit)
	assert.Equal(t, 40, cfg.RateBurst)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("VR_PORT", "9090")
	t.Setenv("VR_SEED", "12345")
	t.Setenv("VR_JOURNAL_DIR", "/var/lib/voidreach")
	t.Setenv("VR_BATTLE_ORDER_WINDOW", "3s")
	t.Setenv("VR_RATE_LIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, int64(12345), cfg.Seed)
	assert.Equal(t, "/var/lib/voidreach", cfg.JournalDir)
	assert.Equal(t, 3*time.Second, cfg.BattleOrderWindow)
	assert.Equal(t, 5.0, cfg.RateLimit)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("VR_SEED", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}
