package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 60*time.Second, cfg.CacheTTL)
	require.Equal(t, 1000, cfg.HistoryMax)
	require.Equal(t, 8*time.Second, cfg.ExternalTimeout)
	require.Equal(t, "none", cfg.Provider)
	require.True(t, cfg.HistoryMemoryFallback())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("HISTORY_MAX", "5")
	t.Setenv("HISTORY_FALLBACK", "none")
	t.Setenv("RESOLVER_STRICT", "true")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, cfg.CacheTTL)
	require.Equal(t, 5, cfg.HistoryMax)
	require.False(t, cfg.HistoryMemoryFallback())
	require.True(t, cfg.ResolverStrict)
}

func TestLoad_HistoryFallbackCaseInsensitive(t *testing.T) {
	t.Setenv("HISTORY_FALLBACK", " NONE ")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, HistoryFallbackNone, cfg.HistoryFallback)
	require.False(t, cfg.HistoryMemoryFallback())
}

func TestLoad_HistoryFallbackRejectsUnknown(t *testing.T) {
	t.Setenv("HISTORY_FALLBACK", "off")
	_, err := Load()
	require.ErrorIs(t, err, ErrInvalidConfig)
}
