package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, 5*time.Minute, cfg.CacheDuration)
	assert.Equal(t, 10, cfg.OfferRefreshGames)
	assert.Equal(t, 24*time.Hour, cfg.NegotiationTTL)
	assert.False(t, cfg.HasLeagueSource())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CACHE_DURATION", "90s")
	t.Setenv("LEAGUE_FILE", "league.yaml")
	t.Setenv("OFFER_REFRESH_GAMES", "7")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.CacheDuration)
	assert.Equal(t, 7, cfg.OfferRefreshGames)
	assert.True(t, cfg.HasLeagueSource())

	t.Setenv("OFFER_REFRESH_GAMES", "0")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("OFFER_REFRESH_GAMES", "often")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadTuning(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
valuation:
  star_level: 80
offers:
  num_offers: 3
negotiation:
  growth_factor: 0.1
`), 0o644))

	tuning, err = LoadTuning(path)
	require.NoError(t, err)

	want := DefaultTuning()
	want.Valuation.StarLevel = 80
	want.Offers.NumOffers = 3
	want.Negotiation.GrowthFactor = 0.1
	assert.Equal(t, want, tuning)

	require.NoError(t, os.WriteFile(path, []byte("valuation: [1, 2"), 0o644))
	_, err = LoadTuning(path)
	assert.ErrorContains(t, err, "parse tuning file")

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
