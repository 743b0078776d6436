package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league/leaguetest"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

func TestSnapshotReplacesDerivedEntries(t *testing.T) {
	c := New(time.Minute)
	_, ok := c.GetSnapshot()
	assert.False(t, ok)

	s := leaguetest.Standard(t)
	c.SetSnapshot(s)
	c.SetOffers(s.Version(), 0, 42, []models.TradeSummary{{LastResort: true}})
	c.Memo().Set("value:x", 1.5)
	assert.Equal(t, 3, c.ItemCount())

	offers, ok := c.GetOffers(s.Version(), 0, 42)
	require.True(t, ok)
	assert.True(t, offers[0].LastResort)
	_, ok = c.GetOffers(s.Version(), 0, 43)
	assert.False(t, ok)

	c.SetSnapshot(s)
	assert.Equal(t, 1, c.ItemCount())
	got, ok := c.GetSnapshot()
	require.True(t, ok)
	assert.Same(t, s, got)

	c.Flush()
	assert.Equal(t, 0, c.ItemCount())
}

func TestOffersAreCopied(t *testing.T) {
	c := New(time.Minute)
	stored := []models.TradeSummary{{LastResort: true}, {}}
	c.SetOffers("v1", 0, 1, stored)
	stored[0].LastResort = false

	offers, ok := c.GetOffers("v1", 0, 1)
	require.True(t, ok)
	require.Len(t, offers, 2)
	assert.True(t, offers[0].LastResort)

	offers[0].LastResort = false
	again, ok := c.GetOffers("v1", 0, 1)
	require.True(t, ok)
	require.Len(t, again, 2)
	assert.True(t, again[0].LastResort)
}
