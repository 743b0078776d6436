package fantrax

import (
	"testing"
	"time"

	"github.com/pmurley/go-fantrax/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTrades(t *testing.T) {
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{ID: "1", Type: "TRADE", TradeGroupID: "g2", PlayerName: "Ace", FromTeamName: "Boston", ToTeamName: "New York", ProcessedDate: day.Add(time.Hour)},
		{ID: "2", Type: "CLAIM", PlayerName: "Waiver Guy", TeamName: "Boston", ProcessedDate: day},
		{ID: "3", Type: "TRADE", TradeGroupID: "g2", PlayerName: "Kid", FromTeamName: "New York", ToTeamName: "Boston", ProcessedDate: day.Add(time.Hour)},
		{ID: "4", Type: "TRADE", TradeGroupID: "g1", PlayerName: "Vet", FromTeamName: "Tampa", ToTeamName: "Toronto", ProcessedDate: day},
		{ID: "5", Type: "TRADE", PlayerName: "Orphan", FromTeamName: "Tampa", ToTeamName: "Boston", ProcessedDate: day},
		{ID: "6", Type: "TRADE", TradeGroupID: "g0", PlayerName: "Old", FromTeamName: "Tampa", ToTeamName: "Boston", ProcessedDate: day},
	}

	trades := GroupTrades(txs, map[string]bool{"g0": true})
	require.Len(t, trades, 2)

	assert.Equal(t, "g1", trades[0].GroupID)
	g2 := trades[1]
	assert.Equal(t, "g2", g2.GroupID)
	assert.Equal(t, []string{"Boston", "New York"}, g2.Teams())
	assert.Equal(t, map[string][]string{"New York": {"Ace"}, "Boston": {"Kid"}}, g2.Received())
	assert.Equal(t, "Boston / New York (2 players)", g2.String())

	assert.True(t, IsTrade(txs[0]))
	assert.False(t, IsTrade(txs[1]))
}
