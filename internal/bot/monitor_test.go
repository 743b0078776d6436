package bot

import (
	"errors"
	"sync"
	"testing"
	"time"

	fmodels "github.com/pmurley/go-fantrax/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pmurley/ulb-tradedesk/internal/fantrax"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/storage"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu  sync.Mutex
	txs []fmodels.Transaction
	err error
}

func (f *fakeSource) Transactions() ([]fmodels.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fmodels.Transaction(nil), f.txs...), f.err
}

func (f *fakeSource) add(txs ...fmodels.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txs = append(f.txs, txs...)
}

var day = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTransactionMonitorCheck(t *testing.T) {
	store, err := storage.NewTransactionStorage(t.TempDir())
	require.NoError(t, err)

	source := &fakeSource{txs: []fmodels.Transaction{
		{ID: "1", Type: "TRADE", TradeGroupID: "old", PlayerName: "Vet", FromTeamName: "Tampa", ToTeamName: "Boston", ProcessedDate: day},
		{ID: "2", Type: "CLAIM", PlayerName: "Waiver Guy", TeamName: "Boston", ProcessedDate: day},
	}}
	invalidations := 0
	var announced []fantrax.Trade
	tm := NewTransactionMonitor(source, store, func() { invalidations++ }, func(tr fantrax.Trade) {
		announced = append(announced, tr)
	}, logger.Nop())

	// History is recorded without announcements.
	n, err := tm.Check()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, invalidations)
	assert.Empty(t, announced)

	// Nothing new.
	n, err = tm.Check()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, invalidations)

	source.add(
		fmodels.Transaction{ID: "3", Type: "TRADE", TradeGroupID: "g1", PlayerName: "Ace", FromTeamName: "Boston", ToTeamName: "New York", ProcessedDate: day.Add(time.Hour)},
		fmodels.Transaction{ID: "4", Type: "TRADE", TradeGroupID: "g1", PlayerName: "Kid", FromTeamName: "New York", ToTeamName: "Boston", ProcessedDate: day.Add(time.Hour)},
	)
	n, err = tm.Check()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, invalidations)
	require.Len(t, announced, 1)
	assert.Equal(t, "g1", announced[0].GroupID)
	assert.Len(t, announced[0].Moves, 2)

	// A roster move that is not a trade still makes the league stale.
	source.add(fmodels.Transaction{ID: "5", Type: "DROP", PlayerName: "Bench Bat", TeamName: "Boston", ProcessedDate: day.Add(2 * time.Hour)})
	n, err = tm.Check()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, invalidations)
	assert.Len(t, announced, 1)
}

func TestTransactionMonitorSourceError(t *testing.T) {
	store, err := storage.NewTransactionStorage(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("fantrax down")
	tm := NewTransactionMonitor(&fakeSource{err: boom}, store, func() {}, func(fantrax.Trade) {}, logger.Nop())
	_, err = tm.Check()
	assert.ErrorIs(t, err, boom)
}

func TestTransactionMonitorRunStops(t *testing.T) {
	store, err := storage.NewTransactionStorage(t.TempDir())
	require.NoError(t, err)

	tm := NewTransactionMonitor(&fakeSource{}, store, func() {}, func(fantrax.Trade) {}, logger.Nop())
	tm.interval = time.Millisecond

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		tm.Run(stop)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestNegotiationMonitorCheck(t *testing.T) {
	store, err := storage.NewNegotiationStorage(t.TempDir())
	require.NoError(t, err)

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	for _, n := range []*models.Negotiation{
		{ID: "lapsed", PlayerID: 7, TeamID: 0, UserID: "u1", ChannelID: "c1", StartTime: start, EndTime: start.Add(time.Hour)},
		{ID: "live", PlayerID: 8, TeamID: 0, UserID: "u1", ChannelID: "c1", StartTime: start, EndTime: start.Add(48 * time.Hour)},
	} {
		require.NoError(t, store.Add(n))
	}

	var notified []string
	nm := NewNegotiationMonitor(store, func(n *models.Negotiation) {
		notified = append(notified, n.ID)
	}, logger.Nop())
	nm.now = func() time.Time { return start.Add(2 * time.Hour) }

	closed, err := nm.Check()
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, []string{"lapsed"}, notified)

	active, err := store.GetActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "live", active[0].ID)

	// Closed talks are not announced twice.
	closed, err = nm.Check()
	require.NoError(t, err)
	assert.Zero(t, closed)
	assert.Len(t, notified, 1)
}

func TestCreateTradeEmbed(t *testing.T) {
	trade := fantrax.Trade{
		GroupID:     "g1",
		ProcessedAt: day,
		Moves: []fantrax.Move{
			{Player: "Ace", From: "Boston", To: "New York"},
			{Player: "Kid", From: "New York", To: "Boston"},
			{Player: "Arm", From: "New York", To: "Boston"},
		},
	}
	embed := createTradeEmbed(trade)
	assert.Equal(t, "🔄 Trade Executed", embed.Title)
	assert.Equal(t, "\n**Boston** receives:\n• Arm\n• Kid\n\n**↓ ↑**\n\n**New York** receives:\n• Ace\n", embed.Description)
	assert.Equal(t, "2025-06-01T12:00:00Z", embed.Timestamp)
	assert.Equal(t, "3 players involved • league data reloaded", embed.Footer.Text)
}

func TestExpiryMessage(t *testing.T) {
	n := &models.Negotiation{UserID: "42"}
	assert.Equal(t, "<@42> Contract talks with Eager have expired. Use `!negotiate Eager` to start over.", expiryMessage(n, "Eager"))
}
