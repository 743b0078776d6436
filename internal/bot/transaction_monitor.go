package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/go-fantrax/models"
	"github.com/pmurley/ulb-tradedesk/internal/fantrax"
	"github.com/pmurley/ulb-tradedesk/internal/storage"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

const (
	transactionCheckInterval = 2 * time.Minute
	tradeChannelName         = "trades"
)

// TransactionSource fetches the league's transaction feed.
type TransactionSource interface {
	Transactions() ([]models.Transaction, error)
}

// TransactionMonitor records new Fantrax transactions. Any new roster move
// makes the cached league stale; executed trades are also announced.
type TransactionMonitor struct {
	source     TransactionSource
	store      *storage.TransactionStorage
	invalidate func()
	notify     func(fantrax.Trade)
	logger     *logger.Logger
	interval   time.Duration
}

func NewTransactionMonitor(source TransactionSource, store *storage.TransactionStorage, invalidate func(), notify func(fantrax.Trade), log *logger.Logger) *TransactionMonitor {
	return &TransactionMonitor{
		source:     source,
		store:      store,
		invalidate: invalidate,
		notify:     notify,
		logger:     log,
		interval:   transactionCheckInterval,
	}
}

// Run checks for new transactions now and then on every tick until stop is
// closed.
func (tm *TransactionMonitor) Run(stop <-chan struct{}) {
	runLoop("transaction monitor", tm.interval, stop, tm.logger, func() {
		if _, err := tm.Check(); err != nil {
			tm.logger.Errorf("Transaction check failed: %v", err)
		}
	})
}

// Check fetches the feed and handles anything not seen before. It returns the
// number of new trades. The first check against an empty store only records
// the history, so old trades are not announced.
func (tm *TransactionMonitor) Check() (int, error) {
	ids, tradeGroups, err := tm.store.Seen()
	if err != nil {
		return 0, fmt.Errorf("failed to read stored transactions: %w", err)
	}

	all, err := tm.source.Transactions()
	if err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		if len(all) == 0 {
			return 0, nil
		}
		tm.logger.Infof("First run: recording %d historical transactions without notifications", len(all))
		return 0, tm.store.AddTransactions(all)
	}

	var fresh []models.Transaction
	for _, tx := range all {
		if fantrax.IsTrade(tx) {
			if tx.TradeGroupID != "" && !tradeGroups[tx.TradeGroupID] {
				fresh = append(fresh, tx)
			}
			continue
		}
		if !ids[tx.ID] {
			fresh = append(fresh, tx)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := tm.store.AddTransactions(fresh); err != nil {
		return 0, fmt.Errorf("failed to store new transactions: %w", err)
	}
	tm.invalidate()

	trades := fantrax.GroupTrades(fresh, nil)
	for _, t := range trades {
		tm.logger.With("trade", t.GroupID).Infof("Trade executed: %s", t)
		tm.notify(t)
	}
	tm.logger.Infof("Processed %d new transactions and %d new trades", len(fresh), len(trades))
	return len(trades), nil
}

// createTradeEmbed creates a Discord embed for an executed trade
func createTradeEmbed(t fantrax.Trade) *discordgo.MessageEmbed {
	received := t.Received()

	var description strings.Builder
	description.WriteString("\n")
	for i, team := range t.Teams() {
		if i > 0 {
			description.WriteString("\n**↓ ↑**\n\n")
		}
		description.WriteString(fmt.Sprintf("**%s** receives:\n", team))
		players := received[team]
		sort.Strings(players)
		if len(players) == 0 {
			description.WriteString("• Nothing\n")
		}
		for _, name := range players {
			description.WriteString(fmt.Sprintf("• %s\n", name))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "🔄 Trade Executed",
		Description: description.String(),
		Color:       0xffa500, // Orange
		Timestamp:   t.ProcessedAt.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d players involved • league data reloaded", len(t.Moves)),
		},
	}
}
