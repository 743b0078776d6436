// Package fantrax reads the league's transaction feed. Executed trades and
// roster moves seen there make cached league snapshots stale.
package fantrax

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pmurley/go-fantrax/auth_client"
	"github.com/pmurley/go-fantrax/models"
)

const tradeType = "TRADE"

type Client struct {
	Client   *auth_client.Client
	LeagueId string
}

func NewFantraxClient(leagueId string, useCache bool) (*Client, error) {
	client, err := auth_client.NewClient(leagueId, useCache)
	if err != nil {
		return nil, err
	}
	return &Client{
		Client:   client,
		LeagueId: leagueId,
	}, nil
}

func (c *Client) Transactions() ([]models.Transaction, error) {
	transactions, err := c.Client.GetAllTransactionsIncludingTrades()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

// Move is one player changing teams inside a trade.
type Move struct {
	Player   string
	Position string
	From     string
	To       string
}

// Trade is an executed trade, assembled from the transactions sharing a
// trade group ID.
type Trade struct {
	GroupID     string
	ProcessedAt time.Time
	Moves       []Move
}

// Teams returns the distinct team names involved, sorted.
func (t Trade) Teams() []string {
	seen := map[string]bool{}
	var teams []string
	for _, m := range t.Moves {
		for _, name := range []string{m.From, m.To} {
			if name != "" && !seen[name] {
				seen[name] = true
				teams = append(teams, name)
			}
		}
	}
	sort.Strings(teams)
	return teams
}

// Received lists the players each team receives.
func (t Trade) Received() map[string][]string {
	out := make(map[string][]string)
	for _, m := range t.Moves {
		out[m.To] = append(out[m.To], m.Player)
	}
	return out
}

func (t Trade) String() string {
	return fmt.Sprintf("%s (%d players)", strings.Join(t.Teams(), " / "), len(t.Moves))
}

// IsTrade reports whether tx is part of a trade.
func IsTrade(tx models.Transaction) bool {
	return tx.Type == tradeType
}

// GroupTrades assembles trade transactions into trades, oldest first. Trades
// in skip are left out, as are transactions with no group ID.
func GroupTrades(transactions []models.Transaction, skip map[string]bool) []Trade {
	byGroup := make(map[string]*Trade)
	for _, tx := range transactions {
		if !IsTrade(tx) || tx.TradeGroupID == "" || skip[tx.TradeGroupID] {
			continue
		}
		t, ok := byGroup[tx.TradeGroupID]
		if !ok {
			t = &Trade{GroupID: tx.TradeGroupID, ProcessedAt: tx.ProcessedDate}
			byGroup[tx.TradeGroupID] = t
		}
		if tx.ProcessedDate.After(t.ProcessedAt) {
			t.ProcessedAt = tx.ProcessedDate
		}
		t.Moves = append(t.Moves, Move{
			Player:   tx.PlayerName,
			Position: tx.PlayerPosition,
			From:     tx.FromTeamName,
			To:       tx.ToTeamName,
		})
	}

	trades := make([]Trade, 0, len(byGroup))
	for _, t := range byGroup {
		trades = append(trades, *t)
	}
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].ProcessedAt.Equal(trades[j].ProcessedAt) {
			return trades[i].ProcessedAt.Before(trades[j].ProcessedAt)
		}
		return trades[i].GroupID < trades[j].GroupID
	})
	return trades
}
