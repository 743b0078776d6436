package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

const negotiationFileName = "negotiations.csv"

var negotiationHeaders = []string{
	"ID", "PlayerID", "TeamID", "UserID", "AnchorYears", "AnchorAmount",
	"StartTime", "EndTime", "ChannelID", "Closed",
}

// ErrNegotiationNotFound is returned for unknown session IDs.
var ErrNegotiationNotFound = errors.New("negotiation not found")

// NegotiationStorage persists open contract negotiations.
type NegotiationStorage struct {
	mu       sync.RWMutex
	filePath string
}

func NewNegotiationStorage(dir string) (*NegotiationStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	ns := &NegotiationStorage{filePath: filepath.Join(dir, negotiationFileName)}
	if _, err := os.Stat(ns.filePath); os.IsNotExist(err) {
		if err := createCSV(ns.filePath, negotiationHeaders); err != nil {
			return nil, err
		}
	}
	return ns, nil
}

func (ns *NegotiationStorage) Add(n *models.Negotiation) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	file, err := os.OpenFile(ns.filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open negotiation file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(negotiationRecord(n)); err != nil {
		return fmt.Errorf("failed to write negotiation record: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

func negotiationRecord(n *models.Negotiation) []string {
	return []string{
		n.ID,
		strconv.Itoa(n.PlayerID),
		strconv.Itoa(n.TeamID),
		n.UserID,
		strconv.Itoa(n.Anchor.Years),
		strconv.Itoa(n.Anchor.Amount),
		n.StartTime.Format(time.RFC3339),
		n.EndTime.Format(time.RFC3339),
		n.ChannelID,
		strconv.FormatBool(n.Closed),
	}
}

func parseNegotiation(record []string) (*models.Negotiation, error) {
	if len(record) < len(negotiationHeaders) {
		return nil, fmt.Errorf("short record")
	}
	var ints [4]int
	for i, col := range []int{1, 2, 4, 5} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return nil, err
		}
		ints[i] = n
	}
	start, err := time.Parse(time.RFC3339, record[6])
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, record[7])
	if err != nil {
		return nil, err
	}
	closed, _ := strconv.ParseBool(record[9])
	return &models.Negotiation{
		ID:        record[0],
		PlayerID:  ints[0],
		TeamID:    ints[1],
		UserID:    record[3],
		Anchor:    models.ContractTerms{Years: ints[2], Amount: ints[3]},
		StartTime: start,
		EndTime:   end,
		ChannelID: record[8],
		Closed:    closed,
	}, nil
}

func (ns *NegotiationStorage) all() ([]*models.Negotiation, error) {
	records, err := readCSV(ns.filePath)
	if err != nil {
		return nil, err
	}
	var out []*models.Negotiation
	for _, record := range records {
		n, err := parseNegotiation(record)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Get returns the negotiation with the given ID.
func (ns *NegotiationStorage) Get(id string) (*models.Negotiation, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	all, err := ns.all()
	if err != nil {
		return nil, err
	}
	for _, n := range all {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNegotiationNotFound)
}

// GetActive returns the negotiations that have not been closed, whether or
// not they have expired.
func (ns *NegotiationStorage) GetActive() ([]*models.Negotiation, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	all, err := ns.all()
	if err != nil {
		return nil, err
	}
	var active []*models.Negotiation
	for _, n := range all {
		if !n.Closed {
			active = append(active, n)
		}
	}
	return active, nil
}

// FindOpen returns the open, unexpired negotiation between a team and a
// player, if there is one.
func (ns *NegotiationStorage) FindOpen(pid, tid int, now time.Time) (*models.Negotiation, bool, error) {
	active, err := ns.GetActive()
	if err != nil {
		return nil, false, err
	}
	for _, n := range active {
		if n.PlayerID == pid && n.TeamID == tid && !n.IsExpired(now) {
			return n, true, nil
		}
	}
	return nil, false, nil
}

// Close marks a negotiation closed.
func (ns *NegotiationStorage) Close(id string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	records, err := readCSV(ns.filePath)
	if err != nil {
		return err
	}

	updated := false
	for _, record := range records {
		if len(record) >= len(negotiationHeaders) && record[0] == id {
			record[9] = "true"
			updated = true
		}
	}
	if !updated {
		return fmt.Errorf("%s: %w", id, ErrNegotiationNotFound)
	}

	file, err := os.Create(ns.filePath)
	if err != nil {
		return fmt.Errorf("failed to create negotiation file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(negotiationHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write negotiation records: %w", err)
	}
	return nil
}
