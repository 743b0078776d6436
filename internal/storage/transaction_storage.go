package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pmurley/go-fantrax/models"
)

const transactionFileName = "transactions.csv"

var transactionHeaders = []string{
	"ID", "Type", "TeamName", "FromTeamName", "ToTeamName",
	"PlayerName", "PlayerPosition", "ProcessedDate", "TradeGroupID",
}

// TransactionStorage remembers which Fantrax transactions have been seen, so
// the monitor reacts to each one once.
type TransactionStorage struct {
	mu       sync.RWMutex
	filePath string
}

func NewTransactionStorage(dir string) (*TransactionStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	ts := &TransactionStorage{filePath: filepath.Join(dir, transactionFileName)}
	if _, err := os.Stat(ts.filePath); os.IsNotExist(err) {
		if err := createCSV(ts.filePath, transactionHeaders); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

func (ts *TransactionStorage) AddTransactions(transactions []models.Transaction) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	file, err := os.OpenFile(ts.filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open transaction file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, tx := range transactions {
		record := []string{
			tx.ID,
			tx.Type,
			tx.TeamName,
			tx.FromTeamName,
			tx.ToTeamName,
			tx.PlayerName,
			tx.PlayerPosition,
			tx.ProcessedDate.Format(time.RFC3339),
			tx.TradeGroupID,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (ts *TransactionStorage) GetAllTransactions() ([]models.Transaction, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	records, err := readCSV(ts.filePath)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	for _, record := range records {
		if len(record) < len(transactionHeaders) {
			continue
		}
		processed, err := time.Parse(time.RFC3339, record[7])
		if err != nil {
			continue
		}
		transactions = append(transactions, models.Transaction{
			ID:             record[0],
			Type:           record[1],
			TeamName:       record[2],
			FromTeamName:   record[3],
			ToTeamName:     record[4],
			PlayerName:     record[5],
			PlayerPosition: record[6],
			ProcessedDate:  processed,
			TradeGroupID:   record[8],
		})
	}
	return transactions, nil
}

// Seen returns the stored transaction IDs and trade group IDs.
func (ts *TransactionStorage) Seen() (ids, tradeGroups map[string]bool, err error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	records, err := readCSV(ts.filePath)
	if err != nil {
		return nil, nil, err
	}
	ids = make(map[string]bool)
	tradeGroups = make(map[string]bool)
	for _, record := range records {
		if len(record) > 0 {
			ids[record[0]] = true
		}
		if len(record) > 8 && record[8] != "" {
			tradeGroups[record[8]] = true
		}
	}
	return ids, tradeGroups, nil
}

func createCSV(path string, headers []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// readCSV returns the data rows of a CSV file, without its header row.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}
