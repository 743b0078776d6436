// Package sheets loads a league snapshot from a published Google Sheet, one
// CSV tab each for settings, teams, players and draft picks.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

// Tabs holds the sheet GIDs of each tab.
type Tabs struct {
	Settings string
	Teams    string
	Players  string
	Picks    string
}

// DefaultTabs are the GIDs of the league workbook.
var DefaultTabs = Tabs{
	Settings: "633435137",
	Teams:    "396888711",
	Players:  "286507798",
	Picks:    "1669990835",
}

// Client fetches data from public Google Sheets using CSV export
type Client struct {
	spreadsheetID string
	baseURL       string
	tabs          Tabs
	httpClient    *http.Client
	log           *logger.Logger
}

func NewClient(spreadsheetID string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		spreadsheetID: spreadsheetID,
		baseURL:       "https://docs.google.com",
		tabs:          DefaultTabs,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

func (c *Client) WithTabs(tabs Tabs) *Client {
	c.tabs = tabs
	return c
}

func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// LoadSnapshot fetches every tab and indexes the records.
func (c *Client) LoadSnapshot(ctx context.Context) (*league.Snapshot, error) {
	settings, err := c.GetSheetDataCSV(ctx, c.tabs.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	cfg, state, err := ParseSettings(settings)
	if err != nil {
		return nil, err
	}

	teamRows, err := c.GetSheetDataCSV(ctx, c.tabs.Teams)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	teams, err := ParseTeams(teamRows)
	if err != nil {
		return nil, err
	}

	playerRows, err := c.GetSheetDataCSV(ctx, c.tabs.Players)
	if err != nil {
		return nil, fmt.Errorf("failed to load player pool: %w", err)
	}
	players, skipped := ParsePlayers(playerRows, teams)
	for _, s := range skipped {
		c.log.Debug("Skipping player row: " + s)
	}

	pickRows, err := c.GetSheetDataCSV(ctx, c.tabs.Picks)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft picks: %w", err)
	}
	picks, err := ParsePicks(pickRows, teams)
	if err != nil {
		return nil, err
	}

	cfg.NumTeams = len(teams)
	snap, err := league.NewSnapshot(cfg, state, teams, players, picks)
	if err != nil {
		return nil, err
	}
	c.log.Infof("Loaded league from sheet: %d teams, %d players, %d picks", len(teams), len(players), len(picks))
	return snap, nil
}

// GetSheetDataCSV fetches data from a specific sheet tab as CSV
func (c *Client) GetSheetDataCSV(ctx context.Context, gid string) ([][]string, error) {
	url := fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s", c.baseURL, c.spreadsheetID, gid)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	var data [][]string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		data = append(data, record)
	}

	return data, nil
}
