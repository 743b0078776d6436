// Package desk wires the cached league snapshot to the valuation, trade and
// negotiation engines. The Discord bot, the HTTP API and the CLI all go
// through a Desk.
package desk

import (
	"context"
	"fmt"
	"sync"

	"github.com/pmurley/ulb-tradedesk/internal/cache"
	"github.com/pmurley/ulb-tradedesk/internal/config"
	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/negotiation"
	"github.com/pmurley/ulb-tradedesk/internal/sheets"
	"github.com/pmurley/ulb-tradedesk/internal/trade"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

// Loader produces a fresh league snapshot.
type Loader func(ctx context.Context) (*league.Snapshot, error)

func FileLoader(path string) Loader {
	return func(context.Context) (*league.Snapshot, error) {
		return league.LoadFile(path)
	}
}

func SheetLoader(client *sheets.Client) Loader {
	return client.LoadSnapshot
}

// LoaderFromConfig prefers a league file over the Google Sheet.
func LoaderFromConfig(cfg *config.Config, log *logger.Logger) (Loader, error) {
	switch {
	case cfg.LeagueFile != "":
		return FileLoader(cfg.LeagueFile), nil
	case cfg.GoogleSheetsID != "":
		return SheetLoader(sheets.NewClient(cfg.GoogleSheetsID, log)), nil
	}
	return nil, fmt.Errorf("no league source configured: set LEAGUE_FILE or GOOGLE_SHEETS_ID")
}

type Desk struct {
	cache  *cache.Cache
	load   Loader
	tuning config.Tuning
	log    *logger.Logger

	// reloadMu serializes snapshot loads.
	reloadMu sync.Mutex
}

func New(c *cache.Cache, load Loader, tuning config.Tuning, log *logger.Logger) *Desk {
	if log == nil {
		log = logger.Nop()
	}
	return &Desk{cache: c, load: load, tuning: tuning, log: log}
}

func (d *Desk) Tuning() config.Tuning { return d.tuning }

// Snapshot returns the cached snapshot, loading it on first use.
func (d *Desk) Snapshot(ctx context.Context) (*league.Snapshot, error) {
	if s, ok := d.cache.GetSnapshot(); ok {
		return s, nil
	}
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()
	if s, ok := d.cache.GetSnapshot(); ok {
		return s, nil
	}
	return d.reloadLocked(ctx)
}

// Reload replaces the cached snapshot with a fresh load, dropping cached
// offers and valuations.
func (d *Desk) Reload(ctx context.Context) (*league.Snapshot, error) {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()
	return d.reloadLocked(ctx)
}

func (d *Desk) reloadLocked(ctx context.Context) (*league.Snapshot, error) {
	s, err := d.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	d.cache.SetSnapshot(s)
	d.log.Infof("Loaded league snapshot %s", s.Version())
	return s, nil
}

// Invalidate drops everything cached, so the next request reloads.
func (d *Desk) Invalidate() {
	d.cache.Flush()
}

// Replace caches s as the current snapshot, e.g. after importing contracts.
func (d *Desk) Replace(s *league.Snapshot) {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()
	d.cache.SetSnapshot(s)
}

func (d *Desk) valuer(s *league.Snapshot) *valuation.Valuer {
	return valuation.New(s, d.tuning.Valuation,
		valuation.WithMemo(d.cache.Memo()),
		valuation.WithLogger(d.log))
}

// Engine returns a trade engine over the current snapshot.
func (d *Desk) Engine(ctx context.Context) (*trade.Engine, *league.Snapshot, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return trade.NewEngine(d.valuer(s), d.tuning.Offers, d.log), s, nil
}

// Negotiator returns a contract menu generator over the current snapshot.
func (d *Desk) Negotiator(ctx context.Context) (*negotiation.Generator, *league.Snapshot, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return negotiation.NewGenerator(d.valuer(s), d.tuning.Negotiation, d.log), s, nil
}

// Offers returns the trade offers for team tid at the current seed. Offers
// are cached per snapshot version and seed, so repeated views in the same
// refresh window return the same list.
func (d *Desk) Offers(ctx context.Context, tid int) ([]models.TradeSummary, error) {
	e, s, err := d.Engine(ctx)
	if err != nil {
		return nil, err
	}
	seed := e.Seed(tid)
	if offers, ok := d.cache.GetOffers(s.Version(), tid, seed); ok {
		return offers, nil
	}
	offers, err := e.GenerateOffers(tid, seed)
	if err != nil {
		return nil, err
	}
	d.cache.SetOffers(s.Version(), tid, seed, offers)
	return offers, nil
}

// Value summarizes p without changing any cached state.
func (d *Desk) Value(ctx context.Context, p models.TradeProposal) (models.TradeSummary, error) {
	e, _, err := d.Engine(ctx)
	if err != nil {
		return models.TradeSummary{}, err
	}
	return e.Summarize(p, valuation.DryRun())
}

// MakeItWork adjusts p until both teams accept it. It returns a nil summary
// when no acceptable trade is found.
func (d *Desk) MakeItWork(ctx context.Context, p models.TradeProposal, opts trade.Options) (*models.TradeSummary, error) {
	e, _, err := d.Engine(ctx)
	if err != nil {
		return nil, err
	}
	result, err := e.MakeItWork(p, opts)
	if err != nil || result == nil {
		return nil, err
	}
	summary, err := e.Summarize(*result)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ContractOptions builds the negotiation menu for player pid and team tid.
// A nil anchor uses the player's desired contract.
func (d *Desk) ContractOptions(ctx context.Context, pid, tid int, anchor *models.ContractTerms) ([]models.ContractOffer, models.ContractTerms, error) {
	g, s, err := d.Negotiator(ctx)
	if err != nil {
		return nil, models.ContractTerms{}, err
	}
	var terms models.ContractTerms
	if anchor != nil {
		terms = *anchor
	} else {
		p, err := s.Player(pid)
		if err != nil {
			return nil, terms, err
		}
		terms = g.DesiredContract(p)
	}
	offers, err := g.ContractOptions(pid, tid, terms)
	return offers, terms, err
}
