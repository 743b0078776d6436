package trade

import (
	"errors"
	"math"
	"sort"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

const DefaultMaxRounds = 5

// Options controls one MakeItWork run.
type Options struct {
	MaxRounds int

	// Seed rotates the candidate order so that equally scored mutations are
	// broken differently for different seeds. The same seed always yields the
	// same result.
	Seed int64

	// Tolerance[i] is the value deficit side i accepts. AI-initiated trades
	// give the initiating side a positive tolerance.
	Tolerance [2]float64

	// Hold[i] freezes side i's included assets.
	Hold [2]bool
}

func DefaultOptions() Options {
	return Options{MaxRounds: DefaultMaxRounds}
}

type mutationKind int

const (
	addPlayer mutationKind = iota
	addPick
	removePlayer
	removePick
)

// mutation adds an asset to, or removes one from, side's included list.
type mutation struct {
	kind mutationKind
	side int
	id   int
}

func (m mutation) apply(p models.TradeProposal) models.TradeProposal {
	next := p.Clone()
	s := &next.Teams[m.side]
	switch m.kind {
	case addPlayer:
		s.PlayerIDs = append(s.PlayerIDs, m.id)
	case addPick:
		s.PickIDs = append(s.PickIDs, m.id)
	case removePlayer:
		s.PlayerIDs = removeID(s.PlayerIDs, m.id)
	case removePick:
		s.PickIDs = removeID(s.PickIDs, m.id)
	}
	return next
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

type evaluation struct {
	dv       [2]float64
	warnings []models.Warning
}

func (ev evaluation) margin(i int, opts Options) float64 {
	return ev.dv[i] + opts.Tolerance[i]
}

func (ev evaluation) minMargin(opts Options) float64 {
	return math.Min(ev.margin(0, opts), ev.margin(1, opts))
}

func (ev evaluation) valuesClear(opts Options) bool {
	return ev.margin(0, opts) >= 0 && ev.margin(1, opts) >= 0
}

// severity measures how badly blocking warnings are violated.
func (ev evaluation) severity() int {
	total := 0
	for _, w := range ev.warnings {
		if w.Blocking {
			total += 1 + w.Excess
		}
	}
	return total
}

func (e *Engine) evaluate(p models.TradeProposal) (evaluation, error) {
	warnings, err := e.checker.Check(p)
	if err != nil {
		return evaluation{}, err
	}
	dv, err := e.ValueChanges(p)
	if err != nil {
		return evaluation{}, err
	}
	return evaluation{dv: dv, warnings: warnings}, nil
}

// MakeItWork adjusts p until both sides clear their acceptance thresholds
// and the trade is legal, one mutation per round. It returns nil with a nil
// error when no acceptable trade is found within opts.MaxRounds. Errors are
// reserved for invalid input, such as assets that are not owned by the side
// listing them.
func (e *Engine) MakeItWork(p models.TradeProposal, opts Options) (*models.TradeProposal, error) {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	cur := p.Clone()

	for round := 0; ; round++ {
		ev, err := e.evaluate(cur)
		if err != nil {
			return nil, err
		}
		if ev.valuesClear(opts) && !models.HasBlocking(ev.warnings) && !cur.IsEmpty() {
			return &cur, nil
		}
		if round == opts.MaxRounds {
			break
		}

		var next *models.TradeProposal
		if !ev.valuesClear(opts) {
			worst := 0
			if ev.margin(1, opts) < ev.margin(0, opts) {
				worst = 1
			}
			next, err = e.improveValue(cur, ev, worst, opts)
		} else {
			next, err = e.repairLegality(cur, ev, opts)
		}
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		cur = *next
	}

	e.log.Debugf("no acceptable trade between teams %d and %d", p.Teams[0].TeamID, p.Teams[1].TeamID)
	return nil, nil
}

// candidates lists the mutations allowed on p, in (kind, id) order rotated
// by the seed. Adds come from the listed sides' rosters and skip assets that
// are untradable, excluded or already included; removals come from their
// included lists. Held sides get neither.
func (e *Engine) candidates(p models.TradeProposal, addSides, removeSides []int, opts Options) ([]mutation, error) {
	var muts []mutation
	for _, i := range addSides {
		if opts.Hold[i] {
			continue
		}
		side := p.Teams[i]
		roster, err := e.store.TeamRoster(side.TeamID)
		if err != nil {
			return nil, err
		}
		for _, pl := range roster.Players {
			if pl.Untradable || side.HasPlayer(pl.ID) || side.ExcludesPlayer(pl.ID) {
				continue
			}
			muts = append(muts, mutation{kind: addPlayer, side: i, id: pl.ID})
		}
		for _, dp := range roster.Picks {
			if side.HasPick(dp.ID) || side.ExcludesPick(dp.ID) {
				continue
			}
			muts = append(muts, mutation{kind: addPick, side: i, id: dp.ID})
		}
	}
	for _, i := range removeSides {
		if opts.Hold[i] {
			continue
		}
		for _, pid := range p.Teams[i].PlayerIDs {
			muts = append(muts, mutation{kind: removePlayer, side: i, id: pid})
		}
		for _, dpid := range p.Teams[i].PickIDs {
			muts = append(muts, mutation{kind: removePick, side: i, id: dpid})
		}
	}

	sort.SliceStable(muts, func(a, b int) bool {
		if muts[a].kind != muts[b].kind {
			return muts[a].kind < muts[b].kind
		}
		if muts[a].id != muts[b].id {
			return muts[a].id < muts[b].id
		}
		return muts[a].side < muts[b].side
	})
	if n := len(muts); n > 1 {
		shift := int(uint64(opts.Seed) % uint64(n))
		rotated := make([]mutation, 0, n)
		rotated = append(rotated, muts[shift:]...)
		muts = append(rotated, muts[:shift]...)
	}
	return muts, nil
}

// improveValue finds the mutation that raises the worst side's value the
// most per unit of value it costs the other side. The worst side may gain
// an asset from the other side's roster or shed one of its own included
// assets.
func (e *Engine) improveValue(p models.TradeProposal, ev evaluation, worst int, opts Options) (*models.TradeProposal, error) {
	other := 1 - worst
	muts, err := e.candidates(p, []int{other}, []int{worst}, opts)
	if err != nil {
		return nil, err
	}

	var best *models.TradeProposal
	bestScore := 0.0
	for _, m := range muts {
		next := m.apply(p)
		dv, err := e.ValueChanges(next)
		if err != nil {
			if isInvalidAsset(err) {
				continue
			}
			return nil, err
		}
		gain := dv[worst] - ev.dv[worst]
		if gain <= 0 {
			continue
		}
		cost := math.Max(ev.dv[other]-dv[other], 1)
		if score := gain / cost; best == nil || score > bestScore {
			best, bestScore = &next, score
		}
	}
	return best, nil
}

// repairLegality finds the mutation that most reduces the blocking warnings'
// severity, preferring the one that leaves the larger value margin.
func (e *Engine) repairLegality(p models.TradeProposal, ev evaluation, opts Options) (*models.TradeProposal, error) {
	both := []int{0, 1}
	muts, err := e.candidates(p, both, both, opts)
	if err != nil {
		return nil, err
	}

	var best *models.TradeProposal
	bestSeverity := ev.severity()
	bestMargin := math.Inf(-1)
	for _, m := range muts {
		next := m.apply(p)
		nev, err := e.evaluate(next)
		if err != nil {
			if isInvalidAsset(err) {
				continue
			}
			return nil, err
		}
		sev := nev.severity()
		margin := nev.minMargin(opts)
		if sev < bestSeverity || (best != nil && sev == bestSeverity && margin > bestMargin) {
			best, bestSeverity, bestMargin = &next, sev, margin
		}
	}
	return best, nil
}

func isInvalidAsset(err error) bool {
	var invalid *models.InvalidAssetError
	return errors.As(err, &invalid)
}
