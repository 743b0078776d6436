package valuation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// Breakdown splits a team's value change into the straight sum of asset
// values and the diminishing-returns correction applied on top of it.
type Breakdown struct {
	Raw        float64 `json:"raw"`
	Correction float64 `json:"correction"`
	Total      float64 `json:"total"`
}

type evalConfig struct {
	dryRun bool
}

type EvalOption func(*evalConfig)

// DryRun evaluates without touching the memo or the log.
func DryRun() EvalOption {
	return func(c *evalConfig) { c.dryRun = true }
}

// ValueChange is Evaluate's total: positive when the trade leaves team tid
// better off.
func (v *Valuer) ValueChange(tid int, in, out []models.Asset, opts ...EvalOption) (float64, error) {
	b, err := v.Evaluate(tid, in, out, opts...)
	return b.Total, err
}

// Evaluate values team tid receiving in and giving up out. Assets are
// re-read from the store; an asset that no longer exists or is owned by the
// wrong side yields an *models.InvalidAssetError.
func (v *Valuer) Evaluate(tid int, in, out []models.Asset, opts ...EvalOption) (Breakdown, error) {
	var cfg evalConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	team, err := v.store.Team(tid)
	if err != nil {
		return Breakdown{}, err
	}
	if len(in) == 0 && len(out) == 0 {
		return Breakdown{}, nil
	}

	in, err = v.resolve(tid, in, false)
	if err != nil {
		return Breakdown{}, err
	}
	out, err = v.resolve(tid, out, true)
	if err != nil {
		return Breakdown{}, err
	}

	key := ""
	if !cfg.dryRun && v.memo != nil {
		key = memoKey(v.store.Version(), tid, in, out)
		if cached, ok := v.memo.Get(key); ok {
			if b, ok := cached.(Breakdown); ok {
				return b, nil
			}
		}
	}

	b, err := v.evaluate(team, in, out)
	if err != nil {
		return Breakdown{}, err
	}

	if !cfg.dryRun {
		if v.memo != nil {
			v.memo.Set(key, b)
		}
		v.log.With("tid", tid).Debugf("value change %+.2f (raw %+.2f, correction %+.2f)", b.Total, b.Raw, b.Correction)
	}
	return b, nil
}

func (v *Valuer) evaluate(team models.Team, in, out []models.Asset) (Breakdown, error) {
	roster, err := v.store.TeamRoster(team.ID)
	if err != nil {
		return Breakdown{}, err
	}
	fit := newTeamFit(roster.Players)

	values := make(map[int]float64, len(roster.Players)+len(in))
	for _, p := range roster.Players {
		values[p.ID] = v.playerValue(p, team, fit)
	}

	leaving := make(map[int]bool)
	var b Breakdown
	var otherNet float64
	var after []models.Player

	for _, a := range out {
		switch a := a.(type) {
		case models.PlayerAsset:
			leaving[a.Player.ID] = true
			b.Raw -= values[a.Player.ID]
		default:
			val, err := v.AssetValue(a, team.ID)
			if err != nil {
				return Breakdown{}, err
			}
			otherNet -= val
		}
	}
	for _, p := range roster.Players {
		if !leaving[p.ID] {
			after = append(after, p)
		}
	}
	for _, a := range in {
		switch a := a.(type) {
		case models.PlayerAsset:
			values[a.Player.ID] = v.playerValue(a.Player, team, fit)
			b.Raw += values[a.Player.ID]
			after = append(after, a.Player)
		default:
			val, err := v.AssetValue(a, team.ID)
			if err != nil {
				return Breakdown{}, err
			}
			otherNet += val
		}
	}

	delta := v.rosterValue(after, values) - v.rosterValue(roster.Players, values)
	b.Raw += otherNet
	b.Total = delta + otherNet
	b.Correction = b.Total - b.Raw
	return b, nil
}

// rosterValue sums player values with two diminishing-returns factors: one
// for overall rank on the roster and one for depth at the player's position.
func (v *Valuer) rosterValue(players []models.Player, values map[int]float64) float64 {
	type entry struct {
		id    int
		pos   string
		value float64
	}
	entries := make([]entry, 0, len(players))
	for _, p := range players {
		entries = append(entries, entry{id: p.ID, pos: p.PrimaryPosition(), value: values[p.ID]})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		if entries[i].pos != entries[j].pos {
			return entries[i].pos < entries[j].pos
		}
		return entries[i].id < entries[j].id
	})

	depth := make(map[string]int)
	total := 0.0
	for i, e := range entries {
		rank := 1 + v.params.RankDecay*float64(i)
		stack := 1 + v.params.DepthDecay*float64(depth[e.pos])
		total += e.value / (rank * stack)
		depth[e.pos]++
	}
	return total
}

// resolve re-reads assets from the store and checks ownership: outgoing
// assets must belong to tid, incoming ones must not. Repeated assets are
// collapsed.
func (v *Valuer) resolve(tid int, assets []models.Asset, outgoing bool) ([]models.Asset, error) {
	seen := make(map[string]bool, len(assets))
	resolved := make([]models.Asset, 0, len(assets))
	for _, a := range assets {
		if seen[a.Key()] {
			continue
		}
		seen[a.Key()] = true

		fresh, err := v.Lookup(a)
		if err != nil {
			return nil, err
		}
		if owner, ok := models.AssetOwner(fresh); ok {
			if outgoing && owner != tid {
				return nil, invalidAsset(fresh, tid, fmt.Sprintf("owned by team %d", owner))
			}
			if !outgoing && owner == tid {
				return nil, invalidAsset(fresh, tid, "already owned by the receiving team")
			}
		}
		resolved = append(resolved, fresh)
	}
	// Key order keeps the sums identical to what the memo saw.
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Key() < resolved[j].Key() })
	return resolved, nil
}

// Lookup returns the store's current version of a player or pick asset.
func (v *Valuer) Lookup(a models.Asset) (models.Asset, error) {
	switch a := a.(type) {
	case models.PlayerAsset:
		p, err := v.store.Player(a.Player.ID)
		if err != nil {
			return nil, &models.InvalidAssetError{Kind: models.AssetPlayer, ID: a.Player.ID, TeamID: a.Player.TeamID, Reason: "does not exist"}
		}
		return models.PlayerAsset{Player: p}, nil
	case models.PickAsset:
		dp, err := v.store.Pick(a.Pick.ID)
		if err != nil {
			return nil, &models.InvalidAssetError{Kind: models.AssetPick, ID: a.Pick.ID, TeamID: a.Pick.TeamID, Reason: "does not exist"}
		}
		return models.PickAsset{Pick: dp}, nil
	default:
		return a, nil
	}
}

func invalidAsset(a models.Asset, tid int, reason string) error {
	e := &models.InvalidAssetError{Kind: a.Kind(), TeamID: tid, Reason: reason}
	switch a := a.(type) {
	case models.PlayerAsset:
		e.ID = a.Player.ID
	case models.PickAsset:
		e.ID = a.Pick.ID
	}
	return e
}

func memoKey(version string, tid int, in, out []models.Asset) string {
	keys := func(assets []models.Asset) string {
		ks := make([]string, len(assets))
		for i, a := range assets {
			ks[i] = a.Key()
		}
		sort.Strings(ks)
		return strings.Join(ks, ",")
	}
	return fmt.Sprintf("value:%s:%d:%s:%s", version, tid, keys(in), keys(out))
}
