// Package leaguetest builds small deterministic leagues for tests.
package leaguetest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// Season is the current season of every fixture league.
const Season = 2025

var positions = []string{
	"C", "1B", "2B", "3B", "SS", "LF", "CF", "RF", "DH",
	"SP", "SP", "SP", "SP", "SP", "RP", "RP", "RP", "RP", "RP", "RP",
	"C", "2B", "SS", "CF",
}

var abbrevs = []string{"BOS", "NYY", "TBR", "TOR", "BAL", "CLE"}

// Builder accumulates league records. Player and pick IDs are assigned in
// insertion order.
type Builder struct {
	cfg     models.LeagueConfig
	state   models.GameState
	teams   []models.Team
	players []models.Player
	picks   []models.DraftPick
	slots   []league.ExpectedSlot
}

func NewBuilder() *Builder {
	cfg := models.DefaultLeagueConfig()
	cfg.NumTeams = 0
	return &Builder{
		cfg:   cfg,
		state: models.GameState{Season: Season, Phase: models.PhaseRegularSeason, GamesPlayed: 40},
	}
}

func (b *Builder) Configure(fn func(*models.LeagueConfig)) *Builder {
	fn(&b.cfg)
	return b
}

func (b *Builder) State(state models.GameState) *Builder {
	b.state = state
	return b
}

// Team adds a team and returns its ID.
func (b *Builder) Team(abbrev string, strategy models.Strategy) int {
	tid := len(b.teams)
	b.teams = append(b.teams, models.Team{
		ID:       tid,
		Abbrev:   abbrev,
		Region:   "Region " + abbrev,
		Name:     "Club " + abbrev,
		Strategy: strategy,
	})
	b.cfg.NumTeams = len(b.teams)
	return tid
}

// Player adds p, assigning the next ID, and returns that ID.
func (b *Builder) Player(p models.Player) int {
	p.ID = len(b.players) + 1
	if p.Name == "" {
		p.Name = fmt.Sprintf("Player %d", p.ID)
	}
	b.players = append(b.players, p)
	return p.ID
}

// Pick adds a pick owned by its original team and returns its ID.
func (b *Builder) Pick(tid, season, round int) int {
	id := len(b.picks) + 1
	b.picks = append(b.picks, models.DraftPick{
		ID:             id,
		Season:         season,
		Round:          round,
		OriginalTeamID: tid,
		TeamID:         tid,
	})
	return id
}

// Slot records an explicit expected draft position.
func (b *Builder) Slot(tid, season int, slot float64) *Builder {
	b.slots = append(b.slots, league.ExpectedSlot{TeamID: tid, Season: season, Slot: slot})
	return b
}

// FillRoster adds n generated players to tid. Ratings, ages and salaries are
// spread with fixed arithmetic so rosters differ between teams.
func (b *Builder) FillRoster(tid, n int) {
	for i := 0; i < n; i++ {
		k := len(b.players) + 1
		age := 21 + (k*7)%14
		ovr := 40 + (k*37+tid*11)%38
		pot := ovr
		if age < 27 {
			pot = ovr + (27-age)*2
		}
		b.Player(models.Player{
			Name:     fmt.Sprintf("%s Player %d", b.teams[tid].Abbrev, i+1),
			TeamID:   tid,
			Age:      age,
			Position: positions[i%len(positions)],
			Ratings:  models.Ratings{Ovr: ovr, Pot: pot},
			Contract: models.Contract{Amount: 750 + ((k*53)%20)*400, Exp: b.state.Season + k%4},
		})
	}
}

// Build indexes the records into a snapshot.
func (b *Builder) Build(t testing.TB) *league.Snapshot {
	t.Helper()
	s, err := league.NewSnapshot(b.cfg, b.state, b.teams, b.players, b.picks, b.slots...)
	require.NoError(t, err)
	return s
}

// Standard is a four-team league: two contenders, two rebuilders, 24-man
// rosters and each team's own first- and second-round picks for three drafts.
func Standard(t testing.TB) *league.Snapshot {
	t.Helper()
	return StandardBuilder().Build(t)
}

func StandardBuilder() *Builder {
	b := NewBuilder()
	for i := 0; i < 4; i++ {
		strategy := models.StrategyContending
		if i%2 == 1 {
			strategy = models.StrategyRebuilding
		}
		b.Team(abbrevs[i], strategy)
	}
	for tid := range b.teams {
		b.FillRoster(tid, 24)
	}
	for season := Season; season < Season+3; season++ {
		for tid := range b.teams {
			for round := 1; round <= 2; round++ {
				b.Pick(tid, season, round)
			}
		}
	}
	return b
}
