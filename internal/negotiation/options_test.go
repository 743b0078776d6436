package negotiation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/league/leaguetest"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
)

type fixture struct {
	store  *league.Snapshot
	gen    *Generator
	team   int
	player map[string]int
}

func newFixture(t *testing.T, configure func(*models.LeagueConfig), state *models.GameState) fixture {
	t.Helper()
	b := leaguetest.NewBuilder()
	if configure != nil {
		b.Configure(configure)
	}
	if state != nil {
		b.State(*state)
	}
	f := fixture{team: b.Team("BOS", models.StrategyContending), player: map[string]int{}}
	b.Team("NYY", models.StrategyRebuilding)
	for i := 0; i < 5; i++ {
		b.Player(models.Player{TeamID: f.team, Age: 28, Ratings: models.Ratings{Ovr: 55, Pot: 55}, Contract: models.Contract{Amount: 2000, Exp: leaguetest.Season + 1}})
	}
	f.player["eager"] = b.Player(models.Player{Name: "Eager", TeamID: models.FreeAgentTeamID, Age: 28, Ratings: models.Ratings{Ovr: 69, Pot: 69}})
	f.player["picky"] = b.Player(models.Player{Name: "Picky", TeamID: models.FreeAgentTeamID, Age: 28, Ratings: models.Ratings{Ovr: 60, Pot: 60}})
	f.player["stubborn"] = b.Player(models.Player{Name: "Stubborn", TeamID: models.FreeAgentTeamID, Age: 28, Ratings: models.Ratings{Ovr: 69, Pot: 69}, Mood: models.Mood{Refuses: true}})
	f.player["own"] = b.Player(models.Player{Name: "Own", TeamID: f.team, Age: 30, Ratings: models.Ratings{Ovr: 69, Pot: 69}, Contract: models.Contract{Amount: 5000, Exp: leaguetest.Season}})

	f.store = b.Build(t)
	f.gen = NewGenerator(valuation.New(f.store, valuation.DefaultParams()), DefaultOptions(), nil)
	return f
}

func anchors(offers []models.ContractOffer) []models.ContractOffer {
	var out []models.ContractOffer
	for _, o := range offers {
		if o.IsAnchor {
			out = append(out, o)
		}
	}
	return out
}

func TestContractOptionsAnchor(t *testing.T) {
	f := newFixture(t, nil, nil)

	tests := []struct {
		name        string
		anchor      models.ContractTerms
		wantYears   int
		wantOptions int
	}{
		{"middle", models.ContractTerms{Years: 3, Amount: 10000}, 3, 5},
		{"shortest", models.ContractTerms{Years: 1, Amount: 10000}, 1, 5},
		{"beyond max length", models.ContractTerms{Years: 9, Amount: 10000}, 5, 5},
		{"below min length", models.ContractTerms{Years: 0, Amount: 10000}, 1, 5},
		{"anchor above max contract", models.ContractTerms{Years: 2, Amount: 36000}, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers, err := f.gen.ContractOptions(f.player["eager"], f.team, tt.anchor)
			require.NoError(t, err)
			assert.Len(t, offers, tt.wantOptions)

			a := anchors(offers)
			require.Len(t, a, 1)
			assert.Equal(t, tt.wantYears, a[0].Years)
			assert.Equal(t, tt.anchor.Amount, a[0].Amount)
			assert.Empty(t, a[0].DisabledReason)

			for i := 1; i < len(offers); i++ {
				assert.Less(t, offers[i-1].Years, offers[i].Years)
			}
		})
	}
}

func TestContractOptionsPricing(t *testing.T) {
	f := newFixture(t, nil, nil)
	offers, err := f.gen.ContractOptions(f.player["eager"], f.team, models.ContractTerms{Years: 3, Amount: 10000})
	require.NoError(t, err)
	require.Len(t, offers, 5)

	// ovr 69 gives the largest growth factor: 0.08 * 1.5.
	assert.Equal(t, []int{12400, 11200, 10000, 11200, 12400}, amounts(offers))
	assert.Equal(t, leaguetest.Season, offers[0].Exp)
	assert.Equal(t, leaguetest.Season+4, offers[4].Exp)
	for _, o := range offers {
		assert.Empty(t, o.DisabledReason, "%d years", o.Years)
	}
}

func amounts(offers []models.ContractOffer) []int {
	out := make([]int, len(offers))
	for i, o := range offers {
		out[i] = o.Amount
	}
	return out
}

func TestContractOptionsPlayerNotInterested(t *testing.T) {
	f := newFixture(t, nil, nil)
	offers, err := f.gen.ContractOptions(f.player["picky"], f.team, models.ContractTerms{Years: 3, Amount: 10000})
	require.NoError(t, err)
	require.Len(t, offers, 5)

	// ovr 60 gives the smallest growth factor, below the player's aversion.
	for _, o := range offers {
		if o.IsAnchor {
			assert.Empty(t, o.DisabledReason)
			continue
		}
		assert.Contains(t, o.DisabledReason, "not interested")
	}
}

func TestContractOptionsRefusal(t *testing.T) {
	f := newFixture(t, nil, nil)
	offers, err := f.gen.ContractOptions(f.player["stubborn"], f.team, models.ContractTerms{Years: 2, Amount: 8000})
	require.NoError(t, err)
	for _, o := range offers {
		if o.IsAnchor {
			assert.Empty(t, o.DisabledReason)
		} else {
			assert.Equal(t, "Stubborn refuses to negotiate with the Region BOS Club BOS", o.DisabledReason)
		}
	}
}

func TestContractOptionsHardCap(t *testing.T) {
	f := newFixture(t, func(c *models.LeagueConfig) {
		c.SalaryCapType = models.CapHard
		c.SalaryCap = 15000
	}, nil)
	offers, err := f.gen.ContractOptions(f.player["eager"], f.team, models.ContractTerms{Years: 3, Amount: 10000})
	require.NoError(t, err)
	require.Len(t, anchors(offers), 1)
	for _, o := range offers {
		if !o.IsAnchor {
			assert.Equal(t, "This contract would put you over the salary cap", o.DisabledReason)
		}
	}
}

func TestContractOptionsSoftCapResign(t *testing.T) {
	resign := models.GameState{Season: leaguetest.Season, Phase: models.PhaseResignPlayers}
	f := newFixture(t, func(c *models.LeagueConfig) {
		c.SalaryCap = 15000
	}, &resign)

	offers, err := f.gen.ContractOptions(f.player["own"], f.team, models.ContractTerms{Years: 3, Amount: 10000})
	require.NoError(t, err)
	for _, o := range offers {
		assert.NotEqual(t, "This contract would put you over the salary cap", o.DisabledReason)
		assert.Equal(t, leaguetest.Season+o.Years, o.Exp)
	}

	offers, err = f.gen.ContractOptions(f.player["eager"], f.team, models.ContractTerms{Years: 3, Amount: 10000})
	require.NoError(t, err)
	assert.Equal(t, "This contract would put you over the salary cap", offers[0].DisabledReason)
}

func TestContractOptionsChallengeMode(t *testing.T) {
	challenge := func(c *models.LeagueConfig) { c.ChallengeNoFreeAgents = true }

	f := newFixture(t, challenge, nil)
	offers, err := f.gen.ContractOptions(f.player["eager"], f.team, models.ContractTerms{Years: 3, Amount: 10000})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.True(t, offers[0].IsAnchor)

	// Every length of a small enough anchor stays at or under the minimum.
	minimum, err := f.gen.ContractOptions(f.player["eager"], f.team, models.ContractTerms{Years: 3, Amount: 600})
	require.NoError(t, err)
	assert.Len(t, minimum, 5)

	resign := models.GameState{Season: leaguetest.Season, Phase: models.PhaseResignPlayers}
	f = newFixture(t, challenge, &resign)
	offers, err = f.gen.ContractOptions(f.player["own"], f.team, models.ContractTerms{Years: 3, Amount: 10000})
	require.NoError(t, err)
	assert.Len(t, offers, 5)
}

func TestContractOptionsUnknownPlayer(t *testing.T) {
	f := newFixture(t, nil, nil)
	_, err := f.gen.ContractOptions(999, f.team, models.ContractTerms{Years: 1, Amount: 750})
	assert.ErrorIs(t, err, models.ErrPlayerNotFound)
}

func TestDesiredContract(t *testing.T) {
	f := newFixture(t, nil, nil)
	gen := f.gen

	young := gen.DesiredContract(models.Player{Age: 22, Ratings: models.Ratings{Ovr: 50, Pot: 70}})
	assert.Equal(t, 2, young.Years)
	vet := gen.DesiredContract(models.Player{Age: 33, Ratings: models.Ratings{Ovr: 70, Pot: 70}})
	assert.Equal(t, 5, vet.Years)
	scrub := gen.DesiredContract(models.Player{Age: 28, Ratings: models.Ratings{Ovr: 30, Pot: 30}})
	assert.Equal(t, models.ContractTerms{Years: 3, Amount: 750}, scrub)
}
