package valuation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league/leaguetest"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
)

type mapMemo map[string]interface{}

func (m mapMemo) Get(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapMemo) Set(key string, value interface{}) { m[key] = value }

func TestPlayerValueMonotonicInRating(t *testing.T) {
	s := leaguetest.Standard(t)
	v := valuation.New(s, valuation.DefaultParams())

	for _, age := range []int{21, 27, 34} {
		for tid := 0; tid < 2; tid++ {
			prev := 0.0
			for ovr := 20; ovr <= 95; ovr++ {
				p := models.Player{
					ID:       10_000,
					TeamID:   models.FreeAgentTeamID,
					Age:      age,
					Position: "SS",
					Ratings:  models.Ratings{Ovr: ovr, Pot: 60},
					Contract: models.Contract{Amount: 8000, Exp: leaguetest.Season + 2},
				}
				val, err := v.PlayerValue(p, tid)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, val, prev, "age %d team %d ovr %d", age, tid, ovr)
				prev = val
			}
		}
	}
}

func TestPickDiscount(t *testing.T) {
	v := valuation.New(leaguetest.Standard(t), valuation.DefaultParams())

	prev := v.DiscountedPickValue(3, 0)
	assert.Equal(t, v.EstimatedPickValue(3), prev)
	for years := 1; years <= 3; years++ {
		cur := v.DiscountedPickValue(3, years)
		assert.Less(t, cur, prev, "year %d", years)
		prev = cur
	}
	for years := 4; years <= 6; years++ {
		assert.Equal(t, prev, v.DiscountedPickValue(3, years), "year %d", years)
	}
}

func TestPickValueByYearsInFuture(t *testing.T) {
	b := leaguetest.StandardBuilder()
	var picks []int
	for season := leaguetest.Season; season <= leaguetest.Season+5; season++ {
		b.Slot(0, season, 1)
		picks = append(picks, b.Pick(0, season, 1))
	}
	s := b.Build(t)
	v := valuation.New(s, valuation.DefaultParams())

	values := make([]float64, len(picks))
	for i, id := range picks {
		dp, err := s.Pick(id)
		require.NoError(t, err)
		values[i], err = v.PickValue(dp, 1)
		require.NoError(t, err)
	}
	for i := 1; i <= 3; i++ {
		assert.Less(t, values[i], values[i-1])
	}
	for i := 4; i < len(values); i++ {
		assert.Equal(t, values[3], values[i])
	}
}

func TestPickValueByYearsInFutureAcrossSlots(t *testing.T) {
	tests := []struct {
		name string
		slot float64
	}{
		{name: "first", slot: 1},
		{name: "middle", slot: 15.5},
		{name: "last", slot: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := leaguetest.NewBuilder()
			for i := 0; i < 30; i++ {
				b.Team(fmt.Sprintf("T%02d", i), models.StrategyRebuilding)
			}
			var picks []int
			for season := leaguetest.Season; season <= leaguetest.Season+5; season++ {
				b.Slot(0, season, tt.slot)
				picks = append(picks, b.Pick(0, season, 1))
			}
			s := b.Build(t)
			v := valuation.New(s, valuation.DefaultParams())

			values := make([]float64, len(picks))
			for i, id := range picks {
				dp, err := s.Pick(id)
				require.NoError(t, err)
				values[i], err = v.PickValue(dp, 1)
				require.NoError(t, err)
			}
			for i := 1; i <= 3; i++ {
				assert.Less(t, values[i], values[i-1], "year %d: %v", i, values)
			}
			for i := 4; i < len(values); i++ {
				assert.Equal(t, values[3], values[i], "year %d", i)
			}
		})
	}
}

func TestPickValueStrategy(t *testing.T) {
	s := leaguetest.Standard(t)
	v := valuation.New(s, valuation.DefaultParams())
	dp, err := s.Pick(1)
	require.NoError(t, err)

	contender, err := v.PickValue(dp, 0)
	require.NoError(t, err)
	rebuilder, err := v.PickValue(dp, 1)
	require.NoError(t, err)
	assert.Greater(t, rebuilder, contender)

	first, err := v.PickValue(dp, 1)
	require.NoError(t, err)
	second, err := s.Pick(2)
	require.NoError(t, err)
	later, err := v.PickValue(second, 1)
	require.NoError(t, err)
	assert.Greater(t, first, later)
}

func TestEmptyTradeIsNeutral(t *testing.T) {
	s := leaguetest.Standard(t)
	memo := mapMemo{}
	v := valuation.New(s, valuation.DefaultParams(), valuation.WithMemo(memo))

	for _, team := range s.Teams() {
		dv, err := v.ValueChange(team.ID, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0.0, dv)

		dv, err = v.ValueChange(team.ID, []models.Asset{}, []models.Asset{}, valuation.DryRun())
		require.NoError(t, err)
		assert.Equal(t, 0.0, dv)
	}
	assert.Empty(t, memo)
}

func TestDryRunMatchesAndLeavesNoTrace(t *testing.T) {
	s := leaguetest.Standard(t)
	memo := mapMemo{}
	v := valuation.New(s, valuation.DefaultParams(), valuation.WithMemo(memo))

	star, err := s.Player(30)
	require.NoError(t, err)
	mine, err := s.Player(3)
	require.NoError(t, err)
	in := []models.Asset{models.PlayerAsset{Player: star}}
	out := []models.Asset{models.PlayerAsset{Player: mine}}

	preview, err := v.Evaluate(0, in, out, valuation.DryRun())
	require.NoError(t, err)
	assert.Empty(t, memo)

	committed, err := v.Evaluate(0, in, out)
	require.NoError(t, err)
	assert.Equal(t, preview, committed)
	assert.Len(t, memo, 1)
	assert.InDelta(t, committed.Total, committed.Raw+committed.Correction, 1e-9)

	again, err := v.Evaluate(0, in, out)
	require.NoError(t, err)
	assert.Equal(t, committed, again)
}

func TestValueChangeRejectsForeignAssets(t *testing.T) {
	s := leaguetest.Standard(t)
	v := valuation.New(s, valuation.DefaultParams())

	theirs, err := s.Player(30)
	require.NoError(t, err)

	_, err = v.ValueChange(0, nil, []models.Asset{models.PlayerAsset{Player: theirs}})
	var invalid *models.InvalidAssetError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 30, invalid.ID)
	assert.Equal(t, models.AssetPlayer, invalid.Kind)

	_, err = v.ValueChange(0, []models.Asset{models.PickAsset{Pick: models.DraftPick{ID: 999}}}, nil)
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "does not exist", invalid.Reason)
}

func TestDiminishingReturnsAtPosition(t *testing.T) {
	b := leaguetest.NewBuilder()
	stacked := b.Team("BOS", models.StrategyContending)
	thin := b.Team("NYY", models.StrategyContending)
	b.Player(models.Player{TeamID: stacked, Age: 28, Position: "SS", Ratings: models.Ratings{Ovr: 76, Pot: 76}})
	b.Player(models.Player{TeamID: thin, Age: 28, Position: "SS", Ratings: models.Ratings{Ovr: 45, Pot: 45}})
	for _, tid := range []int{stacked, thin} {
		for _, pos := range []string{"C", "1B", "2B", "3B", "OF"} {
			b.Player(models.Player{TeamID: tid, Age: 28, Position: pos, Ratings: models.Ratings{Ovr: 60, Pot: 60}})
		}
	}
	target := b.Player(models.Player{TeamID: models.FreeAgentTeamID, Age: 28, Position: "SS", Ratings: models.Ratings{Ovr: 74, Pot: 74}})
	s := b.Build(t)
	v := valuation.New(s, valuation.DefaultParams())

	p, err := s.Player(target)
	require.NoError(t, err)
	in := []models.Asset{models.PlayerAsset{Player: p}}

	stackedGain, err := v.Evaluate(stacked, in, nil)
	require.NoError(t, err)
	thinGain, err := v.Evaluate(thin, in, nil)
	require.NoError(t, err)

	assert.Greater(t, stackedGain.Total, 0.0)
	assert.Greater(t, thinGain.Total, stackedGain.Total)
	assert.Less(t, stackedGain.Correction, 0.0)
}

func TestPlayerValueChange(t *testing.T) {
	b := leaguetest.NewBuilder()
	home := b.Team("BOS", models.StrategyRebuilding)
	away := b.Team("NYY", models.StrategyContending)
	pid := b.Player(models.Player{TeamID: home, Age: 30, Ratings: models.Ratings{Ovr: 65, Pot: 65},
		Mood: models.Mood{Traits: []string{models.TraitLoyalty}}})
	s := b.Build(t)
	v := valuation.New(s, valuation.DefaultParams())
	p, err := s.Player(pid)
	require.NoError(t, err)

	ask := models.ContractAsset{Amount: 10000, Years: 3}

	dv, err := v.PlayerValueChange(p, home, ask, ask)
	require.NoError(t, err)
	assert.Greater(t, dv, 0.0)

	dv, err = v.PlayerValueChange(p, away, ask, ask)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dv)

	dv, err = v.PlayerValueChange(p, away, models.ContractAsset{Amount: 9000, Years: 3}, ask)
	require.NoError(t, err)
	assert.Less(t, dv, 0.0)
}

func TestContractValue(t *testing.T) {
	v := valuation.New(leaguetest.Standard(t), valuation.DefaultParams())
	assert.Equal(t, 0.0, v.ContractValue(models.ContractAsset{Amount: 5000}))
	assert.InDelta(t, 5000+4500, v.ContractValue(models.ContractAsset{Amount: 5000, Years: 2}), 1e-9)

	cheap := models.Player{Age: 27, Ratings: models.Ratings{Ovr: 40, Pot: 40}}
	star := models.Player{Age: 27, Ratings: models.Ratings{Ovr: 85, Pot: 85}}
	assert.Equal(t, 750, v.MarketWorth(cheap))
	assert.Equal(t, 35000, v.MarketWorth(star))
}
