package trade

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/league/leaguetest"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
)

func newTestEngine(s league.Store) *Engine {
	return NewEngine(valuation.New(s, valuation.DefaultParams()), DefaultOfferOptions(), nil)
}

// bestPlayer returns tid's most valuable player to tid.
func bestPlayer(t *testing.T, e *Engine, tid int) models.Player {
	t.Helper()
	roster, err := e.store.TeamRoster(tid)
	require.NoError(t, err)
	var best models.Player
	bestValue := -1.0
	for _, p := range roster.Players {
		v, err := e.valuer.PlayerValue(p, tid)
		require.NoError(t, err)
		if v > bestValue {
			best, bestValue = p, v
		}
	}
	return best
}

// requireAcceptable checks what MakeItWork promises about a returned trade.
func requireAcceptable(t *testing.T, e *Engine, p *models.TradeProposal, opts Options) {
	t.Helper()
	assert.False(t, p.IsEmpty())
	warnings, err := e.Check(*p)
	require.NoError(t, err)
	assert.False(t, models.HasBlocking(warnings), "accepted trade has blocking warnings: %+v", warnings)
	dv, err := e.ValueChanges(*p, valuation.DryRun())
	require.NoError(t, err)
	for i := range dv {
		assert.GreaterOrEqual(t, dv[i], -opts.Tolerance[i])
	}
}

func TestMakeItWorkDeterministic(t *testing.T) {
	e := newTestEngine(leaguetest.Standard(t))
	star := bestPlayer(t, e, 1)

	p := models.NewProposal(0, 1)
	p.Teams[1].PlayerIDs = []int{star.ID}

	for _, seed := range []int64{0, 7, 12345} {
		opts := Options{MaxRounds: 5, Seed: seed}
		first, err := e.MakeItWork(p, opts)
		require.NoError(t, err)
		second, err := e.MakeItWork(p, opts)
		require.NoError(t, err)
		assert.Equal(t, first, second, "seed %d", seed)
		if first != nil {
			requireAcceptable(t, e, first, opts)
		}
	}

	assert.Equal(t, []int{star.ID}, p.Teams[1].PlayerIDs, "input proposal must not change")
	assert.Empty(t, p.Teams[0].PlayerIDs)
}

type mapMemo map[string]interface{}

func (m mapMemo) Get(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapMemo) Set(key string, value interface{}) { m[key] = value }

func TestMemoizedEngineMatchesUnmemoized(t *testing.T) {
	s := leaguetest.Standard(t)
	plain := newTestEngine(s)
	memo := mapMemo{}
	memoized := NewEngine(valuation.New(s, valuation.DefaultParams(), valuation.WithMemo(memo)), DefaultOfferOptions(), nil)

	p := models.NewProposal(0, 1)
	p.Teams[1].PlayerIDs = []int{bestPlayer(t, plain, 1).ID}
	opts := Options{MaxRounds: 5, Seed: 7}

	want, err := plain.MakeItWork(p, opts)
	require.NoError(t, err)
	got, err := memoized.MakeItWork(p, opts)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NotEmpty(t, memo, "candidate scoring fills the memo")

	// A second run is served from the memo and still agrees.
	again, err := memoized.MakeItWork(p, opts)
	require.NoError(t, err)
	assert.Equal(t, want, again)

	wantOffers, err := plain.GenerateOffers(1, 11)
	require.NoError(t, err)
	gotOffers, err := memoized.GenerateOffers(1, 11)
	require.NoError(t, err)
	assert.Equal(t, wantOffers, gotOffers)
}

func TestMakeItWorkEmptyProposal(t *testing.T) {
	e := newTestEngine(leaguetest.Standard(t))
	result, err := e.MakeItWork(models.NewProposal(0, 1), DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestMakeItWorkAcceptsBalancedTrade(t *testing.T) {
	e := newTestEngine(leaguetest.Standard(t))
	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{1}
	p.Teams[1].PlayerIDs = []int{25}

	dv, err := e.ValueChanges(p, valuation.DryRun())
	require.NoError(t, err)
	opts := Options{Tolerance: [2]float64{-dv[0] + 1, -dv[1] + 1}}

	result, err := e.MakeItWork(p, opts)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p, *result)
}

func TestMakeItWorkRespectsHoldAndExclusions(t *testing.T) {
	e := newTestEngine(leaguetest.Standard(t))
	star := bestPlayer(t, e, 0)

	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{star.ID}
	p.Teams[1].ExcludedPlayerIDs = []int{25, 26, 27, 28, 29, 30}
	p.Teams[1].ExcludedPickIDs = []int{3}

	// Team 0 gives up its star and needs at least one point back. Team 1
	// has plenty to spare, so only its non-excluded assets can close the gap.
	dv, err := e.ValueChanges(p, valuation.DryRun())
	require.NoError(t, err)
	require.Negative(t, dv[0])
	opts := Options{MaxRounds: 5, Seed: 3, Tolerance: [2]float64{-dv[0] - 1, 1000}, Hold: [2]bool{true, false}}

	result, err := e.MakeItWork(p, opts)
	require.NoError(t, err)
	require.NotNil(t, result)
	requireAcceptable(t, e, result, opts)
	assert.Equal(t, []int{star.ID}, result.Teams[0].PlayerIDs)
	assert.Empty(t, result.Teams[0].PickIDs)
	assert.NotEmpty(t, append(result.Teams[1].PlayerIDs, result.Teams[1].PickIDs...))
	for _, pid := range result.Teams[1].PlayerIDs {
		assert.NotContains(t, p.Teams[1].ExcludedPlayerIDs, pid)
	}
	assert.NotContains(t, result.Teams[1].PickIDs, 3)
}

func TestMakeItWorkNeverAcceptsHardCapViolation(t *testing.T) {
	s := capLeague(t, models.CapHard, func(payroll int) int { return payroll + 100 })
	e := newTestEngine(s)
	high, _ := salaryExtremes(t, s, 0, 1)

	// Team 1 takes on salary it cannot fit under the hard cap.
	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{high.ID}

	warnings, err := e.Check(p)
	require.NoError(t, err)
	require.True(t, models.HasBlocking(warnings))

	// With team 0 willing to lose almost everything it gains, value is no
	// obstacle and the adjuster has to repair the cap violation.
	dv, err := e.ValueChanges(p, valuation.DryRun())
	require.NoError(t, err)
	opts := Options{MaxRounds: 5, Tolerance: [2]float64{-dv[0] + 1, 0}}
	result, err := e.MakeItWork(p, opts)
	require.NoError(t, err)
	require.NotNil(t, result)
	requireAcceptable(t, e, result, opts)
	assert.NotEqual(t, p, *result)
	warnings, err = e.Check(*result)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	for _, seed := range []int64{0, 1, 2, 3, 4} {
		opts := Options{MaxRounds: 5, Seed: seed}
		result, err := e.MakeItWork(p, opts)
		require.NoError(t, err)
		if result != nil {
			requireAcceptable(t, e, result, opts)
		}
	}
}

func TestMakeItWorkInvalidAsset(t *testing.T) {
	e := newTestEngine(leaguetest.Standard(t))
	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{30}

	result, err := e.MakeItWork(p, DefaultOptions())
	assert.Nil(t, result)
	var invalid *models.InvalidAssetError
	assert.True(t, errors.As(err, &invalid))
}

func TestCandidatesOrderAndRotation(t *testing.T) {
	e := newTestEngine(leaguetest.Standard(t))
	p := models.NewProposal(0, 1)
	p.Teams[0].PlayerIDs = []int{5}

	base, err := e.candidates(p, []int{1}, []int{0}, Options{})
	require.NoError(t, err)
	require.Len(t, base, 24+6+1)
	assert.Equal(t, mutation{kind: addPlayer, side: 1, id: 25}, base[0])
	assert.Equal(t, mutation{kind: removePlayer, side: 0, id: 5}, base[len(base)-1])

	rotated, err := e.candidates(p, []int{1}, []int{0}, Options{Seed: 2})
	require.NoError(t, err)
	assert.Equal(t, base[2], rotated[0])
	assert.Equal(t, base[1], rotated[len(rotated)-1])

	held, err := e.candidates(p, []int{1}, []int{0}, Options{Hold: [2]bool{true, true}})
	require.NoError(t, err)
	assert.Empty(t, held)
}
