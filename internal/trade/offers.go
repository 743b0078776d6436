package trade

import (
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

// OfferOptions tunes offer generation. Zero fields take the defaults.
type OfferOptions struct {
	NumOffers    int `yaml:"num_offers"`
	TriesPerTeam int `yaml:"tries_per_team"`
	MaxRounds    int `yaml:"max_rounds"`

	// UserDeficit is how much value the user's side may give up in an
	// AI-built offer.
	UserDeficit float64 `yaml:"user_deficit"`

	// RefreshGames is how many games must be played before offers regenerate.
	RefreshGames int `yaml:"refresh_games"`
}

func DefaultOfferOptions() OfferOptions {
	return OfferOptions{
		NumOffers:    5,
		TriesPerTeam: 10,
		MaxRounds:    DefaultMaxRounds,
		UserDeficit:  5,
		RefreshGames: 10,
	}
}

func (o OfferOptions) withDefaults() OfferOptions {
	d := DefaultOfferOptions()
	if o.NumOffers <= 0 {
		o.NumOffers = d.NumOffers
	}
	if o.TriesPerTeam <= 0 {
		o.TriesPerTeam = d.TriesPerTeam
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = d.MaxRounds
	}
	if o.UserDeficit < 0 {
		o.UserDeficit = 0
	}
	if o.RefreshGames <= 0 {
		o.RefreshGames = d.RefreshGames
	}
	return o
}

// Seed is the offer seed for tid at the store's current clock.
func (e *Engine) Seed(tid int) int64 {
	return OfferSeed(e.store.State(), tid, e.offers.RefreshGames)
}

// GenerateOffers builds up to NumOffers trade offers for team tid from the
// other teams, reproducibly for a given seed and snapshot.
func (e *Engine) GenerateOffers(tid int, seed int64) ([]models.TradeSummary, error) {
	return e.GenerateOffersWithRNG(tid, NewRNG(seed))
}

// GenerateOffersWithRNG is GenerateOffers with an explicit random source.
// Partners are visited in shuffled order; each gets TriesPerTeam attempts and
// contributes at most one offer. A clean (warning-free) attempt is taken as
// soon as it appears; otherwise the partner's first legal attempt with
// advisory warnings is kept as a last resort. Failed attempts are skipped,
// so the result may hold fewer than NumOffers entries.
func (e *Engine) GenerateOffersWithRNG(tid int, rng RNG) ([]models.TradeSummary, error) {
	if _, err := e.store.Team(tid); err != nil {
		return nil, err
	}
	log := e.log.With("tid", tid)

	var partners []int
	for _, t := range e.store.Teams() {
		if t.ID != tid {
			partners = append(partners, t.ID)
		}
	}
	rng.Shuffle(len(partners), func(i, j int) { partners[i], partners[j] = partners[j], partners[i] })

	offers := []models.TradeSummary{}
	for _, partner := range partners {
		if len(offers) >= e.offers.NumOffers {
			break
		}
		pool, err := e.offerPool(tid, partner)
		if err != nil {
			log.Warnf("skipping partner %d: %v", partner, err)
			continue
		}
		if len(pool.assets) == 0 {
			return offers, nil
		}

		var fallback *models.TradeSummary
		for try := 0; try < e.offers.TriesPerTeam; try++ {
			summary, ok := e.attempt(tid, partner, pool, rng, log)
			if !ok {
				continue
			}
			if len(summary.Warnings) == 0 {
				fallback = nil
				offers = append(offers, summary)
				break
			}
			if fallback == nil {
				s := summary
				fallback = &s
			}
		}
		if fallback != nil {
			fallback.LastResort = true
			offers = append(offers, *fallback)
		}
	}
	return offers, nil
}

type offerPool struct {
	assets  []models.Asset
	weights []float64
}

// offerPool lists the user's tradable players and picks, weighted by what
// each is worth to the partner. Picks share the mean player weight.
func (e *Engine) offerPool(tid, partner int) (offerPool, error) {
	var pool offerPool
	roster, err := e.store.TeamRoster(tid)
	if err != nil {
		return pool, err
	}

	total := 0.0
	players := models.PlayerList(roster.Players).Tradable()
	for _, p := range players {
		w, err := e.valuer.PlayerValue(p, partner)
		if err != nil {
			return pool, err
		}
		pool.assets = append(pool.assets, models.PlayerAsset{Player: p})
		pool.weights = append(pool.weights, w)
		total += w
	}
	pickWeight := 1.0
	if len(players) > 0 {
		pickWeight = total / float64(len(players))
	}
	for _, dp := range roster.Picks {
		pool.assets = append(pool.assets, models.PickAsset{Pick: dp})
		pool.weights = append(pool.weights, pickWeight)
	}
	return pool, nil
}

// attempt samples one or two of the user's assets, asks the adjuster to
// balance the trade from the partner's roster and summarizes the result.
// ok is false for failed or uninteresting attempts.
func (e *Engine) attempt(tid, partner int, pool offerPool, rng RNG, log *logger.Logger) (models.TradeSummary, bool) {
	proposal := models.NewProposal(tid, partner)
	weights := append([]float64(nil), pool.weights...)
	n := min(1+rng.Intn(2), len(pool.assets))
	for k := 0; k < n; k++ {
		i := weightedIndex(rng, weights)
		weights[i] = 0
		switch a := pool.assets[i].(type) {
		case models.PlayerAsset:
			proposal.Teams[0].PlayerIDs = append(proposal.Teams[0].PlayerIDs, a.Player.ID)
		case models.PickAsset:
			proposal.Teams[0].PickIDs = append(proposal.Teams[0].PickIDs, a.Pick.ID)
		}
	}

	result, err := e.MakeItWork(proposal, Options{
		MaxRounds: e.offers.MaxRounds,
		Seed:      rng.Int63(),
		Tolerance: [2]float64{e.offers.UserDeficit, 0},
		Hold:      [2]bool{true, false},
	})
	if err != nil {
		log.Debugf("offer attempt with team %d skipped: %v", partner, err)
		return models.TradeSummary{}, false
	}
	if result == nil || degenerate(*result) {
		return models.TradeSummary{}, false
	}

	summary, err := e.Summarize(*result)
	if err != nil {
		log.Debugf("offer summary with team %d skipped: %v", partner, err)
		return models.TradeSummary{}, false
	}
	return summary, true
}

// degenerate trades are not worth showing: one side gives nothing, or only
// picks change hands.
func degenerate(p models.TradeProposal) bool {
	return p.Teams[0].AssetCount() == 0 || p.Teams[1].AssetCount() == 0 || p.PicksOnly()
}
