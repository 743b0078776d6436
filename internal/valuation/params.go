package valuation

// Params holds the tunable curve constants. The defaults are game-balance
// numbers; a tuning file may override any of them.
type Params struct {
	// Player quality: ratings between ReplacementLevel and StarLevel map onto
	// 1..100 with the given exponent.
	ReplacementLevel float64 `yaml:"replacement_level"`
	StarLevel        float64 `yaml:"star_level"`
	QualityExponent  float64 `yaml:"quality_exponent"`
	PotentialWeight  float64 `yaml:"potential_weight"`

	// RebuildingPotentialBoost multiplies PotentialWeight for rebuilding teams.
	RebuildingPotentialBoost float64 `yaml:"rebuilding_potential_boost"`

	// Age curve.
	MinAge               int     `yaml:"min_age"`
	PeakAge              int     `yaml:"peak_age"`
	DeclineAge           int     `yaml:"decline_age"`
	DeclinePerYear       float64 `yaml:"decline_per_year"`
	MinAgeFactor         float64 `yaml:"min_age_factor"`
	ContendingVetBonus   float64 `yaml:"contending_vet_bonus"`
	RebuildingYouthBonus float64 `yaml:"rebuilding_youth_bonus"`
	RebuildingVetPenalty float64 `yaml:"rebuilding_vet_penalty"`

	// Contract efficiency: surplus of market worth over salary, scaled by the
	// years of control up to ContractControlYears.
	ContractWeight       float64 `yaml:"contract_weight"`
	ContractControlYears int     `yaml:"contract_control_years"`

	// Team fit against the best player already at the position.
	PositionNeedBonus      float64 `yaml:"position_need_bonus"`
	PositionSurplusPenalty float64 `yaml:"position_surplus_penalty"`

	// Draft pick curve over the overall selection number.
	PickTopValue             float64 `yaml:"pick_top_value"`
	PickFloorValue           float64 `yaml:"pick_floor_value"`
	PickDecay                float64 `yaml:"pick_decay"`
	PickDiscountPerYear      float64 `yaml:"pick_discount_per_year"`
	PickDiscountYears        int     `yaml:"pick_discount_years"`
	ContendingPickMultiplier float64 `yaml:"contending_pick_multiplier"`
	RebuildingPickMultiplier float64 `yaml:"rebuilding_pick_multiplier"`

	// Diminishing returns across a roster.
	RankDecay  float64 `yaml:"rank_decay"`
	DepthDecay float64 `yaml:"depth_decay"`

	// Money. CashPerPoint is how many thousands of dollars equal one point of
	// team value; ContractYearWeight discounts each later season of a deal.
	CashPerPoint       float64 `yaml:"cash_per_point"`
	ContractYearWeight float64 `yaml:"contract_year_weight"`

	// Player appeal of a team during negotiation.
	WinningAppeal float64 `yaml:"winning_appeal"`
	LoyaltyAppeal float64 `yaml:"loyalty_appeal"`
}

func DefaultParams() Params {
	return Params{
		ReplacementLevel:         40,
		StarLevel:                78,
		QualityExponent:          2,
		PotentialWeight:          0.35,
		RebuildingPotentialBoost: 1.5,

		MinAge:               19,
		PeakAge:              27,
		DeclineAge:           31,
		DeclinePerYear:       0.08,
		MinAgeFactor:         0.3,
		ContendingVetBonus:   0.15,
		RebuildingYouthBonus: 0.15,
		RebuildingVetPenalty: 0.2,

		ContractWeight:       0.25,
		ContractControlYears: 3,

		PositionNeedBonus:      0.1,
		PositionSurplusPenalty: 0.05,

		PickTopValue:             45,
		PickFloorValue:           4,
		PickDecay:                10,
		PickDiscountPerYear:      0.1,
		PickDiscountYears:        3,
		ContendingPickMultiplier: 0.85,
		RebuildingPickMultiplier: 1.2,

		RankDecay:  0.04,
		DepthDecay: 0.3,

		CashPerPoint:       400,
		ContractYearWeight: 0.9,

		WinningAppeal: 0.1,
		LoyaltyAppeal: 0.1,
	}
}
