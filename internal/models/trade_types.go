package models

// TeamSide is one team's half of a trade proposal. Included IDs are the
// assets this team sends away; excluded IDs must never be added back.
type TeamSide struct {
	TeamID            int   `json:"tid"`
	PlayerIDs         []int `json:"pids"`
	ExcludedPlayerIDs []int `json:"pidsExcluded,omitempty"`
	PickIDs           []int `json:"dpids"`
	ExcludedPickIDs   []int `json:"dpidsExcluded,omitempty"`
}

// AssetCount is the number of included players and picks.
func (ts TeamSide) AssetCount() int {
	return len(ts.PlayerIDs) + len(ts.PickIDs)
}

func (ts TeamSide) HasPlayer(pid int) bool {
	return containsInt(ts.PlayerIDs, pid)
}

func (ts TeamSide) HasPick(dpid int) bool {
	return containsInt(ts.PickIDs, dpid)
}

func (ts TeamSide) ExcludesPlayer(pid int) bool {
	return containsInt(ts.ExcludedPlayerIDs, pid)
}

func (ts TeamSide) ExcludesPick(dpid int) bool {
	return containsInt(ts.ExcludedPickIDs, dpid)
}

func (ts TeamSide) clone() TeamSide {
	return TeamSide{
		TeamID:            ts.TeamID,
		PlayerIDs:         append([]int(nil), ts.PlayerIDs...),
		ExcludedPlayerIDs: append([]int(nil), ts.ExcludedPlayerIDs...),
		PickIDs:           append([]int(nil), ts.PickIDs...),
		ExcludedPickIDs:   append([]int(nil), ts.ExcludedPickIDs...),
	}
}

// TradeProposal is a two-team trade. Teams[0] is the initiating side.
type TradeProposal struct {
	Teams [2]TeamSide `json:"teams"`
}

// NewProposal builds an empty proposal between two teams.
func NewProposal(tid0, tid1 int) TradeProposal {
	return TradeProposal{Teams: [2]TeamSide{{TeamID: tid0}, {TeamID: tid1}}}
}

// Clone returns a deep copy so mutations never leak into the caller's proposal.
func (tp TradeProposal) Clone() TradeProposal {
	return TradeProposal{Teams: [2]TeamSide{tp.Teams[0].clone(), tp.Teams[1].clone()}}
}

// IsEmpty reports whether neither side sends anything.
func (tp TradeProposal) IsEmpty() bool {
	return tp.Teams[0].AssetCount() == 0 && tp.Teams[1].AssetCount() == 0
}

// PicksOnly reports whether every included asset on both sides is a draft pick.
func (tp TradeProposal) PicksOnly() bool {
	return len(tp.Teams[0].PlayerIDs) == 0 && len(tp.Teams[1].PlayerIDs) == 0
}

// WarningCode classifies a legality warning.
type WarningCode string

const (
	WarningDuplicateAsset WarningCode = "duplicate_asset"
	WarningUntradable     WarningCode = "untradable"
	WarningRosterOverMax  WarningCode = "roster_over_max"
	WarningRosterUnderMin WarningCode = "roster_under_min"
	WarningHardCap        WarningCode = "hard_cap"
	WarningSoftCap        WarningCode = "soft_cap"
)

// Warning is a legality finding. Blocking warnings make a trade illegal;
// the rest are advisory. Excess is how far past the limit the trade goes,
// in players or thousands of dollars.
type Warning struct {
	TeamID   int         `json:"tid"`
	Code     WarningCode `json:"code"`
	Message  string      `json:"message"`
	Blocking bool        `json:"blocking"`
	Excess   int         `json:"excess,omitempty"`
}

// HasBlocking reports whether any warning blocks the trade.
func HasBlocking(warnings []Warning) bool {
	for _, w := range warnings {
		if w.Blocking {
			return true
		}
	}
	return false
}

// AssetSummary is a display row for one asset changing hands.
type AssetSummary struct {
	Kind   string  `json:"kind"`
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Detail string  `json:"detail"`
	Salary int     `json:"salary,omitempty"`
	Value  float64 `json:"value"`
}

// SideSummary is one team's view of a trade.
type SideSummary struct {
	TeamID        int            `json:"tid"`
	Abbrev        string         `json:"abbrev"`
	Leaving       []AssetSummary `json:"leaving"`
	Arriving      []AssetSummary `json:"arriving"`
	PayrollBefore int            `json:"payrollBefore"`
	PayrollAfter  int            `json:"payrollAfter"`
	ValueChange   float64        `json:"valueChange"`
}

// TradeSummary is a recomputed projection of a proposal; it is never stored.
type TradeSummary struct {
	Proposal   TradeProposal  `json:"proposal"`
	Teams      [2]SideSummary `json:"teams"`
	Warnings   []Warning      `json:"warnings"`
	LastResort bool           `json:"lastResort,omitempty"`
}

// ContractOffer is one entry of a negotiation menu.
type ContractOffer struct {
	Years          int    `json:"years"`
	Amount         int    `json:"amount"`
	Exp            int    `json:"exp"`
	IsAnchor       bool   `json:"isAnchor"`
	DisabledReason string `json:"disabledReason,omitempty"`
}

func containsInt(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
