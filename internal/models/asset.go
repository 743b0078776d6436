package models

import "fmt"

// AssetKind tags the members of the Asset union.
type AssetKind int

const (
	AssetPlayer AssetKind = iota + 1
	AssetPick
	AssetContract
)

func (k AssetKind) String() string {
	switch k {
	case AssetPlayer:
		return "player"
	case AssetPick:
		return "pick"
	case AssetContract:
		return "contract"
	default:
		return "unknown"
	}
}

// Asset is anything that carries value in a trade or negotiation:
// a PlayerAsset, a PickAsset or a ContractAsset.
type Asset interface {
	Kind() AssetKind
	// Key identifies the asset uniquely within a league snapshot.
	Key() string
	isAsset()
}

type PlayerAsset struct {
	Player Player
}

func (PlayerAsset) Kind() AssetKind { return AssetPlayer }
func (a PlayerAsset) Key() string   { return fmt.Sprintf("p%d", a.Player.ID) }
func (PlayerAsset) isAsset()        {}

type PickAsset struct {
	Pick DraftPick
}

func (PickAsset) Kind() AssetKind { return AssetPick }
func (a PickAsset) Key() string   { return fmt.Sprintf("dp%d", a.Pick.ID) }
func (PickAsset) isAsset()        {}

// ContractAsset is money over time: Amount per season for Years seasons.
type ContractAsset struct {
	Amount int
	Years  int
}

func (ContractAsset) Kind() AssetKind { return AssetContract }
func (a ContractAsset) Key() string   { return fmt.Sprintf("c%dx%d", a.Amount, a.Years) }
func (ContractAsset) isAsset()        {}

// AssetSalary returns the per-season salary an asset adds to a payroll.
func AssetSalary(a Asset) int {
	switch a := a.(type) {
	case PlayerAsset:
		return a.Player.Contract.Amount
	case ContractAsset:
		return a.Amount
	default:
		return 0
	}
}

// AssetOwner returns the team currently holding the asset, or false for
// assets that have no owner.
func AssetOwner(a Asset) (int, bool) {
	switch a := a.(type) {
	case PlayerAsset:
		return a.Player.TeamID, true
	case PickAsset:
		return a.Pick.TeamID, true
	default:
		return 0, false
	}
}
