package valuation

import "github.com/pmurley/ulb-tradedesk/internal/models"

type slotHolder struct {
	id  int
	ovr int
}

// teamFit keeps the two best players per position so a player can be
// compared against the best teammate other than himself.
type teamFit map[string][2]slotHolder

func newTeamFit(players []models.Player) teamFit {
	fit := make(teamFit)
	for _, p := range players {
		pos := p.PrimaryPosition()
		top, ok := fit[pos]
		if !ok {
			top = [2]slotHolder{{id: -1, ovr: -1}, {id: -1, ovr: -1}}
		}
		h := slotHolder{id: p.ID, ovr: p.Ratings.Ovr}
		switch {
		case better(h, top[0]):
			top[1], top[0] = top[0], h
		case better(h, top[1]):
			top[1] = h
		}
		fit[pos] = top
	}
	return fit
}

func better(a, b slotHolder) bool {
	if a.ovr != b.ovr {
		return a.ovr > b.ovr
	}
	return a.id < b.id
}

func (f teamFit) bestExcluding(pos string, pid int) (int, bool) {
	top, ok := f[pos]
	if !ok {
		return 0, false
	}
	for _, h := range top {
		if h.id >= 0 && h.id != pid {
			return h.ovr, true
		}
	}
	return 0, false
}
