package models

import (
	"sort"
	"strings"
)

// PlayerList represents a slice of players with helper methods
type PlayerList []Player

// FilterByTeam returns players belonging to a specific team
func (pl PlayerList) FilterByTeam(tid int) PlayerList {
	var filtered PlayerList
	for _, p := range pl {
		if p.TeamID == tid {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterByPosition returns players whose position group matches
func (pl PlayerList) FilterByPosition(position string) PlayerList {
	var filtered PlayerList
	want := NormalizePosition(position)

	for _, p := range pl {
		for _, pos := range strings.Split(p.Position, ",") {
			if NormalizePosition(pos) == want {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// Tradable drops players flagged untradable
func (pl PlayerList) Tradable() PlayerList {
	var filtered PlayerList
	for _, p := range pl {
		if !p.Untradable {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SearchByName returns players whose names contain the search string
func (pl PlayerList) SearchByName(search string) PlayerList {
	var matches PlayerList
	searchLower := strings.ToLower(strings.TrimSpace(search))

	for _, p := range pl {
		if strings.Contains(strings.ToLower(p.Name), searchLower) {
			matches = append(matches, p)
		}
	}
	return matches
}

// FindByExactName returns all players with an exact name match (case-insensitive)
func (pl PlayerList) FindByExactName(name string) []Player {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	var matches []Player

	for _, p := range pl {
		if strings.ToLower(p.Name) == nameLower {
			matches = append(matches, p)
		}
	}
	return matches
}

// Lookup resolves a name the way the bot commands do: a unique exact match
// wins, otherwise the first partial match. ok is false when nothing matches
// or the exact name is ambiguous.
func (pl PlayerList) Lookup(name string) (Player, bool) {
	exact := pl.FindByExactName(name)
	if len(exact) == 1 {
		return exact[0], true
	}
	if len(exact) > 1 {
		return Player{}, false
	}
	partial := pl.SearchByName(name)
	if len(partial) == 0 {
		return Player{}, false
	}
	return partial[0], true
}

// SortByOvr sorts players by overall rating (descending), then ID
func (pl PlayerList) SortByOvr() {
	sort.SliceStable(pl, func(i, j int) bool {
		if pl[i].Ratings.Ovr != pl[j].Ratings.Ovr {
			return pl[i].Ratings.Ovr > pl[j].Ratings.Ovr
		}
		return pl[i].ID < pl[j].ID
	})
}

// SortBySalary sorts players by current salary (descending)
func (pl PlayerList) SortBySalary() {
	sort.SliceStable(pl, func(i, j int) bool {
		return pl[i].Contract.Amount > pl[j].Contract.Amount
	})
}

// SortByID sorts players by ID, the canonical deterministic order
func (pl PlayerList) SortByID() {
	sort.Slice(pl, func(i, j int) bool {
		return pl[i].ID < pl[j].ID
	})
}

// TopByOvr returns the top N players by overall rating
func (pl PlayerList) TopByOvr(n int) PlayerList {
	sorted := make(PlayerList, len(pl))
	copy(sorted, pl)
	sorted.SortByOvr()

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Payroll sums current salaries
func (pl PlayerList) Payroll() int {
	total := 0
	for _, p := range pl {
		total += p.Contract.Amount
	}
	return total
}

// GroupByPosition returns a map of position group to players
func (pl PlayerList) GroupByPosition() map[string]PlayerList {
	grouped := make(map[string]PlayerList)
	for _, p := range pl {
		pos := p.PrimaryPosition()
		grouped[pos] = append(grouped[pos], p)
	}
	return grouped
}

// Stats represents aggregate statistics for a group of players
type Stats struct {
	Count         int
	AverageOvr    float64
	AverageAge    float64
	TotalSalary   int
	AverageSalary int
	Expiring      int
}

// GetStats returns aggregate statistics for the player list
func (pl PlayerList) GetStats(state GameState) Stats {
	stats := Stats{Count: len(pl)}
	if stats.Count == 0 {
		return stats
	}

	ovr, age := 0, 0
	for _, p := range pl {
		ovr += p.Ratings.Ovr
		age += p.Age
		stats.TotalSalary += p.Contract.Amount
		if p.YearsRemaining(state) <= 1 {
			stats.Expiring++
		}
	}

	stats.AverageOvr = float64(ovr) / float64(stats.Count)
	stats.AverageAge = float64(age) / float64(stats.Count)
	stats.AverageSalary = stats.TotalSalary / stats.Count
	return stats
}
