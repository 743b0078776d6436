package desk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// ParseError lists the parts of a trade that could not be resolved.
type ParseError struct {
	Reason   string
	NotFound []string
}

func (e *ParseError) Error() string {
	if len(e.NotFound) > 0 {
		return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.NotFound, ", "))
	}
	return e.Reason
}

// "NYY 2026 1st", "2026 2nd round pick", "bos 2025 1".
var pickPattern = regexp.MustCompile(`(?i)^(?:([a-z]{2,4})\s+)?(\d{4})\s+(\d+)(?:st|nd|rd|th)?(?:\s+round)?(?:\s+pick)?$`)

// ParseProposal reads a trade written as "<assets> for <assets>". Each side
// is a comma-separated list of player names, picks such as "NYY 2026 1st"
// (original team, season, round) and bare team abbreviations. A side's team
// is taken from its abbreviation, else from the owner of its assets. A side
// may be a team alone, e.g. "Judge for NYY".
func ParseProposal(s *league.Snapshot, text string) (models.TradeProposal, error) {
	idx := strings.Index(strings.ToLower(text), " for ")
	if idx < 0 {
		return models.TradeProposal{}, &ParseError{Reason: "use <assets> for <assets>"}
	}
	halves := [2]string{text[:idx], text[idx+len(" for "):]}

	var sides [2]models.TeamSide
	var notFound []string
	for i, half := range halves {
		side, missing, err := parseSide(s, half)
		if err != nil {
			return models.TradeProposal{}, err
		}
		sides[i] = side
		notFound = append(notFound, missing...)
	}
	if len(notFound) > 0 {
		return models.TradeProposal{}, &ParseError{Reason: "not found", NotFound: notFound}
	}
	if sides[0].TeamID == sides[1].TeamID {
		return models.TradeProposal{}, &ParseError{Reason: "both sides belong to the same team"}
	}
	return models.TradeProposal{Teams: sides}, nil
}

type pickRef struct {
	text          string
	original      string
	season, round int
}

func parseSide(s *league.Snapshot, text string) (models.TeamSide, []string, error) {
	side := models.TeamSide{TeamID: models.FreeAgentTeamID}
	var notFound []string
	var picks []pickRef

	setTeam := func(tid int, item string) error {
		if side.TeamID != models.FreeAgentTeamID && side.TeamID != tid {
			return &ParseError{Reason: fmt.Sprintf("%q belongs to a different team than the rest of its side", item)}
		}
		side.TeamID = tid
		return nil
	}

	players := s.Players()
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if m := pickPattern.FindStringSubmatch(item); m != nil {
			season, _ := strconv.Atoi(m[2])
			round, _ := strconv.Atoi(m[3])
			picks = append(picks, pickRef{text: item, original: m[1], season: season, round: round})
			continue
		}
		if team, err := s.TeamByAbbrev(item); err == nil {
			if err := setTeam(team.ID, item); err != nil {
				return side, nil, err
			}
			continue
		}
		p, ok := players.Lookup(item)
		if !ok || p.TeamID < 0 {
			notFound = append(notFound, item)
			continue
		}
		if err := setTeam(p.TeamID, item); err != nil {
			return side, nil, err
		}
		side.PlayerIDs = append(side.PlayerIDs, p.ID)
	}

	for _, ref := range picks {
		dp, ok := findPick(s, side.TeamID, ref)
		if !ok {
			notFound = append(notFound, ref.text)
			continue
		}
		if err := setTeam(dp.TeamID, ref.text); err != nil {
			return side, nil, err
		}
		side.PickIDs = append(side.PickIDs, dp.ID)
	}

	if side.TeamID == models.FreeAgentTeamID && len(notFound) == 0 {
		return side, nil, &ParseError{Reason: fmt.Sprintf("cannot tell which team %q belongs to", strings.TrimSpace(text))}
	}
	return side, notFound, nil
}

// findPick resolves a pick reference. Without an original team the pick is
// the side's own; with one, the side (when known) must own it.
func findPick(s *league.Snapshot, tid int, ref pickRef) (models.DraftPick, bool) {
	original := tid
	if ref.original != "" {
		team, err := s.TeamByAbbrev(ref.original)
		if err != nil {
			return models.DraftPick{}, false
		}
		original = team.ID
	}
	if original == models.FreeAgentTeamID {
		return models.DraftPick{}, false
	}
	for _, team := range s.Teams() {
		if tid != models.FreeAgentTeamID && team.ID != tid {
			continue
		}
		roster, err := s.TeamRoster(team.ID)
		if err != nil {
			continue
		}
		for _, dp := range roster.Picks {
			if dp.OriginalTeamID == original && dp.Season == ref.season && dp.Round == ref.round {
				return dp, true
			}
		}
	}
	return models.DraftPick{}, false
}
