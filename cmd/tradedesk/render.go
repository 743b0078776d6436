package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(w io.Writer, msg string) {
	success.Fprintln(w, msg)
}

func printInfo(w io.Writer, msg string) {
	neutral.Fprintln(w, msg)
}

func renderTrade(w io.Writer, title string, summary models.TradeSummary) {
	accent.Fprintf(w, "\n== %s ==\n", title)
	for _, side := range summary.Teams {
		fmt.Fprintf(w, "%s sends:\n", side.Abbrev)
		renderAssets(w, side.Leaving)
	}
	fmt.Fprintln(w)
	for _, side := range summary.Teams {
		verdict := success.Sprint("accepts")
		if side.ValueChange <= 0 {
			verdict = danger.Sprint("declines")
		}
		fmt.Fprintf(w, "%-4s %s (value %+.1f)  payroll %s -> %s (%s)\n",
			side.Abbrev, verdict, side.ValueChange,
			models.FormatMoney(side.PayrollBefore), models.FormatMoney(side.PayrollAfter),
			signedMoney(side.PayrollAfter-side.PayrollBefore))
	}
	for _, warning := range summary.Warnings {
		if warning.Blocking {
			danger.Fprintf(w, "  blocked: %s\n", warning.Message)
		} else {
			warn.Fprintf(w, "  warning: %s\n", warning.Message)
		}
	}
	if summary.LastResort {
		printInfo(w, "Last-resort offer")
	}
}

func renderAssets(w io.Writer, assets []models.AssetSummary) {
	if len(assets) == 0 {
		fmt.Fprintln(w, "  nothing")
		return
	}
	for _, a := range assets {
		fmt.Fprintf(w, "  %-28s %s\n", truncate(a.Name, 28), a.Detail)
	}
}

func renderOffers(w io.Writer, team models.Team, offers []models.TradeSummary) {
	if len(offers) == 0 {
		printInfo(w, fmt.Sprintf("No offers for the %s right now.", team.FullName()))
		return
	}
	for i, offer := range offers {
		user, other := offer.Teams[0], offer.Teams[1]
		if user.TeamID != team.ID {
			user, other = other, user
		}
		accent.Fprintf(w, "\n== Offer %d from %s ==\n", i+1, other.Abbrev)
		fmt.Fprintln(w, "You receive:")
		renderAssets(w, user.Arriving)
		fmt.Fprintln(w, "You give:")
		renderAssets(w, user.Leaving)
		fmt.Fprintf(w, "Payroll: %s -> %s (%s)\n",
			models.FormatMoney(user.PayrollBefore), models.FormatMoney(user.PayrollAfter),
			signedMoney(user.PayrollAfter-user.PayrollBefore))
	}
}

func renderContractOptions(w io.Writer, p models.Player, team models.Team, anchor models.ContractTerms, offers []models.ContractOffer) {
	accent.Fprintf(w, "\n== %s and the %s ==\n", p.Name, team.FullName())
	fmt.Fprintf(w, "%s, %d yo, %d ovr / %d pot, asking %s over %d yr\n",
		p.Position, p.Age, p.Ratings.Ovr, p.Ratings.Pot, models.FormatMoney(anchor.Amount), anchor.Years)
	for _, o := range offers {
		line := fmt.Sprintf("%d yr  %8s/yr  thru %d", o.Years, models.FormatMoney(o.Amount), o.Exp)
		switch {
		case o.DisabledReason != "":
			danger.Fprintf(w, "  %s  %s\n", line, o.DisabledReason)
		case o.IsAnchor:
			success.Fprintf(w, "* %s\n", line)
		default:
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func renderTeam(w io.Writer, team models.Team, roster models.Roster, fin models.FinancialState, abbrevs map[int]string) {
	accent.Fprintf(w, "\n== %s (%s) ==\n", team.FullName(), team.Abbrev)
	fmt.Fprintf(w, "Payroll %s, %d players\n\n", models.FormatMoney(fin.Payroll), len(roster.Players))

	players := append([]models.Player(nil), roster.Players...)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Ratings.Ovr > players[j].Ratings.Ovr
	})
	fmt.Fprintf(w, "%-24s %-5s %4s %4s %4s %10s %6s\n", "NAME", "POS", "AGE", "OVR", "POT", "SALARY", "EXP")
	for _, p := range players {
		fmt.Fprintf(w, "%-24s %-5s %4d %4d %4d %10s %6d\n",
			truncate(p.Name, 24), p.Position, p.Age, p.Ratings.Ovr, p.Ratings.Pot,
			models.FormatMoney(p.Contract.Amount), p.Contract.Exp)
	}

	if len(roster.Picks) > 0 {
		fmt.Fprintln(w, "\nDraft picks:")
		for _, dp := range roster.Picks {
			line := fmt.Sprintf("  %d round %d", dp.Season, dp.Round)
			if dp.OriginalTeamID != team.ID {
				line += " via " + abbrevs[dp.OriginalTeamID]
			}
			fmt.Fprintln(w, line)
		}
	}
}

func renderImport(w io.Writer, team models.Team, updated []models.Player, unmatched []string) {
	accent.Fprintf(w, "\n== Payroll import for %s ==\n", team.Abbrev)
	if len(updated) == 0 {
		printInfo(w, "All contracts already match.")
	}
	for _, p := range updated {
		fmt.Fprintf(w, "  %-24s %8s thru %d\n", truncate(p.Name, 24), models.FormatMoney(p.Contract.Amount), p.Contract.Exp)
	}
	for _, name := range unmatched {
		warn.Fprintf(w, "  no player named %s\n", name)
	}
}

func signedMoney(v int) string {
	if v > 0 {
		return "+" + models.FormatMoney(v)
	}
	return models.FormatMoney(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
