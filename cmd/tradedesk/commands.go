package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmurley/ulb-tradedesk/internal/desk"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/spotrac"
	"github.com/pmurley/ulb-tradedesk/internal/trade"
)

func newOffersCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "offers <team>",
		Short: "List the AI trade offers for a team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			snap, err := s.desk.Snapshot(ctx)
			if err != nil {
				return err
			}
			team, err := snap.TeamByAbbrev(strings.Join(args, " "))
			if err != nil {
				return err
			}
			offers, err := s.desk.Offers(ctx, team.ID)
			if err != nil {
				return err
			}
			renderOffers(cmd.OutOrStdout(), team, offers)
			return nil
		},
	}
}

func newValueCmd(flags *globalFlags) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "value <assets> for <assets>",
		Short: "Show how both teams value a trade",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			snap, err := s.desk.Snapshot(ctx)
			if err != nil {
				return err
			}
			p, err := desk.ParseProposal(snap, strings.Join(args, " "))
			if err != nil {
				return err
			}
			summary, err := s.desk.Value(ctx, p)
			if err != nil {
				return err
			}
			renderTrade(cmd.OutOrStdout(), "Trade value", summary)
			if strict {
				return models.Violations(summary.Warnings)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when a warning blocks the trade")
	return cmd
}

func newMakeItWorkCmd(flags *globalFlags) *cobra.Command {
	var (
		rounds int
		seed   int64
		hold   string
	)
	cmd := &cobra.Command{
		Use:   "make-it-work <assets> for <assets>",
		Short: "Adjust a trade until both teams accept it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := trade.DefaultOptions()
			if rounds > 0 {
				opts.MaxRounds = rounds
			}
			opts.Seed = seed
			switch hold {
			case "":
			case "first":
				opts.Hold[0] = true
			case "second":
				opts.Hold[1] = true
			case "both":
				opts.Hold = [2]bool{true, true}
			default:
				return fmt.Errorf("--hold must be first, second or both, got %q", hold)
			}

			s, err := openSession(flags)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			snap, err := s.desk.Snapshot(ctx)
			if err != nil {
				return err
			}
			p, err := desk.ParseProposal(snap, strings.Join(args, " "))
			if err != nil {
				return err
			}
			summary, err := s.desk.MakeItWork(ctx, p, opts)
			if err != nil {
				return err
			}
			if summary == nil {
				return models.ErrNoSolution
			}
			renderTrade(cmd.OutOrStdout(), "Adjusted trade", *summary)
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 0, "maximum adjustment rounds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "tie-break seed")
	cmd.Flags().StringVar(&hold, "hold", "", "keep a side's assets fixed: first, second or both")
	return cmd
}

func newNegotiateCmd(flags *globalFlags) *cobra.Command {
	var (
		teamName string
		years    int
		amount   int
	)
	cmd := &cobra.Command{
		Use:   "negotiate <player>",
		Short: "Show the contract menu a team can offer a player",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (years > 0) != (amount > 0) {
				return fmt.Errorf("--years and --amount go together")
			}

			s, err := openSession(flags)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			snap, err := s.desk.Snapshot(ctx)
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			p, ok := snap.Players().Lookup(name)
			if !ok {
				return fmt.Errorf("%w: %s", models.ErrPlayerNotFound, name)
			}

			var team models.Team
			switch {
			case teamName != "":
				team, err = snap.TeamByAbbrev(teamName)
			case p.TeamID != models.FreeAgentTeamID:
				team, err = snap.Team(p.TeamID)
			default:
				return fmt.Errorf("%s is a free agent, pick a team with --team", p.Name)
			}
			if err != nil {
				return err
			}

			var anchor *models.ContractTerms
			if years > 0 {
				anchor = &models.ContractTerms{Years: years, Amount: amount}
			}
			offers, terms, err := s.desk.ContractOptions(ctx, p.ID, team.ID, anchor)
			if err != nil {
				return err
			}
			renderContractOptions(cmd.OutOrStdout(), p, team, terms, offers)
			return nil
		},
	}
	cmd.Flags().StringVar(&teamName, "team", "", "negotiating team (defaults to the player's team)")
	cmd.Flags().IntVar(&years, "years", 0, "anchor contract length")
	cmd.Flags().IntVar(&amount, "amount", 0, "anchor salary in thousands")
	return cmd
}

func newTeamCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "team <team>",
		Short: "Show a team's roster, picks and payroll",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			snap, err := s.desk.Snapshot(ctx)
			if err != nil {
				return err
			}
			team, err := snap.TeamByAbbrev(strings.Join(args, " "))
			if err != nil {
				return err
			}
			roster, err := snap.TeamRoster(team.ID)
			if err != nil {
				return err
			}
			fin, err := snap.FinancialState(team.ID)
			if err != nil {
				return err
			}
			abbrevs := make(map[int]string)
			for _, t := range snap.Teams() {
				abbrevs[t.ID] = t.Abbrev
			}
			renderTeam(cmd.OutOrStdout(), team, roster, fin, abbrevs)
			return nil
		},
	}
}

// newImportPayrollCmd copies real contracts onto a team's players and saves
// the league file in place.
func newImportPayrollCmd(flags *globalFlags) *cobra.Command {
	var (
		htmlFile string
		slug     string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "import-payroll <team>",
		Short: "Update contracts from a Spotrac payroll page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			if s.cfg.LeagueFile == "" {
				return fmt.Errorf("import-payroll writes to a league file; set --league or LEAGUE_FILE")
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			snap, err := s.desk.Snapshot(ctx)
			if err != nil {
				return err
			}
			team, err := snap.TeamByAbbrev(strings.Join(args, " "))
			if err != nil {
				return err
			}

			var rows []spotrac.PayrollRow
			if htmlFile != "" {
				f, err := os.Open(htmlFile)
				if err != nil {
					return err
				}
				defer f.Close()
				rows, err = spotrac.ParsePayrollTable(f)
				if err != nil {
					return err
				}
			} else {
				if slug == "" {
					slug = teamSlug(team)
				}
				s.log.Infof("Fetching Spotrac payroll for %s", slug)
				rows, err = spotrac.NewClient().TeamPayroll(ctx, slug, snap.State().Season)
				if err != nil {
					return err
				}
			}

			updated, unmatched := spotrac.ApplyContracts(snap.Players(), team.ID, rows, snap.State())
			out := cmd.OutOrStdout()
			renderImport(out, team, updated, unmatched)
			if dryRun || len(updated) == 0 {
				return nil
			}

			next, err := snap.WithPlayers(updated...)
			if err != nil {
				return err
			}
			if err := next.SaveFile(s.cfg.LeagueFile); err != nil {
				return err
			}
			printSuccess(out, fmt.Sprintf("Saved %s", s.cfg.LeagueFile))
			return nil
		},
	}
	cmd.Flags().StringVar(&htmlFile, "file", "", "read a saved payroll page instead of fetching it")
	cmd.Flags().StringVar(&slug, "slug", "", "Spotrac team slug, e.g. boston-red-sox")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the changes without saving")
	return cmd
}

// teamSlug guesses Spotrac's URL slug from the team's full name.
func teamSlug(team models.Team) string {
	return strings.ToLower(strings.Join(strings.Fields(team.FullName()), "-"))
}
