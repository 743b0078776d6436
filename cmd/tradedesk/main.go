package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pmurley/ulb-tradedesk/internal/cache"
	"github.com/pmurley/ulb-tradedesk/internal/config"
	"github.com/pmurley/ulb-tradedesk/internal/desk"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	leagueFile string
	tuningFile string
	logLevel   string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "tradedesk",
		Short:         "Value trades, browse offers and negotiate contracts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.leagueFile, "league", "", "league file (defaults to LEAGUE_FILE, then GOOGLE_SHEETS_ID)")
	root.PersistentFlags().StringVar(&flags.tuningFile, "tuning", "", "YAML tuning file (defaults to TUNING_FILE)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newOffersCmd(flags),
		newValueCmd(flags),
		newMakeItWorkCmd(flags),
		newNegotiateCmd(flags),
		newTeamCmd(flags),
		newImportPayrollCmd(flags),
	)
	return root
}

// session is what a subcommand needs: the loaded configuration and a desk
// built from it.
type session struct {
	cfg  *config.Config
	desk *desk.Desk
	log  *logger.Logger
}

func openSession(flags *globalFlags) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.leagueFile != "" {
		cfg.LeagueFile = flags.leagueFile
	}
	if flags.tuningFile != "" {
		cfg.TuningFile = flags.tuningFile
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	// Logs go to stderr so that stdout only carries results.
	log := logger.NewWithWriter(cfg.LogLevel, os.Stderr)

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return nil, err
	}
	tuning.Offers.RefreshGames = cfg.OfferRefreshGames

	load, err := desk.LoaderFromConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:  cfg,
		desk: desk.New(cache.New(cfg.CacheDuration), load, tuning, log),
		log:  log,
	}, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, 2*time.Minute)
}
