package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/ulb-tradedesk/internal/config"
	"github.com/pmurley/ulb-tradedesk/internal/desk"
	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/storage"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

const commandTimeout = 30 * time.Second

type HandlerManager struct {
	session      *discordgo.Session
	config       *config.Config
	logger       *logger.Logger
	desk         *desk.Desk
	negotiations *storage.NegotiationStorage
	commands     map[string]CommandHandler
}

type CommandHandler func(s *discordgo.Session, m *discordgo.MessageCreate, args []string)

func NewHandlerManager(
	session *discordgo.Session,
	config *config.Config,
	logger *logger.Logger,
	desk *desk.Desk,
	negotiations *storage.NegotiationStorage,
) *HandlerManager {
	hm := &HandlerManager{
		session:      session,
		config:       config,
		logger:       logger,
		desk:         desk,
		negotiations: negotiations,
		commands:     make(map[string]CommandHandler),
	}

	hm.registerCommands()

	return hm
}

func (hm *HandlerManager) RegisterHandlers() {
	hm.session.AddHandler(hm.messageCreate)
}

func (hm *HandlerManager) registerCommands() {
	hm.commands["help"] = hm.handleHelp
	hm.commands["reload"] = hm.handleReload
	hm.commands["team"] = hm.handleTeam
	hm.commands["value"] = hm.handleValue
	hm.commands["trade"] = hm.handleTrade
	hm.commands["offers"] = hm.handleOffers
	hm.commands["negotiate"] = hm.handleNegotiate
}

func (hm *HandlerManager) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !strings.HasPrefix(m.Content, hm.config.CommandPrefix) {
		return
	}

	content := strings.TrimPrefix(m.Content, hm.config.CommandPrefix)
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	if handler, exists := hm.commands[command]; exists {
		hm.logger.With("user", m.Author.Username).Debugf("Command %s %v", command, args)
		handler(s, m, args)
	}
}

func (hm *HandlerManager) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	helpMessage := `**ULB Trade Desk Commands:**
` + "```" + `
!help                     - Show this help message
!reload                   - Force reload league data
!team <team> [filters]    - Show roster, payroll and cap room
  Filters: --position=<pos> --age=<min-max|N+|N>
!value <player>           - What a player is worth to his team
!value <assets> for <assets> - Value a trade for both teams
!trade <assets> for <assets> - Check a trade's legality and value
!trade -fix <assets> for <assets> - Balance a trade until both teams accept
  Assets: player names, picks ("NYY 2026 1st") or a team abbreviation
  Examples:
    !trade Judge for Soto
    !trade Judge, 2026 2nd round pick for NYY
!offers [team]            - Trade offers other teams would make
!negotiate <player> [--team=<abbrev>] - Open contract talks
` + "```"

	s.ChannelMessageSend(m.ChannelID, helpMessage)
}

func (hm *HandlerManager) handleReload(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := hm.context()
	defer cancel()

	snap, err := hm.desk.Reload(ctx)
	if err != nil {
		hm.logger.Errorf("Reload failed: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Failed to reload data: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Data reloaded successfully! (%d teams, %d players)",
		len(snap.Teams()), len(snap.Players())))
}

func (hm *HandlerManager) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// snapshot returns the cached league, telling the channel when it cannot be
// loaded.
func (hm *HandlerManager) snapshot(ctx context.Context, s *discordgo.Session, channelID string) (*league.Snapshot, bool) {
	snap, err := hm.desk.Snapshot(ctx)
	if err != nil {
		hm.logger.Errorf("Failed to load league: %v", err)
		s.ChannelMessageSend(channelID, "Failed to load league data: "+err.Error())
		return nil, false
	}
	return snap, true
}

// resolveTeam finds the team named by name, falling back to USER_TEAM.
func (hm *HandlerManager) resolveTeam(snap *league.Snapshot, name string) (models.Team, error) {
	if name == "" {
		name = hm.config.UserTeam
	}
	if name == "" {
		return models.Team{}, fmt.Errorf("please specify a team")
	}
	team, err := snap.TeamByAbbrev(name)
	if err != nil {
		return models.Team{}, fmt.Errorf("no team found matching '%s'", name)
	}
	return team, nil
}

// splitFlags separates --key=value flags from the rest of the arguments.
// Flags without a value are recorded as "true".
func splitFlags(args []string) ([]string, map[string]string) {
	var rest []string
	flags := make(map[string]string)
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") || len(arg) == 1 {
			rest = append(rest, arg)
			continue
		}
		parts := strings.SplitN(strings.TrimLeft(arg, "-"), "=", 2)
		key := strings.ToLower(parts[0])
		if len(parts) == 2 {
			flags[key] = parts[1]
		} else {
			flags[key] = "true"
		}
	}
	return rest, flags
}
