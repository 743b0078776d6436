package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pmurley/ulb-tradedesk/internal/cache"
	"github.com/pmurley/ulb-tradedesk/internal/config"
	"github.com/pmurley/ulb-tradedesk/internal/desk"
	"github.com/pmurley/ulb-tradedesk/internal/discord"
	"github.com/pmurley/ulb-tradedesk/internal/fantrax"
	"github.com/pmurley/ulb-tradedesk/internal/models"
	"github.com/pmurley/ulb-tradedesk/internal/storage"
	"github.com/pmurley/ulb-tradedesk/pkg/logger"
)

type Bot struct {
	session      *discordgo.Session
	config       *config.Config
	logger       *logger.Logger
	desk         *desk.Desk
	negotiations *storage.NegotiationStorage
	transactions *storage.TransactionStorage
	handlers     *discord.HandlerManager

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func New(cfg *config.Config, tuning config.Tuning, log *logger.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents - we need these for DMs and message content
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	load, err := desk.LoaderFromConfig(cfg, log)
	if err != nil {
		return nil, err
	}

	negotiations, err := storage.NewNegotiationStorage(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	transactions, err := storage.NewTransactionStorage(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		session:      session,
		config:       cfg,
		logger:       log,
		desk:         desk.New(cache.New(cfg.CacheDuration), load, tuning, log),
		negotiations: negotiations,
		transactions: transactions,
		stopChan:     make(chan struct{}),
	}

	b.handlers = discord.NewHandlerManager(b.session, cfg, log, b.desk, negotiations)

	return b, nil
}

func (b *Bot) Start() error {
	b.handlers.RegisterHandlers()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if _, err := b.desk.Snapshot(context.Background()); err != nil {
		b.logger.Error("Failed to load initial league data:", err)
	}

	b.startMonitor(NewNegotiationMonitor(b.negotiations, b.announceExpiry, b.logger).Run)

	if b.config.FantraxLeagueID != "" {
		client, err := fantrax.NewFantraxClient(b.config.FantraxLeagueID, false)
		if err != nil {
			b.logger.Error("Failed to create Fantrax client, transaction monitor disabled:", err)
		} else {
			b.startMonitor(NewTransactionMonitor(client, b.transactions, b.desk.Invalidate, b.announceTrade, b.logger).Run)
		}
	}

	return nil
}

func (b *Bot) startMonitor(run func(stop <-chan struct{})) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		run(b.stopChan)
	}()
}

func (b *Bot) Stop() error {
	close(b.stopChan)
	b.wg.Wait()
	return b.session.Close()
}

// announceTrade posts an executed trade to the trades channel
func (b *Bot) announceTrade(t fantrax.Trade) {
	channelID := b.findChannelByName(tradeChannelName)
	if channelID == "" {
		b.logger.Error("Could not find channel:", tradeChannelName)
		return
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, createTradeEmbed(t)); err != nil {
		b.logger.Error("Failed to send trade message to Discord:", err)
	}
}

// announceExpiry tells the user who opened a negotiation that it lapsed
func (b *Bot) announceExpiry(n *models.Negotiation) {
	name := fmt.Sprintf("player %d", n.PlayerID)
	if snap, err := b.desk.Snapshot(context.Background()); err == nil {
		if p, err := snap.Player(n.PlayerID); err == nil {
			name = p.Name
		}
	}
	if _, err := b.session.ChannelMessageSend(n.ChannelID, expiryMessage(n, name)); err != nil {
		b.logger.Error("Failed to send negotiation expiry notification:", err)
	}
}

func expiryMessage(n *models.Negotiation, playerName string) string {
	return fmt.Sprintf("<@%s> Contract talks with %s have expired. Use `!negotiate %s` to start over.",
		n.UserID, playerName, playerName)
}

// findChannelByName finds a channel ID by name
func (b *Bot) findChannelByName(channelName string) string {
	for _, guild := range b.session.State.Guilds {
		channels, err := b.session.GuildChannels(guild.ID)
		if err != nil {
			continue
		}

		for _, channel := range channels {
			if channel.Name == channelName && channel.Type == discordgo.ChannelTypeGuildText {
				return channel.ID
			}
		}
	}
	return ""
}
