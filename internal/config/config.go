package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pmurley/ulb-tradedesk/internal/negotiation"
	"github.com/pmurley/ulb-tradedesk/internal/trade"
	"github.com/pmurley/ulb-tradedesk/internal/valuation"
)

type Config struct {
	// Discord
	DiscordToken  string `env:"DISCORD_TOKEN"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	// League data
	LeagueFile      string `env:"LEAGUE_FILE"`
	GoogleSheetsID  string `env:"GOOGLE_SHEETS_ID"`
	FantraxLeagueID string `env:"FANTRAX_LEAGUE_ID"`
	TuningFile      string `env:"TUNING_FILE"`
	DataDir         string `env:"DATA_DIR" envDefault:"data"`

	CacheDuration     time.Duration `env:"CACHE_DURATION" envDefault:"5m"`
	OfferRefreshGames int           `env:"OFFER_REFRESH_GAMES" envDefault:"10"`
	NegotiationTTL    time.Duration `env:"NEGOTIATION_TTL" envDefault:"24h"`
	UserTeam          string        `env:"USER_TEAM"`

	APIAddr  string `env:"API_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.OfferRefreshGames <= 0 {
		return nil, fmt.Errorf("OFFER_REFRESH_GAMES must be positive, got %d", cfg.OfferRefreshGames)
	}
	return cfg, nil
}

// HasLeagueSource reports whether a league file or a sheet is configured.
func (c *Config) HasLeagueSource() bool {
	return c.LeagueFile != "" || c.GoogleSheetsID != ""
}

// Tuning is the set of game-balance constants. Fields missing from a tuning
// file keep their defaults.
type Tuning struct {
	Valuation   valuation.Params    `yaml:"valuation"`
	Offers      trade.OfferOptions  `yaml:"offers"`
	Negotiation negotiation.Options `yaml:"negotiation"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Valuation:   valuation.DefaultParams(),
		Offers:      trade.DefaultOfferOptions(),
		Negotiation: negotiation.DefaultOptions(),
	}
}

// LoadTuning reads the YAML tuning file at path over the defaults. An empty
// path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return tuning, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return tuning, nil
}
