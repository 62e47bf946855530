// Package config loads the bot configuration from the environment, with an
// optional .env file in the working directory.
package config

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/trigger"
)

// Config holds everything the binaries read at start-up.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`

	TwitchUsername   string   `env:"TWITCH_USERNAME"`
	TwitchOAuthToken string   `env:"TWITCH_OAUTH_TOKEN"`
	TwitchChannels   []string `env:"TWITCH_CHANNELS" envSeparator:","`

	Prefix     string `env:"BOT_PREFIX"`
	Suffix     string `env:"BOT_SUFFIX"`
	IgnoreCaps bool   `env:"BOT_IGNORE_CAPS"`

	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	CommandsFile string `env:"COMMANDS_FILE"`
	HTTPAddr     string `env:"HTTP_ADDR"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, falling back to system environment variables")
	}
	return parse(env.Options{})
}

// Parse builds a Config from the given variables only.
func Parse(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	cfg.TwitchChannels = cleanChannels(cfg.TwitchChannels)
	return &cfg, nil
}

// Trigger validates the prefix/suffix settings and builds the trigger config.
func (c *Config) Trigger() (trigger.Config, error) {
	tc, err := trigger.NewConfig(c.Prefix, c.Suffix, c.IgnoreCaps)
	if err != nil {
		return trigger.Config{}, errors.Wrap(err, "invalid BOT_PREFIX/BOT_SUFFIX")
	}
	return tc, nil
}

// RequireDiscord reports a missing Discord token.
func (c *Config) RequireDiscord() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is not set")
	}
	return nil
}

// RequireTwitch reports missing Twitch credentials or channels.
func (c *Config) RequireTwitch() error {
	if c.TwitchUsername == "" || c.TwitchOAuthToken == "" {
		return errors.New("TWITCH_USERNAME or TWITCH_OAUTH_TOKEN is not set")
	}
	if len(c.TwitchChannels) == 0 {
		return errors.New("TWITCH_CHANNELS is not set")
	}
	return nil
}

func cleanChannels(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ch := range in {
		ch = strings.ToLower(strings.TrimSpace(ch))
		if ch != "" {
			out = append(out, ch)
		}
	}
	return out
}
