// cmd/twitch/main.go
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/app"
	"github.com/ianeli1/discordrs-diy/internal/config"
	"github.com/ianeli1/discordrs-diy/internal/gateway/twitch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.RequireTwitch(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	defer a.Close()

	log.Info().Strs("channels", cfg.TwitchChannels).Msgf("Starting %v on Twitch...", app.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.ServeHTTP(ctx)

	chat := twitch.NewAdapter(twitch.Config{
		Username:   cfg.TwitchUsername,
		OAuthToken: cfg.TwitchOAuthToken,
		Channels:   cfg.TwitchChannels,
	})
	chat.SetHandler(a.Handler(chat))

	if err := chat.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Twitch chat error")
		return
	}
	log.Info().Msg("Twitch bot exited cleanly")
}
