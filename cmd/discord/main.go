// cmd/discord/main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/app"
	"github.com/ianeli1/discordrs-diy/internal/config"
	"github.com/ianeli1/discordrs-diy/internal/gateway/discord"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.RequireDiscord(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	defer a.Close()

	log.Info().Msgf("Starting %v bot...", app.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.ServeHTTP(ctx)

	bot := discord.NewBot(cfg.DiscordToken)
	bot.SetHandler(a.Handler(bot))

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Received signal, shutting down...")
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Discord bot error")
		}
	}

	log.Info().Msg("Discord bot exited cleanly")
}
