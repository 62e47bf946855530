// cmd/cli/main.go runs the dispatcher against stdin/stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/app"
	"github.com/ianeli1/discordrs-diy/internal/config"
	"github.com/ianeli1/discordrs-diy/internal/gateway/console"
)

func main() {
	user := flag.String("user", "local", "author name attached to every line")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.ServeHTTP(ctx)

	term := console.New(os.Stdin, os.Stdout, *user)
	if err := term.Run(ctx, a.Handler(term)); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("console error")
	}
}
