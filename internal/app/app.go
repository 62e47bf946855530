// Package app wires configuration, commands, history and the dispatcher
// together for the bot binaries.
package app

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/command"
	"github.com/ianeli1/discordrs-diy/internal/config"
	"github.com/ianeli1/discordrs-diy/internal/dispatch"
	"github.com/ianeli1/discordrs-diy/internal/gateway"
	"github.com/ianeli1/discordrs-diy/internal/httpapi"
	"github.com/ianeli1/discordrs-diy/internal/logging"
	"github.com/ianeli1/discordrs-diy/internal/storage"
	"github.com/ianeli1/discordrs-diy/internal/trigger"
)

// AppName is the name the binaries log at start-up.
const AppName = "discordrs-diy"

// FailureReply is sent when a command panics.
const FailureReply = "Something went wrong."

// App is a configured bot without a gateway. Binaries attach a gateway
// through Handler and release resources with Close.
type App struct {
	Config     *config.Config
	Dispatcher *dispatch.Dispatcher
	Store      *storage.Storage

	logs io.Closer
}

// New validates cfg and builds everything short of a gateway. Any error here
// is a configuration error and should stop the process.
func New(cfg *config.Config) (*App, error) {
	logs, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Warn().Err(err).Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, using info")
	}

	tc, err := cfg.Trigger()
	if err != nil {
		logs.Close()
		return nil, err
	}

	var canned []config.CannedCommand
	if cfg.CommandsFile != "" {
		canned, err = config.LoadCommands(cfg.CommandsFile)
		if err != nil {
			logs.Close()
			return nil, err
		}
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		logs.Close()
		return nil, errors.Wrap(err, "open storage")
	}

	reg := NewRegistry(tc, canned)
	log.Info().Str("trigger", tc.String()).Int("commands", reg.Len()).Msg("Commands registered")

	return &App{
		Config:     cfg,
		Dispatcher: dispatch.New(tc, reg, dispatch.WithRecorder(store.RecordInvocation)),
		Store:      store,
		logs:       logs,
	}, nil
}

// NewRegistry registers the built-in commands followed by canned, so a canned
// command may replace a built-in of the same name.
func NewRegistry(tc trigger.Config, canned []config.CannedCommand) *command.Registry {
	reg := command.NewRegistry(tc.Normalize)
	mws := []command.Middleware{
		command.WithRecover(FailureReply),
		command.WithLogger(),
	}

	builtins := []command.Command{
		command.Ping(),
		command.Echo(),
		command.Help(reg, Render(tc)),
	}
	for _, c := range builtins {
		reg.RegisterCommand(command.Apply(c, mws...))
	}
	for _, c := range canned {
		reg.RegisterCommand(command.Apply(command.Canned(c.Name, c.Description, c.Reply), mws...))
	}
	return reg
}

// Render shows a command name the way a user types it.
func Render(tc trigger.Config) func(string) string {
	if tc.PrefixMode() {
		return func(name string) string { return tc.Prefix + name }
	}
	return func(name string) string { return name + tc.Suffix }
}

// Handler returns a gateway handler that answers through out.
func (a *App) Handler(out gateway.Sender) gateway.Handler {
	return func(ctx context.Context, msg gateway.Message) {
		if msg.FromSelf {
			return
		}
		a.Dispatcher.Deliver(ctx, msg, out)
	}
}

// ServeHTTP starts the status API in the background when HTTP_ADDR is set.
func (a *App) ServeHTTP(ctx context.Context) {
	if a.Config.HTTPAddr == "" {
		return
	}
	go func() {
		if err := httpapi.Run(ctx, a.Config.HTTPAddr, a.Dispatcher, httpapi.WithHistory(a.Store)); err != nil {
			log.Error().Err(err).Msg("status server stopped")
		}
	}()
}

// Close flushes the history store and the log file.
func (a *App) Close() error {
	err := a.Store.Close()
	if cerr := a.logs.Close(); err == nil {
		err = cerr
	}
	return err
}
