// Package discord connects the dispatcher to Discord through a discordgo
// session.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/gateway"
	"github.com/ianeli1/discordrs-diy/pkg/throttle"
)

// Intents needed to read message content in guilds and DMs.
const Intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// ErrNotConnected is returned by Send before Run opened the session.
var ErrNotConnected = errors.New("discord: session not open")

// Bot is a Discord gateway. It delivers every message it sees, except its
// own, to the handler and implements gateway.Sender for the replies.
type Bot struct {
	token   string
	limiter *throttle.AdaptiveLimiter

	mu      sync.RWMutex
	dg      *discordgo.Session
	handler gateway.Handler
}

// NewBot returns a Bot for the given bot token.
func NewBot(token string) *Bot {
	return &Bot{
		token:   token,
		limiter: throttle.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
	}
}

// SetHandler installs the inbound message handler.
func (b *Bot) SetHandler(h gateway.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
}

// Run opens the session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = Intents

	dg.AddHandler(b.onReady)
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessageCreate(ctx, s, m)
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	b.mu.Lock()
	b.dg = dg
	b.mu.Unlock()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received. Closing Discord session...")

	b.mu.Lock()
	b.dg = nil
	b.mu.Unlock()
	return nil
}

// Send posts text to the channel. Sends are paced by an adaptive limiter that
// backs off after HTTP 429; a failed send is returned, never retried here.
func (b *Bot) Send(ctx context.Context, channelID, text string) error {
	b.mu.RLock()
	dg := b.dg
	b.mu.RUnlock()
	if dg == nil {
		return ErrNotConnected
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := dg.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	b.observe(err)
	if err != nil {
		return fmt.Errorf("send to channel %s: %w", channelID, err)
	}
	return nil
}

// observe feeds a send result to the limiter and reports a slowdown.
func (b *Bot) observe(err error) {
	classified := classify(err)
	b.limiter.Observe(classified)
	if throttle.IsRateLimit(classified) {
		log.Warn().
			Float64("limit", b.limiter.CurrentLimit()).
			Int("burst", b.limiter.CurrentBurst()).
			Msg("discord: rate limited, slowing down replies")
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	name := "bot"
	if r.User != nil {
		name = r.User.Username
	}
	log.Info().Str("user", name).Int("guilds", len(r.Guilds)).Msgf("%s is connected!", name)
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}

	msg, ok := toMessage(m, selfID)
	if !ok || msg.FromSelf {
		return
	}

	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()
	if handler == nil {
		return
	}
	handler(ctx, msg)
}

func toMessage(m *discordgo.MessageCreate, selfID string) (gateway.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return gateway.Message{}, false
	}
	return gateway.Message{
		Destination: m.ChannelID,
		Content:     m.Content,
		AuthorID:    m.Author.ID,
		AuthorName:  m.Author.Username,
		GuildID:     m.GuildID,
		FromSelf:    selfID != "" && m.Author.ID == selfID,
	}, true
}
