// Package twitch connects the dispatcher to Twitch chat over IRC.
package twitch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/adeithe/go-twitch/irc"
	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/gateway"
)

// Config holds the chat login and the channels to join.
type Config struct {
	Username   string
	OAuthToken string
	Channels   []string
}

var (
	ErrNoChannels    = errors.New("twitch: no channels configured")
	ErrNoCredentials = errors.New("twitch: username or oauth token empty")
	ErrNotConnected  = errors.New("twitch: connection not open")
)

// Adapter is a Twitch chat gateway.
type Adapter struct {
	cfg Config

	mu      sync.RWMutex
	handler gateway.Handler
	conn    chatConn
}

// chatConn is the part of *irc.Conn that Send needs.
type chatConn interface {
	IsConnected() bool
	Say(channel, text string) error
}

func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) SetHandler(h gateway.Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// Start connects, joins the channels and blocks until ctx is done.
func (a *Adapter) Start(ctx context.Context) error {
	if len(a.cfg.Channels) == 0 {
		return ErrNoChannels
	}
	if a.cfg.Username == "" || a.cfg.OAuthToken == "" {
		return ErrNoCredentials
	}

	conn := &irc.Conn{}
	if err := conn.SetLogin(a.cfg.Username, a.cfg.OAuthToken); err != nil {
		return fmt.Errorf("twitch: SetLogin: %w", err)
	}

	conn.OnMessage(func(cm irc.ChatMessage) {
		a.mu.RLock()
		handler := a.handler
		a.mu.RUnlock()
		msg := toMessage(cm, a.cfg.Username)
		if handler == nil || msg.FromSelf {
			return
		}
		handler(ctx, msg)
	})

	if err := conn.Connect(); err != nil {
		return fmt.Errorf("twitch: Connect: %w", err)
	}
	if err := conn.Join(a.cfg.Channels...); err != nil {
		conn.Close()
		return fmt.Errorf("twitch: Join: %w", err)
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	log.Info().Str("user", a.cfg.Username).Strs("channels", a.cfg.Channels).Msg("twitch: connected")

	<-ctx.Done()

	a.mu.Lock()
	a.conn = nil
	a.mu.Unlock()
	conn.Close()

	return ctx.Err()
}

// Send says text in the channel. IRC messages are single lines, so a
// multi-line reply is said one non-blank line at a time.
func (a *Adapter) Send(_ context.Context, channel, text string) error {
	a.mu.RLock()
	conn := a.conn
	a.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return ErrNotConnected
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := conn.Say(channel, line); err != nil {
			return err
		}
	}
	return nil
}

func toMessage(cm irc.ChatMessage, self string) gateway.Message {
	return gateway.Message{
		Destination: cm.Channel,
		Content:     cm.Text,
		AuthorID:    strconv.FormatInt(cm.Sender.ID, 10),
		AuthorName:  cm.Sender.DisplayName,
		FromSelf:    self != "" && strings.EqualFold(cm.Sender.Username, self),
	}
}
