package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/ianeli1/discordrs-diy/internal/gateway"
	"github.com/ianeli1/discordrs-diy/pkg/throttle"
)

func messageCreate(authorID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: "alice"},
	}}
}

func TestToMessage(t *testing.T) {
	msg, ok := toMessage(messageCreate("u1", "!ping"), "bot")
	if !ok {
		t.Fatal("message rejected")
	}
	want := gateway.Message{Destination: "c1", Content: "!ping", AuthorID: "u1", AuthorName: "alice", GuildID: "g1"}
	if msg != want {
		t.Errorf("toMessage = %+v, want %+v", msg, want)
	}

	self, _ := toMessage(messageCreate("bot", "pong"), "bot")
	if !self.FromSelf {
		t.Error("own message not flagged")
	}

	if _, ok := toMessage(&discordgo.MessageCreate{Message: &discordgo.Message{}}, "bot"); ok {
		t.Error("message without author accepted")
	}
	if _, ok := toMessage(nil, "bot"); ok {
		t.Error("nil event accepted")
	}
}

func TestOnMessageCreateSkipsSelf(t *testing.T) {
	b := NewBot("token")
	var got []gateway.Message
	b.SetHandler(func(_ context.Context, msg gateway.Message) {
		got = append(got, msg)
	})

	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "bot"}

	b.onMessageCreate(context.Background(), s, messageCreate("bot", "!ping"))
	b.onMessageCreate(context.Background(), s, messageCreate("u1", "!ping"))

	if len(got) != 1 || got[0].AuthorID != "u1" {
		t.Errorf("handled %+v", got)
	}
}

func TestSendBeforeRun(t *testing.T) {
	b := NewBot("token")
	if err := b.Send(context.Background(), "c1", "hi"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send = %v, want ErrNotConnected", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("nil error classified")
	}

	tooMany := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
	if !throttle.IsRateLimit(classify(tooMany)) {
		t.Error("429 REST error not detected")
	}

	rateErr := &discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{TooManyRequests: &discordgo.TooManyRequests{}, URL: "/channels/1/messages"}}
	if !throttle.IsRateLimit(classify(rateErr)) {
		t.Error("RateLimitError not detected")
	}

	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	if throttle.IsRateLimit(classify(forbidden)) {
		t.Error("403 treated as rate limit")
	}

	plain := errors.New("boom")
	if classify(plain) != plain {
		t.Error("plain error rewrapped")
	}
}

func TestObserveRateLimitSlowsDown(t *testing.T) {
	b := NewBot("token")
	before := b.limiter.CurrentLimit()

	b.observe(errors.New("connection reset"))
	if got := b.limiter.CurrentLimit(); got != before {
		t.Errorf("plain error changed the limit to %v", got)
	}

	b.observe(&discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{
		TooManyRequests: &discordgo.TooManyRequests{},
		URL:             "https://discord.com/api/channels/c1/messages",
	}})
	if got := b.limiter.CurrentLimit(); got != before*0.5 {
		t.Errorf("limit after 429 = %v, want %v", got, before*0.5)
	}
	if got := b.limiter.CurrentBurst(); got != 2 {
		t.Errorf("burst after 429 = %d, want 2", got)
	}
}
