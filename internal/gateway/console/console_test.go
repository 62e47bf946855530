package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ianeli1/discordrs-diy/internal/command"
	"github.com/ianeli1/discordrs-diy/internal/dispatch"
	"github.com/ianeli1/discordrs-diy/internal/gateway"
	"github.com/ianeli1/discordrs-diy/internal/trigger"
)

func TestRunDispatchesEachLine(t *testing.T) {
	cfg, err := trigger.NewConfig("!", "", false)
	if err != nil {
		t.Fatal(err)
	}
	reg := command.NewRegistry(cfg.Normalize)
	reg.RegisterCommand(command.Ping())
	reg.RegisterCommand(command.Echo())
	d := dispatch.New(cfg, reg)

	var out bytes.Buffer
	c := New(strings.NewReader("!ping\nhello there\n!echo one two\n!nope\n"), &out, "tester")

	var seen []gateway.Message
	err = c.Run(context.Background(), func(ctx context.Context, msg gateway.Message) {
		seen = append(seen, msg)
		d.Deliver(ctx, msg, c)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := out.String(); got != "pong\none two\n" {
		t.Errorf("output = %q", got)
	}
	if len(seen) != 4 || seen[0].AuthorName != "tester" || seen[0].Destination != Destination {
		t.Errorf("seen = %+v", seen)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(strings.NewReader("!ping\n"), &bytes.Buffer{}, "tester")
	err := c.Run(ctx, func(context.Context, gateway.Message) {})
	if err != nil && err != context.Canceled {
		t.Errorf("Run = %v", err)
	}
}

func TestSendUnknownDestination(t *testing.T) {
	c := New(strings.NewReader(""), &bytes.Buffer{}, "tester")
	if err := c.Send(context.Background(), "elsewhere", "hi"); err == nil {
		t.Error("Send to unknown destination succeeded")
	}
}
