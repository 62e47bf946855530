// Package gateway defines the boundary between the dispatcher and a chat
// platform: inbound messages and the outbound send operation.
package gateway

import "context"

// Message is one inbound chat message.
type Message struct {
	// Destination identifies where a reply goes, e.g. a Discord channel ID or
	// a Twitch channel name.
	Destination string
	Content     string
	AuthorID    string
	AuthorName  string
	GuildID     string
	FromSelf    bool
}

// Sender transmits reply text to a destination. A non-nil error is a
// transport failure.
type Sender interface {
	Send(ctx context.Context, destination, text string) error
}

// Handler consumes inbound messages.
type Handler func(ctx context.Context, msg Message)

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, destination, text string) error

func (f SenderFunc) Send(ctx context.Context, destination, text string) error {
	return f(ctx, destination, text)
}
