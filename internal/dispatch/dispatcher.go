// Package dispatch ties trigger extraction to the command registry and hands
// replies to the gateway.
package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/command"
	"github.com/ianeli1/discordrs-diy/internal/gateway"
	"github.com/ianeli1/discordrs-diy/internal/trigger"
)

// Outcome classifies what Deliver did with a message.
type Outcome int

const (
	// OutcomeIgnored: the message did not match the trigger shape.
	OutcomeIgnored Outcome = iota
	// OutcomeUnknown: the trigger matched but no command is registered for it.
	OutcomeUnknown
	// OutcomeReplied: the command ran and its reply was sent.
	OutcomeReplied
	// OutcomeSendFailed: the command ran but sending the reply failed.
	OutcomeSendFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnknown:
		return "unknown"
	case OutcomeReplied:
		return "replied"
	case OutcomeSendFailed:
		return "send_failed"
	default:
		return "invalid"
	}
}

// Invocation describes one dispatched command, passed to the RecordFunc.
type Invocation struct {
	Message  gateway.Message
	Command  string
	Args     string
	Reply    string
	Datetime time.Time
}

// RecordFunc is called after every command that produced a reply, whether or
// not the reply could be sent.
type RecordFunc func(inv Invocation)

// Dispatcher runs commands for chat messages. It holds no per-message state
// and is safe for concurrent use.
type Dispatcher struct {
	cfg    trigger.Config
	reg    *command.Registry
	record RecordFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder installs fn as the invocation recorder.
func WithRecorder(fn RecordFunc) Option {
	return func(d *Dispatcher) {
		d.record = fn
	}
}

// New returns a Dispatcher for cfg and reg.
func New(cfg trigger.Config, reg *command.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{cfg: cfg, reg: reg}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the trigger configuration.
func (d *Dispatcher) Config() trigger.Config { return d.cfg }

// Registry returns the command registry.
func (d *Dispatcher) Registry() *command.Registry { return d.reg }

// Handle runs the command raw invokes, if any. It performs no I/O of its own;
// ok is false when raw is not a trigger or names no registered command.
func (d *Dispatcher) Handle(raw string) (reply string, ok bool) {
	res, _, outcome := d.run(raw)
	if outcome != OutcomeReplied {
		return "", false
	}
	return res, true
}

// Deliver handles msg and sends the reply, if any, back to msg.Destination
// through out. Send is called at most once and is never retried; a send
// failure is logged and reported in the outcome.
func (d *Dispatcher) Deliver(ctx context.Context, msg gateway.Message, out gateway.Sender) Outcome {
	reply, match, outcome := d.run(msg.Content)
	if outcome != OutcomeReplied {
		return outcome
	}

	if err := out.Send(ctx, msg.Destination, reply); err != nil {
		log.Error().
			Err(err).
			Str("command", match.Trigger).
			Str("destination", msg.Destination).
			Msg("failed to send reply")
		outcome = OutcomeSendFailed
	}

	if d.record != nil {
		d.record(Invocation{
			Message:  msg,
			Command:  match.Trigger,
			Args:     match.Args,
			Reply:    reply,
			Datetime: time.Now(),
		})
	}
	return outcome
}

func (d *Dispatcher) run(raw string) (string, trigger.Result, Outcome) {
	match := trigger.Extract(raw, d.cfg)
	if !match.Matched {
		return "", match, OutcomeIgnored
	}

	cmd, ok := d.reg.Lookup(match.Trigger)
	if !ok {
		log.Debug().Str("trigger", match.Trigger).Msg("no command registered for trigger")
		return "", match, OutcomeUnknown
	}

	return cmd.Invoke(match.Args), match, OutcomeReplied
}
