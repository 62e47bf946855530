package command

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Middleware wraps a command (logging, panic recovery, ...). The first in the
// list passed to Apply is the outermost.
type Middleware func(Command) Command

// Apply applies middlewares in order.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}

// Unwrappable is implemented by wrapped commands so callers can reach the
// underlying command.
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped runs InvokeFunc instead of the inner command's Invoke while keeping
// its name and description.
type Wrapped struct {
	Inner      Command
	InvokeFunc func(args string) string
}

func (w *Wrapped) Name() string        { return w.Inner.Name() }
func (w *Wrapped) Description() string { return w.Inner.Description() }

func (w *Wrapped) Invoke(args string) string {
	if w.InvokeFunc != nil {
		return w.InvokeFunc(args)
	}
	return w.Inner.Invoke(args)
}

// Unwrap returns the inner command.
func (w *Wrapped) Unwrap() Command { return w.Inner }

// Wrap returns a command that runs invoke in place of c.Invoke.
func Wrap(c Command, invoke func(args string) string) Command {
	return &Wrapped{Inner: c, InvokeFunc: invoke}
}

// Root unwraps c until the underlying command is reached.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}

// WithLogger logs every invocation with its duration at debug level.
func WithLogger() Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(args string) string {
			start := time.Now()
			reply := cmd.Invoke(args)
			log.Debug().
				Str("command", cmd.Name()).
				Str("args", args).
				Dur("took", time.Since(start)).
				Msg("command invoked")
			return reply
		})
	}
}

// WithRecover turns a panicking handler into the fallback reply.
func WithRecover(fallback string) Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(args string) (reply string) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Str("command", cmd.Name()).
						Err(fmt.Errorf("panic: %v", r)).
						Msg("command handler panicked")
					reply = fallback
				}
			}()
			return cmd.Invoke(args)
		})
	}
}
