// Package console is a line-oriented gateway over a reader and a writer,
// handy for trying commands locally without a chat platform.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ianeli1/discordrs-diy/internal/gateway"
)

// Destination is the only destination a console knows.
const Destination = "console"

// Console reads one message per line and writes replies one per line.
type Console struct {
	in   io.Reader
	out  io.Writer
	user string

	mu sync.Mutex
}

func New(in io.Reader, out io.Writer, user string) *Console {
	return &Console{in: in, out: out, user: user}
}

// Run feeds every line to handler until the input ends or ctx is done.
// Lines are handled one at a time.
func (c *Console) Run(ctx context.Context, handler gateway.Handler) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			handler(ctx, gateway.Message{
				Destination: Destination,
				Content:     line,
				AuthorID:    c.user,
				AuthorName:  c.user,
			})
		}
	}
}

// Send writes text to the output.
func (c *Console) Send(_ context.Context, destination, text string) error {
	if destination != Destination {
		return fmt.Errorf("console: unknown destination %q", destination)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, text)
	return err
}
