// Package command holds the command abstraction and the registry that maps
// trigger names to commands.
//
// A command is something with a name, a description and Invoke(args). It knows
// nothing about the chat platform: the message, its author and the channel the
// reply goes to stay with the gateway.
package command

// Command is the contract every handler satisfies. Invoke receives the
// argument text that followed the trigger and returns the reply text.
type Command interface {
	Name() string
	Description() string
	Invoke(args string) string
}

// HandlerFunc is a plain reply function.
type HandlerFunc func(args string) string

type funcCommand struct {
	name        string
	description string
	fn          HandlerFunc
}

// Func adapts a plain function to Command.
func Func(name, description string, fn HandlerFunc) Command {
	return &funcCommand{name: name, description: description, fn: fn}
}

func (c *funcCommand) Name() string        { return c.name }
func (c *funcCommand) Description() string { return c.description }

func (c *funcCommand) Invoke(args string) string {
	if c.fn == nil {
		return ""
	}
	return c.fn(args)
}
