package command

import "strings"

// ArgsPlaceholder is replaced by the argument text in canned replies.
const ArgsPlaceholder = "{args}"

// Templated is implemented by commands whose reply is a fixed template. Use
// Root to reach it through middlewares.
type Templated interface {
	Template() string
}

type cannedCommand struct {
	Command
	reply string
}

func (c *cannedCommand) Template() string { return c.reply }

// Canned returns a command that always answers with reply, substituting
// ArgsPlaceholder with the arguments.
func Canned(name, description, reply string) Command {
	return &cannedCommand{
		Command: Func(name, description, func(args string) string {
			return strings.ReplaceAll(reply, ArgsPlaceholder, args)
		}),
		reply: reply,
	}
}
