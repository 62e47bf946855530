package command

import (
	"fmt"
	"strings"
)

// Ping replies "pong".
func Ping() Command {
	return Func("ping", "Check that the bot is alive", func(string) string {
		return "pong"
	})
}

// Echo replies with its arguments.
func Echo() Command {
	return Func("echo", "Repeat the given text", func(args string) string {
		if args == "" {
			return "Nothing to echo."
		}
		return args
	})
}

// Help lists the commands of reg. The list is read on every call so commands
// registered after Help are included. render decorates each name, e.g. "!ping"
// in prefix mode.
func Help(reg *Registry, render func(name string) string) Command {
	if render == nil {
		render = func(name string) string { return name }
	}
	return Func("help", "List available commands", func(args string) string {
		entries := reg.All()
		if args != "" {
			for _, e := range entries {
				if strings.EqualFold(e.Name, args) {
					return fmt.Sprintf("%s: %s", render(e.Name), describe(e.Command))
				}
			}
			return fmt.Sprintf("Unknown command %q.", args)
		}

		var b strings.Builder
		b.WriteString("Commands:")
		for _, e := range entries {
			fmt.Fprintf(&b, "\n%s - %s", render(e.Name), describe(e.Command))
		}
		return b.String()
	})
}

func describe(c Command) string {
	if d := c.Description(); d != "" {
		return d
	}
	return "no description"
}
