package trigger

import (
	"strings"
	"unicode"
)

// Result is the outcome of Extract. The zero value means the message is not a
// command invocation.
type Result struct {
	Matched bool
	Trigger string
	Args    string
}

// NotATrigger is returned for every message that does not match the configured
// marker.
var NotATrigger = Result{}

// Extract splits raw into a trigger name and its argument string.
//
// The prefix is only looked for on the first word, the suffix only at the end
// of the whole message. In both modes the trigger is taken from the first word,
// so in suffix mode "weather now?" yields trigger "weather" and args "now".
func Extract(raw string, cfg Config) Result {
	content := strings.TrimSpace(raw)
	if content == "" {
		return NotATrigger
	}

	first := firstWord(content)
	if first == "" {
		return NotATrigger
	}

	var trigger, args string
	switch {
	case cfg.PrefixMode() && strings.HasPrefix(first, cfg.Prefix):
		trigger = first[len(cfg.Prefix):]
		args = content[len(cfg.Prefix):]
	case !cfg.PrefixMode() && cfg.Suffix != "" && strings.HasSuffix(content, cfg.Suffix):
		trigger = first
		args = strings.TrimRightFunc(content[:len(content)-len(cfg.Suffix)], unicode.IsSpace)
	default:
		return NotATrigger
	}

	// The suffix may overlap the first word ("ping?"), leaving less text than
	// the trigger itself.
	if len(trigger) <= len(args) {
		args = strings.TrimLeftFunc(args[len(trigger):], unicode.IsSpace)
	} else {
		args = ""
	}

	if cfg.IgnoreCase {
		trigger = strings.ToLower(trigger)
	}

	return Result{Matched: true, Trigger: trigger, Args: args}
}

func firstWord(content string) string {
	if i := strings.IndexFunc(content, unicode.IsSpace); i >= 0 {
		return content[:i]
	}
	return content
}
