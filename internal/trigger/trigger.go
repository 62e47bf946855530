// Package trigger decides whether a chat message is a command invocation.
//
// A Config selects one of two modes. In prefix mode the first word of the
// message must start with the prefix ("!ping hello"). In suffix mode the whole
// message must end with the suffix ("weather now?"), while the command name is
// still the first word of the message.
package trigger

import (
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrNoMarker is returned when neither a prefix nor a suffix is configured.
	ErrNoMarker = errors.New("trigger: prefix and suffix are both empty")
	// ErrMarkerWhitespace is returned when the active marker contains whitespace.
	ErrMarkerWhitespace = errors.New("trigger: marker must not contain whitespace")
)

// Config describes how a command invocation is recognized. It is a value type
// and never changes after NewConfig returns it.
type Config struct {
	Prefix     string
	Suffix     string
	IgnoreCase bool
}

// NewConfig validates the markers and, when ignoreCase is set, lowercases the
// active one so later comparisons are plain string matches.
func NewConfig(prefix, suffix string, ignoreCase bool) (Config, error) {
	cfg := Config{Prefix: prefix, Suffix: suffix, IgnoreCase: ignoreCase}

	marker := cfg.marker()
	if marker == "" {
		return Config{}, ErrNoMarker
	}
	if strings.IndexFunc(marker, unicode.IsSpace) >= 0 {
		return Config{}, ErrMarkerWhitespace
	}

	if ignoreCase {
		if cfg.PrefixMode() {
			cfg.Prefix = strings.ToLower(cfg.Prefix)
		} else {
			cfg.Suffix = strings.ToLower(cfg.Suffix)
		}
	}
	return cfg, nil
}

// PrefixMode reports whether the prefix is the active marker.
func (c Config) PrefixMode() bool {
	return c.Prefix != ""
}

// Normalize applies the case policy to a command name.
func (c Config) Normalize(name string) string {
	if c.IgnoreCase {
		return strings.ToLower(name)
	}
	return name
}

// String renders the active marker for logs, e.g. "prefix \"!\"".
func (c Config) String() string {
	if c.PrefixMode() {
		return "prefix " + quote(c.Prefix)
	}
	return "suffix " + quote(c.Suffix)
}

func (c Config) marker() string {
	if c.PrefixMode() {
		return c.Prefix
	}
	return c.Suffix
}

func quote(s string) string {
	return `"` + s + `"`
}
