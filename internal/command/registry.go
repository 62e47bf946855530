package command

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Entry is a registered command together with the key it is stored under.
type Entry struct {
	Name    string
	Command Command
}

// Registry stores commands by normalized trigger name. Lookups may run
// concurrently with each other and with late registrations.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]Command
	normalize func(string) string
}

// NewRegistry returns an empty registry. normalize is applied to every name
// passed to Register, usually trigger.Config.Normalize; nil keeps names as-is.
func NewRegistry(normalize func(string) string) *Registry {
	if normalize == nil {
		normalize = func(s string) string { return s }
	}
	return &Registry{
		commands:  make(map[string]Command),
		normalize: normalize,
	}
}

// Register stores cmd under the normalized name. A second registration under
// the same normalized name replaces the first.
func (r *Registry) Register(name string, cmd Command) {
	key := r.normalize(name)

	r.mu.Lock()
	_, replaced := r.commands[key]
	r.commands[key] = cmd
	r.mu.Unlock()

	log.Info().Str("handler", key).Bool("replaced", replaced).Msg("adding command handler to registry")
}

// RegisterCommand registers cmd under its own name.
func (r *Registry) RegisterCommand(cmd Command) {
	r.Register(cmd.Name(), cmd)
}

// Lookup returns the command stored under trigger. The trigger is expected to
// be normalized already, as trigger.Extract does.
func (r *Registry) Lookup(trigger string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[trigger]
	return cmd, ok
}

// All returns every registered command sorted by name.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	list := make([]Entry, 0, len(r.commands))
	for name, cmd := range r.commands {
		list = append(list, Entry{Name: name, Command: cmd})
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
