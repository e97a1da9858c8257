package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Spec describes a command.
type Spec struct {
	// Name is the name of the command. It must be unique among the names and
	// aliases of all commands in a registry.
	Name string
	// Aliases is alternative names for the command.
	Aliases []string
	// Category groups commands in help listings.
	Category string
	// Usage is a short description of the command's arguments.
	Usage string
	// Help describes what the command does.
	Help string
	// Permissions is the set of Discord permissions the bot must hold in the
	// channel where the command is invoked.
	Permissions int64
	// OwnerOnly restricts the command to the bot owner.
	OwnerOnly bool
	// Fn is the function to invoke.
	Fn Func
}

// ErrDuplicate is returned when registering a command whose name or alias is
// already in use.
var ErrDuplicate = errors.New("duplicate command name or alias")

type registered struct {
	spec Spec
	// disable indicates the command should never be used, even by owners.
	disable atomic.Bool
}

// Registry maps command names and aliases to commands.
// Commands are registered at startup; lookups are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	names map[string]*registered
	all   []*registered
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]*registered)}
}

// Register adds a command.
func (r *Registry) Register(spec Spec) error {
	keys := append([]string{spec.Name}, spec.Aliases...)
	for _, k := range keys {
		if k == "" || strings.ContainsFunc(k, isSpace) {
			return fmt.Errorf("invalid command name or alias %q for %q", k, spec.Name)
		}
	}
	if spec.Fn == nil {
		return fmt.Errorf("command %q has no function", spec.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, k := range keys {
		if _, ok := r.names[k]; ok || slices.Contains(keys[:i], k) {
			return fmt.Errorf("couldn't register %q: %w: %q", spec.Name, ErrDuplicate, k)
		}
	}
	spec.Aliases = slices.Clone(spec.Aliases)
	c := &registered{spec: spec}
	for _, k := range keys {
		r.names[k] = c
	}
	r.all = append(r.all, c)
	return nil
}

// Lookup finds an enabled command by name or alias. Matching is exact and
// case sensitive. The result is a copy; modifying it does not affect the
// registry.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	r.mu.RLock()
	c := r.names[name]
	r.mu.RUnlock()
	if c == nil || c.disable.Load() {
		return nil, false
	}
	s := c.spec
	s.Aliases = slices.Clone(s.Aliases)
	return &s, true
}

// Enabled reports whether the command with the given name or alias exists and
// is enabled.
func (r *Registry) Enabled(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Disable disables a command by name or alias.
// It returns false if there is no such command.
func (r *Registry) Disable(name string) bool {
	return r.set(name, true)
}

// Enable re-enables a command by name or alias.
// It returns false if there is no such command.
func (r *Registry) Enable(name string) bool {
	return r.set(name, false)
}

func (r *Registry) set(name string, disable bool) bool {
	r.mu.RLock()
	c := r.names[name]
	r.mu.RUnlock()
	if c == nil {
		return false
	}
	c.disable.Store(disable)
	return true
}

// All returns the enabled commands sorted by category, then name.
func (r *Registry) All() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := make([]Spec, 0, len(r.all))
	for _, c := range r.all {
		if c.disable.Load() {
			continue
		}
		sp := c.spec
		sp.Aliases = slices.Clone(sp.Aliases)
		s = append(s, sp)
	}
	slices.SortFunc(s, func(a, b Spec) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return s
}
