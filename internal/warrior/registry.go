package warrior

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vulnverified/legion/internal/engine"
)

// ErrUnknownProtocol is returned for a protocol with no registered warrior.
var ErrUnknownProtocol = errors.New("unknown protocol")

// Builtin returns the protocols shipped with legion.
func Builtin() []Protocol {
	return []Protocol{Scanner(), DNS(), SSH(), HTTP(), HTTPS()}
}

// Registry holds the available protocols. It implements
// engine.WarriorFactory.
type Registry struct {
	mu        sync.RWMutex
	protocols map[string]Protocol
	logger    zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		protocols: make(map[string]Protocol),
		logger:    logger,
	}
}

// NewDefaultRegistry creates a registry holding every built-in protocol.
func NewDefaultRegistry(logger zerolog.Logger) *Registry {
	r := NewRegistry(logger)
	for _, p := range Builtin() {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a protocol. Names are case-insensitive.
func (r *Registry) Register(p Protocol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protocols[strings.ToLower(p.Name)] = p
	r.logger.Debug().Str("protocol", p.Name).Int("templates", len(p.Templates)).Msg("warrior registered")
}

// Get returns a protocol by name.
func (r *Registry) Get(name string) (Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.protocols[strings.ToLower(name)]
	return p, ok
}

// List returns all registered protocols sorted by name.
func (r *Registry) List() []Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Protocol, 0, len(r.protocols))
	for _, p := range r.protocols {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// New implements engine.WarriorFactory.
func (r *Registry) New(protocol string, facts engine.Facts) (engine.Warrior, error) {
	p, ok := r.Get(protocol)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, protocol)
	}
	return New(p, facts), nil
}
