package processor

import (
	"log/slog"
	"sort"
)

// Registry is a lookup table from node-type identifier to processor instance.
// It is populated once at startup and read-only afterwards, so concurrent
// runs may share it without locking. Construct it explicitly and inject it;
// there is no package-level instance.
type Registry struct {
	logger     *slog.Logger
	processors map[string]Processor
}

// NewRegistry creates an empty processor registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:     logger,
		processors: make(map[string]Processor),
	}
}

// Register adds a processor under its declared type, replacing any previous
// registration for that type.
func (r *Registry) Register(p Processor) {
	r.processors[p.Type()] = p
	r.logger.Debug("Registered processor", "type", p.Type())
}

// Get resolves a node type to its processor.
func (r *Registry) Get(nodeType string) (Processor, bool) {
	p, ok := r.processors[nodeType]

	return p, ok
}

// All returns every registered processor, sorted by type for stable listings.
func (r *Registry) All() []Processor {
	all := make([]Processor, 0, len(r.processors))
	for _, p := range r.processors {
		all = append(all, p)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Type() < all[j].Type() })

	return all
}
