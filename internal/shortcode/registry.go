package shortcode

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-academy-cms/internal/sitemap"
)

// Handler renders the fragment substituted for one match. The dataset is
// loaded once per Process call and shared by every match.
type Handler func(data sitemap.Dataset, match Match) string

// Definition binds a shortcode name to its handler.
type Definition struct {
	Name        string
	Description string
	Handler     Handler
}

// Registry is a thread-safe catalogue of shortcode definitions keyed by
// lower-cased name.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]Definition)}
}

// Register stores a definition unless the name is blank, the handler is
// missing or the name is already taken.
func (r *Registry) Register(def Definition) error {
	name := strings.TrimSpace(strings.ToLower(def.Name))
	if name == "" || def.Handler == nil {
		return ErrInvalidDefinition
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return ErrDuplicateDefinition
	}
	def.Name = name
	r.definitions[name] = def
	return nil
}

// Get returns the stored definition.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[strings.ToLower(name)]
	return def, ok
}

// List returns all registered definitions in name order.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Remove deletes the definition if it exists.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, strings.ToLower(name))
}
