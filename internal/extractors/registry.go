// Package extractors provides the type-keyed extractor registry.
package extractors

import (
	"fmt"
	"sync"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps document types to extractors. Each type has exactly
// one extractor; registering a second for the same type is an error.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.DocumentType]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[domain.DocumentType]driven.Extractor),
	}
}

// Register adds an extractor for each of its declared types.
func (r *Registry) Register(e driven.Extractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range e.Types() {
		if !domain.ValidType(t) {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedType, t)
		}
		if _, exists := r.extractors[t]; exists {
			return fmt.Errorf("extractor already registered for type %q", t)
		}
		r.extractors[t] = e
	}
	return nil
}

// ForType returns the extractor for the given type.
func (r *Registry) ForType(t domain.DocumentType) (driven.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.extractors[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, t)
	}
	return e, nil
}
