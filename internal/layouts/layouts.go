// Package layouts dispatches a document to the statement layout that
// recognizes it.
package layouts

import (
	"fmt"
	"sync"

	"statement-extractor/internal/models"
)

// Strategy is one statement layout family: a detector plus a parser.
type Strategy interface {
	// Name is the bank or layout name reported to users.
	Name() string
	// Detect reports whether the first page belongs to this layout.
	Detect(firstPage string) bool
	// Parse turns the page texts of a whole document into a statement.
	Parse(pages []string) (*models.Statement, error)
}

// Registry holds strategies in registration order. The first strategy whose
// Detect returns true wins.
type Registry struct {
	mu         sync.RWMutex
	strategies []Strategy
}

// NewRegistry creates a registry holding the given strategies
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{}
	for _, s := range strategies {
		_ = r.Register(s)
	}
	return r
}

// Register appends a strategy. Names must be unique.
func (r *Registry) Register(s Strategy) error {
	if s == nil {
		return fmt.Errorf("strategy cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.strategies {
		if existing.Name() == s.Name() {
			return fmt.Errorf("layout %q already registered", s.Name())
		}
	}
	r.strategies = append(r.strategies, s)
	return nil
}

// Detect returns the strategy recognizing firstPage, or false
func (r *Registry) Detect(firstPage string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.Detect(firstPage) {
			return s, true
		}
	}
	return nil, false
}

// Lookup finds a strategy by name
func (r *Registry) Lookup(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.strategies {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Names lists registered layouts in order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}
