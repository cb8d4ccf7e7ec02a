// Package registry holds the active configuration model as process-wide
// read-only state. The model is immutable after load; a reload builds a new
// model off the hot path and swaps a single pointer, so readers never observe
// a partially updated model.
package registry

import (
	"sync/atomic"

	"github.com/routewise/pmconfig/internal/domain"
)

// Registry is the atomic holder of the current model.
type Registry struct {
	current atomic.Pointer[domain.Config]
}

// New creates a registry seeded with the given model.
func New(cfg *domain.Config) *Registry {
	r := &Registry{}
	r.current.Store(cfg)
	return r
}

// Current returns the active model. Lock-free; safe from any goroutine.
func (r *Registry) Current() *domain.Config {
	return r.current.Load()
}

// Swap replaces the active model wholesale and returns the previous one.
func (r *Registry) Swap(cfg *domain.Config) *domain.Config {
	return r.current.Swap(cfg)
}
