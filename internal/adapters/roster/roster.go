// Package roster provides the roster-snapshot collaborator: the engine
// receives a snapshot per batch and never retains it.
package roster

import (
	"context"
	"sync"

	"github.com/mveron/gruppetto/internal/domain/model"
)

// Provider returns the canonical roster for a season.
type Provider interface {
	// Snapshot returns a copy of the current entries for the season.
	// Returns ErrNoSnapshot when the season is unknown.
	Snapshot(ctx context.Context, season int) ([]model.RosterEntry, error)
}

// InMemoryProvider implements Provider over seasons loaded in memory. It
// backs the CLI and tests; the production counterpart sits behind the
// remote document store.
type InMemoryProvider struct {
	mu      sync.RWMutex
	seasons map[int][]model.RosterEntry
}

// NewInMemoryProvider creates an empty provider.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{seasons: make(map[int][]model.RosterEntry)}
}

// Load replaces the entries for a season.
func (p *InMemoryProvider) Load(season int, entries []model.RosterEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]model.RosterEntry, len(entries))
	copy(cp, entries)
	p.seasons[season] = cp
}

// Snapshot returns a copy of the current entries for the season.
func (p *InMemoryProvider) Snapshot(_ context.Context, season int) ([]model.RosterEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entries, ok := p.seasons[season]
	if !ok {
		return nil, ErrNoSnapshot
	}
	cp := make([]model.RosterEntry, len(entries))
	copy(cp, entries)
	return cp, nil
}

// Count returns the number of entries held for a season.
func (p *InMemoryProvider) Count(season int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.seasons[season])
}
