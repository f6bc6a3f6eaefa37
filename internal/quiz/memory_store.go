package quiz

import (
	"context"
	"sync"
)

// MemoryGateway is an in-process Gateway holding a single snapshot slot.
// Used by tests and by hosts that don't need snapshots to survive a
// process restart.
type MemoryGateway struct {
	mu   sync.Mutex
	snap *Snapshot
}

// NewMemoryGateway returns an empty in-memory snapshot slot.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

func (g *MemoryGateway) Save(_ context.Context, snap *Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snap = snap
	return nil
}

func (g *MemoryGateway) Load(_ context.Context) (*Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap, nil
}

func (g *MemoryGateway) Clear(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snap = nil
	return nil
}
