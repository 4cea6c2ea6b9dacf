package checkout

import "sync"

// inflight tracks owners with a placement running.
type inflight struct {
	mu     sync.Mutex
	owners map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{owners: make(map[string]struct{})}
}

// acquire claims owner, reporting false when a placement for it is already running.
func (g *inflight) acquire(owner string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.owners[owner]; busy {
		return false
	}
	g.owners[owner] = struct{}{}
	return true
}

func (g *inflight) release(owner string) {
	g.mu.Lock()
	delete(g.owners, owner)
	g.mu.Unlock()
}
