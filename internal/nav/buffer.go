package nav

import (
	"cmp"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/navgrid"
)

// Snapshot is the diagnostic output of one plan.
type Snapshot struct {
	Agent     movement.AgentID
	Visited   []navgrid.Coord
	Path      []navgrid.Coord
	Waypoints []mgl64.Vec2
	Reachable bool
}

// DebugBuffer keeps the latest Snapshot per agent so overlays can be
// rendered without instrumenting the planner. Thread-safe.
type DebugBuffer struct {
	mu        sync.RWMutex
	latest    map[movement.AgentID]Snapshot
	last      movement.AgentID
	published bool
}

// NewDebugBuffer creates an empty buffer.
func NewDebugBuffer() *DebugBuffer {
	return &DebugBuffer{latest: make(map[movement.AgentID]Snapshot)}
}

// Publish replaces the snapshot of s.Agent.
func (b *DebugBuffer) Publish(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest[s.Agent] = s
	b.last = s.Agent
	b.published = true
}

// Latest returns the last snapshot published for id.
func (b *DebugBuffer) Latest(id movement.AgentID) (Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.latest[id]
	return s, ok
}

// Last returns the most recently published snapshot of any agent.
func (b *DebugBuffer) Last() (Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.published {
		return Snapshot{}, false
	}
	s, ok := b.latest[b.last]
	return s, ok
}

// Snapshots returns all snapshots in ascending agent order.
func (b *DebugBuffer) Snapshots() []Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Snapshot, 0, len(b.latest))
	for _, s := range b.latest {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Snapshot) int { return cmp.Compare(a.Agent, b.Agent) })
	return out
}

// Forget drops the snapshot of id.
func (b *DebugBuffer) Forget(id movement.AgentID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.latest, id)
}

// Reset drops every snapshot.
func (b *DebugBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.latest)
	b.published = false
}
