package nav

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/navgrid"
	"github.com/udisondev/lanenav/internal/pathfind"
)

// ErrUnknownAgent is returned when the agent is not registered with the
// movement executor.
var ErrUnknownAgent = errors.New("nav: unknown agent")

// Options tune the planner facade.
type Options struct {
	// MaxExpansions caps A* expansions per request; 0 means unbounded.
	MaxExpansions int
	// NearestWalkableRadius bounds the fallback search, in cells, for
	// endpoints standing on unwalkable cells. 0 disables the fallback.
	NearestWalkableRadius int
	// UserPriority is used by NavigateTo.
	UserPriority int
	// ScriptedPriority is used by NavigateScripted.
	ScriptedPriority int
	// Visualize publishes every plan into a DebugBuffer.
	Visualize bool
}

// DefaultOptions returns the default planner options.
func DefaultOptions() Options {
	return Options{
		NearestWalkableRadius: 3,
		UserPriority:          0,
		ScriptedPriority:      10,
	}
}

// Plan is the outcome of one navigation request.
type Plan struct {
	Agent    movement.AgentID
	Priority int
	Start    mgl64.Vec2 // exact agent position
	End      mgl64.Vec2 // destination after clamping and fallback

	Waypoints []mgl64.Vec2
	Path      []navgrid.Coord
	Visited   []navgrid.Coord

	// Reachable is false when no waypoints were produced and no movement
	// was commanded.
	Reachable bool
	// Direct is set when A* was skipped: same cell or clear line of sight.
	Direct bool
	// Truncated is set when A* hit MaxExpansions.
	Truncated bool
}

// Planner is the navigation facade: it projects endpoints onto the grid,
// runs A* and post-processing, and hands the waypoints to the movement
// executor. It is the single writer of the grid's cost overlay.
type Planner struct {
	mu    sync.Mutex
	grid  *navgrid.Grid
	exec  *movement.Executor
	opts  Options
	debug *DebugBuffer
}

// NewPlanner creates a planner over g driving exec. The executor's height
// sampler is set to g.
func NewPlanner(g *navgrid.Grid, exec *movement.Executor, opts Options) *Planner {
	p := &Planner{
		grid: g,
		exec: exec,
		opts: opts,
	}
	if opts.Visualize {
		p.debug = NewDebugBuffer()
	}
	exec.SetHeightSampler(g)
	return p
}

// Grid returns the current grid.
func (p *Planner) Grid() *navgrid.Grid {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid
}

// Executor returns the movement executor driven by the planner.
func (p *Planner) Executor() *movement.Executor {
	return p.exec
}

// Debug returns the visualization buffer, nil unless Options.Visualize.
func (p *Planner) Debug() *DebugBuffer {
	return p.debug
}

// SetGrid swaps the grid, keeping the dynamic cost overlay. Paths already
// handed to the executor are not replanned.
func (p *Planner) SetGrid(g *navgrid.Grid) {
	p.mu.Lock()
	defer p.mu.Unlock()

	g.SetOverlay(p.grid.Overlay())
	p.grid = g
	p.exec.SetHeightSampler(g)

	slog.Info("navigation grid swapped", "x_len", g.XLen(), "z_len", g.ZLen(), "cell_size", g.CellSize())
}

// NavigateTo plans from the agent's position to dest with the user
// priority and submits the result to the executor.
func (p *Planner) NavigateTo(id movement.AgentID, dest mgl64.Vec2) (Plan, error) {
	return p.Navigate(id, dest, p.opts.UserPriority)
}

// NavigateScripted is NavigateTo with the scripted override priority.
func (p *Planner) NavigateScripted(id movement.AgentID, dest mgl64.Vec2) (Plan, error) {
	return p.Navigate(id, dest, p.opts.ScriptedPriority)
}

// Navigate plans and submits a path with an explicit priority.
// An unreachable destination is not an error: the plan reports
// Reachable=false and no movement is commanded.
func (p *Planner) Navigate(id movement.AgentID, dest mgl64.Vec2, priority int) (Plan, error) {
	a, ok := p.exec.Agent(id)
	if !ok {
		return Plan{}, fmt.Errorf("navigate agent %d: %w", id, ErrUnknownAgent)
	}

	p.mu.Lock()
	plan := p.plan(id, a.Position(), dest)
	p.mu.Unlock()
	plan.Priority = priority

	if p.debug != nil {
		p.debug.Publish(Snapshot{
			Agent:     id,
			Visited:   plan.Visited,
			Path:      plan.Path,
			Waypoints: plan.Waypoints,
			Reachable: plan.Reachable,
		})
	}

	if !plan.Reachable {
		slog.Debug("destination unreachable",
			"agent", id,
			"from", plan.Start,
			"to", dest,
			"visited", len(plan.Visited),
			"truncated", plan.Truncated)
		return plan, nil
	}

	err := p.exec.Start(movement.StartCommand{
		Agent:     id,
		Waypoints: plan.Waypoints,
		Priority:  priority,
	})
	if err != nil {
		return plan, fmt.Errorf("navigate agent %d: %w", id, err)
	}

	if IsDebugEnabled() {
		slog.Debug("navigation planned",
			"agent", id,
			"waypoints", len(plan.Waypoints),
			"path", len(plan.Path),
			"visited", len(plan.Visited),
			"direct", plan.Direct,
			"priority", priority)
	}
	return plan, nil
}

// PlanPath computes waypoints between two world points without touching
// any agent.
func (p *Planner) PlanPath(start, dest mgl64.Vec2) Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plan(0, start, dest)
}

// plan runs G, A and O. Caller holds p.mu.
func (p *Planner) plan(id movement.AgentID, start, dest mgl64.Vec2) Plan {
	g := p.grid
	plan := Plan{Agent: id, Start: start}

	dest = g.ClampWorld(dest)
	sc := g.ClampCell(g.WorldToCell(start.X(), start.Y()))
	ec := g.ClampCell(g.WorldToCell(dest.X(), dest.Y()))

	startProjected := false
	if !g.IsWalkable(sc.X, sc.Z) {
		c, ok := g.NearestWalkable(sc, p.opts.NearestWalkableRadius)
		if !ok {
			plan.End = dest
			return plan
		}
		sc, startProjected = c, true
	}
	if !g.IsWalkable(ec.X, ec.Z) {
		c, ok := g.NearestWalkable(ec, p.opts.NearestWalkableRadius)
		if !ok {
			plan.End = dest
			return plan
		}
		ec = c
		centre := g.CellCentreWorld(c.X, c.Z)
		dest = mgl64.Vec2{centre.X(), centre.Z()}
	}
	plan.End = dest

	if sc == ec || (!startProjected && pathfind.HasLineOfSight(g, start, dest)) {
		plan.Direct = true
		plan.Reachable = true
		plan.Path = []navgrid.Coord{sc}
		if sc != ec {
			plan.Path = append(plan.Path, ec)
		}
		plan.Waypoints = []mgl64.Vec2{start, dest}
		return plan
	}

	res := pathfind.FindPath(g, sc, ec, pathfind.Options{MaxExpansions: p.opts.MaxExpansions})
	plan.Path = res.Path
	plan.Visited = res.Visited
	plan.Truncated = res.Truncated
	if !res.Found() {
		return plan
	}

	plan.Waypoints = pathfind.PostProcess(g, res.Path, start, dest)
	plan.Reachable = len(plan.Waypoints) > 0
	return plan
}

// Stop cancels the agent's current path on the next tick.
func (p *Planner) Stop(id movement.AgentID) error {
	if err := p.exec.Stop(id); err != nil {
		if errors.Is(err, movement.ErrUnknownAgent) {
			return fmt.Errorf("stop agent %d: %w", id, ErrUnknownAgent)
		}
		return err
	}
	return nil
}

// SetCellCost sets a dynamic additive cost; navgrid.ImpassableCost blocks
// the cell for future plans.
func (p *Planner) SetCellCost(c navgrid.Coord, cost float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid.Overlay().SetCost(c, cost)
}

// ClearCellCost removes a dynamic cost.
func (p *Planner) ClearCellCost(c navgrid.Coord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid.Overlay().ClearCost(c)
}

// ExcludeCell makes c walkable at cost 0 regardless of its dynamic cost.
// Walls stay walls.
func (p *Planner) ExcludeCell(c navgrid.Coord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid.Overlay().Exclude(c)
}

// IncludeCell reverts ExcludeCell.
func (p *Planner) IncludeCell(c navgrid.Coord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid.Overlay().Include(c)
}
