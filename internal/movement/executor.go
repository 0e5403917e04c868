package movement

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// ArrivalEpsilon is the distance under which a waypoint counts as reached.
const ArrivalEpsilon = 1e-6

// HeightSampler supplies the Y component of agent transforms.
// *navgrid.Grid satisfies it.
type HeightSampler interface {
	HeightAt(wx, wz float64) float64
}

// Executor advances agents along their waypoint lists on a fixed step.
//
// Commands are queued and only become visible at the start of the next
// Tick: arbitration first, then the movement step. Thread-safe; all
// methods lock a single mutex.
type Executor struct {
	mu      sync.Mutex
	agents  map[AgentID]*agent
	pending []command
	heights HeightSampler
}

// NewExecutor creates an executor. heights may be nil (Y stays 0).
func NewExecutor(heights HeightSampler) *Executor {
	return &Executor{
		agents:  make(map[AgentID]*agent),
		heights: heights,
	}
}

// SetHeightSampler replaces the height source, e.g. after a grid reload.
func (e *Executor) SetHeightSampler(h HeightSampler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.heights = h
}

// AddAgent registers an agent standing at pos.
func (e *Executor) AddAgent(id AgentID, pos mgl64.Vec2, baseSpeed float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[id]; ok {
		return fmt.Errorf("add agent %d: %w", id, ErrDuplicateAgent)
	}
	a := &agent{
		id:        id,
		baseSpeed: baseSpeed,
		transform: Transform{Rotation: mgl64.QuatIdent()},
	}
	e.place(a, pos)
	e.agents[id] = a

	slog.Debug("movement agent added", "agent", id, "x", pos.X(), "z", pos.Y(), "speed", baseSpeed)
	return nil
}

// RemoveAgent forgets an agent and its queued commands. No event is raised.
func (e *Executor) RemoveAgent(id AgentID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[id]; !ok {
		return
	}
	delete(e.agents, id)
	e.pending = slices.DeleteFunc(e.pending, func(c command) bool { return c.agent == id })

	slog.Debug("movement agent removed", "agent", id)
}

// Agent returns a snapshot of an agent.
func (e *Executor) Agent(id AgentID) (Agent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.agents[id]
	if !ok {
		return Agent{}, false
	}
	return a.snapshot(), true
}

// Agents returns the registered ids in ascending order.
func (e *Executor) Agents() []AgentID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortedIDs()
}

// Len returns the number of registered agents.
func (e *Executor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.agents)
}

// SetPosition teleports an agent. The current path, if any, is kept.
func (e *Executor) SetPosition(id AgentID, pos mgl64.Vec2) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.agents[id]
	if !ok {
		return fmt.Errorf("set position of agent %d: %w", id, ErrUnknownAgent)
	}
	e.place(a, pos)
	return nil
}

// Start queues a movement-start command for the next tick.
func (e *Executor) Start(cmd StartCommand) error {
	if len(cmd.Waypoints) == 0 {
		return fmt.Errorf("start agent %d: %w", cmd.Agent, ErrEmptyPath)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[cmd.Agent]; !ok {
		return fmt.Errorf("start agent %d: %w", cmd.Agent, ErrUnknownAgent)
	}
	cmd.Waypoints = append([]mgl64.Vec2(nil), cmd.Waypoints...)
	e.pending = append(e.pending, command{agent: cmd.Agent, start: cmd})
	return nil
}

// Stop queues a stop command for the next tick.
func (e *Executor) Stop(id AgentID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[id]; !ok {
		return fmt.Errorf("stop agent %d: %w", id, ErrUnknownAgent)
	}
	e.pending = append(e.pending, command{agent: id, stop: true})
	return nil
}

// Pending returns the number of queued commands.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Tick runs one fixed step of dt seconds: queued commands are arbitrated,
// then every active agent advances. Events are returned in that order,
// each phase in ascending agent id order.
func (e *Executor) Tick(dt float64) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	queued := e.pending
	e.pending = nil

	ids := e.sortedIDs()
	events := e.arbitrate(ids, queued)
	for _, id := range ids {
		if ev, ok := e.step(e.agents[id], dt); ok {
			events = append(events, ev)
		}
	}
	return events
}

// arbitrate applies queued commands per agent. Starts other than the
// winner are discarded; stops and the winner are replayed in submission
// order. The winner replaces an active path only when its priority is at
// least the active one.
func (e *Executor) arbitrate(ids []AgentID, queued []command) []Event {
	if len(queued) == 0 {
		return nil
	}

	byAgent := make(map[AgentID][]command, len(queued))
	for _, c := range queued {
		byAgent[c.agent] = append(byAgent[c.agent], c)
	}

	var events []Event
	for _, id := range ids {
		cmds := byAgent[id]
		if len(cmds) == 0 {
			continue
		}
		a := e.agents[id]

		winner := -1
		for i, c := range cmds {
			if c.stop {
				continue
			}
			if winner < 0 || c.start.Priority >= cmds[winner].start.Priority {
				winner = i
			}
		}

		for i, c := range cmds {
			switch {
			case c.stop:
				if a.state.Active() {
					a.clear()
					events = append(events, Event{Kind: EventEnded, Agent: id, Reason: ReasonStopped})
				}
			case i == winner:
				if a.state.Active() && c.start.Priority < a.state.Priority {
					slog.Debug("movement start dropped",
						"agent", id,
						"priority", c.start.Priority,
						"active_priority", a.state.Priority)
					continue
				}
				a.state = State{
					Waypoints:     c.start.Waypoints,
					SpeedOverride: c.start.SpeedOverride,
					Priority:      c.start.Priority,
				}
				events = append(events, Event{Kind: EventStarted, Agent: id})
			}
		}
	}
	return events
}

// step advances one agent by speed*dt along its path.
func (e *Executor) step(a *agent, dt float64) (Event, bool) {
	if !a.state.Active() {
		return Event{}, false
	}

	st := &a.state
	speed := a.speed()
	remaining := speed * dt
	pos := a.transform.Position()
	var dir mgl64.Vec2

	for {
		if st.CurrentIndex >= len(st.Waypoints) {
			e.place(a, pos)
			a.clear()
			a.state.Completed = true
			return Event{Kind: EventEnded, Agent: a.id, Reason: ReasonArrived}, true
		}

		v := st.Waypoints[st.CurrentIndex].Sub(pos)
		d := v.Len()
		if d < ArrivalEpsilon {
			st.CurrentIndex++
			continue
		}

		dir = v.Mul(1 / d)
		if d > remaining {
			pos = pos.Add(dir.Mul(remaining))
			break
		}
		pos = st.Waypoints[st.CurrentIndex]
		remaining -= d
		st.CurrentIndex++
	}

	e.place(a, pos)
	st.Velocity = dir.Mul(speed)
	st.Facing = dir
	a.transform.Rotation = yawTowards(dir)
	return Event{}, false
}

// place moves the agent and resamples its height.
func (e *Executor) place(a *agent, pos mgl64.Vec2) {
	var y float64
	if e.heights != nil {
		y = e.heights.HeightAt(pos.X(), pos.Y())
	}
	a.transform.Translation = mgl64.Vec3{pos.X(), y, pos.Y()}
}

func (e *Executor) sortedIDs() []AgentID {
	ids := make([]AgentID, 0, len(e.agents))
	for id := range e.agents {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
