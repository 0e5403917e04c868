package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AgentID identifies an agent inside an Executor.
type AgentID uint32

// Transform is an agent's world transform. Translation Y comes from the
// height sampler; Rotation is a yaw about +Y where the identity faces +Z.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// Position returns the ground-plane position (X, Z).
func (t Transform) Position() mgl64.Vec2 {
	return mgl64.Vec2{t.Translation.X(), t.Translation.Z()}
}

// Forward returns the ground-plane direction the transform faces.
func (t Transform) Forward() mgl64.Vec2 {
	f := t.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	return mgl64.Vec2{f.X(), f.Z()}
}

// yawTowards builds the rotation facing dir on the ground plane.
func yawTowards(dir mgl64.Vec2) mgl64.Quat {
	return mgl64.QuatRotate(math.Atan2(dir.X(), dir.Y()), mgl64.Vec3{0, 1, 0})
}

// State is the per-agent movement state.
//
// CurrentIndex always points at the next unreached waypoint. Waypoints is
// cleared on arrival or stop.
type State struct {
	Waypoints     []mgl64.Vec2
	SpeedOverride float64 // 0 means the agent's base speed
	CurrentIndex  int
	Completed     bool
	Velocity      mgl64.Vec2
	Facing        mgl64.Vec2
	Priority      int
}

// Active reports whether the agent is following a path.
func (s State) Active() bool {
	return len(s.Waypoints) > 0 && !s.Completed
}

// Agent is a snapshot of one agent.
type Agent struct {
	ID        AgentID
	BaseSpeed float64
	Transform Transform
	Movement  State
}

// Position returns the agent's ground-plane position.
func (a Agent) Position() mgl64.Vec2 {
	return a.Transform.Position()
}

// agent is the executor-owned record behind an Agent snapshot.
type agent struct {
	id        AgentID
	baseSpeed float64
	transform Transform
	state     State
}

func (a *agent) snapshot() Agent {
	s := a.state
	s.Waypoints = append([]mgl64.Vec2(nil), a.state.Waypoints...)
	return Agent{
		ID:        a.id,
		BaseSpeed: a.baseSpeed,
		Transform: a.transform,
		Movement:  s,
	}
}

func (a *agent) speed() float64 {
	if a.state.SpeedOverride > 0 {
		return a.state.SpeedOverride
	}
	return a.baseSpeed
}

// clear drops the path and zeroes the kinematic state.
func (a *agent) clear() {
	a.state = State{}
}
