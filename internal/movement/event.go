package movement

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrUnknownAgent is returned for commands addressed to an agent that
	// was never added or has been removed.
	ErrUnknownAgent = errors.New("movement: unknown agent")

	// ErrDuplicateAgent is returned by AddAgent for an id already in use.
	ErrDuplicateAgent = errors.New("movement: duplicate agent")

	// ErrEmptyPath is returned by Start for a command without waypoints.
	ErrEmptyPath = errors.New("movement: empty waypoint list")
)

// StartCommand asks an agent to follow Waypoints. Among the starts queued
// for one agent in a tick the highest Priority wins, ties go to the most
// recent. SpeedOverride of 0 keeps the agent's base speed.
type StartCommand struct {
	Agent         AgentID
	Waypoints     []mgl64.Vec2
	Priority      int
	SpeedOverride float64
}

// command is a queued start or stop.
type command struct {
	agent AgentID
	stop  bool
	start StartCommand
}

// EventKind tells movement-start from movement-end events.
type EventKind uint8

const (
	// EventStarted is raised when an accepted start replaces the agent's path.
	EventStarted EventKind = iota + 1
	// EventEnded is raised when a path is completed or stopped.
	EventEnded
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason explains an EventEnded.
type EndReason uint8

const (
	ReasonNone EndReason = iota
	ReasonArrived
	ReasonStopped
)

// String returns the reason name.
func (r EndReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonArrived:
		return "arrived"
	case ReasonStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is raised by Tick.
type Event struct {
	Kind   EventKind
	Agent  AgentID
	Reason EndReason
}
