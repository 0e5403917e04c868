// Package scenario runs scripted navigation scenarios: an ASCII map, a set
// of agents and timed move/stop commands driving the planner and the
// movement executor at a fixed timestep.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/navgrid"
)

var (
	// ErrInvalidLayout is returned when the scenario map cannot be parsed.
	ErrInvalidLayout = errors.New("scenario: invalid layout")
	// ErrInvalidScenario is returned for inconsistent agents or commands.
	ErrInvalidScenario = errors.New("scenario: invalid scenario")
)

// Scenario is a YAML scenario file.
type Scenario struct {
	Name     string    `yaml:"name"`
	CellSize float64   `yaml:"cell_size"`
	Origin   []float64 `yaml:"origin"` // optional min position x, y, z
	Layout   []string  `yaml:"layout"`

	Ticks int     `yaml:"ticks"`
	DT    float64 `yaml:"dt"` // seconds per tick

	MaxExpansions         int  `yaml:"max_expansions"`
	NearestWalkableRadius *int `yaml:"nearest_walkable_radius"`

	Agents   []AgentSpec `yaml:"agents"`
	Commands []Command   `yaml:"commands"`
}

// AgentSpec places an agent at the start of the run.
type AgentSpec struct {
	ID    movement.AgentID `yaml:"id"`
	X     float64          `yaml:"x"`
	Z     float64          `yaml:"z"`
	Speed float64          `yaml:"speed"`
}

// Command is applied before the executor steps tick Tick.
// Stop cancels the agent's path; otherwise the agent navigates To with
// Priority (the user priority when unset).
type Command struct {
	Tick     int              `yaml:"tick"`
	Agent    movement.AgentID `yaml:"agent"`
	To       []float64        `yaml:"to"`
	Priority *int             `yaml:"priority"`
	Stop     bool             `yaml:"stop"`
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (Scenario, error) {
	s := Scenario{CellSize: 1, Ticks: 100, DT: 0.1}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// LoadFile reads and parses a scenario file.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return s, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the scenario without building the grid.
func (s Scenario) Validate() error {
	if len(s.Layout) == 0 {
		return fmt.Errorf("%w: empty layout", ErrInvalidLayout)
	}
	if s.CellSize <= 0 {
		return fmt.Errorf("%w: cell_size must be positive", ErrInvalidLayout)
	}
	if len(s.Origin) != 0 && len(s.Origin) != 3 {
		return fmt.Errorf("%w: origin needs 3 components, got %d", ErrInvalidLayout, len(s.Origin))
	}
	if s.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive", ErrInvalidScenario)
	}
	if s.DT <= 0 {
		return fmt.Errorf("%w: dt must be positive", ErrInvalidScenario)
	}
	if s.NearestWalkableRadius != nil && *s.NearestWalkableRadius < 0 {
		return fmt.Errorf("%w: nearest_walkable_radius must not be negative", ErrInvalidScenario)
	}

	ids := make(map[movement.AgentID]struct{}, len(s.Agents))
	for _, a := range s.Agents {
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("%w: duplicate agent %d", ErrInvalidScenario, a.ID)
		}
		if a.Speed <= 0 {
			return fmt.Errorf("%w: agent %d needs a positive speed", ErrInvalidScenario, a.ID)
		}
		ids[a.ID] = struct{}{}
	}

	for i, c := range s.Commands {
		if _, ok := ids[c.Agent]; !ok {
			return fmt.Errorf("%w: command %d targets unknown agent %d", ErrInvalidScenario, i, c.Agent)
		}
		if c.Tick < 0 || c.Tick >= s.Ticks {
			return fmt.Errorf("%w: command %d tick %d outside [0, %d)", ErrInvalidScenario, i, c.Tick, s.Ticks)
		}
		if !c.Stop && len(c.To) != 2 {
			return fmt.Errorf("%w: command %d needs to: [x, z]", ErrInvalidScenario, i)
		}
	}
	return nil
}

// Grid builds the scenario grid.
func (s Scenario) Grid() (*navgrid.Grid, error) {
	var origin mgl64.Vec3
	if len(s.Origin) == 3 {
		origin = mgl64.Vec3{s.Origin[0], s.Origin[1], s.Origin[2]}
	}
	g, err := navgrid.ParseLayout(s.Layout, s.CellSize, origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return g, nil
}

func (c Command) destination() mgl64.Vec2 {
	return mgl64.Vec2{c.To[0], c.To[1]}
}
