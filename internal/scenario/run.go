package scenario

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/nav"
)

// Report is the outcome of a scenario run.
type Report struct {
	Name   string        `yaml:"name"`
	Ticks  int           `yaml:"ticks"`
	Plans  []PlanRecord  `yaml:"plans"`
	Events []EventRecord `yaml:"events"`
	Final  []AgentRecord `yaml:"final"`

	// Snapshots holds the last plan per agent for visualization.
	Snapshots []nav.Snapshot `yaml:"-"`
}

// PlanRecord is one navigation request issued by a command.
type PlanRecord struct {
	Tick      int              `yaml:"tick"`
	Agent     movement.AgentID `yaml:"agent"`
	Priority  int              `yaml:"priority"`
	Reachable bool             `yaml:"reachable"`
	Direct    bool             `yaml:"direct"`
	Visited   int              `yaml:"visited"`
	Waypoints [][2]float64     `yaml:"waypoints,flow"`
}

// EventRecord is a movement event raised during a tick.
type EventRecord struct {
	Tick   int              `yaml:"tick"`
	Agent  movement.AgentID `yaml:"agent"`
	Kind   string           `yaml:"kind"`
	Reason string           `yaml:"reason,omitempty"`
}

// AgentRecord is an agent's state after the last tick.
type AgentRecord struct {
	Agent    movement.AgentID `yaml:"agent"`
	Position [2]float64       `yaml:"position,flow"`
	Moving   bool             `yaml:"moving"`
}

// Run plays s: commands scheduled for tick t are applied in file order
// before the executor steps tick t.
func Run(s Scenario) (Report, error) {
	if err := s.Validate(); err != nil {
		return Report{}, err
	}
	g, err := s.Grid()
	if err != nil {
		return Report{}, err
	}

	exec := movement.NewExecutor(nil)
	for _, a := range s.Agents {
		if err := exec.AddAgent(a.ID, mgl64.Vec2{a.X, a.Z}, a.Speed); err != nil {
			return Report{}, fmt.Errorf("adding agent: %w", err)
		}
	}

	opts := nav.DefaultOptions()
	opts.MaxExpansions = s.MaxExpansions
	if s.NearestWalkableRadius != nil {
		opts.NearestWalkableRadius = *s.NearestWalkableRadius
	}
	opts.Visualize = true
	planner := nav.NewPlanner(g, exec, opts)

	commands := slices.Clone(s.Commands)
	slices.SortStableFunc(commands, func(a, b Command) int { return cmp.Compare(a.Tick, b.Tick) })

	report := Report{Name: s.Name, Ticks: s.Ticks}
	next := 0
	for tick := range s.Ticks {
		for ; next < len(commands) && commands[next].Tick == tick; next++ {
			rec, err := apply(planner, commands[next])
			if err != nil {
				return report, fmt.Errorf("tick %d: %w", tick, err)
			}
			if rec != nil {
				rec.Tick = tick
				report.Plans = append(report.Plans, *rec)
			}
		}

		for _, ev := range exec.Tick(s.DT) {
			er := EventRecord{Tick: tick, Agent: ev.Agent, Kind: ev.Kind.String()}
			if ev.Reason != movement.ReasonNone {
				er.Reason = ev.Reason.String()
			}
			report.Events = append(report.Events, er)
		}
	}

	for _, id := range exec.Agents() {
		a, _ := exec.Agent(id)
		pos := a.Position()
		report.Final = append(report.Final, AgentRecord{
			Agent:    id,
			Position: [2]float64{pos.X(), pos.Y()},
			Moving:   a.Movement.Active(),
		})
	}
	report.Snapshots = planner.Debug().Snapshots()

	slog.Debug("scenario finished",
		"name", s.Name,
		"ticks", s.Ticks,
		"plans", len(report.Plans),
		"events", len(report.Events))
	return report, nil
}

func apply(p *nav.Planner, c Command) (*PlanRecord, error) {
	if c.Stop {
		return nil, p.Stop(c.Agent)
	}

	var (
		plan nav.Plan
		err  error
	)
	if c.Priority != nil {
		plan, err = p.Navigate(c.Agent, c.destination(), *c.Priority)
	} else {
		plan, err = p.NavigateTo(c.Agent, c.destination())
	}
	if err != nil {
		return nil, err
	}

	rec := &PlanRecord{
		Agent:     c.Agent,
		Priority:  plan.Priority,
		Reachable: plan.Reachable,
		Direct:    plan.Direct,
		Visited:   len(plan.Visited),
	}
	for _, w := range plan.Waypoints {
		rec.Waypoints = append(rec.Waypoints, [2]float64{w.X(), w.Y()})
	}
	return rec, nil
}

// Write encodes the report as YAML.
func (r Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
