package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/lanenav/internal/config"
	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/nav"
	"github.com/udisondev/lanenav/internal/navgrid"
	"github.com/udisondev/lanenav/internal/navviz"
)

const ConfigPath = "config/navsim.yaml"

func SimulateCmd() *cobra.Command {
	var (
		configFile string
		spawns     []string
		goal       string
		speed      float64
		duration   time.Duration
	)
	c := &cobra.Command{
		Use:   "simulate",
		Short: "run the movement loop over a grid binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile
			if p := os.Getenv("LANENAV_CONFIG"); p != "" && !cmd.Flags().Changed("config") {
				path = p
			}
			cfg, err := config.LoadNavsim(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if f := cmd.Flag("log-level"); f == nil || !f.Changed {
				setupLogging(cfg.LogLevel)
			}

			sim := simulation{cfg: cfg, spawns: spawns, goal: goal, speed: speed}
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			return sim.run(ctx)
		},
	}
	c.Flags().StringVar(&configFile, "config", ConfigPath, "config file (LANENAV_CONFIG overrides the default)")
	c.Flags().StringArrayVar(&spawns, "spawn", nil, "agent start x,z (repeatable)")
	c.Flags().StringVar(&goal, "goal", "", "destination x,z every spawned agent navigates to")
	c.Flags().Float64Var(&speed, "speed", 3.5, "agent base speed in units per second")
	c.Flags().DurationVar(&duration, "duration", 0, "stop after this long, 0 runs until interrupted")
	return c
}

type simulation struct {
	cfg    config.Navsim
	spawns []string
	goal   string
	speed  float64
}

func plannerOptions(cfg config.Navsim) nav.Options {
	return nav.Options{
		MaxExpansions:         cfg.MaxExpansions,
		NearestWalkableRadius: cfg.NearestWalkableRadius,
		UserPriority:          cfg.UserPriority,
		ScriptedPriority:      cfg.ScriptedPriority,
		Visualize:             cfg.Visualization.Enabled,
	}
}

func (s simulation) run(ctx context.Context) error {
	cfg := s.cfg
	slog.Info("navsim starting",
		"grid", cfg.GridPath,
		"tick_rate", cfg.TickRate,
		"watch_grid", cfg.WatchGrid,
		"uncancellable_grace_period", cfg.UncancellableGracePeriod)

	grid, err := navgrid.LoadFile(cfg.GridPath)
	if err != nil {
		return fmt.Errorf("loading grid: %w", err)
	}

	exec := movement.NewExecutor(nil)
	planner := nav.NewPlanner(grid, exec, plannerOptions(cfg))

	if err := s.spawn(planner); err != nil {
		return err
	}

	runner := nav.NewRunner(exec, cfg.TickRate, func(ev movement.Event) {
		slog.Info("movement event", "agent", ev.Agent, "kind", ev.Kind, "reason", ev.Reason)
	})

	var watcher *navgrid.Watcher
	if cfg.WatchGrid {
		watcher, err = navgrid.NewWatcher(cfg.GridPath)
		if err != nil {
			return fmt.Errorf("watching grid: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCancel(runner.Start(gctx))
	})

	if w := watcher; w != nil {
		g.Go(func() error {
			return w.Run(gctx)
		})
		g.Go(func() error {
			return ignoreCancel(nav.FollowReloads(gctx, planner, w.Reloads()))
		})
		slog.Info("grid hot reload enabled", "path", cfg.GridPath)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, id := range exec.Agents() {
		a, _ := exec.Agent(id)
		slog.Info("agent final state", "agent", id, "position", a.Position(), "moving", a.Movement.Active())
	}
	slog.Info("navsim stopped", "ticks", runner.Ticks())

	return writeOverlay(cfg.Visualization, planner)
}

// spawn registers one agent per --spawn point and sends each to --goal.
func (s simulation) spawn(p *nav.Planner) error {
	var dest mgl64.Vec2
	hasGoal := s.goal != ""
	if hasGoal {
		d, err := parsePoint(s.goal)
		if err != nil {
			return fmt.Errorf("--goal: %w", err)
		}
		dest = d
	}

	for i, sp := range s.spawns {
		pos, err := parsePoint(sp)
		if err != nil {
			return fmt.Errorf("--spawn: %w", err)
		}
		id := movement.AgentID(i + 1)
		if err := p.Executor().AddAgent(id, pos, s.speed); err != nil {
			return err
		}
		if !hasGoal {
			continue
		}
		plan, err := p.NavigateTo(id, dest)
		if err != nil {
			return err
		}
		slog.Info("agent dispatched", "agent", id, "reachable", plan.Reachable, "waypoints", len(plan.Waypoints))
	}
	return nil
}

func writeOverlay(v config.Visualization, p *nav.Planner) error {
	if !v.Enabled || p.Debug() == nil {
		return nil
	}
	var view *navviz.Viewport
	if len(v.View) == 4 {
		view = &navviz.Viewport{
			Min: mgl64.Vec2{v.View[0], v.View[1]},
			Max: mgl64.Vec2{v.View[2], v.View[3]},
		}
	}
	if err := writeGeoJSON(v.Output, p.Grid(), view, p.Debug().Snapshots()...); err != nil {
		return err
	}
	slog.Info("debug overlay written", "path", v.Output, "cropped", view != nil)
	return nil
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
