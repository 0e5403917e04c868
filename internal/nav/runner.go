package nav

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/lanenav/internal/movement"
	"github.com/udisondev/lanenav/internal/navgrid"
)

// EventHandler receives movement events raised by a tick.
type EventHandler func(movement.Event)

// Runner drives the movement executor at a fixed tick rate.
type Runner struct {
	exec     *movement.Executor
	interval time.Duration
	handler  EventHandler
	stopCh   chan struct{}
	stopOnce sync.Once
	ticks    atomic.Uint64
}

// NewRunner creates a runner ticking exec tickRate times per second.
// handler may be nil.
func NewRunner(exec *movement.Executor, tickRate int, handler EventHandler) *Runner {
	if tickRate <= 0 {
		tickRate = 30
	}
	return &Runner{
		exec:     exec,
		interval: time.Second / time.Duration(tickRate),
		handler:  handler,
		stopCh:   make(chan struct{}),
	}
}

// Interval returns the fixed timestep.
func (r *Runner) Interval() time.Duration {
	return r.interval
}

// Start runs the tick loop (blocks until ctx is canceled or Stop is called).
func (r *Runner) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("movement runner started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("movement runner stopping")
			return ctx.Err()

		case <-r.stopCh:
			slog.Info("movement runner stopped")
			return nil

		case <-ticker.C:
			r.Tick()
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Tick runs a single fixed step and dispatches its events.
func (r *Runner) Tick() {
	events := r.exec.Tick(r.interval.Seconds())
	r.ticks.Add(1)

	if r.handler != nil {
		for _, ev := range events {
			r.handler(ev)
		}
	}

	if len(events) > 0 && IsDebugEnabled() {
		slog.Debug("movement tick completed", "tick", r.ticks.Load(), "events", len(events))
	}
}

// Ticks returns the number of completed ticks.
func (r *Runner) Ticks() uint64 {
	return r.ticks.Load()
}

// FollowReloads swaps the planner's grid for every successfully reloaded
// grid until ctx is canceled or reloads is closed. Failed reloads keep
// the current grid.
func FollowReloads(ctx context.Context, p *Planner, reloads <-chan navgrid.Reload) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-reloads:
			if !ok {
				return nil
			}
			if r.Err != nil {
				slog.Warn("grid reload failed, keeping current grid", "error", r.Err)
				continue
			}
			p.SetGrid(r.Grid)
		}
	}
}
