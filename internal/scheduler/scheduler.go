// Package scheduler drives the simulation core's three independent clocks:
// the 20Hz dungeon-enemy AI tick, the 20Hz open-world tick, and the 1Hz
// matchmaking tick. Each clock runs its own goroutine and wraps every
// firing in engine.Transact so it never interleaves with a command
// handler or another tick.
package scheduler

import (
	"context"
	"time"

	"github.com/ashfallmmo/dungeoncore/internal/ability"
	"github.com/ashfallmmo/dungeoncore/internal/ai"
	"github.com/ashfallmmo/dungeoncore/internal/engine"
	"github.com/ashfallmmo/dungeoncore/internal/matchmaking"
	"github.com/ashfallmmo/dungeoncore/internal/model"
	"github.com/ashfallmmo/dungeoncore/internal/openworld"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AITickInterval and OpenWorldTickInterval both match the 50ms step every
// archetype's tuning constant was written against; MatchmakingTickInterval
// is the slow once-a-second queue sweep.
const (
	AITickInterval         = time.Duration(model.AITickDT * float32(time.Second))
	OpenWorldTickInterval  = AITickInterval
	MatchmakingTickInterval = 1 * time.Second
)

// Scheduler owns the three ticking goroutines against one Engine.
type Scheduler struct {
	e   *engine.Engine
	log *zap.Logger
}

// New returns a Scheduler ready to Run against e.
func New(e *engine.Engine, log *zap.Logger) *Scheduler {
	return &Scheduler{e: e, log: log}
}

// Run blocks until ctx is cancelled, running all three ticks concurrently.
// Each loop owns its own ticker so a slow matchmaking sweep never delays
// the 20Hz AI step.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.runAITick(ctx) })
	g.Go(func() error { return s.runOpenWorldTick(ctx) })
	g.Go(func() error { return s.runMatchmakingTick(ctx) })

	return g.Wait()
}

func (s *Scheduler) runAITick(ctx context.Context) error {
	ticker := time.NewTicker(AITickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := s.e.Transact(func(e *engine.Engine) error {
				ability.TickCooldowns(e)
				ability.TickHealingZones(e)
				ai.Tick(e)
				return nil
			})
			if err != nil {
				s.log.Error("ai tick failed", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) runOpenWorldTick(ctx context.Context) error {
	ticker := time.NewTicker(OpenWorldTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			err := s.e.Transact(func(e *engine.Engine) error {
				openworld.Tick(e, now)
				return nil
			})
			if err != nil {
				s.log.Error("open world tick failed", zap.Error(err))
			}
		}
	}
}

// runMatchmakingTick mirrors the source's schedule-row lifecycle: the tick
// only runs while at least one queue has players in it. Once a sweep finds
// both queues empty it stops ticking and waits on MatchmakingArm, which
// QueueDungeon/QueueRaid raise the moment someone queues again.
func (s *Scheduler) runMatchmakingTick(ctx context.Context) error {
	ticker := time.NewTicker(MatchmakingTickInterval)
	defer ticker.Stop()
	armed := true
	for {
		if !armed {
			select {
			case <-ctx.Done():
				return nil
			case <-s.e.MatchmakingArm:
				armed = true
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.e.MatchmakingArm:
			// already armed; nothing to do but keep ticking
		case now := <-ticker.C:
			idle := false
			err := s.e.Transact(func(e *engine.Engine) error {
				matchmaking.TickDungeonQueues(e, now)
				matchmaking.TickRaidQueues(e, now)
				idle = e.DungeonQueue.Len() == 0 && e.RaidQueue.Len() == 0
				return nil
			})
			if err != nil {
				s.log.Error("matchmaking tick failed", zap.Error(err))
			}
			if idle {
				armed = false
			}
		}
	}
}
