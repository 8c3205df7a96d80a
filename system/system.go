package system

import (
	"time"

	"github.com/l1jgo/loopkit/ecs"
)

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain external input
	PhasePreUpdate               // 1: process last frame's events
	PhaseUpdate                  // 2: main logic
	PhasePostUpdate              // 3: derived state, spawning, visibility
	PhaseOutput                  // 4: build and send output
	PhaseCleanup                 // 5: destroy queued entities
)

// System is the effect-work variant of a unit of work: it runs against the
// shared world and this frame's delta for its side effects. Scheduling
// constructs (conditional runners, fixed-step runners, state machines) are
// themselves Systems, which is what makes them nest.
type System interface {
	Update(w *ecs.World, dt time.Duration)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *ecs.World, dt time.Duration)

func (f SystemFunc) Update(w *ecs.World, dt time.Duration) { f(w, dt) }

// Condition is the predicate-work variant: it reads the shared world and
// yields a boolean. Side-effect-free by convention, not enforced.
type Condition interface {
	Check(w *ecs.World) bool
}

// ConditionFunc adapts a plain function to Condition.
type ConditionFunc func(w *ecs.World) bool

func (f ConditionFunc) Check(w *ecs.World) bool { return f(w) }

// Pipeline runs an ordered slice of systems as one System.
type Pipeline []System

func (p Pipeline) Update(w *ecs.World, dt time.Duration) {
	for _, s := range p {
		s.Update(w, dt)
	}
}
