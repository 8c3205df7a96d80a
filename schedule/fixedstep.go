package schedule

import (
	"fmt"
	"time"

	"github.com/l1jgo/loopkit/ecs"
	"github.com/l1jgo/loopkit/system"
)

// Accumulator converts variable frame deltas into whole fixed-size ticks. The
// balance only grows by Add and only shrinks by whole steps via Consume, so a
// given (step, deltas) input always produces the same tick sequence.
type Accumulator struct {
	step        time.Duration
	accumulated time.Duration
}

// NewAccumulator creates an accumulator with the given fixed step. A step of
// zero or less is a construction-time fault.
func NewAccumulator(step time.Duration) (*Accumulator, error) {
	if step <= 0 {
		return nil, fmt.Errorf("fixed step must be positive, got %s", step)
	}
	return &Accumulator{step: step}, nil
}

// Add credits one frame's elapsed time to the balance.
func (a *Accumulator) Add(delta time.Duration) {
	a.accumulated += delta
}

// Ticks returns how many whole steps the current balance covers. Callers must
// compute this once per frame and loop on the snapshot; re-sampling mid-loop
// would let a slow tick starve the loop forever.
func (a *Accumulator) Ticks() int {
	if a.accumulated < a.step {
		return 0
	}
	return int(a.accumulated / a.step)
}

// Consume debits one step from the balance. Called once per executed tick.
func (a *Accumulator) Consume() {
	a.accumulated -= a.step
}

func (a *Accumulator) Step() time.Duration        { return a.step }
func (a *Accumulator) Accumulated() time.Duration { return a.accumulated }

// Clamp caps the balance at max. Catch-up after a stall is unbounded by
// design; hosts that want a bound call Clamp between Add and the tick loop
// (or clamp the delta before Add).
func (a *Accumulator) Clamp(max time.Duration) {
	if a.accumulated > max {
		a.accumulated = max
	}
}

// FixedStepRunner drives an ordered sequence of stages zero or more times per
// frame, once per accumulated tick. Stages see the fixed step as their delta,
// never the raw frame delta. Each stage completes before the next starts, and
// the whole sequence completes before the next tick begins.
type FixedStepRunner struct {
	acc    *Accumulator
	stages []system.System
}

// FixedStep starts a builder for a runner with the given step size.
func FixedStep(step time.Duration) *FixedStepBuilder {
	return &FixedStepBuilder{step: step}
}

// FixedStepBuilder accumulates stages in execution order.
type FixedStepBuilder struct {
	step   time.Duration
	stages []system.System
}

// Stage appends sub-pipelines in execution order. May be called repeatedly.
func (b *FixedStepBuilder) Stage(stages ...system.System) *FixedStepBuilder {
	b.stages = append(b.stages, stages...)
	return b
}

// Build validates the step and freezes the stage order.
func (b *FixedStepBuilder) Build() (*FixedStepRunner, error) {
	acc, err := NewAccumulator(b.step)
	if err != nil {
		return nil, err
	}
	stages := make([]system.System, len(b.stages))
	copy(stages, b.stages)
	return &FixedStepRunner{acc: acc, stages: stages}, nil
}

// Accumulator exposes the runner's time balance, mainly so hosts can Clamp it.
func (r *FixedStepRunner) Accumulator() *Accumulator { return r.acc }

// Update credits the frame delta, then runs the full stage sequence once per
// whole accumulated step. A zero delta with an empty balance is a no-op. A
// huge delta executes many ticks in this one call; no cap is imposed here.
func (r *FixedStepRunner) Update(w *ecs.World, dt time.Duration) {
	r.acc.Add(dt)
	ticks := r.acc.Ticks()
	for i := 0; i < ticks; i++ {
		r.acc.Consume()
		for _, stage := range r.stages {
			stage.Update(w, r.acc.step)
		}
	}
}
