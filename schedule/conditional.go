// Package schedule provides the composable scheduling primitives layered over
// the host frame loop: condition-gated systems, fixed-timestep execution, and
// state-driven execution with enter/exit pipelines.
//
// Every construct in this package implements system.System, so they nest
// freely: a fixed-step stage can be a conditional runner, a state machine's
// enter pipeline can contain a fixed-step runner, and so on.
package schedule

import (
	"time"

	"github.com/l1jgo/loopkit/ecs"
	"github.com/l1jgo/loopkit/system"
)

// Outcome reports whether a conditional system's primary work ran this frame.
type Outcome int

const (
	Skipped Outcome = iota
	Ran
)

func (o Outcome) String() string {
	if o == Ran {
		return "ran"
	}
	return "skipped"
}

// ConditionalSystem gates a primary system behind an ordered conjunction of
// conditions. Conditions evaluate left to right in registration order and
// short-circuit on the first false result; the primary system runs iff the
// sequence is empty or every condition yields true.
//
// The condition list is frozen at Build time. A condition attached to several
// runners is evaluated independently by each; nothing deduplicates.
type ConditionalSystem struct {
	primary    system.System
	conditions []system.Condition
}

// ConditionalBuilder accumulates conditions for one primary system.
type ConditionalBuilder struct {
	primary    system.System
	conditions []system.Condition
}

// Conditional starts a builder wrapping the given primary system.
func Conditional(primary system.System) *ConditionalBuilder {
	return &ConditionalBuilder{primary: primary}
}

// RunIf appends conditions in evaluation order. May be called repeatedly.
func (b *ConditionalBuilder) RunIf(conds ...system.Condition) *ConditionalBuilder {
	b.conditions = append(b.conditions, conds...)
	return b
}

// Build freezes the condition order and returns the runner.
func (b *ConditionalBuilder) Build() *ConditionalSystem {
	conds := make([]system.Condition, len(b.conditions))
	copy(conds, b.conditions)
	return &ConditionalSystem{primary: b.primary, conditions: conds}
}

// Run evaluates the condition sequence and executes the primary system if all
// pass. Conditions after the first false one are not evaluated. Panics from a
// condition or the primary system propagate to the host unrecovered.
func (c *ConditionalSystem) Run(w *ecs.World, dt time.Duration) Outcome {
	for _, cond := range c.conditions {
		if !cond.Check(w) {
			return Skipped
		}
	}
	c.primary.Update(w, dt)
	return Ran
}

// Update implements system.System, discarding the outcome.
func (c *ConditionalSystem) Update(w *ecs.World, dt time.Duration) {
	c.Run(w, dt)
}
