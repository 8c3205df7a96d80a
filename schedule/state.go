package schedule

import (
	"time"

	"github.com/l1jgo/loopkit/ecs"
	"github.com/l1jgo/loopkit/system"
)

// CurrentState is the world resource holding the active state value for state
// type T. Written by the owning StateMachine; readable by any system. It does
// not exist until the machine's first invocation.
//
// Inserting it directly forces a state change without running exit/enter
// pipelines. Permitted, discouraged.
type CurrentState[T comparable] struct {
	Value T
}

// NextState is the world resource that requests a transition. Any system may
// insert it; the owning StateMachine consumes it at the start of its
// processing.
type NextState[T comparable] struct {
	Value T
}

// SetNextState requests a transition of state type T.
func SetNextState[T comparable](w *ecs.World, v T) {
	ecs.InsertResource(w, NextState[T]{Value: v})
}

// CurrentStateValue reads the active state value for state type T.
func CurrentStateValue[T comparable](w *ecs.World) (T, bool) {
	cur, ok := ecs.Resource[CurrentState[T]](w)
	return cur.Value, ok
}

// StateMachine owns the current/next state slots for one state type and runs
// registered enter/exit pipelines on genuine value changes. It implements
// system.System; the host invokes it once per frame like any other system.
type StateMachine[T comparable] struct {
	initial     T
	enter       map[T]system.System
	exit        map[T]system.System
	maxPerFrame int
	settled     bool
}

// StateBuilder accumulates per-state pipelines for one state type.
type StateBuilder[T comparable] struct {
	initial     T
	enter       map[T]system.System
	exit        map[T]system.System
	maxPerFrame int
}

// States starts a builder for a machine whose first invocation enters the
// given initial state.
func States[T comparable](initial T) *StateBuilder[T] {
	return &StateBuilder[T]{
		initial: initial,
		enter:   make(map[T]system.System),
		exit:    make(map[T]system.System),
	}
}

// OnEnter sets the enter pipeline for a state value. The systems run in order
// as one pipeline whenever the machine transitions into v.
func (b *StateBuilder[T]) OnEnter(v T, systems ...system.System) *StateBuilder[T] {
	b.enter[v] = system.Pipeline(systems)
	return b
}

// OnExit sets the exit pipeline for a state value, run whenever the machine
// transitions out of v.
func (b *StateBuilder[T]) OnExit(v T, systems ...system.System) *StateBuilder[T] {
	b.exit[v] = system.Pipeline(systems)
	return b
}

// MaxTransitionsPerFrame caps cascading transitions within one invocation.
// Zero (the default) means unbounded, matching the source design: an enter or
// exit pipeline that unconditionally re-requests a transition loops forever,
// and that is the caller's bug to fix.
func (b *StateBuilder[T]) MaxTransitionsPerFrame(n int) *StateBuilder[T] {
	b.maxPerFrame = n
	return b
}

// Build freezes the registry and returns the machine.
func (b *StateBuilder[T]) Build() *StateMachine[T] {
	enter := make(map[T]system.System, len(b.enter))
	for k, v := range b.enter {
		enter[k] = v
	}
	exit := make(map[T]system.System, len(b.exit))
	for k, v := range b.exit {
		exit[k] = v
	}
	return &StateMachine[T]{
		initial:     b.initial,
		enter:       enter,
		exit:        exit,
		maxPerFrame: b.maxPerFrame,
	}
}

// Update runs the per-frame transition protocol.
//
// On the first invocation the machine performs the implicit initial
// transition: CurrentState is assigned the initial value and the initial
// state's enter pipeline runs; no exit pipeline runs, since nothing was
// entered before.
//
// Then, and on every later invocation: while a NextState request is pending,
// consume it; if it equals the current value, stop (a no-op write, pipelines
// run only on genuine changes); otherwise run exit(previous), assign
// CurrentState, run enter(target). A request inserted by one of those
// pipelines cascades within the same invocation.
//
// CurrentState is assigned before the enter pipeline runs, so a panicking
// enter pipeline leaves the new value in place. That ordering is the
// contract, not an accident.
func (m *StateMachine[T]) Update(w *ecs.World, dt time.Duration) {
	transitions := 0
	if !m.settled {
		m.settled = true
		ecs.InsertResource(w, CurrentState[T]{Value: m.initial})
		if enter, ok := m.enter[m.initial]; ok {
			enter.Update(w, dt)
		}
		transitions++
	}
	for {
		if m.maxPerFrame > 0 && transitions >= m.maxPerFrame {
			return
		}
		next, ok := ecs.TakeResource[NextState[T]](w)
		if !ok {
			return
		}
		target := next.Value
		previous, _ := ecs.Resource[CurrentState[T]](w)
		if target == previous.Value {
			return
		}
		if exit, ok := m.exit[previous.Value]; ok {
			exit.Update(w, dt)
		}
		ecs.InsertResource(w, CurrentState[T]{Value: target})
		if enter, ok := m.enter[target]; ok {
			enter.Update(w, dt)
		}
		transitions++
	}
}
