package schedule

import (
	"github.com/l1jgo/loopkit/ecs"
	"github.com/l1jgo/loopkit/event"
	"github.com/l1jgo/loopkit/system"
)

// Stock run conditions. Each is an ordinary system.Condition; the conditional
// runner gives them no special treatment.

// OnEvent passes while at least one event of type T is readable this frame.
func OnEvent[T any]() system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		return event.Has[T](w.Events())
	})
}

// ResourceExists passes while the world holds a resource of type T.
func ResourceExists[T any]() system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		return ecs.HasResource[T](w)
	})
}

// ResourceAbsent passes while the world holds no resource of type T.
func ResourceAbsent[T any]() system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		return !ecs.HasResource[T](w)
	})
}

// ResourceEquals passes while the resource of type T exists and equals v.
func ResourceEquals[T comparable](v T) system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		cur, ok := ecs.Resource[T](w)
		return ok && cur == v
	})
}

// ResourceNotEquals passes while the resource of type T exists and differs
// from v. Absent resource fails the condition.
func ResourceNotEquals[T comparable](v T) system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		cur, ok := ecs.Resource[T](w)
		return ok && cur != v
	})
}

// InState passes while the current state of type T equals v. Before the
// owning state machine's first invocation no current state exists and the
// condition fails.
func InState[T comparable](v T) system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		cur, ok := ecs.Resource[CurrentState[T]](w)
		return ok && cur.Value == v
	})
}

// NotInState passes while a current state of type T exists and differs from v.
func NotInState[T comparable](v T) system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		cur, ok := ecs.Resource[CurrentState[T]](w)
		return ok && cur.Value != v
	})
}

// Not inverts a condition.
func Not(c system.Condition) system.Condition {
	return system.ConditionFunc(func(w *ecs.World) bool {
		return !c.Check(w)
	})
}
