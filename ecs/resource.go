package ecs

import "reflect"

// resources is a heterogeneous store with one slot per Go type. Schedulers use
// it for shared singletons: state slots, pending-transition requests, frame
// settings. Same reflect.Type keying as the event bus.
type resources struct {
	data map[reflect.Type]any
}

func newResources() *resources {
	return &resources{
		data: make(map[reflect.Type]any, 16),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// InsertResource stores v in the world's slot for type T, replacing any
// previous value.
func InsertResource[T any](w *World, v T) {
	w.resources.data[typeKey[T]()] = v
}

// Resource returns the value in the slot for type T, if present.
func Resource[T any](w *World) (T, bool) {
	v, ok := w.resources.data[typeKey[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// HasResource reports whether the slot for type T is occupied.
func HasResource[T any](w *World) bool {
	_, ok := w.resources.data[typeKey[T]()]
	return ok
}

// RemoveResource clears the slot for type T.
func RemoveResource[T any](w *World) {
	delete(w.resources.data, typeKey[T]())
}

// TakeResource removes and returns the value in the slot for type T. The
// remove-and-read pair is a single step so consume-style protocols (pending
// transition requests) cannot observe the value twice.
func TakeResource[T any](w *World) (T, bool) {
	key := typeKey[T]()
	v, ok := w.resources.data[key]
	if !ok {
		var zero T
		return zero, false
	}
	delete(w.resources.data, key)
	return v.(T), true
}
