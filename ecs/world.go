package ecs

import "github.com/l1jgo/loopkit/event"

// World is the shared-state container every system runs against. It owns the
// entity pool, the component registry, the typed resource store, the event
// bus, and a deferred destruction queue flushed at end of frame.
//
// Single-threaded by contract: the host driver invokes systems one at a time,
// and no scheduling construct holds a reference across invocations.
type World struct {
	pool         *EntityPool
	registry     *Registry
	resources    *resources
	events       *event.Bus
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		resources:    newResources(),
		events:       event.NewBus(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }
func (w *World) Events() *event.Bus  { return w.events }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-frame cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Typically run from a cleanup-phase system.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}
