package ecs

// Removable is implemented by every component store so the Registry can strip
// a destroyed entity's data from all stores in one pass.
type Removable interface {
	Remove(id EntityID)
}

// Components is a generic typed map store. No reflect, no interface{}; the
// store owns the values directly.
type Components[T any] struct {
	data map[EntityID]*T
}

func NewComponents[T any]() *Components[T] {
	return &Components[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *Components[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *Components[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Components[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *Components[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Components[T]) Len() int {
	return len(s.data)
}

func (s *Components[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// Registry tracks all component stores for bulk cleanup on entity destroy.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
	}
}

func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
