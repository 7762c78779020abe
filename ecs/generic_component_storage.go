package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// iComponentStorage is a type-erased store for one component type, keyed by entity.
type iComponentStorage interface {
	Put(id EntityId, item any) bool
	Delete(id EntityId) bool
	Get(id EntityId) any
	Has(id EntityId) bool
	Len() int
	Iter() iter.Seq[EntityId]
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent stages to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
// Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() iComponentStorage {
		return newGenericComponentStorage[T]()
	}
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of type T in fixed-size blocks so
// pointers handed out by Get stay valid until the component is deleted.
type genericComponentStorage[T any] struct {
	blocks    []*[genericBlockSize]T
	owners    []EntityId
	slots     *intmap.Map[uint32, int]
	freeSlots []int
	count     int
}

func newGenericComponentStorage[T any]() *genericComponentStorage[T] {
	return &genericComponentStorage[T]{
		slots: intmap.New[uint32, int](genericBlockSize),
	}
}

func (cs *genericComponentStorage[T]) at(slot int) *T {
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}

// Put stores the component for id, replacing any existing value.
// Returns false if item is not a T or *T.
func (cs *genericComponentStorage[T]) Put(id EntityId, item any) bool {
	var concrete T
	switch v := item.(type) {
	case *T:
		concrete = *v
	case T:
		concrete = v
	default:
		return false
	}

	if slot, ok := cs.slots.Get(id.Index()); ok {
		*cs.at(slot) = concrete
		cs.owners[slot] = id
		return true
	}

	var slot int
	if n := len(cs.freeSlots); n > 0 {
		slot = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		slot = len(cs.owners)
		cs.owners = append(cs.owners, 0)
		if slot/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		}
	}

	*cs.at(slot) = concrete
	cs.owners[slot] = id
	cs.slots.Put(id.Index(), slot)
	cs.count++
	return true
}

// Delete zeroes the component slot owned by id and recycles it.
func (cs *genericComponentStorage[T]) Delete(id EntityId) bool {
	slot, ok := cs.slots.Get(id.Index())
	if !ok || cs.owners[slot] != id {
		return false
	}

	var zero T
	*cs.at(slot) = zero
	cs.owners[slot] = 0
	cs.slots.Del(id.Index())
	cs.freeSlots = append(cs.freeSlots, slot)
	cs.count--
	return true
}

// Get returns a *T for the component owned by id, or nil.
func (cs *genericComponentStorage[T]) Get(id EntityId) any {
	slot, ok := cs.slots.Get(id.Index())
	if !ok || cs.owners[slot] != id {
		return nil
	}
	return cs.at(slot)
}

func (cs *genericComponentStorage[T]) Has(id EntityId) bool {
	slot, ok := cs.slots.Get(id.Index())
	return ok && cs.owners[slot] == id
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}

// Iter yields owners in slot order, which is stable between structural changes.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, owner := range cs.owners {
			if owner == 0 {
				continue
			}
			if !yield(owner) {
				return
			}
		}
	}
}
