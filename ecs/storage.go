package ecs

import (
	"iter"
	"reflect"
	"sort"
)

// DeleteHook is invoked synchronously when an entity is deleted, before its
// components are released. Hooks may read the entity's components.
type DeleteHook func(storage *Storage, id EntityId)

// Storage is the main ECS storage interface
type Storage struct {
	registry    *ComponentRegistry
	stores      map[reflect.Type]iComponentStorage
	storeOrder  []reflect.Type
	generations []uint32
	alive       []bool
	freeSlots   []uint32
	count       int
	singletons  map[reflect.Type]any
	deleteHooks []DeleteHook
	deleting    map[EntityId]bool
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		stores:     make(map[reflect.Type]iComponentStorage),
		singletons: make(map[reflect.Type]any),
		deleting:   make(map[EntityId]bool),
	}
}

// Registry returns the component registry. Types registered after the storage
// was created can be used immediately.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// OnDelete registers a hook that runs for every deleted entity, in registration order.
func (s *Storage) OnDelete(hook DeleteHook) {
	s.deleteHooks = append(s.deleteHooks, hook)
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	id := s.allocate()
	for _, comp := range components {
		s.put(id, comp)
	}
	return id
}

func (s *Storage) allocate() EntityId {
	var index uint32
	if n := len(s.freeSlots); n > 0 {
		index = s.freeSlots[n-1]
		s.freeSlots = s.freeSlots[:n-1]
	} else {
		index = uint32(len(s.generations))
		s.generations = append(s.generations, 0)
		s.alive = append(s.alive, false)
	}

	s.generations[index]++
	s.alive[index] = true
	s.count++
	return NewEntityId(s.generations[index], index)
}

// Alive reports whether id refers to an entity that has not been deleted.
func (s *Storage) Alive(id EntityId) bool {
	index := id.Index()
	if id == 0 || int(index) >= len(s.generations) {
		return false
	}
	return s.alive[index] && s.generations[index] == id.Generation()
}

// Delete runs the delete hooks for id and then removes all of its components.
// Deleting a dead entity, or one already being deleted, returns false.
func (s *Storage) Delete(id EntityId) bool {
	if !s.Alive(id) || s.deleting[id] {
		return false
	}

	s.deleting[id] = true
	for _, hook := range s.deleteHooks {
		hook(s, id)
	}
	delete(s.deleting, id)

	for _, t := range s.storeOrder {
		s.stores[t].Delete(id)
	}

	index := id.Index()
	s.alive[index] = false
	s.freeSlots = append(s.freeSlots, index)
	s.count--
	return true
}

// AddComponent attaches (or replaces) a component on a live entity.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	if !s.Alive(id) {
		return false
	}
	s.put(id, component)
	return true
}

// RemoveComponent detaches the component of compType from id.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	if !s.Alive(id) {
		return false
	}
	store, ok := s.stores[compType]
	if !ok {
		return false
	}
	return store.Delete(id)
}

// GetComponent returns a pointer to the component for the given entity ID and
// component type, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	if !s.Alive(id) {
		return nil
	}
	store, ok := s.stores[compType]
	if !ok {
		return nil
	}
	return store.Get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	if !s.Alive(id) {
		return false
	}
	store, ok := s.stores[compType]
	return ok && store.Has(id)
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.count
}

// Entities yields every live entity in slot order.
func (s *Storage) Entities() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for index, alive := range s.alive {
			if !alive {
				continue
			}
			if !yield(NewEntityId(s.generations[index], uint32(index))) {
				return
			}
		}
	}
}

// ComponentTypes lists the component types attached to id, sorted by name.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	var types []reflect.Type
	for _, t := range s.storeOrder {
		if s.stores[t].Has(id) {
			types = append(types, t)
		}
	}
	sort.Sort(byTypeName(types))
	return types
}

func (s *Storage) put(id EntityId, component any) {
	compType := componentType(component)
	store := s.storeFor(compType)
	store.Put(id, component)
}

func (s *Storage) storeFor(compType reflect.Type) iComponentStorage {
	if store, ok := s.stores[compType]; ok {
		return store
	}

	factory := s.registry.getFactory(compType)
	if factory == nil {
		panic("component type " + compType.String() + " not registered")
	}
	store := factory()
	s.stores[compType] = store
	s.storeOrder = append(s.storeOrder, compType)
	return store
}

// componentType resolves the stored type for a component value.
// Components can be structs or primitives, passed by value or by pointer,
// but not maps, channels, or functions.
func componentType(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType == nil {
		panic("component cannot be nil")
	}
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	switch compType.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return compType
}

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the T component of entityId, or nil when absent.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
