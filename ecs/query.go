package ecs

import (
	"iter"
	"reflect"
)

var entityIdType = reflect.TypeFor[EntityId]()

type queryField struct {
	index     int
	compType  reflect.Type
	optional  bool
	isEntity  bool
	isPointer bool
}

// Query iterates entities that carry a combination of components.
// The type T must be a struct whose fields are pointers to component types;
// embedded fields are always required, named fields can be marked optional
// with the `ecs:"optional"` struct tag, and a field of type EntityId receives
// the entity's id.
//
// Results are cached by Execute, which the Scheduler calls right before the
// owning system runs.
type Query[T any] struct {
	storage *Storage
	fields  []queryField
	driver  reflect.Type

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("Query type parameter must be a struct")
	}

	q.storage = storage
	q.fields = q.fields[:0]
	q.driver = nil
	q.cacheValid = false

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			q.fields = append(q.fields, queryField{index: i, isEntity: true})
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("Query struct fields must be pointer types or EntityId")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		qf := queryField{index: i, compType: field.Type.Elem(), optional: optional, isPointer: true}
		q.fields = append(q.fields, qf)
		if !optional && q.driver == nil {
			q.driver = qf.compType
		}
	}

	if q.driver == nil {
		panic("Query requires at least one required component")
	}
}

// fill populates result for id. Returns false if a required component is missing.
func (q *Query[T]) fill(id EntityId, result *T) bool {
	value := reflect.ValueOf(result).Elem()
	for _, f := range q.fields {
		target := value.Field(f.index)
		if f.isEntity {
			target.SetUint(uint64(id))
			continue
		}

		comp := q.storage.GetComponent(id, f.compType)
		if comp == nil {
			if !f.optional {
				return false
			}
			target.SetZero()
			continue
		}
		target.Set(reflect.ValueOf(comp))
	}
	return true
}

// Get returns the populated view for id, or false if id lacks a required component.
func (q *Query[T]) Get(id EntityId) (T, bool) {
	var result T
	if !q.storage.Alive(id) {
		return result, false
	}
	ok := q.fill(id, &result)
	return result, ok
}

// Execute builds the entity and component caches for this frame.
// Called automatically by the Scheduler before the owning system runs.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	store, ok := q.storage.stores[q.driver]
	if ok {
		for id := range store.Iter() {
			var item T
			if !q.fill(id, &item) {
				continue
			}
			q.cachedEntities = append(q.cachedEntities, id)
			q.cachedComponents = append(q.cachedComponents, item)
		}
	}

	q.cacheValid = true
}

// Len returns the number of cached matches.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}

// Iter returns an iterator over component data.
// Panics if Execute() has not been called this frame.
func (q *Query[T]) Iter() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Entries returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called this frame.
func (q *Query[T]) Entries() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("Query.Entries() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}
