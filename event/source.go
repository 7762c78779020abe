// Package event bridges repeatable engine callbacks, such as clicks and key
// presses, into single-shot waits that scene scripts can suspend on.
package event

// Subscription identifies one handler registered on a Source.
type Subscription uint64

type handler[T any] struct {
	id      Subscription
	fn      func(T)
	removed bool
}

// Source is a repeatable, subscribe-based event stream. Handlers run
// synchronously inside Emit in subscription order.
type Source[T any] struct {
	name     string
	nextID   Subscription
	handlers []*handler[T]
}

func NewSource[T any](name string) *Source[T] {
	return &Source[T]{name: name}
}

func (s *Source[T]) Name() string {
	return s.name
}

// Subscribe registers fn and returns a handle for Unsubscribe.
func (s *Source[T]) Subscribe(fn func(T)) Subscription {
	if fn == nil {
		panic("event: cannot subscribe a nil handler")
	}
	s.nextID++
	s.handlers = append(s.handlers, &handler[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe removes the handler for sub. It reports whether the handler was
// still registered. A handler removed while an Emit is in progress is skipped
// for the rest of that emission.
func (s *Source[T]) Unsubscribe(sub Subscription) bool {
	for i, h := range s.handlers {
		if h.id != sub {
			continue
		}
		h.removed = true
		s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
		return true
	}
	return false
}

// Emit delivers value to every handler subscribed before the call.
// Handlers added during the emission first see the next one.
func (s *Source[T]) Emit(value T) {
	snapshot := s.handlers
	for _, h := range snapshot {
		if h.removed {
			continue
		}
		h.fn(value)
	}
}

// Len returns the number of active subscriptions.
func (s *Source[T]) Len() int {
	return len(s.handlers)
}
