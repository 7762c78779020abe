package event

// Pending is a single-shot wait on a Source. It holds exactly one
// subscription, which is removed before the first payload is delivered, or
// when the wait is canceled.
type Pending[T any] struct {
	source    *Source[T]
	sub       Subscription
	match     func(T) bool
	value     T
	done      bool
	canceled  bool
	onResolve []func(T)
}

// WaitOnce suspends on the next occurrence of src.
func WaitOnce[T any](src *Source[T]) *Pending[T] {
	return WaitOnceFunc(src, nil)
}

// WaitOnceFunc suspends on the next occurrence of src accepted by match.
// Occurrences that match rejects leave the wait pending.
func WaitOnceFunc[T any](src *Source[T], match func(T) bool) *Pending[T] {
	p := &Pending[T]{source: src, match: match}
	p.sub = src.Subscribe(p.deliver)
	return p
}

func (p *Pending[T]) deliver(value T) {
	if p.done || p.canceled {
		return
	}
	if p.match != nil && !p.match(value) {
		return
	}

	p.source.Unsubscribe(p.sub)
	p.done = true
	p.value = value
	hooks := p.onResolve
	p.onResolve = nil
	for _, fn := range hooks {
		fn(value)
	}
}

// Done reports whether the wait resolved.
func (p *Pending[T]) Done() bool {
	return p.done
}

// Value returns the payload that resolved the wait.
func (p *Pending[T]) Value() (T, bool) {
	return p.value, p.done
}

// Cancel unsubscribes without resolving. It reports whether the wait was
// still pending.
func (p *Pending[T]) Cancel() bool {
	if p.done || p.canceled {
		return false
	}
	p.canceled = true
	p.onResolve = nil
	p.source.Unsubscribe(p.sub)
	return true
}

func (p *Pending[T]) Canceled() bool {
	return p.canceled
}

// OnResolve registers fn to run with the payload when the wait resolves.
// If it already resolved, fn runs immediately. Canceled waits never call fn.
func (p *Pending[T]) OnResolve(fn func(T)) {
	switch {
	case p.canceled:
	case p.done:
		fn(p.value)
	default:
		p.onResolve = append(p.onResolve, fn)
	}
}
