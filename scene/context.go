package scene

import (
	"fmt"

	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/stagelog"
	"github.com/plus3/slidedeck/tween"
)

// Context is handed to every effect. It tracks the entities a run creates so
// they can be torn down with it.
type Context struct {
	Stage *stage.Stage
	Log   stagelog.Logger

	runner *Runner
	named  map[string]*stage.Entity
	owned  []*stage.Entity
}

func newContext(st *stage.Stage, r *Runner, log stagelog.Logger) *Context {
	return &Context{
		Stage:  st,
		Log:    log,
		runner: r,
		named:  make(map[string]*stage.Entity),
	}
}

// Spawn creates an entity owned by this run. A non-empty name makes it
// reachable through Entity; reusing a name replaces the lookup but keeps
// both entities owned.
func (c *Context) Spawn(name string, components ...any) *stage.Entity {
	e := c.Stage.Spawn(components...)
	c.Adopt(name, e)
	return e
}

// SpawnLater queues an entity owned by this run for the end of the tick.
// Use it from loop actions and systems. If the run stops before the queue
// is flushed, the entity is destroyed as soon as it exists.
func (c *Context) SpawnLater(name string, components ...any) {
	c.Stage.Scheduler.Commands().SpawnThen(func(id ecs.EntityId) {
		c.Adopt(name, c.Stage.Entity(id))
	}, components...)
}

// Adopt makes an existing entity owned by this run. Adopting into a stopped
// run destroys the entity.
func (c *Context) Adopt(name string, e *stage.Entity) {
	if c.runner.state == Stopped {
		e.Destroy()
		return
	}
	c.prune()
	c.owned = append(c.owned, e)
	if name != "" {
		c.named[name] = e
	}
}

// prune forgets destroyed entities before the owned list grows.
func (c *Context) prune() {
	if len(c.owned) < cap(c.owned) {
		return
	}
	live := c.owned[:0]
	for _, e := range c.owned {
		if e.Alive() {
			live = append(live, e)
		}
	}
	clear(c.owned[len(live):])
	c.owned = live
}

// Entity returns the named entity. It panics if no entity has that name.
func (c *Context) Entity(name string) *stage.Entity {
	e, ok := c.named[name]
	if !ok {
		panic(fmt.Sprintf("scene: no entity named %q", name))
	}
	return e
}

func (c *Context) Lookup(name string) (*stage.Entity, bool) {
	e, ok := c.named[name]
	return e, ok
}

// Owned returns the number of entities this run tracks. Destroyed entities
// may be counted until the list is next pruned.
func (c *Context) Owned() int {
	return len(c.owned)
}

// Now returns the stage clock.
func (c *Context) Now() float64 {
	return c.Stage.Clock().Now
}

// Tween runs a tween owned by the run itself. It fails with ErrStopped once
// the run is torn down.
func (c *Context) Tween(from, to, duration float64, ease tween.EaseFunc, onStep func(float64)) (*tween.Tween, error) {
	if c.runner.state == Stopped {
		return nil, fmt.Errorf("%w: script %q", ErrStopped, c.runner.script.Name)
	}
	return c.runner.self().Tween(from, to, duration, ease, onStep)
}

// Await suspends the script on w once the current effect returns.
// Awaiting twice from the same effect panics with ErrAlreadySuspended.
func (c *Context) Await(label string, w Waiter) {
	c.runner.suspend(&suspension{label: label, waiter: w})
}

// Sleep suspends the script for seconds once the current effect returns.
func (c *Context) Sleep(seconds float64) {
	c.runner.suspend(&suspension{label: fmt.Sprintf("%gs", seconds), duration: seconds})
}

// teardown destroys owned entities, newest first.
func (c *Context) teardown() {
	for i := len(c.owned) - 1; i >= 0; i-- {
		c.owned[i].Destroy()
	}
	c.owned = nil
	clear(c.named)
}
