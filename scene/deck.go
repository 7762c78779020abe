package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/stagelog"
)

var ErrSceneIndex = errors.New("scene: scene index out of range")

// Entry is one scene of a Deck. Build is called every time the scene is
// entered, so each visit runs a fresh script.
type Entry struct {
	Name  string
	Build func() *Script
}

// Tracker receives the index of every scene the deck enters.
type Tracker interface {
	SaveIndex(index int) error
}

type DeckOptions struct {
	Logger  stagelog.Logger
	Tracker Tracker
	// NextKeys and PrevKeys navigate between scenes once BindKeys is called.
	NextKeys []event.Key
	PrevKeys []event.Key
}

// Deck navigates an ordered list of scenes on one stage. Leaving a scene
// stops its runner, which destroys everything the scene created. A completed
// scene stays on screen until the deck is navigated.
type Deck struct {
	stage   *stage.Stage
	entries []Entry
	opts    DeckOptions
	log     stagelog.Logger
	runID   uuid.UUID
	index   int
	runner  *Runner
	keys    event.Subscription
	bound   bool
}

func NewDeck(st *stage.Stage, entries []Entry, opts DeckOptions) *Deck {
	if len(opts.NextKeys) == 0 {
		opts.NextKeys = []event.Key{"right", "pagedown"}
	}
	if len(opts.PrevKeys) == 0 {
		opts.PrevKeys = []event.Key{"left", "pageup"}
	}

	runID := uuid.New()
	log := opts.Logger
	if log == nil {
		log = st.Log
	}
	return &Deck{
		stage:   st,
		entries: entries,
		opts:    opts,
		log:     stagelog.With(log, "run", runID.String()),
		runID:   runID,
		index:   -1,
	}
}

func (d *Deck) RunID() uuid.UUID {
	return d.runID
}

// Index returns the current scene index, or -1 before the first Start.
func (d *Deck) Index() int {
	return d.index
}

func (d *Deck) Len() int {
	return len(d.entries)
}

// Current returns the runner of the current scene, or nil.
func (d *Deck) Current() *Runner {
	return d.runner
}

// Names lists the scene names in order.
func (d *Deck) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Name
	}
	return names
}

// Start leaves the current scene and enters scene i.
func (d *Deck) Start(i int) error {
	if i < 0 || i >= len(d.entries) {
		return fmt.Errorf("%w: %d of %d", ErrSceneIndex, i, len(d.entries))
	}

	entry := d.entries[i]
	script := entry.Build()
	if script.Name == "" {
		script.Name = entry.Name
	}
	runner, err := NewRunner(d.stage, script, RunnerOptions{Logger: d.log})
	if err != nil {
		return fmt.Errorf("enter scene %q: %w", entry.Name, err)
	}

	if d.runner != nil {
		d.runner.Stop()
	}
	d.index = i
	d.runner = runner
	d.log.Info("entering scene", "index", i, "scene", entry.Name)

	if d.opts.Tracker != nil {
		if err := d.opts.Tracker.SaveIndex(i); err != nil {
			d.log.Warn("saving progress failed", "index", i, "error", err)
		}
	}

	runner.Start()
	return nil
}

// Next enters the following scene. It reports false on the last scene.
func (d *Deck) Next() bool {
	if d.index+1 >= len(d.entries) {
		return false
	}
	return d.enter(d.index + 1)
}

// Prev enters the preceding scene. It reports false on the first scene.
func (d *Deck) Prev() bool {
	if d.index <= 0 {
		return false
	}
	return d.enter(d.index - 1)
}

func (d *Deck) enter(i int) bool {
	if err := d.Start(i); err != nil {
		d.log.Error("scene failed to start", "index", i, "error", err)
		return false
	}
	return true
}

// BindKeys subscribes the deck to the stage's key source.
func (d *Deck) BindKeys() {
	if d.bound {
		return
	}
	d.bound = true
	d.keys = d.stage.Input.Keys.Subscribe(d.handleKey)
}

func (d *Deck) handleKey(k event.Key) {
	switch {
	case slices.Contains(d.opts.NextKeys, k):
		d.Next()
	case slices.Contains(d.opts.PrevKeys, k):
		d.Prev()
	}
}

// Close unbinds the keys and stops the current scene.
func (d *Deck) Close() {
	if d.bound {
		d.stage.Input.Keys.Unsubscribe(d.keys)
		d.bound = false
	}
	if d.runner != nil {
		d.runner.Stop()
	}
}
