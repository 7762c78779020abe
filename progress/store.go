// Package progress remembers where a viewer left a deck so the next launch
// can resume from the same scene.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const progressObject = "progress"

// State is the saved position in one deck.
type State struct {
	Deck    string    `yaml:"deck"`
	Scene   int       `yaml:"scene"`
	Visits  int       `yaml:"visits"`
	Updated time.Time `yaml:"updated"`
}

// Store keeps a State per deck. With a nil manager it only keeps state in
// memory, which is what tests and sandboxed runs use.
type Store struct {
	manager *gdata.Manager
	deck    string
	prop    string
	state   State
	now     func() time.Time
}

// Open creates a store backed by the platform data directory for appName.
// If that directory cannot be used the store still works in memory and the
// error is returned alongside it.
func Open(appName, deck string) (*Store, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil, deck), fmt.Errorf("open progress store: %w", err)
	}
	return NewStore(manager, deck), nil
}

func NewStore(manager *gdata.Manager, deck string) *Store {
	return &Store{
		manager: manager,
		deck:    deck,
		prop:    propName(deck),
		state:   State{Deck: deck},
		now:     time.Now,
	}
}

// propName turns a deck title into a file-name safe property key.
func propName(deck string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(deck) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

// Persistent reports whether saves reach disk.
func (s *Store) Persistent() bool {
	return s.manager != nil
}

// Load reads the saved state. A deck that was never saved loads as scene 0.
func (s *Store) Load() (State, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(progressObject, s.prop) {
		return s.state, nil
	}

	data, err := s.manager.LoadObjectProp(progressObject, s.prop)
	if err != nil {
		return s.state, fmt.Errorf("load progress: %w", err)
	}
	var loaded State
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return s.state, fmt.Errorf("decode progress: %w", err)
	}
	loaded.Deck = s.deck
	s.state = loaded
	return s.state, nil
}

// Save stores state, stamping it with the current time.
func (s *Store) Save(state State) error {
	state.Deck = s.deck
	state.Updated = s.now().UTC()
	s.state = state

	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.manager.SaveObjectProp(progressObject, s.prop, data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// SaveIndex records that scene index was entered.
func (s *Store) SaveIndex(index int) error {
	state := s.state
	state.Scene = index
	state.Visits++
	return s.Save(state)
}

// Reset forgets the saved position.
func (s *Store) Reset() error {
	return s.Save(State{})
}

// Resume returns the scene to start from, clamped to [0, count).
func (s *Store) Resume(count int) int {
	if count <= 0 {
		return 0
	}
	return min(max(s.state.Scene, 0), count-1)
}
