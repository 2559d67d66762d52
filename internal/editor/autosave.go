package editor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"schemacanvas/internal/models"
)

// SaveState tracks where the autosave controller is relative to the store.
type SaveState int

const (
	// StateSaved: the current schema equals the last persisted snapshot.
	StateSaved SaveState = iota
	// StateUnsaved: a tracked mutation has not been persisted yet.
	StateUnsaved
	// StateSaving: a persistence call is in flight.
	StateSaving
)

func (s SaveState) String() string {
	switch s {
	case StateSaved:
		return "saved"
	case StateUnsaved:
		return "unsaved"
	case StateSaving:
		return "saving"
	}
	return "unknown"
}

// DefaultDebounce is the window restarted by every tracked mutation; only
// the last mutation of a burst results in a persistence call.
const DefaultDebounce = 3 * time.Second

// SaveFunc persists a snapshot. A nil id requests a create and the returned
// id is the newly assigned identity; a non-nil id requests an update.
type SaveFunc func(ctx context.Context, id uuid.UUID, name string, data models.SchemaData) (uuid.UUID, error)

// Timer and Scheduler abstract the debounce clock so tests can drive it
// deterministically.
type Timer interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Autosave debounces dirty tracking and persists the schema with at most one
// call in flight. Saves are coalesced, never dropped: a mutation arriving
// while a save is in flight is picked up by a follow-up save scheduled when
// the in-flight one completes.
type Autosave struct {
	mu        sync.Mutex
	scheduler Scheduler
	debounce  time.Duration
	save      SaveFunc

	writable bool
	name     string
	schemaID uuid.UUID

	state         SaveState
	lastSaved     string
	pending       models.SchemaData
	pendingSerial string
	timer         Timer
	queued        bool
}

// AutosaveOption configures an Autosave.
type AutosaveOption func(*Autosave)

func WithScheduler(s Scheduler) AutosaveOption {
	return func(a *Autosave) { a.scheduler = s }
}

func WithDebounce(d time.Duration) AutosaveOption {
	return func(a *Autosave) { a.debounce = d }
}

// WithIdentity seeds an already-persisted schema's identity and last saved
// snapshot, so loading a schema does not start in the Unsaved state.
func WithIdentity(id uuid.UUID, lastSaved string) AutosaveOption {
	return func(a *Autosave) {
		a.schemaID = id
		a.lastSaved = lastSaved
	}
}

// NewAutosave builds a controller for an authorized writer. writable=false
// makes the controller fully inert: no scheduling, no persistence calls.
func NewAutosave(save SaveFunc, name string, writable bool, opts ...AutosaveOption) *Autosave {
	a := &Autosave{
		scheduler: realScheduler{},
		debounce:  DefaultDebounce,
		save:      save,
		name:      name,
		writable:  writable,
		state:     StateSaved,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Autosave) State() SaveState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SchemaID returns the persisted identity, or uuid.Nil before the first
// successful create.
func (a *Autosave) SchemaID() uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.schemaID
}

func (a *Autosave) SetName(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = name
}

// Track records a mutated snapshot and (re)starts the debounce window. It is
// inert when there is no authorized writer or the schema has no tables; an
// intentionally empty schema is not persisted.
func (a *Autosave) Track(data models.SchemaData) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.writable || len(data.Tables) == 0 {
		return
	}

	serial, err := data.Serialize()
	if err != nil {
		log.Printf("autosave: cannot serialize schema: %v", err)
		return
	}
	if serial == a.lastSaved {
		return
	}

	a.pending = data.Clone()
	a.pendingSerial = serial
	if a.state != StateSaving {
		a.state = StateUnsaved
	}

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = a.scheduler.AfterFunc(a.debounce, a.Flush)
}

// Flush attempts to persist the pending snapshot now. It is the debounce
// callback and also serves as the manual retry trigger after a failed save.
// If a save is already in flight the flush is queued behind it rather than
// issuing a concurrent call.
func (a *Autosave) Flush() {
	a.mu.Lock()
	if a.state == StateSaving {
		a.queued = true
		a.mu.Unlock()
		return
	}
	if a.pendingSerial == "" || a.pendingSerial == a.lastSaved {
		a.mu.Unlock()
		return
	}

	snapshot := a.pending
	serial := a.pendingSerial
	id := a.schemaID
	name := a.name
	a.state = StateSaving
	a.mu.Unlock()

	newID, err := a.save(context.Background(), id, name, snapshot)

	a.mu.Lock()
	a.queued = false
	if err != nil {
		// No retry timer: the next mutation or an explicit Flush retries.
		a.state = StateUnsaved
		a.mu.Unlock()
		log.Printf("autosave: save failed: %v", err)
		return
	}

	if a.schemaID == uuid.Nil {
		a.schemaID = newID
	}
	a.lastSaved = serial

	if a.pendingSerial != a.lastSaved {
		// Edits arrived while saving; coalesce them into a follow-up save.
		a.state = StateUnsaved
		if a.timer != nil {
			a.timer.Stop()
		}
		a.timer = a.scheduler.AfterFunc(a.debounce, a.Flush)
	} else {
		a.state = StateSaved
	}
	a.mu.Unlock()
}
