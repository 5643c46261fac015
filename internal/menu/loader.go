package menu

import (
	"context"
	"sync"

	"pizzeria/internal/model"
)

// State is a position of the menu loader.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Snapshot is the loader state as seen by one reader.
type Snapshot struct {
	State      State    `json:"state"`
	Listing    *Listing `json:"listing,omitempty"`
	Err        error    `json:"-"`
	Generation uint64   `json:"generation"`
}

// FetchFunc returns every available menu item.
type FetchFunc func(ctx context.Context) ([]model.MenuItem, error)

// Loader tracks the most recent menu load. A load that was superseded by a
// newer one, or whose context ended, leaves the state untouched.
type Loader struct {
	mu   sync.RWMutex
	gen  uint64
	snap Snapshot
}

// NewLoader returns an idle loader.
func NewLoader() *Loader {
	return &Loader{snap: Snapshot{State: StateIdle}}
}

// Snapshot returns the current state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// Load runs fetch and records its outcome. The listing and error of this
// load are always returned to the caller; applied reports whether they
// also became the loader state.
func (l *Loader) Load(ctx context.Context, fetch FetchFunc, f Filters) (listing *Listing, applied bool, err error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.snap = Snapshot{State: StateLoading, Listing: l.snap.Listing, Generation: gen}
	l.mu.Unlock()

	items, err := fetch(ctx)
	if err == nil {
		listing = NewListing(items, f)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen || ctx.Err() != nil {
		return listing, false, err
	}
	if err != nil {
		l.snap = Snapshot{State: StateError, Err: err, Generation: gen}
	} else {
		l.snap = Snapshot{State: StateSuccess, Listing: listing, Generation: gen}
	}
	return listing, true, err
}
