package store

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/meetups/internal/client/models"
)

// OperationKind classifies in-flight operations.
type OperationKind string

const (
	OpLoad   OperationKind = "load"
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
	OpAuth   OperationKind = "auth"
)

// Operation is one in-flight action registered with StartOperation.
type Operation struct {
	ID   string
	Kind OperationKind
}

// State is a copy of the snapshot returned by Store.Snapshot.
type State struct {
	Meetups   []models.Meetup
	User      *models.User
	Loading   bool
	AuthError error
	InFlight  []Operation
}

// Store owns the snapshot. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	meetups       []models.Meetup
	user          *models.User
	manualLoading bool
	inFlight      []Operation
	authError     error

	subMu  sync.Mutex
	subs   map[int]func(Mutation)
	nextID int
}

// New returns a store with an empty snapshot: no meetups, no user, not
// loading, no auth error.
func New() *Store {
	return &Store{
		meetups: []models.Meetup{},
		subs:    make(map[int]func(Mutation)),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Meetups:   slices.Clone(s.meetups),
		User:      s.user.Clone(),
		Loading:   s.loadingLocked(),
		AuthError: s.authError,
		InFlight:  slices.Clone(s.inFlight),
	}
}

func (s *Store) loadingLocked() bool {
	return s.manualLoading || len(s.inFlight) > 0
}
