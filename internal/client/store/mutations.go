package store

import (
	"slices"

	"github.com/dmitrijs2005/meetups/internal/client/models"
)

// Mutation names published to subscribers.
const (
	MutationSetLoadedMeetups = "setLoadedMeetups"
	MutationCreateMeetup     = "createMeetup"
	MutationUpdateMeetupData = "updateMeetupData"
	MutationSetUser          = "setUser"
	MutationSetLoading       = "setLoading"
	MutationSetAuthError     = "setAuthError"
	MutationClearAuthError   = "clearAuthError"
	MutationStartOperation   = "startOperation"
	MutationFinishOperation  = "finishOperation"
)

// Mutation describes one committed state transition.
type Mutation struct {
	Name    string
	Payload any
}

// SetLoadedMeetups replaces the meetup collection wholesale.
func (s *Store) SetLoadedMeetups(meetups []models.Meetup) {
	s.mu.Lock()
	s.meetups = slices.Clone(meetups)
	if s.meetups == nil {
		s.meetups = []models.Meetup{}
	}
	s.mu.Unlock()

	s.publish(MutationSetLoadedMeetups, slices.Clone(meetups))
}

// CreateMeetup appends one meetup. Id uniqueness is the caller's contract.
func (s *Store) CreateMeetup(m models.Meetup) {
	s.mu.Lock()
	s.meetups = append(s.meetups, m)
	s.mu.Unlock()

	s.publish(MutationCreateMeetup, m)
}

// UpdateMeetupData overwrites the set fields of p on the first meetup whose
// id equals p.ID. An unknown id leaves the snapshot unchanged.
func (s *Store) UpdateMeetupData(p models.MeetupPatch) {
	s.mu.Lock()
	if i := slices.IndexFunc(s.meetups, func(m models.Meetup) bool { return m.ID == p.ID }); i >= 0 {
		models.ApplyPatch(&s.meetups[i], p)
	}
	s.mu.Unlock()

	s.publish(MutationUpdateMeetupData, p)
}

// SetUser replaces the current user; nil means unauthenticated.
func (s *Store) SetUser(u *models.User) {
	s.mu.Lock()
	s.user = u.Clone()
	s.mu.Unlock()

	s.publish(MutationSetUser, u.Clone())
}

// SetLoading sets the manual busy flag. Operations registered with
// StartOperation keep Loading true regardless of this flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.manualLoading = loading
	s.mu.Unlock()

	s.publish(MutationSetLoading, loading)
}

func (s *Store) SetAuthError(err error) {
	s.mu.Lock()
	s.authError = err
	s.mu.Unlock()

	s.publish(MutationSetAuthError, err)
}

func (s *Store) ClearAuthError() {
	s.mu.Lock()
	s.authError = nil
	s.mu.Unlock()

	s.publish(MutationClearAuthError, nil)
}

// StartOperation registers op as in flight.
func (s *Store) StartOperation(op Operation) {
	s.mu.Lock()
	s.inFlight = append(s.inFlight, op)
	s.mu.Unlock()

	s.publish(MutationStartOperation, op)
}

// FinishOperation removes the operation with the given id. Unknown ids are
// ignored.
func (s *Store) FinishOperation(id string) {
	s.mu.Lock()
	s.inFlight = slices.DeleteFunc(s.inFlight, func(op Operation) bool { return op.ID == id })
	s.mu.Unlock()

	s.publish(MutationFinishOperation, id)
}
