package store

import (
	"slices"

	"github.com/dmitrijs2005/meetups/internal/client/models"
	"github.com/dmitrijs2005/meetups/internal/common"
)

// LoadedMeetups returns all meetups ordered ascending by date. The sort is
// stable: meetups with equal dates keep their snapshot order.
func (s *Store) LoadedMeetups() []models.Meetup {
	s.mu.RLock()
	out := slices.Clone(s.meetups)
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Meetup) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// FeaturedMeetups returns the first five of LoadedMeetups, or all of them
// when there are fewer.
func (s *Store) FeaturedMeetups() []models.Meetup {
	all := s.LoadedMeetups()
	if len(all) > common.FeaturedMeetupsLimit {
		all = all[:common.FeaturedMeetupsLimit]
	}
	return all
}

// LoadedMeetup returns the first meetup with the given id.
func (s *Store) LoadedMeetup(id string) (models.Meetup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.meetups {
		if m.ID == id {
			return m, true
		}
	}
	return models.Meetup{}, false
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) AuthError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authError
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingLocked()
}

// LoadingFor reports whether an operation of the given kind is in flight.
func (s *Store) LoadingFor(kind OperationKind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.inFlight, func(op Operation) bool { return op.Kind == kind })
}

// InFlight returns the operations currently registered.
func (s *Store) InFlight() []Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.inFlight)
}
