// Package remotetest provides a programmable in-memory remote.Store for tests.
package remotetest

import (
	"context"
	"errors"
	"sync"

	"school-attendance-api/internal/models"
	"school-attendance-api/internal/remote"
)

// ErrUnavailable simulates a network or server failure.
var ErrUnavailable = errors.New("remotetest: store unavailable")

// Store is a fake system of record. The zero value is not usable; call New.
type Store struct {
	mu       sync.Mutex
	roster   []models.Student
	settings models.Settings
	rows     map[string]remote.Row // studentID|date -> row
	order    []string

	// Down makes every call fail with ErrUnavailable.
	Down bool
	// FailAfter, when positive, lets that many inserts succeed and fails the rest.
	FailAfter int
	// Block, if set, is received from before each insert returns.
	Block chan struct{}

	Inserts   int
	Conflicts int
}

func New(roster ...models.Student) *Store {
	return &Store{
		roster:   roster,
		settings: models.DefaultSettings(),
		rows:     make(map[string]remote.Row),
	}
}

func (s *Store) SetSettings(st models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = st
}

func (s *Store) SetRoster(roster ...models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = roster
}

func (s *Store) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Down = down
}

// Seed records a row as if another kiosk had already inserted it.
func (s *Store) Seed(row remote.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := row.StudentID + "|" + row.Date
	s.rows[k] = row
	s.order = append(s.order, k)
}

// Rows returns accepted rows in insertion order.
func (s *Store) Rows() []remote.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]remote.Row, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.rows[k])
	}
	return out
}

func (s *Store) FetchRoster(context.Context) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Down {
		return nil, ErrUnavailable
	}
	return append([]models.Student(nil), s.roster...), nil
}

func (s *Store) FetchTodayConfirmedIDs(_ context.Context, date string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Down {
		return nil, ErrUnavailable
	}
	ids := []string{}
	for _, k := range s.order {
		if r := s.rows[k]; r.Date == date {
			ids = append(ids, r.StudentID)
		}
	}
	return ids, nil
}

func (s *Store) FetchConfig(context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Down {
		return models.Settings{}, ErrUnavailable
	}
	return s.settings, nil
}

func (s *Store) InsertAttendance(ctx context.Context, row remote.Row) error {
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Down {
		return ErrUnavailable
	}
	if s.FailAfter > 0 && s.Inserts >= s.FailAfter {
		return ErrUnavailable
	}
	if err := row.Validate(); err != nil {
		return err
	}
	k := row.StudentID + "|" + row.Date
	if _, ok := s.rows[k]; ok {
		s.Conflicts++
		return remote.ErrDuplicateKey
	}
	s.rows[k] = row
	s.order = append(s.order, k)
	s.Inserts++
	return nil
}

var _ remote.Store = (*Store)(nil)
