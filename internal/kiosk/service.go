package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"school-attendance-api/internal/localstore"
	"school-attendance-api/internal/models"
	"school-attendance-api/internal/remote"

	"github.com/google/uuid"
)

// Options configures a Service.
type Options struct {
	Remote  remote.Store
	Storage localstore.Store

	// Location defines the local calendar day. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time

	// SyncInterval is the reconciliation period. Defaults to five seconds.
	SyncInterval time.Duration
	// QueueRetain bounds the local audit trail. Defaults to DefaultQueueRetain.
	QueueRetain int
}

// Service is the offline-first attendance core used by a kiosk: check-ins are
// decided and recorded locally, then reconciled with the remote store in the background.
type Service struct {
	remote   remote.Store
	storage  localstore.Store
	loc      *time.Location
	now      func() time.Time
	interval time.Duration
	retain   int

	mu    sync.Mutex // guards snap and queue
	snap  *snapshot
	queue queue

	passMu sync.Mutex // single reconciliation pass at a time
	status *StatusPublisher
}

// New restores any persisted snapshot and queue from storage.
func New(opts Options) (*Service, error) {
	if opts.Remote == nil {
		return nil, errors.New("kiosk: remote store is required")
	}
	if opts.Storage == nil {
		return nil, errors.New("kiosk: local storage is required")
	}
	s := &Service{
		remote:   opts.Remote,
		storage:  opts.Storage,
		loc:      opts.Location,
		now:      opts.Now,
		interval: opts.SyncInterval,
		retain:   opts.QueueRetain,
		snap:     newSnapshot(),
		status:   NewStatusPublisher(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.interval <= 0 {
		s.interval = 5 * time.Second
	}
	if s.retain <= 0 {
		s.retain = DefaultQueueRetain
	}

	load(s.storage, s.snap, &s.queue)
	s.status.SetPending(s.queue.pending())
	return s, nil
}

func (s *Service) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) today() string {
	return s.localNow().Format(time.DateOnly)
}

// CheckIn admits a student for today without touching the network.
// Rejections return ErrUnknownStudent or ErrAlreadyCheckedIn together with a
// Result carrying the message to display.
func (s *Service) CheckIn(studentID string) (Result, error) {
	res, pending, err := s.admit(strings.TrimSpace(studentID), s.localNow())
	if err != nil {
		return res, err
	}
	s.status.SetPending(pending)
	return res, nil
}

func (s *Service) admit(studentID string, at time.Time) (Result, int, error) {
	date := at.Format(time.DateOnly)

	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.snap.roster[studentID]
	if !ok {
		return Result{Message: ErrUnknownStudent.Error()}, 0, ErrUnknownStudent
	}

	if s.snap.today.Date != date {
		s.snap.resetToday(date, nil)
		if err := saveToday(s.storage, s.snap); err != nil {
			log.Printf("[kiosk] %v", err)
		}
	}

	// The today-set only changes on preload; the queue covers check-ins since then.
	if s.snap.checkedInToday(studentID) || s.queue.hasUnsynced(studentID, date) {
		return Result{Message: ErrAlreadyCheckedIn.Error(), Student: &student}, 0, ErrAlreadyCheckedIn
	}

	status, minutesLate := Evaluate(at, s.snap.settings)
	ev := QueuedEvent{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		Date:        date,
		Timestamp:   at,
		Status:      status,
		MinutesLate: minutesLate,
	}
	s.queue.append(ev)
	s.snap.addToday(studentID)
	s.persistQueueLocked()
	if err := saveToday(s.storage, s.snap); err != nil {
		log.Printf("[kiosk] %v", err)
	}

	lateCount, totalMinutes := s.queue.lateness(studentID)
	return Result{
		Success:     true,
		Message:     s.message(status),
		Student:     &student,
		Status:      status,
		MinutesLate: minutesLate,
		Stats: &CheckInStats{
			LateCount:    lateCount,
			TodayMinutes: minutesLate,
			TotalMinutes: totalMinutes,
		},
	}, s.queue.pending(), nil
}

func (s *Service) message(status models.AttendanceStatus) string {
	st := s.snap.settings
	if status == models.StatusLate {
		if st.LateMessage != "" {
			return st.LateMessage
		}
		return models.DefaultLateMessage
	}
	if st.EarlyMessage != "" {
		return st.EarlyMessage
	}
	return models.DefaultEarlyMessage
}

// persistQueueLocked writes the queue. When storage refuses the write, synced
// events are dropped and the write retried once; the in-memory queue stays
// authoritative either way.
func (s *Service) persistQueueLocked() {
	err := writeJSON(s.storage, keyQueue, s.queue.events)
	if err == nil {
		return
	}
	log.Printf("[kiosk] save queue: %v", err)
	if n := s.queue.dropSynced(); n > 0 {
		if err := writeJSON(s.storage, keyQueue, s.queue.events); err != nil {
			log.Printf("[kiosk] save queue after dropping %d synced events: %v", n, err)
		}
	}
}

// Preload refreshes the roster, today's confirmed ids and the settings from
// the remote store into the local snapshot. On failure the previous
// snapshot stays in force and the error is returned for logging.
func (s *Service) Preload(ctx context.Context) error {
	date := s.today()

	students, err := s.remote.FetchRoster(ctx)
	if err != nil {
		return fmt.Errorf("preload roster: %w", err)
	}
	ids, err := s.remote.FetchTodayConfirmedIDs(ctx, date)
	if err != nil {
		return fmt.Errorf("preload today attendance: %w", err)
	}
	cfg, err := s.remote.FetchConfig(ctx)
	if err != nil {
		return fmt.Errorf("preload settings: %w", err)
	}

	roster := make([]RosterRecord, 0, len(students))
	for _, st := range students {
		roster = append(roster, rosterRecordFrom(st))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.setRoster(roster)
	// The today-set only grows within a day. A pass running since the remote
	// read may have confirmed and compacted events the fetched ids miss.
	ids = append(ids, s.queue.studentIDsOn(date)...)
	if s.snap.today.Date == date {
		s.snap.mergeToday(ids)
	} else {
		s.snap.resetToday(date, ids)
	}
	s.snap.settings = settingsFrom(cfg)
	if err := saveSnapshot(s.storage, s.snap); err != nil {
		log.Printf("[kiosk] %v", err)
	}
	log.Printf("[kiosk] preloaded %d students, %d already checked in on %s", len(roster), len(s.snap.today.StudentIDs), date)
	return nil
}

// SyncStatus returns the current aggregate reconciliation state.
func (s *Service) SyncStatus() SyncStatus {
	return s.status.Current().Status
}

// PendingCount returns the number of events not yet confirmed remotely.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.pending()
}

// OnSyncStatusChange registers cb for status transitions and returns its unsubscribe function.
func (s *Service) OnSyncStatusChange(cb func(SyncStatus)) func() {
	return s.status.OnStatusChange(cb)
}

// OnStatusEvent registers cb for any status or pending-count change.
func (s *Service) OnStatusEvent(cb func(StatusEvent)) func() {
	return s.status.OnEvent(cb)
}

// Status returns the current status and pending count together.
func (s *Service) Status() StatusEvent {
	return StatusEvent{Status: s.SyncStatus(), Pending: s.PendingCount()}
}

// Queue returns a copy of the local queue, oldest first.
func (s *Service) Queue() []QueuedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.snapshot()
}

// Settings returns the cached kiosk settings.
func (s *Service) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.settings
}

// RosterSize returns the number of students in the local snapshot.
func (s *Service) RosterSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snap.roster)
}
