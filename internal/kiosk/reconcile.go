package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"school-attendance-api/internal/remote"
)

// Run reconciles the queue every SyncInterval until ctx is cancelled.
// A tick that finds a pass still in flight is skipped.
func (s *Service) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !s.passMu.TryLock() {
				continue
			}
			_ = s.syncPass(ctx)
			s.passMu.Unlock()
		}
	}
}

// SyncOnce runs a single reconciliation pass, waiting for any pass in flight.
func (s *Service) SyncOnce(ctx context.Context) error {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	return s.syncPass(ctx)
}

// ForceSyncNow reconciles immediately and, when every event was accepted,
// preloads to pick up attendance recorded by other kiosks.
func (s *Service) ForceSyncNow(ctx context.Context) error {
	if err := s.SyncOnce(ctx); err != nil {
		return err
	}
	return s.Preload(ctx)
}

// syncPass sends unsynced events in FIFO order and stops at the first
// retryable failure. Events queued while the pass runs are sent before it
// returns. Callers must hold passMu.
func (s *Service) syncPass(ctx context.Context) error {
	s.mu.Lock()
	pending := s.queue.unsynced()
	s.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	s.status.SetStatus(StatusSyncing)
	for len(pending) > 0 {
		for _, ev := range pending {
			if err := ctx.Err(); err != nil {
				s.status.SetStatus(StatusOffline)
				return err
			}
			err := s.remote.InsertAttendance(ctx, ev.row())
			if err != nil && !errors.Is(err, remote.ErrDuplicateKey) {
				log.Printf("[sync] event %s for %s not accepted, retrying next pass: %v", ev.ID, ev.StudentID, err)
				s.status.SetStatus(StatusOffline)
				return fmt.Errorf("sync event %s: %w", ev.ID, err)
			}
			if err != nil {
				log.Printf("[sync] event %s for %s already recorded remotely", ev.ID, ev.StudentID)
			}
			s.markSynced(ev.ID)
		}

		s.mu.Lock()
		s.queue.compact(s.retain)
		s.persistQueueLocked()
		pending = s.queue.unsynced()
		s.mu.Unlock()
	}

	s.status.SetStatus(StatusOnline)
	return nil
}

func (s *Service) markSynced(id string) {
	s.mu.Lock()
	s.queue.markSynced(id)
	s.persistQueueLocked()
	n := s.queue.pending()
	s.mu.Unlock()
	s.status.SetPending(n)
}
