package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"school-attendance-api/internal/models"
)

// ErrDuplicateKey means the store already holds a row for the same student and date
// (or the same row id). Callers treat it as a successful reconciliation.
var ErrDuplicateKey = errors.New("remote: duplicate attendance row")

// Store is the system of record the kiosk reconciles against.
// Any error from InsertAttendance other than ErrDuplicateKey is retryable.
type Store interface {
	FetchRoster(ctx context.Context) ([]models.Student, error)
	FetchTodayConfirmedIDs(ctx context.Context, date string) ([]string, error)
	FetchConfig(ctx context.Context) (models.Settings, error)
	InsertAttendance(ctx context.Context, row Row) error
}

// Row is one attendance insert as sent to the store.
type Row struct {
	ID          string                  `json:"id"`
	StudentID   string                  `json:"studentId"`
	Date        string                  `json:"date"`
	Timestamp   time.Time               `json:"timestamp"`
	Status      models.AttendanceStatus `json:"status"`
	MinutesLate int                     `json:"minutesLate"`
}

// Validate checks the row before it crosses the store boundary.
func (r Row) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return errors.New("studentId is required")
	}
	if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		return fmt.Errorf("invalid date %q", r.Date)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	if r.MinutesLate < 0 {
		return errors.New("minutesLate must not be negative")
	}
	if r.Status == models.StatusPresent && r.MinutesLate != 0 {
		return errors.New("minutesLate must be zero when present")
	}
	return nil
}
