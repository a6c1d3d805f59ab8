package kiosk

import (
	"errors"
	"time"

	"school-attendance-api/internal/models"
	"school-attendance-api/internal/remote"
)

var (
	// ErrUnknownStudent means the id is not in the roster snapshot. The roster may be stale.
	ErrUnknownStudent = errors.New("student not found")

	// ErrAlreadyCheckedIn means the student already has a check-in for today.
	ErrAlreadyCheckedIn = errors.New("already checked in")
)

// SyncStatus is the aggregate reconciliation state shown to the kiosk UI.
type SyncStatus string

const (
	StatusOnline  SyncStatus = "online"
	StatusOffline SyncStatus = "offline"
	StatusSyncing SyncStatus = "syncing"
)

// RosterRecord is the local copy of a student.
type RosterRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ClassName     string `json:"className"`
	Section       string `json:"section"`
	GuardianPhone string `json:"guardianPhone,omitempty"`
}

func rosterRecordFrom(s models.Student) RosterRecord {
	return RosterRecord{
		ID:            s.ID,
		Name:          s.Name,
		ClassName:     s.ClassName,
		Section:       s.Section,
		GuardianPhone: s.GuardianPhone,
	}
}

// TodayAttendanceSet holds the students already recorded for Date.
type TodayAttendanceSet struct {
	Date       string   `json:"date"`
	StudentIDs []string `json:"studentIds"`
}

// Settings is the local copy of the remote kiosk configuration.
type Settings struct {
	AssemblyTime string `json:"assemblyTime"` // "HH:MM"
	GracePeriod  int    `json:"gracePeriod"`  // minutes
	EarlyMessage string `json:"earlyMessage"`
	LateMessage  string `json:"lateMessage"`
}

func settingsFrom(st models.Settings) Settings {
	return Settings{
		AssemblyTime: st.AssemblyTime,
		GracePeriod:  st.GracePeriod,
		EarlyMessage: st.EarlyMessage,
		LateMessage:  st.LateMessage,
	}
}

// QueuedEvent is an attendance check-in recorded locally and not yet
// known to be confirmed by the remote store.
type QueuedEvent struct {
	ID          string                  `json:"id"`
	StudentID   string                  `json:"studentId"`
	Date        string                  `json:"date"`
	Timestamp   time.Time               `json:"timestamp"`
	Status      models.AttendanceStatus `json:"status"`
	MinutesLate int                     `json:"minutesLate"`
	Synced      bool                    `json:"synced"`
}

func (e QueuedEvent) row() remote.Row {
	return remote.Row{
		ID:          e.ID,
		StudentID:   e.StudentID,
		Date:        e.Date,
		Timestamp:   e.Timestamp,
		Status:      e.Status,
		MinutesLate: e.MinutesLate,
	}
}

// CheckInStats approximates a student's lateness history from the local queue only.
type CheckInStats struct {
	LateCount    int `json:"lateCount"`
	TodayMinutes int `json:"todayMinutes"`
	TotalMinutes int `json:"totalMinutes"`
}

// Result is returned to the kiosk UI for every check-in attempt.
type Result struct {
	Success     bool                    `json:"success"`
	Message     string                  `json:"message"`
	Student     *RosterRecord           `json:"student,omitempty"`
	Status      models.AttendanceStatus `json:"status,omitempty"`
	MinutesLate int                     `json:"minutesLate"`
	Stats       *CheckInStats           `json:"stats,omitempty"`
}
