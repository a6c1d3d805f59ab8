package models

import (
	"time"
)

// AttendanceStatus represents how a student arrived
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
)

// Valid reports whether s is a known status
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusLate
}

// AttendanceRecord represents one confirmed check-in. A student has at most
// one record per date, enforced by a unique index.
type AttendanceRecord struct {
	ID          string           `json:"id" gorm:"primaryKey"`
	StudentID   string           `json:"studentId" gorm:"column:student_id;not null;uniqueIndex:idx_attendance_student_date"`
	Date        string           `json:"date" gorm:"not null;uniqueIndex:idx_attendance_student_date;index"`
	Timestamp   time.Time        `json:"timestamp" gorm:"not null"`
	Status      AttendanceStatus `json:"status" gorm:"not null"`
	MinutesLate int              `json:"minutesLate" gorm:"column:minutes_late;default:0"`
	CreatedAt   time.Time        `json:"-"`
}

// TableName specifies the table name for AttendanceRecord Model
func (AttendanceRecord) TableName() string {
	return "attendance_logs"
}

// DashboardStats summarises attendance for a single day
type DashboardStats struct {
	Date           string `json:"date"`
	TotalStudents  int64  `json:"totalStudents"`
	PresentCount   int64  `json:"presentCount"`
	LateCount      int64  `json:"lateCount"`
	AbsentCount    int64  `json:"absentCount"`
	AttendanceRate int    `json:"attendanceRate"`
}
