package models

import (
	"time"
)

const (
	DefaultAssemblyTime = "07:00"
	DefaultEarlyMessage = "Welcome! You are on time."
	DefaultLateMessage  = "You are late today."
)

// Settings holds the school-wide kiosk configuration. There is a single row.
type Settings struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	SchoolName   string    `json:"schoolName"`
	AssemblyTime string    `json:"assemblyTime" gorm:"column:assembly_time;not null;default:'07:00'"`
	GracePeriod  int       `json:"gracePeriod" gorm:"column:grace_period;default:0"`
	EarlyMessage string    `json:"earlyMessage" gorm:"column:early_message"`
	LateMessage  string    `json:"lateMessage" gorm:"column:late_message"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Settings Model
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the settings used before an administrator saves any
func DefaultSettings() Settings {
	return Settings{
		ID:           1,
		AssemblyTime: DefaultAssemblyTime,
		EarlyMessage: DefaultEarlyMessage,
		LateMessage:  DefaultLateMessage,
	}
}
