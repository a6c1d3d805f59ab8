package models

import (
	"time"
)

// Role represents what a user may do
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleKiosk      Role = "kiosk"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleKiosk:
		return true
	}
	return false
}

// User represents a staff member or kiosk device account
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"unique;not null"`
	Name      string    `json:"name"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"not null;default:'supervisor'"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
