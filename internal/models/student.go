package models

import (
	"time"
)

// Student represents a student on the school roster
type Student struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	ClassName     string    `json:"className" gorm:"column:class_name;index"`
	Section       string    `json:"section"`
	GuardianPhone string    `json:"guardianPhone" gorm:"column:guardian_phone;index"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// TableName specifies the table name for Student Model
func (Student) TableName() string {
	return "students"
}
