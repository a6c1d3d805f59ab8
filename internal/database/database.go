package database

import (
	"errors"
	"fmt"
	"log"

	"school-attendance-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens (creating if needed) a SQLite database file.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
func Open(path string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// SQLite allows a single writer; one connection also keeps ":memory:" databases coherent
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return db, nil
}

// Migrate creates or updates the system-of-record tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.AttendanceRecord{},
		&models.Settings{},
	)
}

// OpenCentral opens and migrates the central attendance database
func OpenCentral(path string) (*gorm.DB, error) {
	db, err := Open(path, logger.Warn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Println("Database connected and migrated successfully")
	return db, nil
}

// EnsureAdmin creates the bootstrap administrator if no user with that name exists.
// passwordHash must already be hashed.
func EnsureAdmin(db *gorm.DB, id, username, passwordHash string) (bool, error) {
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	admin := models.User{
		ID:       id,
		Username: username,
		Name:     "Administrator",
		Password: passwordHash,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
