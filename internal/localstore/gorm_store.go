package localstore

import (
	"errors"
	"fmt"
	"time"

	"school-attendance-api/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Record is a single key/value row in the local database.
type Record struct {
	Key       string `gorm:"column:record_key;primaryKey;size:256"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}

// TableName specifies the table name for Record
func (Record) TableName() string {
	return "local_records"
}

// GormStore persists records in a SQLite database through GORM.
type GormStore struct {
	db    *gorm.DB
	quota int64
}

// NewGormStore migrates the records table and returns a store bound to db.
// A quota of zero disables the size limit.
func NewGormStore(db *gorm.DB, quota int64) (*GormStore, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate local records: %w", err)
	}
	return &GormStore{db: db, quota: quota}, nil
}

// OpenFile opens the SQLite file at path as a local store.
func OpenFile(path string, quota int64) (*GormStore, error) {
	db, err := database.Open(path, logger.Warn)
	if err != nil {
		return nil, err
	}
	return NewGormStore(db, quota)
}

func (s *GormStore) Get(key string) ([]byte, error) {
	var rec Record
	err := s.db.Where("record_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

func (s *GormStore) Set(key string, value []byte) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if s.quota > 0 {
			var used int64
			if err := tx.Model(&Record{}).
				Where("record_key <> ?", key).
				Select("COALESCE(SUM(LENGTH(value)), 0)").
				Scan(&used).Error; err != nil {
				return err
			}
			if used+int64(len(value)) > s.quota {
				return ErrQuotaExceeded
			}
		}
		rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rec).Error
	})
}

func (s *GormStore) Delete(key string) error {
	return s.db.Where("record_key = ?", key).Delete(&Record{}).Error
}

func (s *GormStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Model(&Record{}).
		Where("substr(record_key, 1, ?) = ?", len(prefix), prefix).
		Pluck("record_key", &keys).Error
	return keys, err
}

var _ Store = (*GormStore)(nil)

// Close releases the underlying database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
