package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"school-attendance-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements Store directly on the central database.
type GormStore struct {
	db *gorm.DB

	// OnInsert, if set, is called after every newly inserted row.
	OnInsert func(models.AttendanceRecord)
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FetchRoster(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.db.WithContext(ctx).Order("id").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *GormStore) FetchTodayConfirmedIDs(ctx context.Context, date string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("date = ?", date).
		Pluck("student_id", &ids).Error
	return ids, err
}

func (s *GormStore) FetchConfig(ctx context.Context) (models.Settings, error) {
	return LoadSettings(s.db.WithContext(ctx))
}

func (s *GormStore) InsertAttendance(ctx context.Context, row Row) error {
	if err := row.Validate(); err != nil {
		return fmt.Errorf("invalid attendance row: %w", err)
	}
	id := row.ID
	if id == "" {
		id = uuid.NewString()
	}
	rec := models.AttendanceRecord{
		ID:          id,
		StudentID:   row.StudentID,
		Date:        row.Date,
		Timestamp:   row.Timestamp,
		Status:      row.Status,
		MinutesLate: row.MinutesLate,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if s.OnInsert != nil {
		s.OnInsert(rec)
	}
	return nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// LoadSettings returns the saved settings row, or defaults when none was saved.
// Blank fields are filled from the defaults.
func LoadSettings(db *gorm.DB) (models.Settings, error) {
	var st models.Settings
	err := db.First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	def := models.DefaultSettings()
	if st.AssemblyTime == "" {
		st.AssemblyTime = def.AssemblyTime
	}
	if st.EarlyMessage == "" {
		st.EarlyMessage = def.EarlyMessage
	}
	if st.LateMessage == "" {
		st.LateMessage = def.LateMessage
	}
	return st, nil
}

// SaveSettings upserts the single settings row.
func SaveSettings(db *gorm.DB, st models.Settings) error {
	st.ID = 1
	return db.Save(&st).Error
}

var _ Store = (*GormStore)(nil)
