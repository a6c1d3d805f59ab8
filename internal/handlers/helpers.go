package handlers

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Clock resolves "today" for handlers that default to the current school day.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func (c Clock) Today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc).Format(time.DateOnly)
}

// dateParam returns the date query parameter, defaulting to today.
func dateParam(raw string, clock Clock) (string, bool) {
	if raw == "" {
		return clock.Today(), true
	}
	if _, err := time.Parse(time.DateOnly, raw); err != nil {
		return "", false
	}
	return raw, true
}
