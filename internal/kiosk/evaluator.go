package kiosk

import (
	"time"

	"school-attendance-api/internal/models"
)

// assemblyMinutes parses "HH:MM" (or "HH:MM:SS") into minutes after midnight,
// falling back to the default assembly time.
func assemblyMinutes(hhmm string) int {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, hhmm); err == nil {
			return t.Hour()*60 + t.Minute()
		}
	}
	t, _ := time.Parse("15:04", models.DefaultAssemblyTime)
	return t.Hour()*60 + t.Minute()
}

// Evaluate decides whether a check-in at the given wall-clock time is late.
// The cutoff is assembly time plus grace period, compared at minute
// resolution: arriving during the cutoff minute is on time.
func Evaluate(at time.Time, st Settings) (models.AttendanceStatus, int) {
	grace := st.GracePeriod
	if grace < 0 {
		grace = 0
	}
	cutoff := assemblyMinutes(st.AssemblyTime) + grace
	arrived := at.Hour()*60 + at.Minute()
	if arrived > cutoff {
		return models.StatusLate, arrived - cutoff
	}
	return models.StatusPresent, 0
}
