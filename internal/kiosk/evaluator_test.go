package kiosk

import (
	"testing"
	"time"

	"school-attendance-api/internal/models"

	"github.com/stretchr/testify/require"
)

func clockAt(hhmmss string) time.Time {
	t, _ := time.Parse("15:04:05", hhmmss)
	return time.Date(2026, 10, 15, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func TestEvaluate(t *testing.T) {
	st := Settings{AssemblyTime: "07:00", GracePeriod: 15}
	cases := []struct {
		name    string
		at      time.Time
		status  models.AttendanceStatus
		minutes int
	}{
		{"before assembly", clockAt("06:45:00"), models.StatusPresent, 0},
		{"at cutoff", clockAt("07:15:00"), models.StatusPresent, 0},
		{"inside cutoff minute", clockAt("07:15:59"), models.StatusPresent, 0},
		{"one minute past cutoff", clockAt("07:16:00"), models.StatusLate, 1},
		{"well past cutoff", clockAt("08:00:30"), models.StatusLate, 45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, minutes := Evaluate(tc.at, st)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.minutes, minutes)
		})
	}
}

func TestEvaluate_Defaults(t *testing.T) {
	// unset or malformed assembly time falls back to 07:00, grace to 0
	status, minutes := Evaluate(clockAt("07:01:00"), Settings{AssemblyTime: "soon"})
	require.Equal(t, models.StatusLate, status)
	require.Equal(t, 1, minutes)

	status, _ = Evaluate(clockAt("07:00:00"), Settings{GracePeriod: -5})
	require.Equal(t, models.StatusPresent, status)

	status, minutes = Evaluate(clockAt("07:45:00"), Settings{AssemblyTime: "07:30:00", GracePeriod: 10})
	require.Equal(t, models.StatusLate, status)
	require.Equal(t, 5, minutes)
}
