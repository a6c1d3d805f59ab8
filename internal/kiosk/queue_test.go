package kiosk

import (
	"testing"

	"school-attendance-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestQueue_Compact(t *testing.T) {
	var q queue
	for i, id := range []string{"a", "b", "c", "d"} {
		q.append(QueuedEvent{ID: id, StudentID: id, Date: "2026-10-15", Synced: i != 1})
	}

	require.Equal(t, 2, q.compact(2))
	ids := []string{}
	for _, e := range q.events {
		ids = append(ids, e.ID)
	}
	require.Equal(t, []string{"b", "d"}, ids)

	// the unsynced event is kept even when the bound is zero
	require.Equal(t, 1, q.dropSynced())
	require.Len(t, q.events, 1)
	require.Equal(t, 1, q.pending())
}

func TestQueue_Lookups(t *testing.T) {
	var q queue
	q.append(QueuedEvent{ID: "1", StudentID: "S1", Date: "2026-10-14", Status: models.StatusLate, MinutesLate: 4, Synced: true})
	q.append(QueuedEvent{ID: "2", StudentID: "S1", Date: "2026-10-15", Status: models.StatusLate, MinutesLate: 2})
	q.append(QueuedEvent{ID: "3", StudentID: "S2", Date: "2026-10-15", Status: models.StatusPresent})

	require.True(t, q.hasUnsynced("S1", "2026-10-15"))
	require.False(t, q.hasUnsynced("S1", "2026-10-14"))
	require.ElementsMatch(t, []string{"S1", "S2"}, q.studentIDsOn("2026-10-15"))

	count, minutes := q.lateness("S1")
	require.Equal(t, 2, count)
	require.Equal(t, 6, minutes)

	require.True(t, q.markSynced("2"))
	require.False(t, q.markSynced("missing"))
	require.Len(t, q.unsynced(), 1)
}
