package handlers

import (
	"errors"
	"log"
	"net/http"

	"school-attendance-api/internal/remote"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the central store to remote kiosks. The paths and
// bodies match what remote.HTTPStore expects.
type SyncHandler struct {
	Store remote.Store
	Clock Clock
}

// Roster handles GET /api/sync/roster
func (h *SyncHandler) Roster(c *gin.Context) {
	students, err := h.Store.FetchRoster(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roster"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// TodayAttendance handles GET /api/sync/attendance/today?date=
func (h *SyncHandler) TodayAttendance(c *gin.Context) {
	date, ok := dateParam(c.Query("date"), h.Clock)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	ids, err := h.Store.FetchTodayConfirmedIDs(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "studentIds": ids})
}

// Config handles GET /api/sync/config
func (h *SyncHandler) Config(c *gin.Context) {
	st, err := h.Store.FetchConfig(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// InsertAttendance handles POST /api/sync/attendance.
// 201 inserted, 409 already recorded for that student and date.
func (h *SyncHandler) InsertAttendance(c *gin.Context) {
	var row remote.Row
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := row.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Store.InsertAttendance(c.Request.Context(), row)
	switch {
	case errors.Is(err, remote.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Attendance already recorded"})
	case err != nil:
		log.Printf("[sync] insert %s for %s: %v", row.ID, row.StudentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
	default:
		c.JSON(http.StatusCreated, gin.H{"id": row.ID, "studentId": row.StudentID, "date": row.Date})
	}
}
