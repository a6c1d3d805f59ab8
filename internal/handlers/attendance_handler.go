package handlers

import (
	"errors"
	"log"
	"net/http"

	"school-attendance-api/internal/models"
	"school-attendance-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AttendanceHandler struct {
	DB    *gorm.DB
	Clock Clock
}

// GetAttendanceByDate handles GET /api/attendance?date=YYYY-MM-DD (default today)
func (h *AttendanceHandler) GetAttendanceByDate(c *gin.Context) {
	date, ok := dateParam(c.Query("date"), h.Clock)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	records := []models.AttendanceRecord{}
	if err := h.DB.Where("date = ?", date).Order("timestamp").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       date,
		"attendance": records,
		"count":      len(records),
	})
}

// GetStudentAttendance handles GET /api/students/:id/attendance
func (h *AttendanceHandler) GetStudentAttendance(c *gin.Context) {
	studentID := c.Param("id")
	var student models.Student
	if err := h.DB.Where("id = ?", studentID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch student"})
		}
		return
	}

	records := []models.AttendanceRecord{}
	if err := h.DB.Where("student_id = ?", studentID).Order("date desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	lateCount, totalMinutes := 0, 0
	for _, r := range records {
		if r.Status == models.StatusLate {
			lateCount++
			totalMinutes += r.MinutesLate
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"student":          student,
		"attendance":       records,
		"count":            len(records),
		"lateCount":        lateCount,
		"totalMinutesLate": totalMinutes,
	})
}

// AttendanceFeed returns a callback for newly recorded attendance: it drops
// the cached dashboard numbers and notifies dashboard websocket clients.
func AttendanceFeed(hub *realtime.Hub, caches *Caches) func(models.AttendanceRecord) {
	return func(rec models.AttendanceRecord) {
		caches.Stats.InvalidatePattern(statsKeyPrefix + rec.Date)
		if _, err := hub.Publish(realtime.TopicAttendance, "attendance_recorded", rec); err != nil {
			log.Printf("[sync] publish attendance: %v", err)
		}
	}
}
