package handlers

import (
	"context"
	"math"
	"net/http"

	"school-attendance-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsHandler struct {
	DB     *gorm.DB
	Caches *Caches
	Clock  Clock
}

// GetDashboardStats handles GET /api/stats/dashboard?date= (default today)
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	date, ok := dateParam(c.Query("date"), h.Clock)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	stats, err := h.Caches.Stats.GetOrSet(c.Request.Context(), statsKeyPrefix+date, func(ctx context.Context) (models.DashboardStats, error) {
		return dashboardStats(h.DB.WithContext(ctx), date)
	}, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func dashboardStats(db *gorm.DB, date string) (models.DashboardStats, error) {
	stats := models.DashboardStats{Date: date}
	if err := db.Model(&models.Student{}).Count(&stats.TotalStudents).Error; err != nil {
		return stats, err
	}

	var rows []struct {
		Status models.AttendanceStatus
		N      int64
	}
	err := db.Model(&models.AttendanceRecord{}).
		Select("status, COUNT(*) AS n").
		Where("date = ?", date).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}
	for _, r := range rows {
		switch r.Status {
		case models.StatusPresent:
			stats.PresentCount = r.N
		case models.StatusLate:
			stats.LateCount = r.N
		}
	}

	// Records of since-deleted students can push attended above the roster size.
	attended := stats.PresentCount + stats.LateCount
	stats.AbsentCount = max(stats.TotalStudents-attended, 0)
	if stats.TotalStudents > 0 {
		rate := float64(min(attended, stats.TotalStudents)) * 100 / float64(stats.TotalStudents)
		stats.AttendanceRate = int(math.Round(rate))
	}
	return stats, nil
}
