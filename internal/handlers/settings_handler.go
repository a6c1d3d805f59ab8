package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"school-attendance-api/internal/models"
	"school-attendance-api/internal/remote"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateSettingsRequest represents the request payload for updating settings
type UpdateSettingsRequest struct {
	SchoolName   *string `json:"schoolName"`
	AssemblyTime *string `json:"assemblyTime"`
	GracePeriod  *int    `json:"gracePeriod"`
	EarlyMessage *string `json:"earlyMessage"`
	LateMessage  *string `json:"lateMessage"`
}

type SettingsHandler struct {
	DB     *gorm.DB
	Caches *Caches
}

func (h *SettingsHandler) load(ctx context.Context) (models.Settings, error) {
	return h.Caches.Settings.GetOrSet(ctx, settingsKey, func(ctx context.Context) (models.Settings, error) {
		return remote.LoadSettings(h.DB.WithContext(ctx))
	}, 0)
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	st, err := h.load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateSettings handles PUT /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := remote.LoadSettings(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	if req.SchoolName != nil {
		st.SchoolName = strings.TrimSpace(*req.SchoolName)
	}
	if req.AssemblyTime != nil {
		v := strings.TrimSpace(*req.AssemblyTime)
		if _, err := time.Parse("15:04", v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "assemblyTime must be HH:MM"})
			return
		}
		st.AssemblyTime = v
	}
	if req.GracePeriod != nil {
		if *req.GracePeriod < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gracePeriod must not be negative"})
			return
		}
		st.GracePeriod = *req.GracePeriod
	}
	if req.EarlyMessage != nil {
		st.EarlyMessage = *req.EarlyMessage
	}
	if req.LateMessage != nil {
		st.LateMessage = *req.LateMessage
	}

	if err := remote.SaveSettings(h.DB, st); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	h.Caches.Settings.Delete(settingsKey)

	saved, err := remote.LoadSettings(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, saved)
}
