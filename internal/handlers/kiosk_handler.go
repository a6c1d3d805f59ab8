package handlers

import (
	"errors"
	"log"
	"net/http"

	"school-attendance-api/internal/kiosk"
	"school-attendance-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// CheckInRequest represents the request payload for a kiosk check-in
type CheckInRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

const eventSyncStatus = "sync_status"

type KioskHandler struct {
	Service *kiosk.Service
}

// NewKioskHandler also forwards every status change of svc to hub subscribers.
func NewKioskHandler(svc *kiosk.Service, hub *realtime.Hub) *KioskHandler {
	if hub != nil {
		svc.OnStatusEvent(func(e kiosk.StatusEvent) {
			if _, err := hub.Publish(realtime.TopicKioskStatus, eventSyncStatus, e); err != nil {
				log.Printf("[kiosk] publish status: %v", err)
			}
		})
	}
	return &KioskHandler{Service: svc}
}

// SendStatus pushes the current status to a newly connected websocket client.
func (h *KioskHandler) SendStatus(client realtime.Client) {
	raw, err := realtime.Encode(eventSyncStatus, h.Service.Status())
	if err != nil {
		return
	}
	client.Send(raw)
}

// CheckIn handles POST /api/kiosk/checkin
func (h *KioskHandler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId is required"})
		return
	}

	res, err := h.Service.CheckIn(req.StudentID)
	switch {
	case errors.Is(err, kiosk.ErrUnknownStudent):
		c.JSON(http.StatusNotFound, res)
	case errors.Is(err, kiosk.ErrAlreadyCheckedIn):
		c.JSON(http.StatusConflict, res)
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, res)
	}
}

// Status handles GET /api/kiosk/status
func (h *KioskHandler) Status(c *gin.Context) {
	st := h.Service.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":     st.Status,
		"pending":    st.Pending,
		"rosterSize": h.Service.RosterSize(),
	})
}

// Preload handles POST /api/kiosk/preload
func (h *KioskHandler) Preload(c *gin.Context) {
	if err := h.Service.Preload(c.Request.Context()); err != nil {
		log.Printf("[kiosk] %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Preload failed, keeping previous snapshot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preload complete", "rosterSize": h.Service.RosterSize()})
}

// Sync handles POST /api/kiosk/sync: reconcile now, then preload.
func (h *KioskHandler) Sync(c *gin.Context) {
	err := h.Service.ForceSyncNow(c.Request.Context())
	st := h.Service.Status()
	if err != nil {
		log.Printf("[kiosk] %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Sync incomplete", "status": st.Status, "pending": st.Pending})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st.Status, "pending": st.Pending})
}

// Queue handles GET /api/kiosk/queue
func (h *KioskHandler) Queue(c *gin.Context) {
	q := h.Service.Queue()
	c.JSON(http.StatusOK, gin.H{"events": q, "count": len(q)})
}
