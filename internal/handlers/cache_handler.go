package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheStatsHandler handles GET /api/cache/stats
func CacheStatsHandler(caches *Caches) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caches": caches.AllStats()})
	}
}
