package handlers

import (
	"net/http"
	"testing"

	"school-attendance-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSettings_GetAndUpdate(t *testing.T) {
	db := newTestDB(t)
	caches := NewCaches(nil)
	h := &SettingsHandler{DB: db, Caches: caches}
	r := gin.New()
	r.GET("/api/settings", h.GetSettings)
	r.PUT("/api/settings", h.UpdateSettings)

	w := doJSON(t, r, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[models.Settings](t, w)
	require.Equal(t, models.DefaultAssemblyTime, st.AssemblyTime)
	require.Equal(t, models.DefaultLateMessage, st.LateMessage)
	require.True(t, caches.Settings.Has(settingsKey))

	w = doJSON(t, r, http.MethodPut, "/api/settings", map[string]any{"assemblyTime": "07:30", "gracePeriod": 10, "schoolName": "Hillside"})
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, caches.Settings.Has(settingsKey))

	w = doJSON(t, r, http.MethodGet, "/api/settings", nil)
	st = decode[models.Settings](t, w)
	require.Equal(t, "07:30", st.AssemblyTime)
	require.Equal(t, 10, st.GracePeriod)
	require.Equal(t, "Hillside", st.SchoolName)
	require.Equal(t, models.DefaultEarlyMessage, st.EarlyMessage)
}

func TestSettings_Validation(t *testing.T) {
	db := newTestDB(t)
	h := &SettingsHandler{DB: db, Caches: NewCaches(nil)}
	r := gin.New()
	r.PUT("/api/settings", h.UpdateSettings)

	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPut, "/api/settings", map[string]any{"assemblyTime": "7am"}).Code)
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodPut, "/api/settings", map[string]any{"gracePeriod": -1}).Code)
}
