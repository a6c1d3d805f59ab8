package handlers

import (
	"net/http"
	"testing"

	"school-attendance-api/internal/auth"
	"school-attendance-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGetAllUsers(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "u-1", Username: "alice", Password: "x", Role: models.RoleAdmin}).Error)
	require.NoError(t, db.Create(&models.User{ID: "u-2", Username: "bob", Password: "x", Role: models.RoleKiosk}).Error)

	h := &UserHandler{DB: db}
	r := gin.New()
	r.GET("/api/users", h.GetAllUsers)

	w := doJSON(t, r, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "password")
	resp := decode[struct {
		Users []UserResponse `json:"users"`
		Count int            `json:"count"`
	}](t, w)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "alice", resp.Users[0].Username)
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	h := &UserHandler{DB: db}
	r := gin.New()
	r.POST("/api/users", h.CreateUser)

	body := map[string]string{"username": "gate-1", "password": "kiosk-pass", "role": "kiosk"}
	w := doJSON(t, r, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var stored models.User
	require.NoError(t, db.Where("username = ?", "gate-1").First(&stored).Error)
	require.True(t, auth.CheckPassword(stored.Password, "kiosk-pass"))
	require.Equal(t, models.RoleKiosk, stored.Role)

	w = doJSON(t, r, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/users", map[string]string{"username": "x", "password": "secret1", "role": "janitor"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/users", map[string]string{"username": "y", "password": "123", "role": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
