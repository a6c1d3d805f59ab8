package handlers

import (
	"net/http"
	"testing"

	"school-attendance-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type studentList struct {
	Students []models.Student `json:"students"`
	Count    int              `json:"count"`
}

func studentRouter(t *testing.T) (*gin.Engine, *Caches) {
	db := newTestDB(t)
	caches := NewCaches(nil)
	h := &StudentHandler{DB: db, Caches: caches}
	r := gin.New()
	r.GET("/api/students", h.GetStudents)
	r.GET("/api/students/:id", h.GetStudentByID)
	r.POST("/api/students", h.CreateStudent)
	r.PUT("/api/students/:id", h.UpdateStudent)
	r.DELETE("/api/students/:id", h.DeleteStudent)
	return r, caches
}

func TestStudents_CRUD(t *testing.T) {
	r, _ := studentRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/students", map[string]string{"id": "S1", "name": "Sara", "className": "5", "section": "A", "guardianPhone": "555-0100"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/students", map[string]string{"id": "S1", "name": "Dup", "className": "5"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/students", map[string]string{"name": "No class"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/students/S1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Sara", decode[models.Student](t, w).Name)

	w = doJSON(t, r, http.MethodPut, "/api/students/S1", map[string]string{"section": "B"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Student](t, w)
	require.Equal(t, "B", updated.Section)
	require.Equal(t, "Sara", updated.Name)

	w = doJSON(t, r, http.MethodPut, "/api/students/S1", map[string]string{"name": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/students/S1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/students/S1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/students/S1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudents_ListIsCachedAndInvalidated(t *testing.T) {
	r, caches := studentRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, decode[studentList](t, w).Count)

	doJSON(t, r, http.MethodGet, "/api/students", nil)
	require.Equal(t, int64(1), caches.Students.Stats().Hits)

	w = doJSON(t, r, http.MethodPost, "/api/students", map[string]string{"id": "S2", "name": "Omar", "className": "6"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/students", nil)
	list := decode[studentList](t, w)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "S2", list.Students[0].ID)
}

func TestStudents_FilterByGuardianPhone(t *testing.T) {
	r, _ := studentRouter(t)
	for _, s := range []map[string]string{
		{"id": "S1", "name": "Sara", "className": "5", "guardianPhone": "555-0100"},
		{"id": "S2", "name": "Sami", "className": "3", "guardianPhone": "555-0100"},
		{"id": "S3", "name": "Lina", "className": "6", "guardianPhone": "555-0199"},
	} {
		require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/api/students", s).Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/students?guardianPhone=555-0100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[studentList](t, w)
	require.Equal(t, 2, list.Count)
	for _, s := range list.Students {
		require.Equal(t, "555-0100", s.GuardianPhone)
	}
}
