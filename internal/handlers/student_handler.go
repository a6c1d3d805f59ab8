package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"school-attendance-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateStudentRequest represents the request payload for creating a student
type CreateStudentRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name" binding:"required"`
	ClassName     string `json:"className" binding:"required"`
	Section       string `json:"section"`
	GuardianPhone string `json:"guardianPhone"`
}

// UpdateStudentRequest represents the request payload for updating a student
type UpdateStudentRequest struct {
	Name          *string `json:"name"`
	ClassName     *string `json:"className"`
	Section       *string `json:"section"`
	GuardianPhone *string `json:"guardianPhone"`
}

type StudentHandler struct {
	DB     *gorm.DB
	Caches *Caches
}

func (h *StudentHandler) invalidate() {
	h.Caches.Students.InvalidatePattern(studentsKeyPrefix)
	h.Caches.Stats.InvalidatePattern(statsKeyPrefix)
}

/*
GetStudents handles GET /api/students
Optional query param: guardianPhone to list the students sharing a guardian.
*/
func (h *StudentHandler) GetStudents(c *gin.Context) {
	phone := strings.TrimSpace(c.Query("guardianPhone"))
	key := studentsKeyPrefix + "all"
	if phone != "" {
		key = studentsKeyPrefix + "phone:" + phone
	}

	students, err := h.Caches.Students.GetOrSet(c.Request.Context(), key, func(ctx context.Context) ([]models.Student, error) {
		query := h.DB.WithContext(ctx).Order("class_name, section, name")
		if phone != "" {
			query = query.Where("guardian_phone = ?", phone)
		}
		out := []models.Student{}
		if err := query.Find(&out).Error; err != nil {
			return nil, err
		}
		return out, nil
	}, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": students,
		"count":    len(students),
	})
}

// GetStudentByID handles GET /api/students/:id
func (h *StudentHandler) GetStudentByID(c *gin.Context) {
	student, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, student)
}

// CreateStudent handles POST /api/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	student := models.Student{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		ClassName:     strings.TrimSpace(req.ClassName),
		Section:       strings.TrimSpace(req.Section),
		GuardianPhone: strings.TrimSpace(req.GuardianPhone),
	}
	if err := h.DB.Create(&student).Error; err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Student ID already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student"})
		return
	}
	h.invalidate()

	c.JSON(http.StatusCreated, student)
}

// UpdateStudent handles PUT /api/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	student, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be empty"})
			return
		}
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.ClassName != nil {
		student.ClassName = strings.TrimSpace(*req.ClassName)
	}
	if req.Section != nil {
		student.Section = strings.TrimSpace(*req.Section)
	}
	if req.GuardianPhone != nil {
		student.GuardianPhone = strings.TrimSpace(*req.GuardianPhone)
	}

	if err := h.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		return
	}
	h.invalidate()

	c.JSON(http.StatusOK, student)
}

// DeleteStudent handles DELETE /api/students/:id. Attendance history is kept.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	result := h.DB.Delete(&models.Student{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	h.invalidate()

	c.JSON(http.StatusOK, gin.H{"message": "Student deleted successfully"})
}

func (h *StudentHandler) find(c *gin.Context) (models.Student, bool) {
	var student models.Student
	err := h.DB.Where("id = ?", c.Param("id")).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch student"})
		}
		return models.Student{}, false
	}
	return student, true
}
