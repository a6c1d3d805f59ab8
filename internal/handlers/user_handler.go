package handlers

import (
	"net/http"
	"strings"

	"school-attendance-api/internal/auth"
	"school-attendance-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// CreateUserRequest represents the request payload for creating a user
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required"`
	Name     string      `json:"name"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"required"`
}

type UserHandler struct {
	DB *gorm.DB
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}

// GetAllUsers returns all users
// GET /api/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("username").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Map to safe response payload
	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": resp,
		"count": len(resp),
	})
}

// CreateUser adds a staff or kiosk account
// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	user := models.User{
		ID:       uuid.NewString(),
		Username: strings.TrimSpace(req.Username),
		Name:     req.Name,
		Password: hash,
		Role:     req.Role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}
