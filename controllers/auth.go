// controllers/auth.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	db *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin employee"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new staff account
func (ctrl *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existingUser models.User
	result := ctrl.db.Where("email = ?", input.Email).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	newUser := models.User{
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: input.Password, // Will be hashed in BeforeCreate hook
		Role:     input.Role,
		IsActive: true,
	}

	if err := ctrl.db.Create(&newUser).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  newUser,
		"token": token,
	})
}

// Login authenticates a staff account and issues a JWT
func (ctrl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := ctrl.db.Where("email = ? AND is_active = ?", input.Email, true).
		First(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := ctrl.db.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update last login")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// Me returns the authenticated user
func (ctrl *AuthController) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var user models.User
	if err := ctrl.db.First(&user, "id = ?", *userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "User retrieved successfully", gin.H{
		"user": user,
	})
}
