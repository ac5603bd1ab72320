// controllers/treatment.go
package controllers

import (
	"errors"
	"net/http"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TreatmentController struct {
	db *gorm.DB
}

func NewTreatmentController(db *gorm.DB) *TreatmentController {
	return &TreatmentController{db: db}
}

// CreateTreatmentInput defines the expected JSON structure for creating a treatment
type CreateTreatmentInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,min=0"`
	Duration    int     `json:"duration" binding:"min=0"` // in minutes
	Category    string  `json:"category"`
}

// UpdateTreatmentInput defines the expected JSON structure for updating a treatment
type UpdateTreatmentInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
	Category    *string  `json:"category"`
	IsActive    *bool    `json:"isActive"`
}

// Create registers a new treatment. Active treatment names are unique.
func (ctrl *TreatmentController) Create(c *gin.Context) {
	var input CreateTreatmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Treatment
	if err := ctrl.db.Where("name = ? AND is_active = ?", input.Name, true).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "An active treatment with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	treatment := models.Treatment{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		Category:    input.Category,
		IsActive:    true,
	}
	if treatment.Category == "" {
		treatment.Category = "General"
	}

	if err := ctrl.db.Create(&treatment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create treatment")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Treatment created successfully", gin.H{
		"treatment": treatment,
	})
}

// List retrieves treatments
func (ctrl *TreatmentController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := ctrl.db.Model(&models.Treatment{})
	if search := c.Query("search"); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve treatments")
		return
	}

	var treatments []models.Treatment
	if err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).
		Find(&treatments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve treatments")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Treatments retrieved successfully", gin.H{
		"treatments": treatments,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// Get retrieves a specific treatment by ID
func (ctrl *TreatmentController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var treatment models.Treatment
	if err := ctrl.db.First(&treatment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Treatment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Treatment retrieved successfully", gin.H{
		"treatment": treatment,
	})
}

// Update updates an existing treatment. Price changes never retroactively
// alter past appointments, which carry their own price snapshots.
func (ctrl *TreatmentController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateTreatmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var treatment models.Treatment
	if err := ctrl.db.First(&treatment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Treatment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil && *input.Name != treatment.Name {
		var existing models.Treatment
		if err := ctrl.db.Where("name = ? AND is_active = ? AND id <> ?", *input.Name, true, id).
			First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "An active treatment with this name already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		treatment.Name = *input.Name
	}
	if input.Description != nil {
		treatment.Description = *input.Description
	}
	if input.Price != nil {
		treatment.Price = *input.Price
	}
	if input.Duration != nil {
		treatment.Duration = *input.Duration
	}
	if input.Category != nil {
		treatment.Category = *input.Category
	}
	if input.IsActive != nil {
		treatment.IsActive = *input.IsActive
	}

	if err := ctrl.db.Save(&treatment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update treatment")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Treatment updated successfully", gin.H{
		"treatment": treatment,
	})
}

// Deactivate soft-deactivates a treatment so it can no longer be booked
func (ctrl *TreatmentController) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := ctrl.db.Model(&models.Treatment{}).Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate treatment")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Treatment not found")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Treatment deactivated successfully", nil)
}
