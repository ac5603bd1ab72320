// controllers/client.go
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

type ClientController struct {
	db *gorm.DB
}

func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{db: db}
}

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name     string     `json:"name" binding:"required"`
	Phone    string     `json:"phone" binding:"required"`
	Email    string     `json:"email"`
	Birthday *time.Time `json:"birthday"`
	Address  string     `json:"address"`
	Notes    string     `json:"notes"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name     *string    `json:"name"`
	Phone    *string    `json:"phone"`
	Email    *string    `json:"email"`
	Birthday *time.Time `json:"birthday"`
	Address  *string    `json:"address"`
	Notes    *string    `json:"notes"`
	IsActive *bool      `json:"isActive"`
}

// Create registers a new client
func (ctrl *ClientController) Create(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	client := models.Client{
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Birthday: input.Birthday,
		Address:  input.Address,
		Notes:    input.Notes,
		IsActive: true,
	}

	if err := ctrl.db.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Client created successfully", gin.H{
		"client": client,
	})
}

// List retrieves clients with search and pagination
func (ctrl *ClientController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := ctrl.db.Model(&models.Client{})
	if search := c.Query("search"); search != "" {
		q = q.Where("name ILIKE ? OR phone ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	var clients []models.Client
	if err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).
		Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Clients retrieved successfully", gin.H{
		"clients":    clients,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// Get retrieves a specific client by ID
func (ctrl *ClientController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var client models.Client
	if err := ctrl.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Client retrieved successfully", gin.H{
		"client": client,
	})
}

// Update updates an existing client
func (ctrl *ClientController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := ctrl.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = *input.Phone
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Birthday != nil {
		client.Birthday = input.Birthday
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := ctrl.db.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Client updated successfully", gin.H{
		"client": client,
	})
}

// Deactivate soft-deactivates a client; their appointments and invoices
// remain as historical record.
func (ctrl *ClientController) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := ctrl.db.Model(&models.Client{}).Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate client")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Client deactivated successfully", nil)
}
