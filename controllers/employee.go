// controllers/employee.go
package controllers

import (
	"errors"
	"net/http"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EmployeeController struct {
	db *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{db: db}
}

// CreateEmployeeInput defines the expected JSON structure for creating an employee
type CreateEmployeeInput struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
}

// UpdateEmployeeInput defines the expected JSON structure for updating an employee
type UpdateEmployeeInput struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Specialty *string `json:"specialty"`
	IsActive  *bool   `json:"isActive"`
}

// Create registers a new employee
func (ctrl *EmployeeController) Create(c *gin.Context) {
	var input CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	employee := models.Employee{
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Specialty: input.Specialty,
		IsActive:  true,
	}
	if employee.Specialty == "" {
		employee.Specialty = "General"
	}

	if err := ctrl.db.Create(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Employee created successfully", gin.H{
		"employee": employee,
	})
}

// List retrieves all employees
func (ctrl *EmployeeController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := ctrl.db.Model(&models.Employee{})
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	var employees []models.Employee
	if err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).
		Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Employees retrieved successfully", gin.H{
		"employees":  employees,
		"pagination": utils.NewPagination(page, limit, total),
	})
}

// Get retrieves a specific employee by ID
func (ctrl *EmployeeController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var employee models.Employee
	if err := ctrl.db.First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Employee retrieved successfully", gin.H{
		"employee": employee,
	})
}

// Update updates an existing employee
func (ctrl *EmployeeController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.Employee
	if err := ctrl.db.First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Phone != nil {
		employee.Phone = *input.Phone
	}
	if input.Email != nil {
		employee.Email = *input.Email
	}
	if input.Specialty != nil {
		employee.Specialty = *input.Specialty
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := ctrl.db.Save(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Employee updated successfully", gin.H{
		"employee": employee,
	})
}

// Deactivate soft-deactivates an employee
func (ctrl *EmployeeController) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result := ctrl.db.Model(&models.Employee{}).Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate employee")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Employee deactivated successfully", nil)
}
