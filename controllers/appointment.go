// controllers/appointment.go
package controllers

import (
	"net/http"
	"time"

	"clinicpro-backend/services"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentController struct {
	scheduling *services.SchedulingService
}

func NewAppointmentController(scheduling *services.SchedulingService) *AppointmentController {
	return &AppointmentController{scheduling: scheduling}
}

// UpdateStatusInput defines the body of the status transition endpoint.
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// CancelInput defines the body of the cancel endpoint.
type CancelInput struct {
	Reason string `json:"reason"`
}

// Create books a new appointment with its treatment line items.
func (ctrl *AppointmentController) Create(c *gin.Context) {
	var input services.CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment, err := ctrl.scheduling.Create(currentUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Appointment created successfully", gin.H{
		"appointment": appointment,
	})
}

// Update applies a partial edit to an appointment.
func (ctrl *AppointmentController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input services.UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment, err := ctrl.scheduling.Update(id, currentUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Appointment updated successfully", gin.H{
		"appointment": appointment,
	})
}

// UpdateStatus applies a lifecycle transition.
func (ctrl *AppointmentController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment, err := ctrl.scheduling.UpdateStatus(id, currentUserID(c), input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Appointment status updated successfully", gin.H{
		"appointment": appointment,
	})
}

// Cancel marks the appointment cancelled, keeping prior notes.
func (ctrl *AppointmentController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input CancelInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	appointment, err := ctrl.scheduling.Cancel(id, currentUserID(c), input.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Appointment cancelled successfully", gin.H{
		"appointment": appointment,
	})
}

// Get retrieves a specific appointment by ID
func (ctrl *AppointmentController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	appointment, err := ctrl.scheduling.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Appointment retrieved successfully", gin.H{
		"appointment": appointment,
	})
}

// List retrieves appointments with filtering and pagination.
func (ctrl *AppointmentController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	filters := services.AppointmentFilters{
		Status:     c.Query("status"),
		EmployeeID: parseUUIDQuery(c, "employeeId"),
		ClientID:   parseUUIDQuery(c, "clientId"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
	if raw := c.Query("startDate"); raw != "" {
		if d, err := utils.ParseDate(raw); err == nil {
			filters.StartDate = &d
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if d, err := utils.ParseDate(raw); err == nil {
			filters.EndDate = &d
		}
	}

	appointments, total, err := ctrl.scheduling.List(filters, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Appointments retrieved successfully", gin.H{
		"appointments": appointments,
		"pagination":   utils.NewPagination(page, limit, total),
	})
}

// Today retrieves the current day's appointments.
func (ctrl *AppointmentController) Today(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	appointments, total, err := ctrl.scheduling.Today(page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Appointments retrieved successfully", gin.H{
		"appointments": appointments,
		"date":         time.Now().UTC().Format(utils.DateLayout),
		"pagination":   utils.NewPagination(page, limit, total),
	})
}
