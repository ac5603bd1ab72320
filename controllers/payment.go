// controllers/payment.go
package controllers

import (
	"net/http"

	"clinicpro-backend/services"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	billing *services.BillingService
}

func NewPaymentController(billing *services.BillingService) *PaymentController {
	return &PaymentController{billing: billing}
}

// Create registers a settled payment against an invoice and recomputes the
// invoice status as a side effect.
func (ctrl *PaymentController) Create(c *gin.Context) {
	var input services.CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := ctrl.billing.CreatePayment(currentUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Payment registered successfully", gin.H{
		"payment": payment,
	})
}

// UpdateStatus applies a payment status transition.
func (ctrl *PaymentController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := ctrl.billing.UpdatePaymentStatus(id, currentUserID(c), input.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Payment status updated successfully", gin.H{
		"payment": payment,
	})
}

// MarkPaid is the mark-paid shortcut.
func (ctrl *PaymentController) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payment, err := ctrl.billing.MarkPaymentPaid(id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Payment marked as paid", gin.H{
		"payment": payment,
	})
}

// Get retrieves a specific payment by ID
func (ctrl *PaymentController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payment, err := ctrl.billing.GetPayment(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Payment retrieved successfully", gin.H{
		"payment": payment,
	})
}

// List retrieves payments with filtering and pagination.
func (ctrl *PaymentController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	filters := services.PaymentFilters{
		Status:    c.Query("status"),
		ClientID:  parseUUIDQuery(c, "clientId"),
		InvoiceID: parseUUIDQuery(c, "invoiceId"),
	}

	payments, total, err := ctrl.billing.ListPayments(filters, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Payments retrieved successfully", gin.H{
		"payments":   payments,
		"pagination": utils.NewPagination(page, limit, total),
	})
}
