// controllers/invoice.go
package controllers

import (
	"net/http"

	"clinicpro-backend/models"
	"clinicpro-backend/services"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	billing *services.BillingService
}

func NewInvoiceController(billing *services.BillingService) *InvoiceController {
	return &InvoiceController{billing: billing}
}

// Create writes a new invoice with a fixed total.
func (ctrl *InvoiceController) Create(c *gin.Context) {
	var input services.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := ctrl.billing.CreateInvoice(currentUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusCreated, "Invoice created successfully", gin.H{
		"invoice": invoice,
	})
}

// UpdateStatus only accepts explicit cancellation; every other status is
// derived from payments and cannot be set directly.
func (ctrl *InvoiceController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if models.InvoiceStatus(input.Status) != models.InvoiceCancelled {
		utils.RespondWithError(c, http.StatusBadRequest,
			"Invoice status is derived from payments; only CANCELLED can be set directly")
		return
	}

	invoice, err := ctrl.billing.CancelInvoice(id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Invoice cancelled successfully", gin.H{
		"invoice": invoice,
	})
}

// Recompute forces a re-derivation of the invoice status from its payments.
func (ctrl *InvoiceController) Recompute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.billing.RecomputeInvoiceStatus(id); err != nil {
		respondServiceError(c, err)
		return
	}

	invoice, err := ctrl.billing.GetInvoice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Invoice status recomputed", gin.H{
		"invoice": invoice,
	})
}

// Get retrieves a specific invoice by ID
func (ctrl *InvoiceController) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	invoice, err := ctrl.billing.GetInvoice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Invoice retrieved successfully", gin.H{
		"invoice": invoice,
	})
}

// List retrieves invoices with filtering and pagination.
func (ctrl *InvoiceController) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	filters := services.InvoiceFilters{
		Status:   c.Query("status"),
		ClientID: parseUUIDQuery(c, "clientId"),
	}

	invoices, total, err := ctrl.billing.ListInvoices(filters, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, "Invoices retrieved successfully", gin.H{
		"invoices":   invoices,
		"pagination": utils.NewPagination(page, limit, total),
	})
}
