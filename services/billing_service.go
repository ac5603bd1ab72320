// services/billing_service.go
package services

import (
	"errors"
	"log"
	"math"
	"time"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoiceInput defines the expected JSON structure for creating an
// invoice.
type CreateInvoiceInput struct {
	ClientID      uuid.UUID  `json:"clientId" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointmentId"`
	TotalAmount   float64    `json:"totalAmount" binding:"required,gt=0"`
	DueDate       *time.Time `json:"dueDate"`
	Notes         string     `json:"notes"`
}

// CreatePaymentInput defines the expected JSON structure for registering a
// settled payment (abono) against an invoice.
type CreatePaymentInput struct {
	ClientID      uuid.UUID  `json:"clientId" binding:"required"`
	InvoiceID     uuid.UUID  `json:"invoiceId" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointmentId"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	Method        string     `json:"method" binding:"required"`
	Description   string     `json:"description"`
}

// InvoiceFilters models the optional query parameters of the invoice list
// endpoint.
type InvoiceFilters struct {
	Status   string
	ClientID *uuid.UUID
}

func (f InvoiceFilters) Apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	return q.Order("issue_date DESC")
}

// PaymentFilters models the optional query parameters of the payment list
// endpoint.
type PaymentFilters struct {
	Status    string
	ClientID  *uuid.UUID
	InvoiceID *uuid.UUID
}

func (f PaymentFilters) Apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.InvoiceID != nil {
		q = q.Where("invoice_id = ?", *f.InvoiceID)
	}
	return q.Order("created_at DESC")
}

// BillingService tracks cumulative paid amounts against invoice totals,
// derives invoice status from payment history and rejects overpayment.
type BillingService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewBillingService(db *gorm.DB, audit *AuditService) *BillingService {
	return &BillingService{db: db, audit: audit}
}

// round2 keeps monetary comparisons stable at cent precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// exceedsPending is the overpayment ceiling: an amount past the invoice's
// pending balance is rejected, never clamped. Both sides are compared at cent
// precision so float noise cannot reject an exact payoff.
func exceedsPending(totalAmount, paidTotal, amount float64) bool {
	return round2(amount) > round2(totalAmount-paidTotal)
}

// invoiceAcceptsPayments reports whether payments may still be registered
// against an invoice in the given status.
func invoiceAcceptsPayments(status models.InvoiceStatus) bool {
	return status != models.InvoiceCancelled
}

// DeriveInvoiceStatus is the pure derivation rule: with nothing paid the
// invoice is OVERDUE once past its due date, otherwise PENDING; fully covered
// totals are PAID; anything in between is PARTIAL.
func DeriveInvoiceStatus(totalAmount, totalPaid float64, dueDate *time.Time, now time.Time) models.InvoiceStatus {
	totalPaid = round2(totalPaid)
	if totalPaid == 0 {
		if dueDate != nil && now.After(*dueDate) {
			return models.InvoiceOverdue
		}
		return models.InvoicePending
	}
	if totalPaid >= round2(totalAmount) {
		return models.InvoicePaid
	}
	return models.InvoicePartial
}

// paidTotal sums the invoice's PAID-status payments.
func (s *BillingService) paidTotal(invoiceID uuid.UUID) (float64, error) {
	var total float64
	err := s.db.Model(&models.Payment{}).
		Where("invoice_id = ? AND status = ?", invoiceID, models.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return round2(total), err
}

// CreateInvoice writes a new invoice with a fixed total and PENDING status.
func (s *BillingService) CreateInvoice(userID *uuid.UUID, input CreateInvoiceInput) (*models.Invoice, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("client not found")
		}
		return nil, err
	}

	if input.AppointmentID != nil {
		var appointment models.Appointment
		if err := s.db.First(&appointment, "id = ?", *input.AppointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("appointment not found")
			}
			return nil, err
		}
		if appointment.ClientID != input.ClientID {
			return nil, NewValidationError("appointment does not belong to the given client")
		}
	}

	invoice := models.Invoice{
		InvoiceNumber: newInvoiceNumber(),
		ClientID:      input.ClientID,
		AppointmentID: input.AppointmentID,
		TotalAmount:   round2(input.TotalAmount),
		Status:        models.InvoicePending,
		IssueDate:     time.Now(),
		DueDate:       input.DueDate,
		Notes:         input.Notes,
	}

	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, err
	}

	s.audit.Record(userID, "invoice", invoice.ID, "create", nil, invoice)

	return &invoice, nil
}

// CreatePayment registers an already-settled payment against an invoice.
// Overpayment is a hard ceiling: an amount past the invoice's pending balance
// is rejected, never clamped. The invoice-status recompute afterwards is
// best-effort and must not undo the payment write.
func (s *BillingService) CreatePayment(userID *uuid.UUID, input CreatePaymentInput) (*models.Payment, error) {
	method := models.PaymentMethod(input.Method)
	if !method.Valid() {
		return nil, NewValidationError("invalid payment method: %s", input.Method)
	}
	if input.Amount <= 0 {
		return nil, NewValidationError("payment amount must be greater than zero")
	}

	var client models.Client
	if err := s.db.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("client not found")
		}
		return nil, err
	}

	var invoice models.Invoice
	if err := s.db.First(&invoice, "id = ?", input.InvoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invoice not found")
		}
		return nil, err
	}
	if invoice.ClientID != input.ClientID {
		return nil, NewValidationError("invoice does not belong to the given client")
	}
	if !invoiceAcceptsPayments(invoice.Status) {
		return nil, NewStateError("cannot register a payment against a cancelled invoice")
	}

	if input.AppointmentID != nil {
		var appointment models.Appointment
		if err := s.db.First(&appointment, "id = ?", *input.AppointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("appointment not found")
			}
			return nil, err
		}
		if appointment.ClientID != input.ClientID {
			return nil, NewValidationError("appointment does not belong to the given client")
		}
	}

	paid, err := s.paidTotal(invoice.ID)
	if err != nil {
		return nil, err
	}
	if exceedsPending(invoice.TotalAmount, paid, input.Amount) {
		return nil, NewValidationError("payment amount exceeds pending amount (%.2f)",
			round2(invoice.TotalAmount-paid))
	}

	now := time.Now()
	payment := models.Payment{
		ClientID:      input.ClientID,
		InvoiceID:     invoice.ID,
		AppointmentID: input.AppointmentID,
		Amount:        round2(input.Amount),
		Method:        method,
		Status:        models.PaymentPaid,
		Origin:        models.PaymentOriginManual,
		Description:   input.Description,
		PaidDate:      &now,
	}

	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}

	s.audit.Record(userID, "payment", payment.ID, "create", nil, payment)

	// The payment is the source of truth; a failed recompute is logged and
	// surfaces for manual reconciliation instead of failing the request.
	if err := s.RecomputeInvoiceStatus(invoice.ID); err != nil {
		log.Printf("billing: failed to recompute invoice %s status after payment %s: %v",
			invoice.ID, payment.ID, err)
	}

	return &payment, nil
}

// RecomputeInvoiceStatus re-derives the invoice status from its payment
// history and persists it only when it differs from the stored value.
// Explicitly cancelled invoices are left alone.
func (s *BillingService) RecomputeInvoiceStatus(invoiceID uuid.UUID) error {
	var invoice models.Invoice
	if err := s.db.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("invoice not found")
		}
		return err
	}
	if invoice.Status == models.InvoiceCancelled {
		return nil
	}

	paid, err := s.paidTotal(invoice.ID)
	if err != nil {
		return err
	}

	derived := DeriveInvoiceStatus(invoice.TotalAmount, paid, invoice.DueDate, time.Now())
	if derived == invoice.Status {
		return nil
	}

	return s.db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("status", derived).Error
}

// UpdatePaymentStatus applies the strict payment transition allow-list.
// Moving to PAID re-checks the overpayment ceiling and stamps paidDate.
func (s *BillingService) UpdatePaymentStatus(id uuid.UUID, userID *uuid.UUID, requested string) (*models.Payment, error) {
	status := models.PaymentStatus(requested)
	if !status.Valid() {
		return nil, NewValidationError("invalid payment status: %s", requested)
	}

	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("payment not found")
		}
		return nil, err
	}

	if !payment.Status.CanTransitionTo(status) {
		return nil, NewStateError("cannot go from %s to %s", payment.Status, status)
	}

	before := payment

	if status == models.PaymentPaid {
		var invoice models.Invoice
		if err := s.db.First(&invoice, "id = ?", payment.InvoiceID).Error; err != nil {
			return nil, err
		}
		paid, err := s.paidTotal(invoice.ID)
		if err != nil {
			return nil, err
		}
		if exceedsPending(invoice.TotalAmount, paid, payment.Amount) {
			return nil, NewValidationError("payment amount exceeds pending amount (%.2f)",
				round2(invoice.TotalAmount-paid))
		}
		now := time.Now()
		payment.PaidDate = &now
	}

	payment.Status = status
	if err := s.db.Save(&payment).Error; err != nil {
		return nil, err
	}

	s.audit.Record(userID, "payment", payment.ID, "status_change", before, payment)

	if err := s.RecomputeInvoiceStatus(payment.InvoiceID); err != nil {
		log.Printf("billing: failed to recompute invoice %s status after payment %s transition: %v",
			payment.InvoiceID, payment.ID, err)
	}

	return &payment, nil
}

// MarkPaymentPaid is the mark-paid shortcut. Auto-generated cash payments
// cannot be settled this way: their transaction details must be registered
// first through the status endpoint.
func (s *BillingService) MarkPaymentPaid(id uuid.UUID, userID *uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("payment not found")
		}
		return nil, err
	}

	if payment.Origin == models.PaymentOriginAutoGenerated && payment.Method == models.PaymentMethodCash {
		return nil, NewStateError("auto-generated cash payments require transaction details; register them first")
	}

	return s.UpdatePaymentStatus(id, userID, string(models.PaymentPaid))
}

// CancelInvoice is the one direct status assignment allowed after creation.
func (s *BillingService) CancelInvoice(id uuid.UUID, userID *uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invoice not found")
		}
		return nil, err
	}
	if invoice.Status == models.InvoiceCancelled {
		return nil, NewStateError("invoice is already cancelled")
	}
	if invoice.Status == models.InvoicePaid {
		return nil, NewStateError("cannot cancel a paid invoice")
	}

	before := invoice
	invoice.Status = models.InvoiceCancelled
	if err := s.db.Save(&invoice).Error; err != nil {
		return nil, err
	}

	s.audit.Record(userID, "invoice", invoice.ID, "cancel", before, invoice)

	return &invoice, nil
}

// EnsureAppointmentBilling creates the invoice and pending cash payment for a
// freshly confirmed appointment, unless billing already exists or there is
// nothing to bill.
func (s *BillingService) EnsureAppointmentBilling(appointment *models.Appointment) error {
	if appointment.TotalAmount <= 0 {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.Invoice{}).
		Where("appointment_id = ?", appointment.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dueDate := appointment.Date
	invoice := models.Invoice{
		InvoiceNumber: newInvoiceNumber(),
		ClientID:      appointment.ClientID,
		AppointmentID: &appointment.ID,
		TotalAmount:   round2(appointment.TotalAmount),
		Status:        models.InvoicePending,
		IssueDate:     time.Now(),
		DueDate:       &dueDate,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		return err
	}

	payment := models.Payment{
		ClientID:      appointment.ClientID,
		InvoiceID:     invoice.ID,
		AppointmentID: &appointment.ID,
		Amount:        invoice.TotalAmount,
		Method:        models.PaymentMethodCash,
		Status:        models.PaymentPending,
		Origin:        models.PaymentOriginAutoGenerated,
		Description:   "Payment for confirmed appointment",
		DueDate:       &dueDate,
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *BillingService) GetInvoice(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Payments").Preload("Client").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("invoice not found")
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *BillingService) ListInvoices(filters InvoiceFilters, page, limit int) ([]models.Invoice, int64, error) {
	q := filters.Apply(s.db.Model(&models.Invoice{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []models.Invoice
	err := q.Preload("Payments").Preload("Client").
		Offset((page - 1) * limit).Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (s *BillingService) GetPayment(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Preload("Client").First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("payment not found")
		}
		return nil, err
	}
	return &payment, nil
}

func (s *BillingService) ListPayments(filters PaymentFilters, page, limit int) ([]models.Payment, int64, error) {
	q := filters.Apply(s.db.Model(&models.Payment{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := q.Preload("Client").
		Offset((page - 1) * limit).Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func newInvoiceNumber() string {
	return "INV-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)
}
