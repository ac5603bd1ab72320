package services

import (
	"testing"
	"time"

	"clinicpro-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pastDue := now.Add(-24 * time.Hour)
	futureDue := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		total   float64
		paid    float64
		dueDate *time.Time
		want    models.InvoiceStatus
	}{
		{"nothing paid, no due date", 100, 0, nil, models.InvoicePending},
		{"nothing paid, due date ahead", 100, 0, &futureDue, models.InvoicePending},
		{"nothing paid, past due date", 100, 0, &pastDue, models.InvoiceOverdue},
		{"partially paid", 100, 40, nil, models.InvoicePartial},
		{"partially paid past due stays partial", 100, 40, &pastDue, models.InvoicePartial},
		{"fully paid", 100, 100, nil, models.InvoicePaid},
		{"fully paid in cents", 100, 99.999999, nil, models.InvoicePaid},
		{"overpaid still reads paid", 100, 120, nil, models.InvoicePaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveInvoiceStatus(tt.total, tt.paid, tt.dueDate, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Scenario: 100.00 invoice paid down in two installments. Re-deriving the
// status from the running paid total must walk PENDING -> PARTIAL -> PAID.
func TestDeriveInvoiceStatusInstallments(t *testing.T) {
	now := time.Now()
	total := 100.00

	paid := 0.0
	assert.Equal(t, models.InvoicePending, DeriveInvoiceStatus(total, paid, nil, now))

	paid += 40.00
	assert.Equal(t, models.InvoicePartial, DeriveInvoiceStatus(total, paid, nil, now))
	assert.Equal(t, 60.00, round2(total-paid))

	paid += 60.00
	assert.Equal(t, models.InvoicePaid, DeriveInvoiceStatus(total, paid, nil, now))

	// one more cent past the total is over the ceiling
	assert.True(t, exceedsPending(total, paid, 0.01))
}

func TestExceedsPending(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		paid   float64
		amount float64
		want   bool
	}{
		{"first payment within total", 100, 0, 40, false},
		{"exact payoff allowed", 100, 40, 60, false},
		{"one cent over rejected", 100, 40, 60.01, true},
		{"anything against settled invoice rejected", 100, 100, 0.01, true},
		{"last cent allowed", 100, 99.99, 0.01, false},
		{"two cents on one pending rejected", 100, 99.99, 0.02, true},
		// 0.1*11 accumulates float noise above 1.1; cent rounding must not
		// turn an exact payoff into an overpayment
		{"float noise on exact payoff", 1.10, 0, 0.1 * 11, false},
		{"float noise on running total", 100, 33.33 + 33.33 + 33.34, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exceedsPending(tt.total, tt.paid, tt.amount))
		})
	}
}

func TestInvoiceAcceptsPayments(t *testing.T) {
	assert.True(t, invoiceAcceptsPayments(models.InvoicePending))
	assert.True(t, invoiceAcceptsPayments(models.InvoicePartial))
	assert.True(t, invoiceAcceptsPayments(models.InvoiceOverdue))
	assert.True(t, invoiceAcceptsPayments(models.InvoicePaid))
	assert.False(t, invoiceAcceptsPayments(models.InvoiceCancelled))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.55, round2(10.554))
	assert.Equal(t, 10.56, round2(10.556))
	assert.Equal(t, 10.0, round2(10.0000001))
	assert.Equal(t, 0.0, round2(0))
	assert.Equal(t, 33.33, round2(100.0/3.0))
}
