package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentTransitions(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentPending, PaymentPaid, true},
		{PaymentPending, PaymentOverdue, true},
		{PaymentPending, PaymentCancelled, true},
		{PaymentPending, PaymentRefunded, false},

		{PaymentPaid, PaymentRefunded, true},
		{PaymentPaid, PaymentPending, false},
		{PaymentPaid, PaymentCancelled, false},

		{PaymentOverdue, PaymentPaid, true},
		{PaymentOverdue, PaymentCancelled, true},
		{PaymentOverdue, PaymentPending, false},

		{PaymentCancelled, PaymentPending, true},
		{PaymentCancelled, PaymentPaid, false},

		// REFUNDED is terminal
		{PaymentRefunded, PaymentPending, false},
		{PaymentRefunded, PaymentPaid, false},
		{PaymentRefunded, PaymentCancelled, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{
		PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer,
		PaymentMethodCheck, PaymentMethodFinancing,
	} {
		assert.True(t, m.Valid(), "expected %s to be a recognized method", m)
	}

	assert.False(t, PaymentMethod("BITCOIN").Valid())
	assert.False(t, PaymentMethod("cash").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestInvoiceStatusValid(t *testing.T) {
	for _, s := range []InvoiceStatus{
		InvoicePending, InvoicePartial, InvoicePaid, InvoiceOverdue, InvoiceCancelled,
	} {
		assert.True(t, s.Valid())
	}
	assert.False(t, InvoiceStatus("REFUNDED").Valid())
}
