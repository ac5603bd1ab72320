package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentOverdue   PaymentStatus = "OVERDUE"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// paymentTransitions is the strict allow-list of payment status changes.
// REFUNDED is terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentPaid, PaymentOverdue, PaymentCancelled},
	PaymentPaid:      {PaymentRefunded},
	PaymentOverdue:   {PaymentPaid, PaymentCancelled},
	PaymentCancelled: {PaymentPending},
	PaymentRefunded:  {},
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "CASH"
	PaymentMethodCard      PaymentMethod = "CARD"
	PaymentMethodTransfer  PaymentMethod = "TRANSFER"
	PaymentMethodCheck     PaymentMethod = "CHECK"
	PaymentMethodFinancing PaymentMethod = "FINANCING"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodFinancing:
		return true
	}
	return false
}

// PaymentOrigin distinguishes payments registered by staff from the pending
// payment auto-generated when an appointment is confirmed.
type PaymentOrigin string

const (
	PaymentOriginManual        PaymentOrigin = "MANUAL"
	PaymentOriginAutoGenerated PaymentOrigin = "AUTO_GENERATED"
)

type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	ClientID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"clientId"`
	InvoiceID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"invoiceId"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointmentId"`

	Amount      float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status      PaymentStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	Origin      PaymentOrigin `gorm:"type:varchar(20);default:'MANUAL'" json:"origin"`
	Description string        `json:"description"`

	PaidDate *time.Time `json:"paidDate"`
	DueDate  *time.Time `json:"dueDate"`

	Client  Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
