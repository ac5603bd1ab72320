package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus is derived from the invoice's payments and due date. The only
// direct assignments are PENDING at creation and CANCELLED on explicit
// cancellation; everything else comes out of the reconciler.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePartial   InvoiceStatus = "PARTIAL"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePartial, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

type Invoice struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	InvoiceNumber string     `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	ClientID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"clientId"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointmentId"`

	// TotalAmount is fixed at creation and immutable thereafter.
	TotalAmount float64       `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Status      InvoiceStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`

	IssueDate time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"issueDate"`
	DueDate   *time.Time `json:"dueDate"`
	Notes     string     `gorm:"type:text" json:"notes"`

	Client   Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Payments []Payment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
