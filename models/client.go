package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name     string `gorm:"not null" json:"name"`
	Phone    string `gorm:"not null;index" json:"phone"`
	Email    string `json:"email"`
	Birthday *time.Time `json:"birthday"`
	Address  string `json:"address"`
	Notes    string `gorm:"type:text" json:"notes"`

	// Clients are soft-deactivated, never hard-deleted: their appointments
	// and invoices remain as historical record.
	IsActive bool `gorm:"default:true" json:"isActive"`

	Appointments []Appointment `gorm:"foreignKey:ClientID" json:"-"`
	Invoices     []Invoice     `gorm:"foreignKey:ClientID" json:"-"`

	gorm.Model
}

func (cl *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return
}
