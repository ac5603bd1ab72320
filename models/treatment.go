package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Treatment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration    int     `json:"duration"` // in minutes
	Category    string  `gorm:"default:'General'" json:"category"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`

	AppointmentTreatments []AppointmentTreatment `gorm:"foreignKey:TreatmentID" json:"-"`

	gorm.Model
}

func (t *Treatment) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
