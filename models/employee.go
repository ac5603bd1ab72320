package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name      string `gorm:"not null" json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Specialty string `gorm:"default:'General'" json:"specialty"`
	IsActive  bool   `gorm:"default:true" json:"isActive"`

	Appointments []Appointment `gorm:"foreignKey:EmployeeID" json:"-"`

	gorm.Model
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
