package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records before/after snapshots of core mutations.
type AuditLog struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID   *uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Entity   string     `gorm:"type:varchar(40);index;not null" json:"entity"`
	EntityID uuid.UUID  `gorm:"type:uuid;index;not null" json:"entityId"`
	Action   string     `gorm:"type:varchar(40);not null" json:"action"`
	Before   JSONB      `gorm:"type:jsonb" json:"before"`
	After    JSONB      `gorm:"type:jsonb" json:"after"`

	gorm.Model
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Custom JSONB type for snapshot columns
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
