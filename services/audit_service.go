// services/audit_service.go
package services

import (
	"encoding/json"
	"log"

	"clinicpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditService appends before/after snapshots of core mutations. A failed
// audit write is logged but never fails the mutation it describes.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(userID *uuid.UUID, entity string, entityID uuid.UUID, action string, before, after interface{}) {
	entry := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Before:   snapshot(before),
		After:    snapshot(after),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %s %s on %s: %v", action, entity, entityID, err)
	}
}

func snapshot(v interface{}) models.JSONB {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("audit: failed to marshal snapshot: %v", err)
		return nil
	}
	var m models.JSONB
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Printf("audit: failed to build snapshot: %v", err)
		return nil
	}
	return m
}
