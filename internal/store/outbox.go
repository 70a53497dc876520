package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirdesai22/registration-dashboard/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddOutboxEvent inserts one event into the outbox inside tx.
func AddOutboxEvent(tx *gorm.DB, entityType string, entityID uuid.UUID, op string, payload any) error {
	var data datatypes.JSON
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal outbox payload: %w", err)
		}
		data = datatypes.JSON(raw)
	}

	event := models.Outbox{
		EntityType: entityType,
		EntityID:   entityID,
		Op:         op,
		Payload:    data,
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("create outbox event: %w", err)
	}
	return nil
}
