// Outbox batch claiming and DLQ persistence.
package workers

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/sirdesai22/registration-dashboard/internal/metrics"
	"github.com/sirdesai22/registration-dashboard/internal/models"
)

type OutboxBatch struct{ Events []models.Outbox }

// FetchOutboxBatch claims up to limit unprocessed events. FOR UPDATE SKIP
// LOCKED lets several workers share the table.
func FetchOutboxBatch(ctx context.Context, db *gorm.DB, limit int) (OutboxBatch, error) {
	var evts []models.Outbox
	tx := db.WithContext(ctx).Raw(`
		WITH cte AS (
		  SELECT * FROM outboxes
		  WHERE processed = false
		  ORDER BY id ASC
		  LIMIT ?
		  FOR UPDATE SKIP LOCKED
		)
		UPDATE outboxes SET processed = true
		FROM cte
		WHERE outboxes.id = cte.id
		RETURNING cte.*`, limit).Scan(&evts)
	return OutboxBatch{Events: evts}, tx.Error
}

// PutDLQ inserts a failed outbox event into the DLQ table.
func PutDLQ(db *gorm.DB, logger *slog.Logger, ob models.Outbox, msg string) {
	metrics.DLQEvents.Inc()
	dlq := models.DLQ{
		OutboxID:   ob.ID,
		EntityType: ob.EntityType,
		EntityID:   ob.EntityID.String(),
		Op:         ob.Op,
		ErrorMsg:   msg,
		Payload:    ob.Payload,
		CreatedAt:  time.Now(),
		Resolved:   false,
	}
	if err := db.Create(&dlq).Error; err != nil {
		logger.Error("❌ Failed to insert into DLQ", "outbox_id", ob.ID, "error", err)
		return
	}
	logger.Warn("💀 DLQ record created", "outbox_id", ob.ID, "entity_id", dlq.EntityID, "reason", msg)
}
