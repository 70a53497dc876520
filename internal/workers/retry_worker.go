package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sirdesai22/registration-dashboard/internal/metrics"
	"github.com/sirdesai22/registration-dashboard/internal/models"
)

var ErrDLQNotFound = errors.New("dlq record not found")

// RetryDLQ re-applies unresolved DLQ rows every 30 seconds.
func (w *SyncWorker) RetryDLQ(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var dlqs []models.DLQ
			if err := w.DB.WithContext(ctx).Where("resolved = false").Order("id asc").Limit(50).Find(&dlqs).Error; err != nil {
				w.log().Error("DLQ fetch error", "error", err)
				continue
			}
			for _, d := range dlqs {
				if err := w.retryOne(ctx, d); err != nil {
					w.log().Warn("DLQ retry failed", "dlq_id", d.ID, "error", err)
				}
			}
		}
	}
}

// Retry re-applies a single DLQ row by id.
func (w *SyncWorker) Retry(ctx context.Context, id int64) error {
	var d models.DLQ
	if err := w.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDLQNotFound
		}
		return err
	}
	return w.retryOne(ctx, d)
}

func (w *SyncWorker) retryOne(ctx context.Context, d models.DLQ) error {
	w.log().Info("♻️ Retrying DLQ", "dlq_id", d.ID, "entity", d.EntityType, "op", d.Op)

	entityID, err := uuid.Parse(d.EntityID)
	if err != nil {
		return fmt.Errorf("dlq %d: bad entity id %q: %w", d.ID, d.EntityID, err)
	}
	ob := models.Outbox{
		ID:         d.OutboxID,
		EntityType: d.EntityType,
		EntityID:   entityID,
		Op:         d.Op,
		Payload:    d.Payload,
	}

	bi, err := w.indexer()
	if err != nil {
		return fmt.Errorf("bulk indexer: %w", err)
	}
	var failure string
	applyErr := w.applyEvent(ctx, bi, ob, func(_ models.Outbox, msg string) { failure = msg })
	if err := bi.Close(ctx); err != nil && applyErr == nil {
		applyErr = err
	}
	if applyErr == nil && failure != "" {
		applyErr = errors.New(failure)
	}

	now := time.Now()
	if applyErr != nil {
		if err := w.DB.WithContext(ctx).Model(&models.DLQ{}).Where("id = ?", d.ID).Updates(map[string]any{
			"error_msg":  applyErr.Error(),
			"retried_at": &now,
		}).Error; err != nil {
			w.log().Error("DLQ failure not recorded", "dlq_id", d.ID, "error", err)
		}
		return applyErr
	}

	if err := w.DB.WithContext(ctx).Model(&models.DLQ{}).Where("id = ?", d.ID).Updates(map[string]any{
		"resolved":   true,
		"retried_at": &now,
	}).Error; err != nil {
		return fmt.Errorf("mark dlq %d resolved: %w", d.ID, err)
	}
	metrics.ProcessedEvents.Inc()
	w.log().Info("✅ DLQ resolved", "dlq_id", d.ID)
	return nil
}
