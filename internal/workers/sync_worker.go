package workers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"gorm.io/gorm"

	"github.com/sirdesai22/registration-dashboard/internal/elastic"
	"github.com/sirdesai22/registration-dashboard/internal/metrics"
	"github.com/sirdesai22/registration-dashboard/internal/models"
)

const batchSize = 200

// SyncWorker mirrors registration changes from the outbox into the search
// index.
type SyncWorker struct {
	DB     *gorm.DB
	ES     *es.Client
	Logger *slog.Logger

	newBulk func() (esutil.BulkIndexer, error)
}

// failFunc receives events whose bulk item was rejected.
type failFunc func(ob models.Outbox, msg string)

func (w *SyncWorker) log() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}

func (w *SyncWorker) indexer() (esutil.BulkIndexer, error) {
	if w.newBulk != nil {
		return w.newBulk()
	}
	return esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: w.ES, Index: "", FlushBytes: 5 << 20, NumWorkers: 2,
	})
}

// Run polls the outbox every second until ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context) error {
	if err := elastic.EnsureIndexes(ctx, w.ES); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.processOnce(ctx); err != nil {
				w.log().Error("worker error", "error", err)
			}
		}
	}
}

func (w *SyncWorker) processOnce(ctx context.Context) error {
	batch, err := FetchOutboxBatch(ctx, w.DB, batchSize)
	if err != nil {
		return err
	}
	if len(batch.Events) == 0 {
		return nil
	}

	bi, err := w.indexer()
	if err != nil {
		return fmt.Errorf("bulk indexer: %w", err)
	}

	for _, e := range batch.Events {
		if err := w.ApplyEvent(ctx, bi, e); err != nil {
			// already marked processed, so the DLQ is the only way back
			metrics.FailedEvents.Inc()
			PutDLQ(w.DB, w.log(), e, err.Error())
			continue
		}
		metrics.ProcessedEvents.Inc()
	}

	if err := bi.Close(ctx); err != nil {
		return err
	}
	stats := bi.Stats()
	w.log().Info("bulk flushed", "ok", stats.NumFlushed, "failed", stats.NumFailed)
	return nil
}

// ApplyEvent queues e on bi. Items rejected by Elasticsearch land in the DLQ.
func (w *SyncWorker) ApplyEvent(ctx context.Context, bi esutil.BulkIndexer, e models.Outbox) error {
	return w.applyEvent(ctx, bi, e, func(ob models.Outbox, msg string) {
		PutDLQ(w.DB, w.log(), ob, msg)
	})
}

func (w *SyncWorker) applyEvent(ctx context.Context, bi esutil.BulkIndexer, e models.Outbox, onFail failFunc) error {
	switch e.EntityType {
	case models.EntityRegistration:
		if e.Op == models.OpDelete {
			return w.add(ctx, bi, elastic.IdxRegistrations, e, "delete", nil, onFail)
		}
		var r models.Registration
		if err := w.DB.WithContext(ctx).First(&r, "id = ?", e.EntityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// deleted after the event was written; the DELETE event follows
				return nil
			}
			return err
		}
		doc, err := elastic.BuildRegistrationDoc(r)
		if err != nil {
			return err
		}
		return w.add(ctx, bi, elastic.IdxRegistrations, e, "index", doc, onFail)
	}
	return fmt.Errorf("unknown entity_type=%s", e.EntityType)
}

func (w *SyncWorker) add(ctx context.Context, bi esutil.BulkIndexer, index string, e models.Outbox, action string, body []byte, onFail failFunc) error {
	docID := e.EntityID.String()
	item := esutil.BulkIndexerItem{
		Action:     action,
		DocumentID: docID,
		Index:      index,
		OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
			w.log().Debug("✅ synced", "index", index, "id", docID)
		},
		OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			if action == "delete" && res.Status == 404 {
				return
			}
			onFail(e, bulkFailure(res, err))
		},
	}
	if len(body) > 0 {
		item.Body = bytes.NewReader(body)
	}
	return bi.Add(ctx, item)
}

func bulkFailure(res esutil.BulkIndexerResponseItem, err error) string {
	switch {
	case err != nil:
		return err.Error()
	case res.Error.Reason != "":
		return fmt.Sprintf("%s: %s", res.Error.Type, res.Error.Reason)
	default:
		return fmt.Sprintf("status=%d failed to index", res.Status)
	}
}
