package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/sirdesai22/registration-dashboard/internal/models"
	"github.com/sirdesai22/registration-dashboard/internal/workers"
)

const adminListLimit = 100

// Retrier re-applies one dead-lettered sync event.
type Retrier interface {
	Retry(ctx context.Context, id int64) error
}

// AdminHandler exposes the outbox, the DLQ and a health probe.
type AdminHandler struct {
	db      *gorm.DB
	retrier Retrier
	logger  *slog.Logger
}

// NewAdminHandler serves the retry route only when retrier is non-nil.
func NewAdminHandler(db *gorm.DB, retrier Retrier, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{db: db, retrier: retrier, logger: logger}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Get("/api/outbox", h.outbox)
	r.Get("/api/dlq", h.dlq)
	if h.retrier != nil {
		r.Post("/api/retry/{id}", h.retry)
	}
}

func (h *AdminHandler) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", "error", err)
		writeFailure(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) outbox(w http.ResponseWriter, r *http.Request) {
	var events []models.Outbox
	if err := h.db.WithContext(r.Context()).Order("id desc").Limit(adminListLimit).Find(&events).Error; err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *AdminHandler) dlq(w http.ResponseWriter, r *http.Request) {
	var rows []models.DLQ
	if err := h.db.WithContext(r.Context()).Order("id desc").Limit(adminListLimit).Find(&rows).Error; err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) retry(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: invalid id %q", errBadRequest, raw))
		return
	}
	if err := h.retrier.Retry(r.Context(), id); err != nil {
		if errors.Is(err, workers.ErrDLQNotFound) {
			writeFailure(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.WarnContext(r.Context(), "retry failed", "dlq_id", id, "error", err)
		writeFailure(w, http.StatusBadGateway, "retry failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "retried"})
}
