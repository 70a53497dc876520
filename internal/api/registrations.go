// Package api exposes the registration service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sirdesai22/registration-dashboard/internal/export"
	"github.com/sirdesai22/registration-dashboard/internal/models"
)

const maxBodyBytes = 1 << 20

// Registrations is the service surface the handler needs.
type Registrations interface {
	List(ctx context.Context) ([]models.Registration, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	Create(ctx context.Context, in models.RegistrationInput) (*models.Registration, error)
	Update(ctx context.Context, id uuid.UUID, in models.RegistrationInput) (*models.Registration, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RegistrationHandler serves /api/registrations.
type RegistrationHandler struct {
	svc      Registrations
	exporter *export.Exporter
	logger   *slog.Logger
}

type Option func(h *RegistrationHandler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *RegistrationHandler) {
		h.logger = logger
	}
}

// WithExporter shares an exporter with other callers so the single-flight
// guard spans all of them.
func WithExporter(e *export.Exporter) Option {
	return func(h *RegistrationHandler) {
		h.exporter = e
	}
}

func NewRegistrationHandler(svc Registrations, opts ...Option) *RegistrationHandler {
	h := &RegistrationHandler{svc: svc, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	if h.exporter == nil {
		h.exporter = export.NewExporter(export.WithLogger(h.logger))
	}
	return h
}

func (h *RegistrationHandler) Register(r chi.Router) {
	r.Route("/api/registrations", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/export/{format}", h.export)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *RegistrationHandler) list(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if regs == nil {
		regs = []models.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

func (h *RegistrationHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	reg, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *RegistrationHandler) create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	reg, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (h *RegistrationHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	in, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	reg, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *RegistrationHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// export encodes the whole collection. Headers are set up front; on failure
// nothing has been written, so writeError can still replace them.
func (h *RegistrationHandler) export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	enc, ok := h.exporter.Encoder(format)
	if !ok {
		writeError(w, r, h.logger, fmt.Errorf("%w: %q", export.ErrUnknownFormat, format))
		return
	}
	regs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", enc.FileName()))
	if _, err := h.exporter.Export(r.Context(), format, regs, w); err != nil {
		w.Header().Del("Content-Disposition")
		writeError(w, r, h.logger, err)
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

func decodeInput(w http.ResponseWriter, r *http.Request) (models.RegistrationInput, error) {
	var in models.RegistrationInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return in, nil
}
