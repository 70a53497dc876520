package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sirdesai22/registration-dashboard/internal/export"
	"github.com/sirdesai22/registration-dashboard/internal/services"
)

var errBadRequest = errors.New("bad request")

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

// writeError is the single place errors become HTTP statuses. Internal
// failures are logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeFailure(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, errBadRequest),
		errors.Is(err, export.ErrNoRecords),
		errors.Is(err, export.ErrUnknownFormat):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.Is(err, export.ErrExportInProgress):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Not found")
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
	}
}
