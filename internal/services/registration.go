package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sirdesai22/registration-dashboard/internal/metrics"
	"github.com/sirdesai22/registration-dashboard/internal/models"
	"github.com/sirdesai22/registration-dashboard/internal/store"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// ValidationError reports required fields that were empty on submission.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

type Store interface {
	List(ctx context.Context) ([]models.Registration, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	Create(ctx context.Context, r *models.Registration) error
	Update(ctx context.Context, r *models.Registration) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RegistrationService validates input and maps store facts to service errors.
type RegistrationService struct {
	store  Store
	logger *slog.Logger
}

type Option func(s *RegistrationService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *RegistrationService) {
		s.logger = logger
	}
}

func NewRegistrationService(st Store, opts ...Option) *RegistrationService {
	s := &RegistrationService{store: st, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RegistrationService) List(ctx context.Context) ([]models.Registration, error) {
	regs, err := s.store.List(ctx)
	s.observe("list", err)
	return regs, err
}

func (s *RegistrationService) Get(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr("get", err)
	}
	s.observe("get", nil)
	return r, nil
}

func (s *RegistrationService) Create(ctx context.Context, in models.RegistrationInput) (*models.Registration, error) {
	in = in.Normalize()
	if missing := in.Missing(); len(missing) > 0 {
		s.observe("create", errValidation)
		return nil, &ValidationError{Missing: missing}
	}

	r := &models.Registration{}
	r.Apply(in)
	if err := s.store.Create(ctx, r); err != nil {
		return nil, s.mapErr("create", err)
	}
	s.observe("create", nil)
	s.logger.InfoContext(ctx, "📤 registration created", "id", r.ID, "event", r.Event)
	return r, nil
}

// Update replaces every business field of the registration with in.
func (s *RegistrationService) Update(ctx context.Context, id uuid.UUID, in models.RegistrationInput) (*models.Registration, error) {
	in = in.Normalize()
	if missing := in.Missing(); len(missing) > 0 {
		s.observe("update", errValidation)
		return nil, &ValidationError{Missing: missing}
	}

	r := &models.Registration{ID: id}
	r.Apply(in)
	if err := s.store.Update(ctx, r); err != nil {
		return nil, s.mapErr("update", err)
	}
	s.observe("update", nil)
	s.logger.InfoContext(ctx, "📤 registration updated", "id", r.ID)
	return r, nil
}

func (s *RegistrationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapErr("delete", err)
	}
	s.observe("delete", nil)
	s.logger.InfoContext(ctx, "🗑️ registration deleted", "id", id)
	return nil
}

var errValidation = errors.New("validation")

func (s *RegistrationService) mapErr(op string, err error) error {
	s.observe(op, err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrDuplicateEmail
	default:
		return err
	}
}

func (s *RegistrationService) observe(op string, err error) {
	metrics.RegistrationOps.WithLabelValues(op, metrics.Result(err)).Inc()
}
