// Package dashboard holds the explicit application state of the registration
// dashboard and orchestrates fetches, mutations, derivation and export.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirdesai22/registration-dashboard/internal/cache"
	"github.com/sirdesai22/registration-dashboard/internal/client"
	"github.com/sirdesai22/registration-dashboard/internal/export"
	"github.com/sirdesai22/registration-dashboard/internal/models"
	"github.com/sirdesai22/registration-dashboard/internal/view"
)

// Access is the registration access layer. *client.HTTPClient satisfies it.
type Access interface {
	List(ctx context.Context) ([]models.Registration, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	Create(ctx context.Context, in models.RegistrationInput) (*models.Registration, error)
	Update(ctx context.Context, id uuid.UUID, in models.RegistrationInput) (*models.Registration, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Scope picks which records an export covers.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeView
)

type NoticeKind string

const (
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a dismissible, non-fatal message for the user.
type Notice struct {
	Kind    NoticeKind
	Message string
	At      time.Time
}

type Dashboard struct {
	access   Access
	mirror   *cache.Mirror
	exporter *export.Exporter
	logger   *slog.Logger

	mu      sync.RWMutex
	records []models.Registration
	state   view.State
	notice  *Notice
}

type Option func(d *Dashboard)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) {
		d.logger = logger
	}
}

func WithExporter(e *export.Exporter) Option {
	return func(d *Dashboard) {
		d.exporter = e
	}
}

func New(access Access, mirror *cache.Mirror, opts ...Option) *Dashboard {
	d := &Dashboard{access: access, mirror: mirror, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	if d.mirror == nil {
		d.mirror = cache.New("", d.logger)
	}
	if d.exporter == nil {
		d.exporter = export.NewExporter(export.WithLogger(d.logger))
	}
	return d
}

// Open paints from the cache mirror, then refreshes from the server.
func (d *Dashboard) Open(ctx context.Context) error {
	if regs, ok := d.mirror.Load(); ok {
		d.mu.Lock()
		d.records = regs
		d.mu.Unlock()
		d.logger.DebugContext(ctx, "painted from cache", "records", len(regs))
	}
	return d.Refresh(ctx)
}

// Refresh replaces the collection with the server's list. A response that
// arrives after a newer fetch was started is dropped. On failure the last
// known collection is kept and a notice recorded; there is no retry.
func (d *Dashboard) Refresh(ctx context.Context) error {
	ticket := d.mirror.BeginFetch()
	regs, err := d.access.List(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "fetch registrations failed", "seq", ticket.Seq(), "error", err)
		d.setNotice(NoticeWarning, "Could not load registrations: "+err.Error())
		return fmt.Errorf("fetch registrations: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	applied, err := d.mirror.Apply(ticket, regs)
	if !applied {
		return nil
	}
	if err != nil {
		d.logger.WarnContext(ctx, "cache not persisted", "error", err)
	}
	d.records = slices.Clone(regs)
	return nil
}

// Create submits in, then refreshes. A validation failure comes back as a
// *client.APIError and leaves the caller's input as it was.
func (d *Dashboard) Create(ctx context.Context, in models.RegistrationInput) (*models.Registration, error) {
	reg, err := d.access.Create(ctx, in)
	if err != nil {
		return nil, d.mutationFailed(ctx, "create", err)
	}
	d.refreshAfter(ctx)
	return reg, nil
}

// Update replaces every business field of id, then refreshes.
func (d *Dashboard) Update(ctx context.Context, id uuid.UUID, in models.RegistrationInput) (*models.Registration, error) {
	reg, err := d.access.Update(ctx, id, in)
	if err != nil {
		return nil, d.mutationFailed(ctx, "update", err)
	}
	d.refreshAfter(ctx)
	return reg, nil
}

func (d *Dashboard) Delete(ctx context.Context, id uuid.UUID) error {
	if err := d.access.Delete(ctx, id); err != nil {
		return d.mutationFailed(ctx, "delete", err)
	}
	d.refreshAfter(ctx)
	return nil
}

// Get returns a record from the server.
func (d *Dashboard) Get(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	return d.access.Get(ctx, id)
}

func (d *Dashboard) refreshAfter(ctx context.Context) {
	// Refresh records its own notice; the mutation itself succeeded.
	_ = d.Refresh(ctx)
}

func (d *Dashboard) mutationFailed(ctx context.Context, op string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.IsValidation() {
		return err
	}
	d.logger.ErrorContext(ctx, "registration mutation failed", "op", op, "error", err)
	d.setNotice(NoticeError, fmt.Sprintf("Failed to %s registration: %v", op, err))
	return err
}

func (d *Dashboard) SetState(st view.State) {
	d.mu.Lock()
	d.state = st
	d.mu.Unlock()
}

func (d *Dashboard) State() view.State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Records returns a copy of the full collection.
func (d *Dashboard) Records() []models.Registration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.records)
}

// View derives the visible rows from the collection and the current state.
func (d *Dashboard) View() []models.Registration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return view.Derive(d.records, d.state)
}

func (d *Dashboard) Analytics(q view.AnalyticsQuery) view.AnalyticsReport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return view.Analytics(d.records, q)
}

// Charts always covers the full collection, ignoring search and filters.
func (d *Dashboard) Charts() (bar, pie view.ChartSeries) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return view.Charts(d.records)
}

// Options lists the distinct events and colleges for filter choices.
func (d *Dashboard) Options() (events, colleges []string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return view.Distinct(d.records, models.KeyEvent), view.Distinct(d.records, models.KeyCollege)
}

// ExportBusy reports whether export controls should be disabled.
func (d *Dashboard) ExportBusy() bool {
	return d.exporter.Busy()
}

// Export writes the chosen scope in format f to w. Failures are also kept as
// a notice.
func (d *Dashboard) Export(ctx context.Context, f export.Format, scope Scope, w io.Writer) (export.Artifact, error) {
	records := d.Records()
	if scope == ScopeView {
		records = d.View()
	}
	art, err := d.exporter.Export(ctx, f, records, w)
	if err != nil {
		d.setNotice(NoticeError, err.Error())
		return export.Artifact{}, err
	}
	return art, nil
}

func (d *Dashboard) Notice() (Notice, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.notice == nil {
		return Notice{}, false
	}
	return *d.notice, true
}

func (d *Dashboard) DismissNotice() {
	d.mu.Lock()
	d.notice = nil
	d.mu.Unlock()
}

func (d *Dashboard) setNotice(kind NoticeKind, msg string) {
	d.mu.Lock()
	d.notice = &Notice{Kind: kind, Message: msg, At: time.Now()}
	d.mu.Unlock()
}
