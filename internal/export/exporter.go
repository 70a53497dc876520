package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirdesai22/registration-dashboard/internal/metrics"
	"github.com/sirdesai22/registration-dashboard/internal/models"
)

// Artifact describes a finished export.
type Artifact struct {
	Format      Format
	FileName    string
	ContentType string
	Rows        int
	Size        int
}

// Exporter runs at most one export at a time. A request made while another is
// in flight is rejected with ErrExportInProgress.
type Exporter struct {
	inFlight atomic.Bool
	encoders map[Format]Encoder
	logger   *slog.Logger
	tracer   trace.Tracer
}

type Option func(e *Exporter)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithEncoder registers enc, replacing any encoder for the same format.
func WithEncoder(enc Encoder) Option {
	return func(e *Exporter) {
		e.encoders[enc.Format()] = enc
	}
}

// NewExporter returns an Exporter with the spreadsheet, PDF and document
// encoders registered.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		encoders: map[Format]Encoder{},
		logger:   slog.Default(),
		tracer:   otel.Tracer("github.com/sirdesai22/registration-dashboard/internal/export"),
	}
	for _, enc := range []Encoder{NewSpreadsheet(), NewPDF(), NewDocument()} {
		e.encoders[enc.Format()] = enc
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Busy reports whether an export is in flight. Callers use it to disable
// export controls.
func (e *Exporter) Busy() bool {
	return e.inFlight.Load()
}

// Formats lists the registered formats in a stable order.
func (e *Exporter) Formats() []Format {
	out := make([]Format, 0, len(e.encoders))
	for f := range e.encoders {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

func (e *Exporter) Encoder(f Format) (Encoder, bool) {
	enc, ok := e.encoders[f]
	return enc, ok
}

// Export encodes records in format f and writes the finished artifact to w.
// The artifact is fully built in memory first, so on any error nothing has
// been written.
func (e *Exporter) Export(ctx context.Context, f Format, records []models.Registration, w io.Writer) (Artifact, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return Artifact{}, ErrExportInProgress
	}
	defer e.inFlight.Store(false)

	enc, ok := e.encoders[f]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	ctx, span := e.tracer.Start(ctx, "export.Export", trace.WithAttributes(
		attribute.String("export.format", string(f)),
		attribute.Int("export.records", len(records)),
	))
	defer span.End()

	start := time.Now()
	art, err := e.encode(ctx, enc, records, w)
	metrics.Exports.WithLabelValues(string(f), metrics.Result(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.ErrorContext(ctx, "export failed", "format", f, "error", err)
		return Artifact{}, fmt.Errorf("failed to export to %s: %w", enc.Label(), err)
	}
	metrics.ExportDuration.WithLabelValues(string(f)).Observe(time.Since(start).Seconds())
	e.logger.InfoContext(ctx, "export finished", "format", f, "rows", art.Rows, "bytes", art.Size)
	return art, nil
}

func (e *Exporter) encode(ctx context.Context, enc Encoder, records []models.Registration, w io.Writer) (Artifact, error) {
	table, err := NewTable(records)
	if err != nil {
		return Artifact{}, err
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, table); err != nil {
		return Artifact{}, err
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return Artifact{}, fmt.Errorf("write artifact: %w", err)
	}
	return Artifact{
		Format:      enc.Format(),
		FileName:    enc.FileName(),
		ContentType: enc.ContentType(),
		Rows:        len(table.Rows),
		Size:        n,
	}, nil
}
