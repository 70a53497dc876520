package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sirdesai22/registration-dashboard/internal/api"
	"github.com/sirdesai22/registration-dashboard/internal/config"
	"github.com/sirdesai22/registration-dashboard/internal/db"
	"github.com/sirdesai22/registration-dashboard/internal/elastic"
	"github.com/sirdesai22/registration-dashboard/internal/export"
	"github.com/sirdesai22/registration-dashboard/internal/logger"
	"github.com/sirdesai22/registration-dashboard/internal/metrics"
	"github.com/sirdesai22/registration-dashboard/internal/services"
	"github.com/sirdesai22/registration-dashboard/internal/store"
	"github.com/sirdesai22/registration-dashboard/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := db.Connect(cfg.PostgresDSN, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(pg, log); err != nil {
		return err
	}
	if cfg.Seed {
		if err := db.Seed(pg, log, store.CreateTx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	metrics.Register()

	svc := services.NewRegistrationService(store.NewPostgresStore(pg), services.WithLogger(log))
	fontOpt, err := export.WithPDFFontFile(cfg.PDFFont)
	if err != nil {
		return err
	}
	exporter := export.NewExporter(export.WithLogger(log), fontOpt)
	handlers := []api.Registrar{
		api.NewRegistrationHandler(svc, api.WithLogger(log), api.WithExporter(exporter)),
	}

	if cfg.SyncEnabled() {
		es, err := elastic.Connect(cfg.ElasticURL, log)
		if err != nil {
			return err
		}
		worker := &workers.SyncWorker{DB: pg, ES: es, Logger: log}
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Error("sync worker stopped", "error", err)
			}
		}()
		go worker.RetryDLQ(ctx)
		handlers = append(handlers, api.NewAdminHandler(pg, worker, log))
	} else {
		log.Info("ELASTIC_URL not set, search sync disabled")
		handlers = append(handlers, api.NewAdminHandler(pg, nil, log))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(log, cfg.CORSOrigins, handlers...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🧭 Registration API running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listener failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
