package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"draftdesk/internal/config"
	"draftdesk/internal/handler"
	"draftdesk/internal/logger"
	"draftdesk/internal/repair"
	"draftdesk/internal/router"
	"draftdesk/internal/service"
	"draftdesk/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg := logger.New(cfg.Log.Level, cfg.Log.Format)

	// Initialize engines
	validatorEngine := validator.NewEngine(validator.NewDefaultRegistry())
	repairEngine := repair.NewEngine(repair.Defaults{
		InvoiceDueDays:     cfg.Repair.InvoiceDueDays,
		QuotationValidDays: cfg.Repair.QuotationValidDays,
		Currency:           cfg.Repair.Currency,
		Locale:             cfg.Repair.Locale,
		Unit:               cfg.Repair.Unit,
	}, validatorEngine, logg)

	// Initialize services
	documentSvc := service.NewDocumentService(repairEngine, validatorEngine, logg)
	paymentSvc := service.NewPaymentService(logg)
	exportSvc := service.NewExportService(repairEngine, nil, logg)

	// Setup router
	r := router.Setup(cfg, logg, router.Handlers{
		Document: handler.NewDocumentHandler(documentSvc),
		Payment:  handler.NewPaymentHandler(paymentSvc),
		Export:   handler.NewExportHandler(exportSvc),
		Health:   handler.NewHealthHandler(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Str("addr", cfg.Server.Port).Str("environment", cfg.Server.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
