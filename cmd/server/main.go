package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TiberiusBR/sheet-nubank-updater/internal/api/handlers"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/api/middleware"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/config"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/logger"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/nubank"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/pipeline"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/scheduler"
	"github.com/TiberiusBR/sheet-nubank-updater/internal/sheets"
)

func main() {
	// Parse command-line flags
	var (
		port    = flag.String("port", "", "HTTP server port (overrides PORT env)")
		timeout = flag.Duration("upstream-timeout", 30*time.Second, "Bound on each upstream call")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}

	ctx := context.Background()

	// Authenticate against the bank once at startup; feed reads reuse the
	// bearer token.
	bank := nubank.New(cfg.NubankBaseURL, log)
	if err := bank.AuthenticateWithCert(ctx, cfg.NubankCPF, cfg.NubankPassword, cfg.NubankCertPath, cfg.NubankKeyPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to authenticate with Nubank")
	}

	sheet, err := sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.GoogleClientFile, cfg.GoogleTokenFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create spreadsheet client")
	}

	runner := pipeline.New(bank, sheet, *timeout, log)

	// Optional daily trigger
	schedCtx, cancelSched := context.WithCancel(ctx)
	defer cancelSched()
	if cfg.RunAt != "" {
		sched, err := scheduler.New(runner, cfg.RunAt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create scheduler")
		}
		sched.Start(schedCtx)
		log.Info().Str("run_at", cfg.RunAt).Msg("Daily scheduler enabled")
	}

	// Initialize handlers
	reconcileHandler := handlers.NewReconcileHandler(runner)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		reconcileHandler.Health(w, r)
	})

	mux.HandleFunc("/cardbill", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reconcileHandler.CardBill(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(mux),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // a reconciliation run makes several upstream calls
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelSched()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
