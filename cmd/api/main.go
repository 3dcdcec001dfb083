package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmcosta/financas-familia/internal/api/handlers"
	"github.com/lmcosta/financas-familia/internal/api/middleware"
	"github.com/lmcosta/financas-familia/internal/archive"
	"github.com/lmcosta/financas-familia/internal/backup"
	infraBQ "github.com/lmcosta/financas-familia/internal/infra/bigquery"
	"github.com/lmcosta/financas-familia/internal/jobs"
	"github.com/lmcosta/financas-familia/internal/jobs/inmemory"
	"github.com/lmcosta/financas-familia/internal/logger"
	"github.com/lmcosta/financas-familia/internal/ocr"
)

func main() {
	// Parse command-line flags
	var (
		port    = flag.String("port", "8080", "HTTP server port")
		project = flag.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID (or set GCP_PROJECT env)")
		dataset = flag.String("dataset", os.Getenv("BQ_DATASET"), "BigQuery dataset (or set BQ_DATASET env)")
		bucket  = flag.String("bucket", os.Getenv("BACKUP_BUCKET"), "GCS bucket for archived snapshots (or set BACKUP_BUCKET env)")
		model   = flag.String("model", ocr.DefaultModelName, "Gemini model for receipt parsing")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New("api")

	if *project == "" || *dataset == "" {
		log.Fatal().Msg("GCP_PROJECT and BQ_DATASET are required")
	}
	if *bucket == "" {
		log.Warn().Msg("No backup bucket configured - snapshot archiving will be disabled")
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set - receipt imports will fail")
	}

	ctx := context.Background()

	// Initialize the data store
	st, err := infraBQ.New(ctx, *project, *dataset, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery store")
	}
	defer st.Close()

	// Initialize backup layer
	exporter := backup.NewExporter(st, log)
	restorer := backup.NewRestorer(st, log)

	// Optional off-site archive
	var archiver jobs.SnapshotArchiver
	if *bucket != "" {
		arc, err := archive.New(ctx, *bucket, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create snapshot archive")
		}
		defer arc.Close()
		archiver = arc
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore)

	parser := ocr.NewParser(*model, log)
	runner := jobs.NewRunner(st, parser, exporter, archiver, log)

	// Start workers in background to process jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	log.Info().Msg("Starting job workers")
	if err := jobQueue.Start(workerCtx, runner.Handle); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}

	// Initialize handlers
	backupHandler := handlers.NewBackupHandler(exporter, restorer, jobQueue, log)
	dashboardHandler := handlers.NewDashboardHandler(st, log)
	resourcesHandler := handlers.NewResourcesHandler(st, log)
	importsHandler := handlers.NewImportsHandler(jobQueue, jobStore, log)

	// Create router
	mux := http.NewServeMux()

	// Backup endpoints
	mux.HandleFunc("/api/backup/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			backupHandler.Export(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/backup/restore", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			backupHandler.Restore(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Dashboard endpoints
	mux.HandleFunc("/api/dashboard/budget-rule", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.BudgetRule(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard/allocation", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Allocation(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard/goal-alerts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.GoalAlerts(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard/projection", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Projection(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Resource endpoints
	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			resourcesHandler.ListAccounts(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			resourcesHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Import endpoints
	mux.HandleFunc("/api/import/receipt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importsHandler.ImportReceipt(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			importsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check stays outside the auth chain so load balancers can probe
	// without a session.
	root := http.NewServeMux()
	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	root.Handle("/", middleware.Auth(st)(mux))

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(root),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
