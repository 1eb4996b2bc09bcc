package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/domain/models"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/persistence"
	"inkwell/internal/repository/sqlite"
	"inkwell/internal/service/assembly"
	"inkwell/internal/service/completion"
	"inkwell/internal/service/prompt"
	"inkwell/internal/service/session"
	"inkwell/internal/service/workspace"
	"inkwell/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// Outside dev, mirror logs into the data directory alongside the store
	logOutput := io.Writer(os.Stdout)
	if cfg.Environment != "dev" {
		if f, err := config.SetupLogFile(filepath.Join(cfg.DataDir, "logs"), 5); err == nil {
			defer f.Close()
			logOutput = io.MultiWriter(os.Stdout, f)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"data_dir", cfg.DataDir,
	)

	if cfg.APIKey == "" {
		logger.Warn("OPENROUTER_API_KEY is not set; generation requests will fail until it is")
	}

	// Open the local store
	kv, err := sqlite.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer kv.Close()

	logger.Info("local store opened", "dir", cfg.DataDir)

	// Load the persisted snapshot; a missing or unreadable one means
	// first run
	gateway := persistence.NewGateway(kv, cfg.Passphrase, logger)

	ctx := context.Background()
	snap, err := gateway.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	st := store.New()
	if snap != nil {
		st.LoadSnapshot(snap)
		logger.Info("snapshot restored",
			"projects", len(snap.Projects),
			"documents", len(snap.Documents),
		)
	} else {
		logger.Info("no usable snapshot, starting fresh")
	}

	var settings *models.Settings
	if snap != nil {
		settings = snap.Settings
	}

	// Session controller owns the settings; the prompt builder reads
	// them through it, so it is wired in a second step
	controller := session.NewController(st, gateway, settings, cfg.DefaultModel, logger)

	promptBuilder, err := prompt.NewBuilder(controller.Settings)
	if err != nil {
		log.Fatalf("Failed to load prompt templates: %v", err)
	}

	assembler := assembly.New(st, logger)
	client := completion.NewClient(cfg.APIKey, cfg.BaseURL, logger)
	controller.Wire(assembler, promptBuilder, client)
	controller.RestoreLastOpened()

	workspaceService := workspace.New(st, controller, controller, logger)

	logger.Info("services initialized")

	// Create handlers
	projectHandler := handler.NewProjectHandler(workspaceService, logger)
	documentHandler := handler.NewDocumentHandler(workspaceService, logger)
	sessionHandler := handler.NewSessionHandler(controller, logger)
	settingsHandler := handler.NewSettingsHandler(controller, logger)
	modelsHandler := handler.NewModelsHandler(client, controller, logger)
	backupHandler := handler.NewBackupHandler(controller, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", documentHandler.HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)

	// Project-scoped document routes
	mux.HandleFunc("GET /api/projects/{id}/documents", documentHandler.ListDocuments)
	mux.HandleFunc("POST /api/projects/{id}/documents", documentHandler.CreateDocument)
	mux.HandleFunc("POST /api/projects/{id}/reorder", documentHandler.Reorder)

	// Document routes
	mux.HandleFunc("GET /api/documents/{id}", documentHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", documentHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", documentHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/toggle", documentHandler.ToggleEnabled)
	mux.HandleFunc("GET /api/documents/{id}/export", documentHandler.ExportDocument)

	// Session routes
	mux.HandleFunc("GET /api/session", sessionHandler.State)
	mux.HandleFunc("POST /api/session/projects/{id}/open", sessionHandler.OpenProject)
	mux.HandleFunc("POST /api/session/documents/{id}/open", sessionHandler.OpenDocument)
	mux.HandleFunc("POST /api/session/documents/close", sessionHandler.CloseDocument)
	mux.HandleFunc("GET /api/session/context", sessionHandler.PreviewContext)
	mux.HandleFunc("POST /api/session/generate", sessionHandler.Generate)

	// Settings routes
	mux.HandleFunc("GET /api/settings", settingsHandler.GetSettings)
	mux.HandleFunc("PATCH /api/settings", settingsHandler.UpdateSettings)

	// Model catalog routes
	mux.HandleFunc("GET /api/models", modelsHandler.ListModels)

	// Backup routes
	mux.HandleFunc("GET /api/backup", backupHandler.Export)
	mux.HandleFunc("POST /api/backup", backupHandler.Import)

	// Build middleware chain
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	// CORS - the browser frontend is served from a different origin in dev
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can run long
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal, then flush any pending autosave before
	// the process exits
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := controller.Flush(shutdownCtx); err != nil {
		logger.Error("final save failed", "error", err)
	}

	logger.Info("server stopped")
}
