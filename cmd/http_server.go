package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/comment"
	"github.com/mazta/kpi-dashboard/internal/document"
	"github.com/mazta/kpi-dashboard/internal/kpi"
	"github.com/mazta/kpi-dashboard/internal/report"
	"github.com/mazta/kpi-dashboard/internal/sheets"
	"github.com/mazta/kpi-dashboard/internal/transport/rest"
	"github.com/mazta/kpi-dashboard/pkg/logger"
	"github.com/mazta/kpi-dashboard/pkg/metrics"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle dashboard API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	Router  *chi.Mux
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	SheetsClient *sheets.Client
	AuthService  *auth.Service

	AuthHandler     *auth.Handler
	KpiHandler      *kpi.Handler
	ReportHandler   *report.Handler
	CommentHandler  *comment.Handler
	DocumentHandler *document.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	if deps.Metrics != nil {
		go reportActiveSessions(deps)
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

// reportActiveSessions refreshes the session gauge; counting prunes
// expired sessions as a side effect.
func reportActiveSessions(deps *Dependencies) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		deps.Metrics.SetActiveSessions(deps.AuthService.ActiveSessions())
	}
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(
		deps.Router,
		deps.SheetsClient,
		deps.AuthHandler,
		deps.KpiHandler,
		deps.ReportHandler,
		deps.CommentHandler,
		deps.DocumentHandler,
		deps.Metrics,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	var m *metrics.Metrics
	if config.Observability.Metrics.Enabled {
		m = metrics.New("kpi_dashboard")
	}

	sheetsClient := sheets.NewClient(config.Sheets, appLogger, m)

	sessionStore := auth.NewStore(config.Session.TTL)
	authService := auth.NewService(sheetsClient, sessionStore, appLogger)
	authHandler := auth.NewHandler(authService, config.Session)

	policy := kpi.CountMissingAsZero
	if config.Sheets.ExcludeMissing {
		policy = kpi.ExcludeMissing
	}
	kpiService := kpi.NewService(sheetsClient, policy, appLogger)
	kpiHandler := kpi.NewHandler(kpiService)

	reportService := report.NewService(sheetsClient, appLogger)
	reportHandler := report.NewHandler(reportService)

	commentService := comment.NewService(sheetsClient, appLogger)
	commentHandler := comment.NewHandler(commentService)

	diskStore, err := document.NewDiskStore(config.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}
	documentService := document.NewService(sheetsClient, diskStore, config.Storage.MaxUploadSize, appLogger)
	documentHandler := document.NewHandler(documentService, config.Storage.MaxUploadSize)

	return &Dependencies{
		Config:  config,
		Router:  chi.NewRouter(),
		Logger:  appLogger,
		Metrics: m,

		SheetsClient: sheetsClient,
		AuthService:  authService,

		AuthHandler:     authHandler,
		KpiHandler:      kpiHandler,
		ReportHandler:   reportHandler,
		CommentHandler:  commentHandler,
		DocumentHandler: documentHandler,
	}, nil
}
