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

	"github.com/cmlabs-hris/hris-admin-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-admin-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/session"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-admin-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-admin-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-admin-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hris-admin-go/internal/service/dashboard"
	"github.com/cmlabs-hris/hris-admin-go/internal/service/workspace"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Invalid timezone", "timezone", cfg.App.Timezone, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionRepo, closeRepo, err := buildSessionRepository(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize session store", "store", cfg.Session.Store, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	apiClient := apiclient.NewClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, nil)
	hub := sse.NewHub()
	workspaces := workspace.NewRegistry(
		sessionRepo,
		apiClient,
		workspace.NotifierFactoryFunc(func(sessionID string) attendanceService.Notifier {
			return hub.Notifier(sessionID)
		}),
		loc,
		cfg.JWT.AccessExpiration,
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.IsProduction())
	authService := serviceAuth.NewAuthService(apiClient, workspaces, JWTService)
	dashboardSvc := dashboardService.NewDashboardService()

	scheduler := cron.NewScheduler()
	cron.NewSessionJobs(workspaces, cfg.Session.CleanupInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.FrontendURLs,
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		workspaces,
		appHTTP.NewAuthHandler(JWTService, authService),
		appHTTP.NewAttendanceHandler(),
		appHTTP.NewEmployeeHandler(),
		appHTTP.NewEnquiryHandler(),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewEventsHandler(hub),
	)

	// No write timeout: /api/v1/events streams for as long as the page is open.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "api_base_url", cfg.API.BaseURL, "session_store", cfg.Session.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// buildSessionRepository returns the configured session store and its cleanup func.
func buildSessionRepository(ctx context.Context, cfg *config.Config) (session.Repository, func(), error) {
	if cfg.Session.Store != config.SessionStorePostgres {
		slog.Info("Using in-memory session store, sessions end on restart")
		return session.NewMemoryRepository(), func() {}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
	})
	if err != nil {
		return nil, nil, err
	}

	repo := postgresql.NewSessionRepository(db, session.NewSealer(cfg.Session.Secret))
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	slog.Info("Using PostgreSQL session store", "host", cfg.Database.Host, "database", cfg.Database.Name)
	return repo, db.Close, nil
}
