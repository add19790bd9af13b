package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-admin-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the deployment settings the router needs.
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	workspaces middleware.WorkspaceProvider,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	employeeHandler EmployeeHandler,
	enquiryHandler EnquiryHandler,
	dashboardHandler DashboardHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
		Level:       opts.LogLevel,
	})).With(
		slog.String("app", "hris-admin-dashboard"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", authHandler.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.LoadWorkspace(workspaces))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.CreateEmployee)
			})

			r.Get("/enquiries", enquiryHandler.ListEnquiries)

			r.Get("/dashboard/overview", dashboardHandler.GetOverview)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", attendanceHandler.Create)
				r.Get("/export.pdf", attendanceHandler.ExportPDF)

				r.Route("/view", func(r chi.Router) {
					r.Get("/", attendanceHandler.GetView)
					r.Put("/employee", attendanceHandler.SelectEmployee)
					r.Put("/month", attendanceHandler.SetMonth)
					r.Post("/refresh", attendanceHandler.Refresh)
					r.Delete("/error", attendanceHandler.DismissError)

					r.Route("/day", func(r chi.Router) {
						r.Post("/", attendanceHandler.OpenDay)
						r.Delete("/", attendanceHandler.CloseDay)
						r.Put("/status", attendanceHandler.SetDayStatus)
						r.Post("/clear", attendanceHandler.ClearDay)
					})

					r.Route("/add", func(r chi.Router) {
						r.Post("/", attendanceHandler.OpenAdd)
						r.Delete("/", attendanceHandler.CloseAdd)
					})
				})
			})

			r.Get("/events", eventsHandler.Stream)
		})
	})
	return r
}
