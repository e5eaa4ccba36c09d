package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/homecare-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Absence      AbsenceHandler
	Leave        LeaveHandler
	Contract     ContractHandler
	Notification NotificationHandler
}

func NewRouter(JWTService jwt.Service, handlers Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "homecare-backend"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/absences", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAbsenceCreate))
					r.Post("/", handlers.Absence.Create)
					r.Post("/validate", handlers.Absence.Validate)
				})
				r.With(middleware.RequirePermission(user.PermissionAbsenceViewOwn)).Get("/my", handlers.Absence.ListMy)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", handlers.Absence.Get)
					r.With(middleware.RequirePermission(user.PermissionAbsenceCancel)).Delete("/", handlers.Absence.Cancel)

					// Employer only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireEmployer)
						r.Post("/approve", handlers.Absence.Approve)
						r.Post("/reject", handlers.Absence.Reject)
					})
				})
			})

			r.Route("/leave-balances", func(r chi.Router) {
				r.With(middleware.RequireEmployee).Get("/my", handlers.Leave.GetMyBalances)
				r.Get("/{contractID}", handlers.Leave.GetBalance)
				r.With(middleware.RequirePermission(user.PermissionLeaveBalanceAdjust)).Post("/{contractID}/adjust", handlers.Leave.AdjustBalance)
			})

			r.Route("/contracts", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionContractManage)).Post("/", handlers.Contract.Create)
				r.Get("/{id}", handlers.Contract.Get)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", handlers.Notification.List)
				r.Put("/read", handlers.Notification.MarkAsRead)
				r.Put("/read-all", handlers.Notification.MarkAllAsRead)
			})
		})
	})
	return r
}
