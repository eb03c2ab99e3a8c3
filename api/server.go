/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. CORS:       Cross-origin requests for the frontend
  3. Logger:     httplog request logging, ECS schema
  4. CleanPath:  Collapses duplicate slashes
  5. Recoverer:  Panic recovery (500 instead of crash)

ROUTE GROUPS:
  /api/health           Liveness (no actor)
  /api/seed             Demo users (no actor, disabled in production)
  /api/users/*          Directory and team status board (admin, manager);
                        /me for any actor
  /api/time/*           Clock in/out, breaks and manual entries; session
                        edits (admin) and cancellation (admin, manager)
  /api/leaves/*         Leave requests, balance and approvals
  /api/payroll/*        Monthly preview (admin, manager)
  /api/roles            Role listing (admin, manager)

ACTOR:
  Every route below /api except health and seed needs an X-User-ID header
  naming a stored user. There is no authentication; see middleware.go.

SEE ALSO:
  - handlers_*.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/warp/timekeeper/core"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger      *slog.Logger
	LogLevel    slog.Level
	CORSOrigins []string

	// EnableSeed mounts POST /api/seed.
	EnableSeed bool
}

// NewLogger builds the JSON logger shared by request logging and services.
func NewLogger(app, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("env", env),
	)
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", ActorHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		MaxAge:           300,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)

	approvers := RequireRole(approverRoles...)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		if opts.EnableSeed {
			r.Post("/seed", h.Seed)
		}

		r.Group(func(r chi.Router) {
			r.Use(h.RequireActor)

			// User routes
			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.GetCurrentUser)
				r.With(approvers).Get("/all/status", h.ListTeamStatus)
				r.With(approvers).Get("/", h.ListUsers)
				r.With(approvers).Get("/{id}", h.GetUser)
				r.With(approvers).Get("/{id}/time-status", h.GetUserTimeStatus)
				r.With(approvers).Get("/{id}/time-sessions", h.ListUserSessions)
			})

			// Time tracking routes
			r.Route("/time", func(r chi.Router) {
				r.Post("/clock-in", h.ClockIn)
				r.Post("/clock-out", h.ClockOut)
				r.Post("/break/start", h.StartBreak)
				r.Post("/break/end", h.EndBreak)
				r.Get("/status", h.GetTimeStatus)
				r.Get("/my", h.ListMySessions)
				r.Get("/entries", h.ListEntries)
				r.Post("/entries", h.CreateEntry)
				r.Get("/entries/{id}", h.GetEntry)
				r.Patch("/entries/{id}", h.UpdateEntry)
				r.With(RequireRole(core.RoleAdmin)).Patch("/sessions/{id}", h.UpdateSession)
				r.With(approvers).Post("/sessions/{id}/cancel", h.CancelSession)
			})

			r.With(approvers).Get("/roles", h.ListRoles)

			// Leave routes
			r.Route("/leaves", func(r chi.Router) {
				r.Post("/request", h.RequestLeave)
				r.Get("/my", h.ListMyLeaves)
				r.Get("/balance", h.GetLeaveBalance)
				r.Group(func(r chi.Router) {
					r.Use(approvers)
					r.Get("/pending", h.ListPendingLeaves)
					r.Get("/all", h.ListAllLeaves)
					r.Post("/{id}/approve", h.ApproveLeave)
					r.Post("/{id}/reject", h.RejectLeave)
				})
			})

			// Payroll routes
			r.Route("/payroll", func(r chi.Router) {
				r.Use(approvers)
				r.Get("/preview", h.PreviewPayroll)
			})
		})
	})

	return r
}
