package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/peopledesk/hrops-backend-go/internal/handler/http/middleware"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	env string,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	notificationHandler NotificationHandler,
	taskHandler TaskHandler,
	jobsHandler JobsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrops-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
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

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/my", attendanceHandler.ListMy)

				// Admin or HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOrHROnly)
					r.Post("/manual-close", attendanceHandler.ManualClose)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.SubmitRequest)
					r.Get("/my", leaveHandler.ListMyRequests)
					r.Get("/{requestID}", leaveHandler.GetRequest)
					r.Post("/{requestID}/cancel", leaveHandler.CancelRequest)

					// Admin or HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOrHROnly)
						r.Post("/{requestID}/approve", leaveHandler.ApproveRequest)
						r.Post("/{requestID}/reject", leaveHandler.RejectRequest)
					})
				})

				r.Route("/balances", func(r chi.Router) {
					r.Get("/my", leaveHandler.ListMyBalances)

					// Admin or HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOrHROnly)
						r.Post("/", leaveHandler.OpenBalance)
						r.Put("/", leaveHandler.ResetBalance)
						r.Post("/{employeeID}/resync", leaveHandler.ResyncSummary)
					})
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/stream", notificationHandler.Stream)
				r.Put("/{notificationID}/read", notificationHandler.MarkRead)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/my", taskHandler.ListMy)

				// Admin or HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOrHROnly)
					r.Post("/", taskHandler.Create)
				})
			})

			// Admin or HR only
			r.Route("/jobs", func(r chi.Router) {
				r.Use(middleware.AdminOrHROnly)
				r.Post("/midnight-closeout", jobsHandler.RunMidnightCloseout)
				r.Post("/reminder-sweep", jobsHandler.RunReminderSweep)
			})
		})
	})
	return r
}
