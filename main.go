package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm/logger"
)

func newRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.Debug {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)

	// allow comma-separated list of origins
	var origins []string
	for _, p := range strings.Split(cfg.CORSOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Finish bare OPTIONS quickly
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	// ---- Routes
	// Auth
	r.Post("/register", handleRegister)
	r.Post("/login", handleLogin)
	r.Get("/logout", handleLogout)

	// Password recovery, tightly limited per caller IP
	forgotLimiter := newRateLimiter(3, time.Hour)
	resetLimiter := newRateLimiter(5, time.Hour)
	r.With(forgotLimiter.middleware).Post("/api/forgot-password", handleForgotPassword)
	r.With(resetLimiter.middleware).Post("/api/reset-password", handleResetPassword)

	// Data routes behind the session gate, with the default throttle
	dayLimiter := newRateLimiter(200, 24*time.Hour)
	hourLimiter := newRateLimiter(50, time.Hour)
	r.Group(func(r chi.Router) {
		r.Use(dayLimiter.middleware, hourLimiter.middleware, requireAuth)

		r.Get("/api/me", handleMe)

		r.Get("/api/folders", handleListFolders)
		r.Post("/api/folders", handleCreateFolder)
		r.Delete("/api/folders/{id}", handleDeleteFolder)
		r.Get("/api/folders/{id}/notes", handleListNotes)

		r.Post("/api/notes", handleCreateNote)
		r.Put("/api/notes/{id}", handleUpdateNote)
		r.Delete("/api/notes/{id}", handleDeleteNote)

		r.Get("/api/study-sessions", handleListStudySessions)
		r.Post("/api/study-sessions", handleCreateStudySession)
		r.Get("/api/study-sessions/total", handleStudyTotal)
		r.Get("/api/study-sessions/stats", handleStudyStats)

		r.Get("/api/routine/tasks", handleListRoutineTasks)
		r.Post("/api/routine/tasks", handleCreateRoutineTask)
		r.Put("/api/routine/tasks/{id}", handleUpdateRoutineTask)
		r.Delete("/api/routine/tasks/{id}", handleDeleteRoutineTask)
		r.Post("/api/routine/tasks/{id}/toggle", handleToggleRoutineTask)
		r.Post("/api/routine/initialize", handleInitializeRoutine)

		r.Post("/api/chat", handleChat)

		r.Get("/api/export/notes", handleExportNotes)
		r.Get("/api/export/stats", handleExportStats)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/api/admin/users", handleAdminListUsers)
			r.Delete("/api/admin/users/{id}", handleAdminDeleteUser)
			r.Post("/api/admin/users/{id}/toggle-admin", handleAdminToggleAdmin)
		})
	})

	// Health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	// Generic payloads only; internals never leak
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorJSON(w, http.StatusNotFound, "not found")
	})

	return r
}

func main() {
	loadDotenv()
	cfg := loadConfig()

	if cfg.DatabaseURL == "" {
		log.Fatal("[DB] DATABASE_URL is not set. Refusing to start.")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("[auth] JWT_SECRET is not set. Refusing to start.")
	}
	// local only: allow sslmode=disable if using localhost
	dsn := cfg.DatabaseURL
	if strings.Contains(dsn, "localhost") && !strings.Contains(dsn, "sslmode=") {
		if strings.Contains(dsn, "?") {
			dsn += "&sslmode=disable"
		} else {
			dsn += "?sslmode=disable"
		}
	}

	// Quieter GORM logger
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold: 1500 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	var err error
	DB, _, err = openGormIPv4(dsn, gLogger) // pgx simple protocol + IPv4 enforced
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	log.Println("[DB] connected")

	if err := autoMigrate(DB); err != nil {
		log.Fatalf("[DB] migrate failed: %v", err)
	}

	r := newRouter(cfg)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Println("API listening on", addr, "CORS_ORIGIN:", cfg.CORSOrigin)
	log.Fatal(srv.ListenAndServe())
}
