package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/logging"
	"github.com/AlexTLDR/wedding/internal/mailer"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/internal/server/handlers"
)

const sessionName = "auth-session"

type Server struct {
	config       *config.Config
	db           *database.DB
	rsvp         *rsvp.Service
	mailer       *mailer.Mailer
	sessionStore *sessions.CookieStore
	router       *http.ServeMux
	httpServer   *http.Server
}

// GetDB implements handlers.Server interface
func (s *Server) GetDB() *database.DB {
	return s.db
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

// GetRSVP implements handlers.Server interface
func (s *Server) GetRSVP() *rsvp.Service {
	return s.rsvp
}

// GetMailer implements handlers.AdminServer interface
func (s *Server) GetMailer() *mailer.Mailer {
	return s.mailer
}

// GetCurrentUser implements handlers.AdminServer interface
func (s *Server) GetCurrentUser(r *http.Request) (string, string) {
	session, _ := s.sessionStore.Get(r, sessionName)
	email, _ := session.Values["email"].(string)
	name, _ := session.Values["name"].(string)
	return email, name
}

func New(cfg *config.Config, db *database.DB, m *mailer.Mailer) *Server {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		config:       cfg,
		db:           db,
		rsvp:         rsvp.NewService(db, cfg.CompanionMarker),
		mailer:       m,
		sessionStore: store,
		router:       http.NewServeMux(),
	}

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	fs := http.FileServer(http.Dir("./static"))
	s.router.Handle("GET /static/", http.StripPrefix("/static/", fs))

	// Public routes
	s.router.HandleFunc("GET /{$}", handlers.HandleHome(s))
	s.router.HandleFunc("GET /Invitation/{token}/{$}", handlers.HandleInvitation(s))
	s.router.HandleFunc("POST /api/invitation/{token}/submit/{$}", handlers.HandleRSVPSubmit(s))
	s.router.HandleFunc("GET /healthz", handlers.HandleHealth(s))

	// Auth routes
	s.router.HandleFunc("GET /auth/login", s.handleLoginPage)
	s.router.HandleFunc("POST /auth/login", s.handlePasswordLogin)
	s.router.HandleFunc("GET /auth/google", s.handleGoogleLogin)
	s.router.HandleFunc("GET /auth/google/callback", s.handleGoogleCallback)
	s.router.HandleFunc("/auth/logout", s.handleLogout)

	// Admin routes (protected)
	admin := func(pattern string, h http.HandlerFunc) {
		s.router.HandleFunc(pattern, s.requireAuth(h))
	}
	admin("GET /admin", handlers.HandleAdminDashboard(s))

	admin("GET /admin/guests", handlers.HandleAdminGuests(s))
	admin("GET /admin/guests/new", handlers.HandleAdminNewGuest(s))
	admin("POST /admin/guests", handlers.HandleAdminCreateGuest(s))
	admin("GET /admin/guests/{id}/edit", handlers.HandleAdminEditGuest(s))
	admin("POST /admin/guests/{id}", handlers.HandleAdminUpdateGuest(s))
	admin("POST /admin/guests/{id}/delete", handlers.HandleAdminDeleteGuest(s))
	admin("POST /admin/guests/invitations", handlers.HandleAdminGenerateInvitations(s))
	admin("POST /admin/guests/email", handlers.HandleAdminEmailInvitations(s))

	admin("GET /admin/invitations", handlers.HandleAdminInvitations(s))
	admin("GET /admin/invitations/{id}", handlers.HandleAdminInvitationDetail(s))
	admin("POST /admin/invitations/{id}/status", handlers.HandleAdminUpdateInvitationStatus(s))
	admin("POST /admin/invitations/{id}/delete", handlers.HandleAdminDeleteInvitation(s))
	admin("POST /admin/invitations/{id}/answers", handlers.HandleAdminCreateAnswer(s))
	admin("POST /admin/answers/{id}/delete", handlers.HandleAdminDeleteAnswer(s))
	admin("GET /admin/answers", handlers.HandleAdminAnswers(s))

	admin("GET /admin/questions", handlers.HandleAdminQuestions(s))
	admin("GET /admin/questions/new", handlers.HandleAdminNewQuestion(s))
	admin("POST /admin/questions", handlers.HandleAdminCreateQuestion(s))
	admin("GET /admin/questions/{id}", handlers.HandleAdminEditQuestion(s))
	admin("POST /admin/questions/{id}", handlers.HandleAdminUpdateQuestion(s))
	admin("POST /admin/questions/{id}/delete", handlers.HandleAdminDeleteQuestion(s))
	admin("POST /admin/questions/{id}/choices", handlers.HandleAdminCreateChoice(s))
	admin("POST /admin/choices/{id}", handlers.HandleAdminUpdateChoice(s))
	admin("POST /admin/choices/{id}/delete", handlers.HandleAdminDeleteChoice(s))

	admin("GET /admin/export.csv", handlers.HandleAdminDownloadCSV(s))
}

// Handler returns the router wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	return recoverer(requestLogger(s.router))
}

// Start serves on the configured port until Shutdown is called.
func (s *Server) Start() error {
	logging.Log.Info("Starting server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requireAuth is a middleware that checks if user is authenticated
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.sessionStore.Get(r, sessionName)

		email, ok := session.Values["email"].(string)
		if !ok || email == "" {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		method, _ := session.Values["method"].(string)
		allowed := s.config.IsAdminEmail(email) ||
			(method == loginMethodPassword && s.config.AdminPasswordHash != "")
		if !allowed {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
