package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/mailer"
)

func newTestServer(t *testing.T, password string) *Server {
	t.Helper()

	db, err := database.Open("sqlite", database.DialectConfig{Path: filepath.Join(t.TempDir(), "server.db")})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Port:            "0",
		BaseURL:         "http://localhost:8080",
		SessionSecret:   "test-secret-test-secret-test-secret",
		AdminEmails:     []string{"couple@example.com"},
		CoupleNames:     "Олена & Тарас",
		EventDate:       time.Date(2026, time.June, 20, 15, 0, 0, 0, time.UTC),
		CompanionMarker: "+1",
		PhoneRegion:     "UA",
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatal(err)
		}
		cfg.AdminPasswordHash = string(hash)
	}
	return New(cfg, db, &mailer.Mailer{})
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, s *Server, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(s, req)
}

func TestAdminRequiresLogin(t *testing.T) {
	s := newTestServer(t, "")

	for _, path := range []string{"/admin", "/admin/guests", "/admin/export.csv"} {
		rec := serve(s, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/auth/login" {
			t.Errorf("%s = %d %s, want redirect to login", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestPasswordLogin(t *testing.T) {
	s := newTestServer(t, "correct horse")

	if rec := login(t, s, "wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d", rec.Code)
	}

	rec := login(t, s, "correct horse")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("login = %d %s", rec.Code, rec.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Errorf("dashboard after login = %d", rec.Code)
	}
}

func TestPasswordLoginDisabled(t *testing.T) {
	s := newTestServer(t, "")
	if rec := login(t, s, "anything"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "No login method is configured") {
		t.Errorf("login page = %d", rec.Code)
	}
}

func TestGoogleCallbackRejectsBadState(t *testing.T) {
	s := newTestServer(t, "")
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/Invitation/unknown/", http.StatusNotFound},
		{http.MethodPost, "/api/invitation/unknown/submit/", http.StatusNotFound},
		{http.MethodGet, "/api/invitation/unknown/submit/", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			rec := serve(s, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Errorf("missing X-Request-ID")
			}
		})
	}
}

func TestRequestIDIsKept(t *testing.T) {
	s := newTestServer(t, "")
	const id = "6f1c2a4e-8d3b-4c5a-9e7f-0a1b2c3d4e5f"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", id)
	if got := serve(s, req).Header().Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	if got := serve(s, req).Header().Get("X-Request-ID"); got == "not-a-uuid" || got == "" {
		t.Errorf("invalid request id was echoed: %q", got)
	}
}

func TestRecovererReturns500(t *testing.T) {
	h := recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
