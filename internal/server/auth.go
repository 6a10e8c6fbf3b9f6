package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/i18n"
	"github.com/AlexTLDR/wedding/internal/logging"
	"github.com/AlexTLDR/wedding/templates"
)

const (
	loginMethodGoogle   = "google"
	loginMethodPassword = "password"

	// passwordAdminEmail is the session identity of a password login.
	passwordAdminEmail = "admin"
)

func (s *Server) googleEnabled() bool {
	return s.config.GoogleClientID != "" && s.config.GoogleClientSecret != ""
}

func (s *Server) getGoogleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.GoogleClientID,
		ClientSecret: s.config.GoogleClientSecret,
		RedirectURL:  s.config.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	page := templates.Page{Lang: string(i18n.GetLanguageFromRequest(r)), Theme: config.GetThemes()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Login(page, errMsg, s.googleEnabled(), s.config.AdminPasswordHash != "").Render(r.Context(), w); err != nil {
		logging.Log.Error("Failed to render login page", zap.Error(err))
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, "")
}

func (s *Server) handlePasswordLogin(w http.ResponseWriter, r *http.Request) {
	if s.config.AdminPasswordHash == "" {
		http.Error(w, "Password login is disabled", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(r.FormValue("password")))
	if err != nil {
		logging.Log.Warn("Failed admin password login", zap.String("remote", r.RemoteAddr))
		s.renderLogin(w, r, http.StatusUnauthorized, "Wrong password")
		return
	}

	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values["email"] = passwordAdminEmail
	session.Values["name"] = "Admin"
	session.Values["method"] = loginMethodPassword
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.googleEnabled() {
		http.Error(w, "Google login is disabled", http.StatusNotFound)
		return
	}

	state := uuid.NewString()
	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values["oauth_state"] = state
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	url := s.getGoogleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, sessionName)
	expected, _ := session.Values["oauth_state"].(string)
	if expected == "" || r.URL.Query().Get("state") != expected {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	delete(session.Values, "oauth_state")

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	oauthConfig := s.getGoogleOAuthConfig()
	token, err := oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		logging.Log.Error("OAuth exchange failed", zap.Error(err))
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	// Get user info
	client := oauthConfig.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		http.Error(w, "Failed to read user info", http.StatusInternalServerError)
		return
	}

	var userInfo struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &userInfo); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	// Check if email is in whitelist
	if !s.config.IsAdminEmail(userInfo.Email) {
		logging.Log.Warn("Rejected admin login", zap.String("email", userInfo.Email))
		http.Error(w, "Unauthorized: Your email is not whitelisted", http.StatusUnauthorized)
		return
	}

	session.Values["email"] = userInfo.Email
	session.Values["name"] = userInfo.Name
	session.Values["method"] = loginMethodGoogle
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	logging.Log.Info("Admin logged in", zap.String("email", userInfo.Email))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	_ = session.Save(r, w)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
