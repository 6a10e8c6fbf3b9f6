package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/device"
	"github.com/AlexTLDR/wedding/internal/i18n"
	"github.com/AlexTLDR/wedding/internal/logging"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/templates"
)

// Server interface defines the methods needed by handlers
type Server interface {
	GetDB() *database.DB
	GetConfig() *config.Config
	GetRSVP() *rsvp.Service
}

func pageFor(r *http.Request) templates.Page {
	return templates.Page{
		Lang:  string(i18n.GetLanguageFromRequest(r)),
		Theme: config.GetThemes(),
	}
}

func eventFor(cfg *config.Config, lang i18n.Language) templates.Event {
	return templates.Event{
		CoupleNames:  cfg.CoupleNames,
		Date:         i18n.FormatDate(cfg.EventDate, lang),
		VenueName:    cfg.VenueName,
		VenueAddress: cfg.VenueAddress,
	}
}

// noCache marks a response as depending on the User-Agent and never cacheable.
func noCache(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Vary", "User-Agent")
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

// rememberLanguage keeps an explicit ?lang= choice for later visits.
func rememberLanguage(w http.ResponseWriter, r *http.Request) {
	if lang, ok := i18n.Parse(r.URL.Query().Get("lang")); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     "lang",
			Value:    string(lang),
			Path:     "/",
			MaxAge:   365 * 24 * 3600,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// renderHTML writes c with the given status code.
func renderHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.Log.Error("Failed to render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// HandleHome renders the landing page
func HandleHome(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rememberLanguage(w, r)
		noCache(w)

		page := pageFor(r)
		lang, _ := i18n.Parse(page.Lang)
		renderHTML(w, r, http.StatusOK, templates.Home(templates.HomePage{
			Page:   page,
			Event:  eventFor(s.GetConfig(), lang),
			Mobile: device.IsMobileRequest(r),
		}))
	}
}

// HandleInvitation renders the personal RSVP page of an invitation token
func HandleInvitation(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rememberLanguage(w, r)
		noCache(w)

		ctx := r.Context()
		db := s.GetDB()
		page := pageFor(r)
		lang, _ := i18n.Parse(page.Lang)
		token := r.PathValue("token")

		inv, err := db.GetInvitationByToken(ctx, token)
		if errors.Is(err, database.ErrNotFound) {
			renderHTML(w, r, http.StatusNotFound, templates.NotFound(page))
			return
		}
		if err != nil {
			logging.Log.Error("Failed to load invitation", zap.Error(err))
			http.Error(w, "Failed to load invitation", http.StatusInternalServerError)
			return
		}

		// Opening is tracking only; the page still renders if it fails
		if err := db.MarkAsOpened(ctx, inv.ID); err != nil {
			logging.Log.Warn("Failed to mark invitation as opened", zap.Int64("invitation_id", inv.ID), zap.Error(err))
		}

		guest, err := db.GetGuestByID(ctx, inv.GuestID)
		if err != nil {
			logging.Log.Error("Failed to load guest", zap.Int64("guest_id", inv.GuestID), zap.Error(err))
			http.Error(w, "Failed to load invitation", http.StatusInternalServerError)
			return
		}

		questions, err := db.ListQuestions(ctx, true)
		if err != nil {
			logging.Log.Error("Failed to load questions", zap.Error(err))
			http.Error(w, "Failed to load questions", http.StatusInternalServerError)
			return
		}

		answers, err := db.ListAnswers(ctx, inv.ID)
		if err != nil {
			logging.Log.Error("Failed to load answers", zap.Int64("invitation_id", inv.ID), zap.Error(err))
			http.Error(w, "Failed to load answers", http.StatusInternalServerError)
			return
		}

		renderHTML(w, r, http.StatusOK, templates.Invitation(templates.InvitationPage{
			Page:      page,
			Event:     eventFor(s.GetConfig(), lang),
			Mobile:    device.IsMobileRequest(r),
			GuestName: guest.FullName,
			SubmitURL: "/api/invitation/" + inv.Token + "/submit/",
			Responded: inv.RespondedAt.Valid,
			Note:      inv.Note,
			Questions: formQuestions(questions, answers, s.GetConfig().CompanionMarker),
			AttendYes: i18n.T(lang, "attend_yes"),
			AttendNo:  i18n.T(lang, "attend_no"),
		}))
	}
}

// formQuestions turns the active catalog into form questions, checking the
// choices the guest picked before.
func formQuestions(questions []*database.Question, answers []*database.AnswerDetail, marker string) []templates.FormQuestion {
	picked := make(map[int64]bool, len(answers))
	for _, a := range answers {
		picked[a.ChoiceID] = true
	}

	toForm := func(choices []database.Choice) []templates.FormChoice {
		out := make([]templates.FormChoice, 0, len(choices))
		for _, c := range choices {
			out = append(out, templates.FormChoice{Text: c.Text, Checked: picked[c.ID]})
		}
		return out
	}

	out := make([]templates.FormQuestion, 0, len(questions))
	for _, q := range questions {
		fq := templates.FormQuestion{
			Label:      q.Text,
			Multi:      q.Kind == database.KindMulti,
			Attendance: rsvp.IsAttendanceQuestion(q),
		}
		if !fq.Multi && rsvp.IsCompanionQuestion(q, marker) {
			base, companions := rsvp.SplitCompanionChoices(q)
			fq.Choices = toForm(base)
			fq.Companions = toForm(companions)
		} else {
			fq.Choices = toForm(q.Choices)
		}
		out = append(out, fq)
	}
	return out
}

// HandleHealth reports whether the database is reachable
func HandleHealth(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.GetDB().PingContext(r.Context()); err != nil {
			logging.Log.Error("Health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
