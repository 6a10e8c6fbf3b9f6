package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/i18n"
	"github.com/AlexTLDR/wedding/internal/logging"
	"github.com/AlexTLDR/wedding/internal/mailer"
	"github.com/AlexTLDR/wedding/internal/utils"
	"github.com/AlexTLDR/wedding/templates"
)

// AdminServer extends Server with admin-specific methods
type AdminServer interface {
	Server
	GetCurrentUser(r *http.Request) (string, string)
	GetMailer() *mailer.Mailer
}

// parseID parses an ID string and returns an error if invalid
func parseID(idStr string) (int64, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID format: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid ID: must be positive")
	}
	return id, nil
}

// pathID reads the {id} path value, writing a 400 when it is not a valid ID.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

func adminPage(s AdminServer, r *http.Request, title string) templates.AdminPage {
	email, name := s.GetCurrentUser(r)
	user := name
	if user == "" {
		user = email
	}
	page := pageFor(r)
	page.Title = title
	q := r.URL.Query()
	return templates.AdminPage{
		Page:   page,
		User:   user,
		Notice: q.Get("notice"),
		Error:  q.Get("error"),
	}
}

// redirectNotice sends the admin back to path with a flash message.
func redirectNotice(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	if msg != "" {
		path += "?" + url.Values{key: {msg}}.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// serverError logs err and answers 404 for ErrNotFound, 500 otherwise.
func serverError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	logging.Log.Error(msg, zap.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}

// HandleAdminDashboard renders the response counters
func HandleAdminDashboard(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.GetDB().GetStats(r.Context())
		if err != nil {
			serverError(w, "Failed to load stats", err)
			return
		}
		renderHTML(w, r, http.StatusOK, templates.AdminDashboard(adminPage(s, r, "Dashboard"), *stats))
	}
}

// guestSource exposes guests to fuzzy matching, one haystack per guest.
type guestSource []*database.Guest

func (gs guestSource) String(i int) string {
	g := gs[i]
	return strings.Join([]string{g.FullName, g.Email, g.Phone, g.Telegram, g.Instagram}, " ")
}

func (gs guestSource) Len() int { return len(gs) }

// searchGuests returns the guests matching query, best match first.
// An empty query returns every guest unchanged.
func searchGuests(guests []*database.Guest, query string) []*database.Guest {
	query = strings.TrimSpace(query)
	if query == "" {
		return guests
	}
	matches := fuzzy.FindFrom(query, guestSource(guests))
	out := make([]*database.Guest, 0, len(matches))
	for _, m := range matches {
		out = append(out, guests[m.Index])
	}
	return out
}

// HandleAdminGuests lists guests, optionally filtered by ?q=
func HandleAdminGuests(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, err := s.GetDB().ListGuests(r.Context())
		if err != nil {
			serverError(w, "Failed to load guests", err)
			return
		}
		query := r.URL.Query().Get("q")
		renderHTML(w, r, http.StatusOK, templates.AdminGuests(
			adminPage(s, r, "Guests"), searchGuests(guests, query), query, s.GetMailer().Enabled()))
	}
}

// HandleAdminNewGuest shows the empty guest form
func HandleAdminNewGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderHTML(w, r, http.StatusOK, templates.AdminGuestForm(adminPage(s, r, "New guest"), database.Guest{}))
	}
}

// guestFromForm reads and validates the guest form.
func guestFromForm(r *http.Request, region string) (database.Guest, error) {
	g := database.Guest{
		FullName:  strings.TrimSpace(r.FormValue("full_name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Telegram:  strings.TrimSpace(r.FormValue("telegram")),
		Instagram: strings.TrimSpace(r.FormValue("instagram")),
	}
	if g.FullName == "" {
		return g, errors.New("full name is required")
	}
	phone, err := utils.NormalizeOptionalPhone(r.FormValue("phone"), region)
	if err != nil {
		g.Phone = r.FormValue("phone")
		return g, fmt.Errorf("invalid phone number: %w", err)
	}
	g.Phone = phone
	return g, nil
}

// HandleAdminCreateGuest stores a new guest
func HandleAdminCreateGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseForm(w, r) {
			return
		}
		g, err := guestFromForm(r, s.GetConfig().PhoneRegion)
		if err != nil {
			page := adminPage(s, r, "New guest")
			page.Error = err.Error()
			renderHTML(w, r, http.StatusBadRequest, templates.AdminGuestForm(page, g))
			return
		}
		created, err := s.GetDB().CreateGuest(r.Context(), g)
		if err != nil {
			serverError(w, "Failed to create guest", err)
			return
		}
		logging.Log.Info("Guest created", zap.Int64("guest_id", created.ID))
		redirectNotice(w, r, "/admin/guests", "notice", "Guest "+created.FullName+" created")
	}
}

// HandleAdminEditGuest shows the guest form filled in
func HandleAdminEditGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		g, err := s.GetDB().GetGuestByID(r.Context(), id)
		if err != nil {
			serverError(w, "Failed to load guest", err)
			return
		}
		renderHTML(w, r, http.StatusOK, templates.AdminGuestForm(adminPage(s, r, "Edit guest"), *g))
	}
}

// HandleAdminUpdateGuest saves the guest form
func HandleAdminUpdateGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok || !parseForm(w, r) {
			return
		}
		g, err := guestFromForm(r, s.GetConfig().PhoneRegion)
		g.ID = id
		if err != nil {
			page := adminPage(s, r, "Edit guest")
			page.Error = err.Error()
			renderHTML(w, r, http.StatusBadRequest, templates.AdminGuestForm(page, g))
			return
		}
		if err := s.GetDB().UpdateGuest(r.Context(), g); err != nil {
			serverError(w, "Failed to update guest", err)
			return
		}
		redirectNotice(w, r, "/admin/guests", "notice", "Guest "+g.FullName+" updated")
	}
}

// HandleAdminDeleteGuest removes a guest with their invitations and answers
func HandleAdminDeleteGuest(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.GetDB().DeleteGuest(r.Context(), id); err != nil {
			serverError(w, "Failed to delete guest", err)
			return
		}
		logging.Log.Info("Guest deleted", zap.Int64("guest_id", id))
		redirectNotice(w, r, "/admin/guests", "notice", "Guest deleted")
	}
}

// selectedIDs reads the checked guest IDs of the bulk form.
func selectedIDs(r *http.Request) ([]int64, error) {
	var ids []int64
	for _, raw := range r.Form["ids"] {
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HandleAdminGenerateInvitations creates an invitation for each selected guest
func HandleAdminGenerateInvitations(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseForm(w, r) {
			return
		}
		ids, err := selectedIDs(r)
		if err != nil {
			http.Error(w, "Invalid guest ID", http.StatusBadRequest)
			return
		}
		if len(ids) == 0 {
			redirectNotice(w, r, "/admin/guests", "error", "No guests selected")
			return
		}

		created, err := s.GetDB().CreateInvitations(r.Context(), ids)
		if err != nil {
			serverError(w, "Failed to create invitations", err)
			return
		}
		logging.Log.Info("Invitations generated", zap.Int("count", len(created)))
		redirectNotice(w, r, "/admin/invitations", "notice", fmt.Sprintf("%d invitations created", len(created)))
	}
}

// HandleAdminEmailInvitations e-mails the invitation link to each selected
// guest with an address, creating an invitation where the guest has none.
func HandleAdminEmailInvitations(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := s.GetMailer()
		if !m.Enabled() {
			redirectNotice(w, r, "/admin/guests", "error", "Email sending is not configured")
			return
		}
		if !parseForm(w, r) {
			return
		}
		ids, err := selectedIDs(r)
		if err != nil {
			http.Error(w, "Invalid guest ID", http.StatusBadRequest)
			return
		}

		ctx := r.Context()
		db := s.GetDB()
		cfg := s.GetConfig()
		lang, _ := i18n.Parse(pageFor(r).Lang)
		venue := strings.Trim(cfg.VenueName+", "+cfg.VenueAddress, ", ")

		var sent, skipped int
		var sendErr error
		for _, id := range ids {
			guest, err := db.GetGuestByID(ctx, id)
			if err != nil {
				sendErr = multierr.Append(sendErr, fmt.Errorf("guest %d: %w", id, err))
				continue
			}
			if guest.Email == "" {
				skipped++
				continue
			}

			token, err := guestToken(r, db, guest.ID)
			if err != nil {
				sendErr = multierr.Append(sendErr, fmt.Errorf("guest %d: %w", id, err))
				continue
			}

			err = m.SendInvitation(ctx, mailer.Invitation{
				ToEmail:     guest.Email,
				GuestName:   guest.FullName,
				Link:        cfg.InvitationURL(token),
				CoupleNames: cfg.CoupleNames,
				EventDate:   i18n.FormatDate(cfg.EventDate, lang),
				Venue:       venue,
			})
			if err != nil {
				sendErr = multierr.Append(sendErr, fmt.Errorf("guest %d: %w", id, err))
				continue
			}
			sent++
		}

		msg := fmt.Sprintf("%d emails sent, %d guests without email", sent, skipped)
		if sendErr != nil {
			failed := multierr.Errors(sendErr)
			logging.Log.Error("Failed to email invitations", zap.Int("failed", len(failed)), zap.Error(sendErr))
			redirectNotice(w, r, "/admin/guests", "error", fmt.Sprintf("%s, %d failed", msg, len(failed)))
			return
		}
		logging.Log.Info("Invitation emails sent", zap.Int("sent", sent), zap.Int("skipped", skipped))
		redirectNotice(w, r, "/admin/guests", "notice", msg)
	}
}

// guestToken returns the token of the guest's newest invitation, creating
// one when there is none.
func guestToken(r *http.Request, db *database.DB, guestID int64) (string, error) {
	existing, err := db.ListGuestInvitations(r.Context(), guestID)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return existing[0].Token, nil
	}
	inv, err := db.CreateInvitation(r.Context(), guestID)
	if err != nil {
		return "", err
	}
	return inv.Token, nil
}

func invitationRow(s AdminServer, inv *database.InvitationWithGuest) templates.InvitationRow {
	return templates.InvitationRow{InvitationWithGuest: inv, Link: s.GetConfig().InvitationURL(inv.Token)}
}

// HandleAdminInvitations lists all invitations
func HandleAdminInvitations(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invitations, err := s.GetDB().ListInvitations(r.Context())
		if err != nil {
			serverError(w, "Failed to load invitations", err)
			return
		}
		rows := make([]templates.InvitationRow, 0, len(invitations))
		for _, inv := range invitations {
			rows = append(rows, invitationRow(s, inv))
		}
		renderHTML(w, r, http.StatusOK, templates.AdminInvitations(adminPage(s, r, "Invitations"), rows))
	}
}

// HandleAdminInvitationDetail shows one invitation with its answers
func HandleAdminInvitationDetail(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		ctx := r.Context()
		db := s.GetDB()

		inv, err := db.GetInvitationWithGuest(ctx, id)
		if err != nil {
			serverError(w, "Failed to load invitation", err)
			return
		}
		answers, err := db.ListAnswers(ctx, id)
		if err != nil {
			serverError(w, "Failed to load answers", err)
			return
		}
		questions, err := db.ListQuestions(ctx, false)
		if err != nil {
			serverError(w, "Failed to load questions", err)
			return
		}

		renderHTML(w, r, http.StatusOK, templates.AdminInvitationDetail(adminPage(s, r, inv.Guest.FullName), templates.InvitationDetail{
			InvitationRow: invitationRow(s, inv),
			Answers:       answers,
			Questions:     questions,
		}))
	}
}

// HandleAdminUpdateInvitationStatus overrides the RSVP status
func HandleAdminUpdateInvitationStatus(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok || !parseForm(w, r) {
			return
		}
		status := database.InvitationStatus(r.FormValue("status"))
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		if err := s.GetDB().UpdateInvitationStatus(r.Context(), id, status); err != nil {
			serverError(w, "Failed to update status", err)
			return
		}
		redirectNotice(w, r, fmt.Sprintf("/admin/invitations/%d", id), "notice", "Status updated")
	}
}

// HandleAdminDeleteInvitation removes an invitation and its answers
func HandleAdminDeleteInvitation(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.GetDB().DeleteInvitation(r.Context(), id); err != nil {
			serverError(w, "Failed to delete invitation", err)
			return
		}
		logging.Log.Info("Invitation deleted", zap.Int64("invitation_id", id))
		redirectNotice(w, r, "/admin/invitations", "notice", "Invitation deleted")
	}
}

// HandleAdminCreateAnswer adds one answer row to an invitation
func HandleAdminCreateAnswer(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok || !parseForm(w, r) {
			return
		}
		choiceID, err := parseID(r.FormValue("choice_id"))
		if err != nil {
			http.Error(w, "Invalid choice ID", http.StatusBadRequest)
			return
		}
		if _, err := s.GetDB().CreateAnswer(r.Context(), id, choiceID); err != nil {
			serverError(w, "Failed to add answer", err)
			return
		}
		redirectNotice(w, r, fmt.Sprintf("/admin/invitations/%d", id), "notice", "Answer added")
	}
}

// HandleAdminDeleteAnswer removes one answer row
func HandleAdminDeleteAnswer(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.GetDB().DeleteAnswer(r.Context(), id); err != nil {
			serverError(w, "Failed to delete answer", err)
			return
		}
		back := "/admin/answers"
		if ref := r.Referer(); ref != "" {
			if u, err := url.Parse(ref); err == nil && strings.HasPrefix(u.Path, "/admin/") {
				back = u.Path
			}
		}
		redirectNotice(w, r, back, "notice", "Answer removed")
	}
}

// HandleAdminAnswers shows every response grouped by guest
func HandleAdminAnswers(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.GetDB().ListGuestAnswers(r.Context())
		if err != nil {
			serverError(w, "Failed to load answers", err)
			return
		}
		renderHTML(w, r, http.StatusOK, templates.AdminAnswers(adminPage(s, r, "Answers"), list))
	}
}

// HandleAdminQuestions lists the question catalog
func HandleAdminQuestions(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questions, err := s.GetDB().ListQuestions(r.Context(), false)
		if err != nil {
			serverError(w, "Failed to load questions", err)
			return
		}
		renderHTML(w, r, http.StatusOK, templates.AdminQuestions(adminPage(s, r, "Questions"), questions))
	}
}

// HandleAdminNewQuestion shows the empty question form
func HandleAdminNewQuestion(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderHTML(w, r, http.StatusOK, templates.AdminQuestionForm(adminPage(s, r, "New question"),
			database.Question{Kind: database.KindSingle, IsActive: true}))
	}
}

// questionFromForm reads and validates the question form.
func questionFromForm(r *http.Request) (database.Question, error) {
	q := database.Question{
		Text:     strings.TrimSpace(r.FormValue("text")),
		Kind:     database.QuestionKind(r.FormValue("kind")),
		IsActive: r.FormValue("is_active") != "",
	}
	if q.Text == "" {
		return q, errors.New("question text is required")
	}
	if !q.Kind.Valid() {
		return q, fmt.Errorf("invalid kind %q", q.Kind)
	}
	order, err := formOrder(r)
	if err != nil {
		return q, err
	}
	q.Order = order
	return q, nil
}

func formOrder(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.FormValue("order"))
	if raw == "" {
		return 0, nil
	}
	order, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid order %q", raw)
	}
	return order, nil
}

// HandleAdminCreateQuestion stores a new question
func HandleAdminCreateQuestion(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseForm(w, r) {
			return
		}
		q, err := questionFromForm(r)
		if err != nil {
			page := adminPage(s, r, "New question")
			page.Error = err.Error()
			renderHTML(w, r, http.StatusBadRequest, templates.AdminQuestionForm(page, q))
			return
		}
		created, err := s.GetDB().CreateQuestion(r.Context(), q)
		if err != nil {
			serverError(w, "Failed to create question", err)
			return
		}
		redirectNotice(w, r, fmt.Sprintf("/admin/questions/%d", created.ID), "notice", "Question created")
	}
}

// HandleAdminEditQuestion shows a question with its choices
func HandleAdminEditQuestion(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		q, err := s.GetDB().GetQuestion(r.Context(), id)
		if err != nil {
			serverError(w, "Failed to load question", err)
			return
		}
		renderHTML(w, r, http.StatusOK, templates.AdminQuestionForm(adminPage(s, r, "Edit question"), *q))
	}
}

// HandleAdminUpdateQuestion saves the question form
func HandleAdminUpdateQuestion(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok || !parseForm(w, r) {
			return
		}
		q, err := questionFromForm(r)
		q.ID = id
		if err != nil {
			redirectNotice(w, r, fmt.Sprintf("/admin/questions/%d", id), "error", err.Error())
			return
		}
		if err := s.GetDB().UpdateQuestion(r.Context(), q); err != nil {
			serverError(w, "Failed to update question", err)
			return
		}
		redirectNotice(w, r, fmt.Sprintf("/admin/questions/%d", id), "notice", "Question saved")
	}
}

// HandleAdminDeleteQuestion removes a question with its choices and answers
func HandleAdminDeleteQuestion(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.GetDB().DeleteQuestion(r.Context(), id); err != nil {
			serverError(w, "Failed to delete question", err)
			return
		}
		redirectNotice(w, r, "/admin/questions", "notice", "Question deleted")
	}
}

// choiceFromForm reads the choice text and order.
func choiceFromForm(r *http.Request, questionID int64) (database.Choice, error) {
	c := database.Choice{QuestionID: questionID, Text: strings.TrimSpace(r.FormValue("text"))}
	if c.Text == "" {
		return c, errors.New("choice text is required")
	}
	order, err := formOrder(r)
	if err != nil {
		return c, err
	}
	c.Order = order
	return c, nil
}

// HandleAdminCreateChoice adds a choice to a question
func HandleAdminCreateChoice(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok || !parseForm(w, r) {
			return
		}
		back := fmt.Sprintf("/admin/questions/%d", id)
		c, err := choiceFromForm(r, id)
		if err != nil {
			redirectNotice(w, r, back, "error", err.Error())
			return
		}
		if _, err := s.GetDB().GetQuestion(r.Context(), id); err != nil {
			serverError(w, "Failed to load question", err)
			return
		}
		if _, err := s.GetDB().CreateChoice(r.Context(), c); err != nil {
			serverError(w, "Failed to create choice", err)
			return
		}
		redirectNotice(w, r, back, "notice", "Choice added")
	}
}

// HandleAdminUpdateChoice saves a choice's text and order
func HandleAdminUpdateChoice(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok || !parseForm(w, r) {
			return
		}
		existing, err := s.GetDB().GetChoice(r.Context(), id)
		if err != nil {
			serverError(w, "Failed to load choice", err)
			return
		}
		back := fmt.Sprintf("/admin/questions/%d", existing.QuestionID)
		c, err := choiceFromForm(r, existing.QuestionID)
		if err != nil {
			redirectNotice(w, r, back, "error", err.Error())
			return
		}
		c.ID = id
		if err := s.GetDB().UpdateChoice(r.Context(), c); err != nil {
			serverError(w, "Failed to update choice", err)
			return
		}
		redirectNotice(w, r, back, "notice", "Choice saved")
	}
}

// HandleAdminDeleteChoice removes a choice that no answer refers to
func HandleAdminDeleteChoice(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		existing, err := s.GetDB().GetChoice(r.Context(), id)
		if err != nil {
			serverError(w, "Failed to load choice", err)
			return
		}
		back := fmt.Sprintf("/admin/questions/%d", existing.QuestionID)
		err = s.GetDB().DeleteChoice(r.Context(), id)
		if errors.Is(err, database.ErrChoiceInUse) {
			redirectNotice(w, r, back, "error", "Choice is used by answers and cannot be deleted")
			return
		}
		if err != nil {
			serverError(w, "Failed to delete choice", err)
			return
		}
		redirectNotice(w, r, back, "notice", "Choice deleted")
	}
}
