package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/mailer"
	"github.com/AlexTLDR/wedding/internal/rsvp"
)

const (
	attendanceLabel = "Чи зможете ви бути присутніми на весіллі?"
	menuLabel       = "Відмітьте, будь ласка, ваші вподобання:"
	companionLabel  = "Чи потрібно вам запрошення \"+1\"?"

	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"
)

type testServer struct {
	db     *database.DB
	cfg    *config.Config
	svc    *rsvp.Service
	mailer *mailer.Mailer
}

func (s *testServer) GetDB() *database.DB       { return s.db }
func (s *testServer) GetConfig() *config.Config { return s.cfg }
func (s *testServer) GetRSVP() *rsvp.Service    { return s.svc }
func (s *testServer) GetMailer() *mailer.Mailer { return s.mailer }
func (s *testServer) GetCurrentUser(*http.Request) (string, string) {
	return "admin@example.com", "Admin"
}

type fixture struct {
	srv   *testServer
	mux   *http.ServeMux
	guest *database.Guest
	inv   *database.Invitation
	menu  *database.Question
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open("sqlite", database.DialectConfig{Path: filepath.Join(t.TempDir(), "handlers.db")})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cfg := &config.Config{
		BaseURL:         "https://wedding.example.com",
		CoupleNames:     "Олена & Тарас",
		EventDate:       time.Date(2026, time.June, 20, 15, 0, 0, 0, time.UTC),
		VenueName:       "Садиба",
		CompanionMarker: "+1",
		PhoneRegion:     "UA",
	}
	srv := &testServer{db: db, cfg: cfg, svc: rsvp.NewService(db, cfg.CompanionMarker), mailer: &mailer.Mailer{}}

	f := &fixture{srv: srv, mux: http.NewServeMux()}
	createQuestion(t, db, attendanceLabel, 1, database.KindSingle, "Так, з радістю буду!", "На жаль, не зможу бути.")
	f.menu = createQuestion(t, db, menuLabel, 2, database.KindMulti, "Лосось", "Курятина", "Овочі")
	createQuestion(t, db, companionLabel, 3, database.KindSingle, "Так", "Ні", "Друга половинка", "Дитина")

	f.guest, err = db.CreateGuest(ctx, database.Guest{FullName: "Оксана Мельник", Email: "oksana@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	f.inv, err = db.CreateInvitation(ctx, f.guest.ID)
	if err != nil {
		t.Fatal(err)
	}

	f.mux.HandleFunc("GET /{$}", HandleHome(srv))
	f.mux.HandleFunc("GET /Invitation/{token}/{$}", HandleInvitation(srv))
	f.mux.HandleFunc("POST /api/invitation/{token}/submit/{$}", HandleRSVPSubmit(srv))
	f.mux.HandleFunc("GET /healthz", HandleHealth(srv))
	f.mux.HandleFunc("GET /admin", HandleAdminDashboard(srv))
	f.mux.HandleFunc("GET /admin/guests", HandleAdminGuests(srv))
	f.mux.HandleFunc("POST /admin/guests", HandleAdminCreateGuest(srv))
	f.mux.HandleFunc("POST /admin/guests/{id}", HandleAdminUpdateGuest(srv))
	f.mux.HandleFunc("POST /admin/guests/invitations", HandleAdminGenerateInvitations(srv))
	f.mux.HandleFunc("POST /admin/guests/email", HandleAdminEmailInvitations(srv))
	f.mux.HandleFunc("GET /admin/invitations/{id}", HandleAdminInvitationDetail(srv))
	f.mux.HandleFunc("POST /admin/invitations/{id}/status", HandleAdminUpdateInvitationStatus(srv))
	f.mux.HandleFunc("POST /admin/invitations/{id}/answers", HandleAdminCreateAnswer(srv))
	f.mux.HandleFunc("GET /admin/answers", HandleAdminAnswers(srv))
	f.mux.HandleFunc("POST /admin/questions", HandleAdminCreateQuestion(srv))
	f.mux.HandleFunc("POST /admin/choices/{id}/delete", HandleAdminDeleteChoice(srv))
	f.mux.HandleFunc("GET /admin/export.csv", HandleAdminDownloadCSV(srv))
	return f
}

func createQuestion(t *testing.T, db *database.DB, text string, order int, kind database.QuestionKind, choices ...string) *database.Question {
	t.Helper()
	ctx := context.Background()

	q, err := db.CreateQuestion(ctx, database.Question{Text: text, Order: order, IsActive: true, Kind: kind})
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range choices {
		if _, err := db.CreateChoice(ctx, database.Choice{QuestionID: q.ID, Text: c, Order: i + 1}); err != nil {
			t.Fatal(err)
		}
	}
	q, err = db.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(target, userAgent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return f.do(req)
}

func (f *fixture) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *fixture) submit(token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/invitation/"+token+"/submit/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return f.do(req)
}

func TestHandleHome(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		ua     string
		layout string
	}{
		{"mobile", iPhoneUA, "layout-mobile"},
		{"desktop", desktopUA, "layout-desktop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.get("/", tt.ua)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.layout) {
				t.Errorf("body does not use %s", tt.layout)
			}
			for header, want := range map[string]string{
				"Vary":          "User-Agent",
				"Cache-Control": "no-cache, no-store, must-revalidate",
				"Pragma":        "no-cache",
				"Expires":       "0",
			} {
				if got := rec.Header().Get(header); got != want {
					t.Errorf("%s = %q, want %q", header, got, want)
				}
			}
		})
	}
}

func TestHandleHomeRemembersLanguage(t *testing.T) {
	f := newFixture(t)
	rec := f.get("/?lang=en", desktopUA)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "lang" && c.Value == "en" {
			found = true
		}
	}
	if !found {
		t.Errorf("lang cookie not set")
	}
	if !strings.Contains(rec.Body.String(), `lang="en"`) {
		t.Errorf("page not rendered in English")
	}
}

func TestHandleInvitation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := f.get("/Invitation/"+f.inv.Token+"/", iPhoneUA)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Оксана Мельник", "layout-mobile", "/api/invitation/" + f.inv.Token + "/submit/", `data-attendance="true"`, `class="checkbox companion" value="Дитина"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if rec.Header().Get("Cache-Control") != "no-cache, no-store, must-revalidate" {
		t.Errorf("invitation page is cacheable")
	}

	inv, err := f.srv.db.GetInvitationByID(ctx, f.inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !inv.OpenedAt.Valid {
		t.Errorf("opened_at not set")
	}
}

func TestHandleInvitationRestoresAnswers(t *testing.T) {
	f := newFixture(t)

	rec := f.submit(f.inv.Token, `{"attendance":"","answers":{"`+menuLabel+`":["Лосось"]},"note":"Без цибулі"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	body := f.get("/Invitation/"+f.inv.Token+"/", desktopUA).Body.String()
	if !strings.Contains(body, `value="Лосось" checked>`) {
		t.Errorf("previous answer not checked")
	}
	if strings.Contains(body, `value="Курятина" checked>`) {
		t.Errorf("unselected choice checked")
	}
	if !strings.Contains(body, "Без цибулі") {
		t.Errorf("note not restored")
	}
}

func TestHandleInvitationUnknownToken(t *testing.T) {
	f := newFixture(t)
	rec := f.get("/Invitation/nope/", desktopUA)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleRSVPSubmit(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		body       string
		wantStatus int
		wantSaved  int
		wantSkip   int
	}{
		{
			name:       "malformed json",
			body:       `{"answers": `,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "object value",
			body:       `{"answers": {"x": {"y": 1}}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown token",
			token:      "missing",
			body:       `{"attendance": "Так"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown token with malformed body",
			token:      "missing",
			body:       `{"answers": `,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "trailing data after object",
			body:       `{"attendance":"Так","answers":{},"note":""} trailing garbage`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "two objects",
			body:       `{"attendance":"Так"}{"x":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid utf-8",
			body:       "{\"attendance\":\"\xff\xfe\"}",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "answers with one unknown label",
			body: `{"attendance":"Так, з радістю буду!","answers":{` +
				`"` + attendanceLabel + `":"Так, з радістю буду!",` +
				`"` + menuLabel + `":["Лосось","Курятина"],` +
				`"Невідоме питання":"x"},"note":"До зустрічі"}`,
			wantStatus: http.StatusOK,
			wantSaved:  3,
			wantSkip:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			token := tt.token
			if token == "" {
				token = f.inv.Token
			}

			rec := f.submit(token, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}

			var resp submitResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if tt.wantStatus != http.StatusOK {
				if resp.OK || resp.Error == "" {
					t.Errorf("error response = %+v", resp)
				}
				inv, _ := f.srv.db.GetInvitationByID(context.Background(), f.inv.ID)
				if inv.RespondedAt.Valid {
					t.Errorf("failed submission touched the invitation")
				}
				return
			}
			if !resp.OK || resp.Saved != tt.wantSaved || resp.Skipped != tt.wantSkip {
				t.Errorf("response = %+v, want saved %d skipped %d", resp, tt.wantSaved, tt.wantSkip)
			}

			inv, _ := f.srv.db.GetInvitationByID(context.Background(), f.inv.ID)
			if inv.Status != database.StatusAccepted || inv.Note != "До зустрічі" {
				t.Errorf("invitation = %+v", inv)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.get("/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestFormQuestions(t *testing.T) {
	f := newFixture(t)
	questions, err := f.srv.db.ListQuestions(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	picked := []*database.AnswerDetail{{Answer: database.Answer{ChoiceID: f.menu.Choices[1].ID}}}

	got := formQuestions(questions, picked, "+1")
	if len(got) != 3 {
		t.Fatalf("got %d questions", len(got))
	}
	if !got[0].Attendance || got[1].Attendance {
		t.Errorf("attendance flags = %v, %v", got[0].Attendance, got[1].Attendance)
	}
	if !got[1].Multi || !got[1].Choices[1].Checked || got[1].Choices[0].Checked {
		t.Errorf("menu question = %+v", got[1])
	}
	if len(got[2].Choices) != 2 || len(got[2].Companions) != 2 || got[2].Companions[0].Text != "Друга половинка" {
		t.Errorf("companion question = %+v", got[2])
	}
}

func TestSearchGuests(t *testing.T) {
	guests := []*database.Guest{
		{ID: 1, FullName: "Олена Коваль", Telegram: "@olena"},
		{ID: 2, FullName: "Тарас Шевченко", Email: "taras@example.com"},
	}

	if got := searchGuests(guests, "  "); len(got) != 2 {
		t.Errorf("empty query returned %d guests", len(got))
	}
	if got := searchGuests(guests, "Олена"); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("search by name = %v", got)
	}
	if got := searchGuests(guests, "taras@"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("search by email = %v", got)
	}
	if got := searchGuests(guests, "zzz"); len(got) != 0 {
		t.Errorf("search for nothing = %v", got)
	}
}

func TestAdminGuests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := f.postForm("/admin/guests", url.Values{"full_name": {"Тарас Шевченко"}, "phone": {"067 123 45 67"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	guests, err := f.srv.db.ListGuests(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var created *database.Guest
	for _, g := range guests {
		if g.FullName == "Тарас Шевченко" {
			created = g
		}
	}
	if created == nil || created.Phone != "+380671234567" {
		t.Fatalf("created guest = %+v", created)
	}

	if rec := f.postForm("/admin/guests", url.Values{"full_name": {""}}); rec.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d", rec.Code)
	}
	if rec := f.postForm("/admin/guests", url.Values{"full_name": {"X"}, "phone": {"12"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad phone status = %d", rec.Code)
	}

	rec = f.postForm("/admin/guests/"+itoa(created.ID), url.Values{"full_name": {"Тарас Г. Шевченко"}, "telegram": {"@taras"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d", rec.Code)
	}
	updated, _ := f.srv.db.GetGuestByID(ctx, created.ID)
	if updated.FullName != "Тарас Г. Шевченко" || updated.Telegram != "@taras" || updated.Phone != "" {
		t.Errorf("updated guest = %+v", updated)
	}

	body := f.get("/admin/guests?q="+url.QueryEscape("Оксана"), "").Body.String()
	if !strings.Contains(body, "Оксана Мельник") || strings.Contains(body, "Шевченко") {
		t.Errorf("search did not filter guests")
	}
	if strings.Contains(body, "/admin/guests/email") {
		t.Errorf("email action offered while the mailer is disabled")
	}
}

func TestAdminGenerateInvitations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := f.postForm("/admin/guests/invitations", url.Values{"ids": {itoa(f.guest.ID)}})
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/admin/invitations") {
		t.Fatalf("generate = %d %s", rec.Code, rec.Header().Get("Location"))
	}
	own, _ := f.srv.db.ListGuestInvitations(ctx, f.guest.ID)
	if len(own) != 2 {
		t.Errorf("guest has %d invitations, want 2", len(own))
	}

	if rec := f.postForm("/admin/guests/invitations", url.Values{}); !strings.Contains(rec.Header().Get("Location"), "error=") {
		t.Errorf("empty selection should redirect with an error")
	}
	if rec := f.postForm("/admin/guests/invitations", url.Values{"ids": {"9999"}}); rec.Code != http.StatusNotFound {
		t.Errorf("unknown guest status = %d", rec.Code)
	}
}

func TestAdminEmailDisabled(t *testing.T) {
	f := newFixture(t)
	rec := f.postForm("/admin/guests/email", url.Values{"ids": {itoa(f.guest.ID)}})
	if rec.Code != http.StatusSeeOther || !strings.Contains(rec.Header().Get("Location"), "error=") {
		t.Errorf("email with disabled mailer = %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAdminInvitationAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := "/admin/invitations/" + itoa(f.inv.ID)

	rec := f.postForm(detail+"/answers", url.Values{"choice_id": {itoa(f.menu.Choices[2].ID)}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("add answer status = %d", rec.Code)
	}
	answers, _ := f.srv.db.ListAnswers(ctx, f.inv.ID)
	if len(answers) != 1 || answers[0].ChoiceText != "Овочі" {
		t.Fatalf("answers = %+v", answers)
	}

	body := f.get(detail, "").Body.String()
	if !strings.Contains(body, "Овочі") || !strings.Contains(body, f.srv.cfg.InvitationURL(f.inv.Token)) {
		t.Errorf("detail page missing answer or link")
	}

	if rec := f.postForm(detail+"/status", url.Values{"status": {"maybe"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status code = %d", rec.Code)
	}
	if rec := f.postForm(detail+"/status", url.Values{"status": {"declined"}}); rec.Code != http.StatusSeeOther {
		t.Errorf("status update code = %d", rec.Code)
	}
	inv, _ := f.srv.db.GetInvitationByID(ctx, f.inv.ID)
	if inv.Status != database.StatusDeclined {
		t.Errorf("status = %s", inv.Status)
	}

	rec = f.postForm("/admin/choices/"+itoa(f.menu.Choices[2].ID)+"/delete", nil)
	if rec.Code != http.StatusSeeOther || !strings.Contains(rec.Header().Get("Location"), "error=") {
		t.Errorf("deleting a used choice = %d %s", rec.Code, rec.Header().Get("Location"))
	}

	if rec := f.get("/admin/invitations/0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id status = %d", rec.Code)
	}
	if rec := f.get("/admin/invitations/9999", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d", rec.Code)
	}
}

func TestAdminCreateQuestion(t *testing.T) {
	f := newFixture(t)

	rec := f.postForm("/admin/questions", url.Values{"text": {"Трансфер?"}, "order": {"4"}, "kind": {"single"}, "is_active": {"1"}})
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/admin/questions/") {
		t.Fatalf("create question = %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if rec := f.postForm("/admin/questions", url.Values{"text": {"X"}, "kind": {"many"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid kind status = %d", rec.Code)
	}
	if rec := f.postForm("/admin/questions", url.Values{"text": {"X"}, "kind": {"single"}, "order": {"first"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid order status = %d", rec.Code)
	}
}

func TestAdminDashboardAndAnswers(t *testing.T) {
	f := newFixture(t)
	f.submit(f.inv.Token, `{"attendance":"На жаль, не зможу бути.","answers":{},"note":"Вибачте"}`)

	body := f.get("/admin", "").Body.String()
	if !strings.Contains(body, "Declined") {
		t.Errorf("dashboard missing counters")
	}

	body = f.get("/admin/answers", "").Body.String()
	if !strings.Contains(body, "Оксана Мельник") || !strings.Contains(body, "Вибачте") {
		t.Errorf("answers view missing the response")
	}
}

func TestAdminDownloadCSV(t *testing.T) {
	f := newFixture(t)
	rec := f.submit(f.inv.Token, `{"attendance":"Так, з радістю буду!","answers":{"`+menuLabel+`":["Лосось","Курятина"]},"note":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	rec = f.get("/admin/export.csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "\uFEFF") {
		t.Errorf("missing UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\uFEFF")), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Guest,Email,Phone,Token,Link,Status,Opened,Responded,Note,") {
		t.Errorf("header = %s", lines[0])
	}
	for _, want := range []string{"Оксана Мельник", f.inv.Token, "accepted", "Лосось; Курятина"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row missing %q: %s", want, lines[1])
		}
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
