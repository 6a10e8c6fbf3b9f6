// Package templates holds the templ components for the public and admin pages.
// The *_templ.go files are generated from the .templ sources.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/i18n"
)

// Page carries what every page layout needs.
type Page struct {
	Lang  string
	Title string
	Theme config.ThemeConfig
}

// Event is the wedding information shown to guests.
type Event struct {
	CoupleNames  string
	Date         string
	VenueName    string
	VenueAddress string
}

type HomePage struct {
	Page
	Event  Event
	Mobile bool
}

// FormChoice is one selectable option; Checked restores a previous answer.
type FormChoice struct {
	Text    string
	Checked bool
}

// FormQuestion is a catalog question as the invitation form renders it.
type FormQuestion struct {
	Label      string
	Multi      bool
	Attendance bool
	Choices    []FormChoice
	// Companions are offered after an affirmative answer and sent as
	// "<answer> (<companion>, ...)".
	Companions []FormChoice
}

type InvitationPage struct {
	Page
	Event     Event
	Mobile    bool
	GuestName string
	SubmitURL string
	Responded bool
	Note      string
	Questions []FormQuestion
	// Attendance is rendered from these when the catalog has no attendance question.
	AttendYes string
	AttendNo  string
}

// AdminPage is the common frame of admin pages.
type AdminPage struct {
	Page
	User   string
	Notice string
	Error  string
}

// InvitationRow is an invitation with its public link.
type InvitationRow struct {
	*database.InvitationWithGuest
	Link string
}

// InvitationDetail feeds the invitation page of the admin.
type InvitationDetail struct {
	InvitationRow
	Answers   []*database.AnswerDetail
	Questions []*database.Question
}

func (p Page) lang() i18n.Language {
	if lang, ok := i18n.Parse(p.Lang); ok {
		return lang
	}
	return i18n.Ukrainian
}

func (p Page) withTitle(title string) Page {
	if p.Title == "" {
		p.Title = title
	}
	return p
}

func (p Page) t(key string) string {
	return i18n.T(p.lang(), key)
}

// formQuestions puts the fallback attendance question in front when the
// catalog does not carry one.
func (p InvitationPage) formQuestions() []FormQuestion {
	for _, q := range p.Questions {
		if q.Attendance {
			return p.Questions
		}
	}
	fallback := FormQuestion{
		Attendance: true,
		Choices:    []FormChoice{{Text: p.AttendYes}, {Text: p.AttendNo}},
	}
	return append([]FormQuestion{fallback}, p.Questions...)
}

func variant(mobile bool) string {
	if mobile {
		return "mobile"
	}
	return "desktop"
}

func inputType(q FormQuestion) string {
	if q.Multi {
		return "checkbox"
	}
	return "radio"
}

func questionKind(q FormQuestion) string {
	if q.Multi {
		return string(database.KindMulti)
	}
	return string(database.KindSingle)
}

func fieldName(n int) string {
	return "q_" + strconv.Itoa(n)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func nullTime(t sql.NullTime) string {
	if !t.Valid {
		return "-"
	}
	return formatTime(t.Time)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func choiceTexts(q *database.Question) string {
	texts := make([]string, len(q.Choices))
	for i, c := range q.Choices {
		texts[i] = c.Text
	}
	return strings.Join(texts, ", ")
}

func joinChoices(texts []string) string {
	return strings.Join(texts, ", ")
}

type statTile struct {
	Title string
	Value string
}

func statTiles(s database.Stats) []statTile {
	return []statTile{
		{"Guests", strconv.Itoa(s.Guests)},
		{"Invitations", strconv.Itoa(s.Invitations)},
		{"Opened", strconv.Itoa(s.Opened)},
		{"Responded", strconv.Itoa(s.Responded)},
		{"Accepted", strconv.Itoa(s.Accepted)},
		{"Declined", strconv.Itoa(s.Declined)},
		{"Pending", strconv.Itoa(s.Pending)},
	}
}

type guestField struct {
	Name  string
	Label string
	Value string
}

func guestFields(g database.Guest) []guestField {
	return []guestField{
		{"full_name", "Full name", g.FullName},
		{"email", "Email", g.Email},
		{"phone", "Phone", g.Phone},
		{"telegram", "Telegram", g.Telegram},
		{"instagram", "Instagram", g.Instagram},
	}
}

var invitationStatuses = []database.InvitationStatus{
	database.StatusPending,
	database.StatusAccepted,
	database.StatusDeclined,
}

var questionKinds = []database.QuestionKind{database.KindSingle, database.KindMulti}

func guestFormAction(g database.Guest) string {
	if g.ID == 0 {
		return "/admin/guests"
	}
	return "/admin/guests/" + itoa64(g.ID)
}

func questionFormAction(q database.Question) string {
	if q.ID == 0 {
		return "/admin/questions"
	}
	return "/admin/questions/" + itoa64(q.ID)
}
