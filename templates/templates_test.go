package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
)

func TestInvitationPage(t *testing.T) {
	page := InvitationPage{
		Page:      Page{Lang: "uk", Theme: config.DefaultThemes},
		Event:     Event{CoupleNames: "Олександр & Катерина", Date: "20 червня 2026, 15:00"},
		Mobile:    true,
		GuestName: "<Марія>",
		SubmitURL: "/api/invitation/abc/submit/",
		Note:      "</textarea><script>",
		Questions: []FormQuestion{
			{Label: "Меню", Multi: true, Choices: []FormChoice{{Text: "Лосось", Checked: true}, {Text: "Курятина"}}},
			{Label: `Чи потрібно вам запрошення "+1"?`, Choices: []FormChoice{{Text: "Так"}, {Text: "Ні"}},
				Companions: []FormChoice{{Text: "Дитина"}}},
		},
		AttendYes: "Так, з радістю буду!",
		AttendNo:  "На жаль, не зможу бути.",
	}

	var buf bytes.Buffer
	if err := Invitation(page).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`class="layout-mobile`,
		`&lt;Марія&gt;`,
		`data-submit-url="/api/invitation/abc/submit/"`,
		`data-kind="multi"`,
		`value="Лосось" checked`,
		`class="checkbox companion" value="Дитина"`,
		`data-attendance="true"`,
		`value="На жаль, не зможу бути."`,
		`&lt;/textarea&gt;&lt;script&gt;`,
		`data-theme="garden"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page is missing %q", want)
		}
	}
	if strings.Contains(html, "<Марія>") {
		t.Errorf("guest name was not escaped")
	}
}

func TestInvitationPageUsesCatalogAttendance(t *testing.T) {
	page := InvitationPage{
		Questions: []FormQuestion{{Label: "Чи зможете ви бути присутніми?", Attendance: true,
			Choices: []FormChoice{{Text: "Так"}, {Text: "Ні, не зможу"}}}},
		AttendYes: "fallback-yes",
	}

	var buf bytes.Buffer
	if err := Invitation(page).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "fallback-yes") {
		t.Errorf("fallback attendance rendered although the catalog has one")
	}
}

func TestAdminPages(t *testing.T) {
	a := AdminPage{User: "admin@example.com", Notice: "Saved"}
	inv := &database.InvitationWithGuest{
		Invitation: database.Invitation{ID: 7, Token: "tok", Status: database.StatusAccepted, Note: "Дякуємо"},
		Guest:      database.Guest{FullName: "Іван"},
	}

	var buf bytes.Buffer
	err := AdminInvitationDetail(a, InvitationDetail{
		InvitationRow: InvitationRow{InvitationWithGuest: inv, Link: "http://x/Invitation/tok/"},
		Answers: []*database.AnswerDetail{
			{Answer: database.Answer{ID: 3}, QuestionText: "Меню", ChoiceText: "Лосось"},
		},
		Questions: []*database.Question{{ID: 1, Text: "Меню", Choices: []database.Choice{{ID: 11, Text: "Лосось"}}}},
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	for _, want := range []string{
		`/admin/invitations/7/status`,
		`<option value="accepted" selected>`,
		`/admin/answers/3/delete`,
		`<option value="11">Лосось</option>`,
		`Дякуємо`,
		`Saved`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("detail page is missing %q", want)
		}
	}
}

func TestAdminLinksAreSanitized(t *testing.T) {
	inv := &database.InvitationWithGuest{
		Invitation: database.Invitation{ID: 9, Token: "tok", Status: database.StatusPending},
		Guest:      database.Guest{FullName: `"><script>alert(1)</script>`},
	}

	var buf bytes.Buffer
	err := AdminInvitations(AdminPage{}, []InvitationRow{{InvitationWithGuest: inv, Link: "javascript:alert(1)"}}).
		Render(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	html := buf.String()

	if strings.Contains(html, `href="javascript:`) {
		t.Errorf("unsafe link was rendered as is")
	}
	if strings.Contains(html, "<script>alert(1)") {
		t.Errorf("guest name was not escaped")
	}
	for _, want := range []string{`href="/admin/invitations/9"`, `<span class="badge">pending</span>`, `action="/admin/invitations/9/delete"`} {
		if !strings.Contains(html, want) {
			t.Errorf("invitations page is missing %q", want)
		}
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name             string
		google, password bool
		want, notWant    string
	}{
		{"google only", true, false, `href="/auth/google"`, `name="password"`},
		{"password only", false, true, `name="password"`, `href="/auth/google"`},
		{"nothing configured", false, false, "No login method is configured.", "<form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Login(Page{}, "", tt.google, tt.password).Render(context.Background(), &buf); err != nil {
				t.Fatal(err)
			}
			html := buf.String()
			if !strings.Contains(html, tt.want) || strings.Contains(html, tt.notWant) {
				t.Errorf("login page = %s", html)
			}
			if !strings.Contains(html, "<title>Login</title>") {
				t.Errorf("default title not applied")
			}
		})
	}
}
