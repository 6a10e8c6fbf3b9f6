package rsvp

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/AlexTLDR/wedding/internal/database"
)

type fixture struct {
	db        *database.DB
	svc       *Service
	token     string
	invID     int64
	menu      *database.Question
	transfer  *database.Question
	companion *database.Question
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open("sqlite", database.DialectConfig{Path: filepath.Join(t.TempDir(), "rsvp.db")})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	f := &fixture{db: db, svc: NewService(db, "+1")}
	f.menu = createQuestion(t, db, menuLabel, 1, database.KindMulti, "Лосось", "Курятина", "Вегетаріанське меню")
	f.transfer = createQuestion(t, db, transferLabel, 2, database.KindSingle, "Так", "Ні")
	f.companion = createQuestion(t, db, companionLabel, 3, database.KindSingle, "Так", "Ні", "Друга половинка", "Дитина")

	guest, err := db.CreateGuest(ctx, database.Guest{FullName: "Оксана Мельник"})
	if err != nil {
		t.Fatal(err)
	}
	inv, err := db.CreateInvitation(ctx, guest.ID)
	if err != nil {
		t.Fatal(err)
	}
	f.token = inv.Token
	f.invID = inv.ID
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
		if _, err := db.CreateChoice(ctx, database.Choice{QuestionID: q.ID, Text: c, Order: i}); err != nil {
			t.Fatal(err)
		}
	}
	q, err = db.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

// answersFor returns the chosen texts of one question, sorted.
func (f *fixture) answersFor(t *testing.T, questionID int64) []string {
	t.Helper()
	answers, err := f.db.ListAnswers(context.Background(), f.invID)
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, a := range answers {
		if a.QuestionID == questionID {
			texts = append(texts, a.ChoiceText)
		}
	}
	sort.Strings(texts)
	return texts
}

func (f *fixture) submit(t *testing.T, p *Payload) *Result {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), f.token, p)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return res
}

func (f *fixture) invitation(t *testing.T) *database.Invitation {
	t.Helper()
	inv, err := f.db.GetInvitationByID(context.Background(), f.invID)
	if err != nil {
		t.Fatal(err)
	}
	return inv
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSubmitSingleExact(t *testing.T) {
	f := newFixture(t)

	res := f.submit(t, &Payload{Answers: map[string]Selection{transferLabel: Single("Так")}})
	if res.Saved != 1 || res.Skipped != 0 {
		t.Errorf("Result = %+v, want saved 1 skipped 0", res)
	}
	if got := f.answersFor(t, f.transfer.ID); !equalStrings(got, []string{"Так"}) {
		t.Errorf("answers = %v", got)
	}

	// Changing the answer replaces the previous row
	f.submit(t, &Payload{Answers: map[string]Selection{transferLabel: Single("Ні")}})
	if got := f.answersFor(t, f.transfer.ID); !equalStrings(got, []string{"Ні"}) {
		t.Errorf("answers after change = %v", got)
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	f := newFixture(t)
	p := &Payload{
		Attendance: "Так, з радістю буду!",
		Answers: map[string]Selection{
			menuLabel:      List("Лосось", "Курятина"),
			transferLabel:  Single("Ні"),
			companionLabel: Single("Так (Друга половинка)"),
		},
		Note: "Чекаємо!",
	}

	first := f.submit(t, p)
	menu, transfer, companion := f.answersFor(t, f.menu.ID), f.answersFor(t, f.transfer.ID), f.answersFor(t, f.companion.ID)

	second := f.submit(t, p)
	if first.Saved != second.Saved || first.Skipped != second.Skipped {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if !equalStrings(menu, f.answersFor(t, f.menu.ID)) ||
		!equalStrings(transfer, f.answersFor(t, f.transfer.ID)) ||
		!equalStrings(companion, f.answersFor(t, f.companion.ID)) {
		t.Errorf("answers changed on resubmission")
	}
	if first.Saved != 5 {
		t.Errorf("Saved = %d, want 5", first.Saved)
	}
}

func TestSubmitMultiReplacesPrior(t *testing.T) {
	f := newFixture(t)

	f.submit(t, &Payload{Answers: map[string]Selection{menuLabel: List("Вегетаріанське меню")}})
	res := f.submit(t, &Payload{Answers: map[string]Selection{menuLabel: List("Лосось", "Курятина")}})

	if res.Saved != 2 {
		t.Errorf("Saved = %d, want 2", res.Saved)
	}
	if got := f.answersFor(t, f.menu.ID); !equalStrings(got, []string{"Курятина", "Лосось"}) {
		t.Errorf("answers = %v", got)
	}
}

func TestSubmitStatus(t *testing.T) {
	tests := []struct {
		name       string
		attendance []string
		want       database.InvitationStatus
	}{
		{"declined", []string{"На жаль, не зможу бути."}, database.StatusDeclined},
		{"accepted", []string{"Так, з радістю буду!"}, database.StatusAccepted},
		{"empty stays pending", []string{""}, database.StatusPending},
		{"empty keeps previous", []string{"Так, з радістю буду!", ""}, database.StatusAccepted},
		{"change of mind", []string{"Так, з радістю буду!", "Не зможу"}, database.StatusDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var res *Result
			for _, a := range tt.attendance {
				res = f.submit(t, &Payload{Attendance: a})
			}
			inv := f.invitation(t)
			if inv.Status != tt.want || res.Status != tt.want {
				t.Errorf("status = %q (result %q), want %q", inv.Status, res.Status, tt.want)
			}
			if !inv.RespondedAt.Valid {
				t.Errorf("responded_at not set")
			}
		})
	}
}

func TestSubmitCompanionCompound(t *testing.T) {
	f := newFixture(t)

	res := f.submit(t, &Payload{Answers: map[string]Selection{companionLabel: Single("Так (Друга половинка, Дитина)")}})
	if res.Saved != 3 || res.Skipped != 0 {
		t.Errorf("Result = %+v, want saved 3 skipped 0", res)
	}
	want := []string{"Дитина", "Друга половинка", "Так"}
	if got := f.answersFor(t, f.companion.ID); !equalStrings(got, want) {
		t.Errorf("answers = %v, want %v", got, want)
	}
}

func TestSubmitUnknownLabel(t *testing.T) {
	f := newFixture(t)

	res := f.submit(t, &Payload{Answers: map[string]Selection{
		"Улюблений колір?": Single("Синій"),
		transferLabel:      Single("Так"),
	}})
	if res.Skipped != 1 || res.Saved != 1 {
		t.Errorf("Result = %+v, want saved 1 skipped 1", res)
	}
}

func TestSubmitUnresolvedSingleKeepsPrior(t *testing.T) {
	f := newFixture(t)

	f.submit(t, &Payload{Answers: map[string]Selection{transferLabel: Single("Так")}})
	res := f.submit(t, &Payload{Answers: map[string]Selection{transferLabel: Single("Можливо")}})
	if res.Skipped != 1 || res.Saved != 0 {
		t.Errorf("Result = %+v", res)
	}
	if got := f.answersFor(t, f.transfer.ID); !equalStrings(got, []string{"Так"}) {
		t.Errorf("prior answer lost: %v", got)
	}
}

func TestSubmitNote(t *testing.T) {
	f := newFixture(t)

	f.submit(t, &Payload{Note: "  Будемо о 15:00  "})
	if got := f.invitation(t).Note; got != "Будемо о 15:00" {
		t.Errorf("Note = %q", got)
	}
}

func TestSubmitIgnoresInactiveQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q := *f.transfer
	q.IsActive = false
	if err := f.db.UpdateQuestion(ctx, q); err != nil {
		t.Fatal(err)
	}

	res := f.submit(t, &Payload{Answers: map[string]Selection{transferLabel: Single("Так")}})
	if res.Saved != 0 || res.Skipped != 1 {
		t.Errorf("Result = %+v, want saved 0 skipped 1", res)
	}
}

func TestSubmitUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), "nope", &Payload{Attendance: "Так"})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("Submit() error = %v, want ErrNotFound", err)
	}
}
