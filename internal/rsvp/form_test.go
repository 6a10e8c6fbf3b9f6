package rsvp

import (
	"testing"

	"github.com/AlexTLDR/wedding/internal/database"
)

func TestSplitCompanionChoices(t *testing.T) {
	q := testCatalog()[2]
	if !IsCompanionQuestion(q, "") {
		t.Fatalf("IsCompanionQuestion() = false for %q", q.Text)
	}

	base, companions := SplitCompanionChoices(q)
	if len(base) != 2 || base[0].Text != "Так" || base[1].Text != "Ні" {
		t.Errorf("base = %+v", base)
	}
	if len(companions) != 2 || companions[0].Text != "Друга половинка" || companions[1].Text != "Дитина" {
		t.Errorf("companions = %+v", companions)
	}

	if IsCompanionQuestion(testCatalog()[1], "+1") {
		t.Errorf("transfer question is not a companion question")
	}
}

func TestIsAttendanceQuestion(t *testing.T) {
	attendance := &database.Question{Kind: database.KindSingle, Choices: []database.Choice{
		{Text: "Так, з радістю буду!"},
		{Text: "На жаль, не зможу бути."},
	}}
	if !IsAttendanceQuestion(attendance) {
		t.Errorf("IsAttendanceQuestion() = false for the attendance question")
	}

	for _, q := range testCatalog() {
		if IsAttendanceQuestion(q) {
			t.Errorf("IsAttendanceQuestion() = true for %q", q.Text)
		}
	}
}
