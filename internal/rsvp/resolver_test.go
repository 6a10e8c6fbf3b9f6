package rsvp

import (
	"reflect"
	"testing"

	"github.com/AlexTLDR/wedding/internal/database"
)

const (
	menuLabel      = "Відмітьте, будь ласка, ваші вподобання:"
	transferLabel  = "Чи потрібен вам трансфер до місця проведення або назад:"
	companionLabel = `Чи потрібно вам запрошення "+1"?`
)

// testCatalog mirrors the seeded catalog with fixed IDs.
func testCatalog() []*database.Question {
	return []*database.Question{
		{ID: 1, Text: menuLabel, Order: 1, IsActive: true, Kind: database.KindMulti, Choices: []database.Choice{
			{ID: 11, QuestionID: 1, Text: "Лосось"},
			{ID: 12, QuestionID: 1, Text: "Курятина"},
			{ID: 13, QuestionID: 1, Text: "Вегетаріанське меню"},
		}},
		{ID: 2, Text: transferLabel, Order: 2, IsActive: true, Kind: database.KindSingle, Choices: []database.Choice{
			{ID: 21, QuestionID: 2, Text: "Так"},
			{ID: 22, QuestionID: 2, Text: "Ні"},
		}},
		{ID: 3, Text: companionLabel, Order: 3, IsActive: true, Kind: database.KindSingle, Choices: []database.Choice{
			{ID: 31, QuestionID: 3, Text: "Так"},
			{ID: 32, QuestionID: 3, Text: "Ні"},
			{ID: 33, QuestionID: 3, Text: "Друга половинка"},
			{ID: 34, QuestionID: 3, Text: "Дитина"},
		}},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		answers   map[string]Selection
		want      []database.AnswerReplacement
		wantSkips int
	}{
		{
			name:    "single exact",
			answers: map[string]Selection{transferLabel: Single("Так")},
			want:    []database.AnswerReplacement{{QuestionID: 2, ChoiceIDs: []int64{21}}},
		},
		{
			name:    "multi list",
			answers: map[string]Selection{menuLabel: List("Лосось", "Курятина")},
			want:    []database.AnswerReplacement{{QuestionID: 1, ChoiceIDs: []int64{11, 12}}},
		},
		{
			name:    "multi string becomes one element",
			answers: map[string]Selection{menuLabel: Single("курятина")},
			want:    []database.AnswerReplacement{{QuestionID: 1, ChoiceIDs: []int64{12}}},
		},
		{
			name:    "multi drops blanks and duplicates",
			answers: map[string]Selection{menuLabel: List(" ", "Лосось", "лосось ")},
			want:    []database.AnswerReplacement{{QuestionID: 1, ChoiceIDs: []int64{11}}},
		},
		{
			name:      "multi unresolved value still clears prior answers",
			answers:   map[string]Selection{menuLabel: List("Борщ")},
			want:      []database.AnswerReplacement{{QuestionID: 1}},
			wantSkips: 1,
		},
		{
			name:    "multi null clears prior answers",
			answers: map[string]Selection{menuLabel: {}},
			want:    []database.AnswerReplacement{{QuestionID: 1}},
		},
		{
			name:    "single list takes first element",
			answers: map[string]Selection{transferLabel: List("Ні", "Так")},
			want:    []database.AnswerReplacement{{QuestionID: 2, ChoiceIDs: []int64{22}}},
		},
		{
			name:    "single blank leaves question untouched",
			answers: map[string]Selection{transferLabel: Single("  ")},
		},
		{
			name:    "single empty list leaves question untouched",
			answers: map[string]Selection{transferLabel: List()},
		},
		{
			name:      "single unresolved keeps prior answers",
			answers:   map[string]Selection{transferLabel: Single("Можливо")},
			wantSkips: 1,
		},
		{
			name:    "companion compound",
			answers: map[string]Selection{companionLabel: Single("Так (Друга половинка, Дитина)")},
			want:    []database.AnswerReplacement{{QuestionID: 3, ChoiceIDs: []int64{31, 33, 34}}},
		},
		{
			name:    "companion compound collapses duplicates",
			answers: map[string]Selection{companionLabel: Single("Так (Дитина, дитина)")},
			want:    []database.AnswerReplacement{{QuestionID: 3, ChoiceIDs: []int64{31, 34}}},
		},
		{
			name:      "companion compound with unknown token",
			answers:   map[string]Selection{companionLabel: Single("Так (Друга половинка, Собака)")},
			want:      []database.AnswerReplacement{{QuestionID: 3, ChoiceIDs: []int64{31, 33}}},
			wantSkips: 1,
		},
		{
			name:    "companion plain answer",
			answers: map[string]Selection{companionLabel: Single("Ні")},
			want:    []database.AnswerReplacement{{QuestionID: 3, ChoiceIDs: []int64{32}}},
		},
		{
			name:    "parenthesised value outside companion question uses prefix",
			answers: map[string]Selection{transferLabel: Single("Так (тільки туди)")},
			want:    []database.AnswerReplacement{{QuestionID: 2, ChoiceIDs: []int64{21}}},
		},
		{
			name:    "label matched after normalization",
			answers: map[string]Selection{"  чи потрібен вам ТРАНСФЕР до місця проведення або назад: ": Single("Ні")},
			want:    []database.AnswerReplacement{{QuestionID: 2, ChoiceIDs: []int64{22}}},
		},
		{
			name:    "label matched by containment",
			answers: map[string]Selection{"ваші вподобання": List("Лосось")},
			want:    []database.AnswerReplacement{{QuestionID: 1, ChoiceIDs: []int64{11}}},
		},
		{
			name:      "unknown label is skipped",
			answers:   map[string]Selection{"Улюблений колір?": Single("Синій")},
			wantSkips: 1,
		},
		{
			name:    "blank label is ignored",
			answers: map[string]Selection{" ": Single("Так")},
		},
		{
			name: "later label replaces earlier one for the same question",
			answers: map[string]Selection{
				"Відмітьте": List("Лосось"),
				menuLabel:   List("Курятина"),
			},
			want: []database.AnswerReplacement{{QuestionID: 1, ChoiceIDs: []int64{12}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResolver(testCatalog(), "").Resolve(tt.answers)
			if !reflect.DeepEqual(got.Replacements, tt.want) {
				t.Errorf("Replacements = %+v, want %+v", got.Replacements, tt.want)
			}
			if len(got.Skips) != tt.wantSkips {
				t.Errorf("Skips = %+v, want %d", got.Skips, tt.wantSkips)
			}
		})
	}
}

func TestResolveCustomCompanionMarker(t *testing.T) {
	catalog := testCatalog()
	catalog[2].Text = "Будете з кимось?"

	r := NewResolver(catalog, "з кимось")
	got := r.Resolve(map[string]Selection{"Будете з кимось?": Single("Так (Дитина)")})
	want := []database.AnswerReplacement{{QuestionID: 3, ChoiceIDs: []int64{31, 34}}}
	if !reflect.DeepEqual(got.Replacements, want) {
		t.Errorf("Replacements = %+v, want %+v", got.Replacements, want)
	}
}

func TestParseCompanions(t *testing.T) {
	tests := []struct {
		input      string
		base       string
		companions []string
		ok         bool
	}{
		{"Так (Друга половинка, Дитина)", "Так", []string{"Друга половинка", "Дитина"}, true},
		{"так, звісно ( Дитина )", "так, звісно", []string{"Дитина"}, true},
		{"Yes (Partner)", "Yes", []string{"Partner"}, true},
		{"Да (Ребёнок", "Да", []string{"Ребёнок"}, true},
		{"Ні (нікого)", "", nil, false},
		{"Так ()", "", nil, false},
		{"Так", "", nil, false},
		{"Таксі (так)", "", nil, false},
	}

	for _, tt := range tests {
		base, companions, ok := ParseCompanions(tt.input)
		if ok != tt.ok || base != tt.base || !reflect.DeepEqual(companions, tt.companions) {
			t.Errorf("ParseCompanions(%q) = %q, %q, %v; want %q, %q, %v",
				tt.input, base, companions, ok, tt.base, tt.companions, tt.ok)
		}
	}
}
