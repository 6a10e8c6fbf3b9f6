package rsvp

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Так,   з  радістю  ", "так, з радістю"},
		{"ДРУГА\tПоловинка", "друга половинка"},
		{"Зи\u0306ду", "зйду"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStrategies(t *testing.T) {
	tests := []struct {
		name      string
		strategy  Strategy
		submitted string
		candidate string
		want      bool
	}{
		{"exact trims", Exact, " Так ", "Так", true},
		{"exact is case sensitive", Exact, "так", "Так", false},
		{"exact never matches empty", Exact, "  ", "", false},
		{"normalized folds case", Normalized, "ТАК", "так", true},
		{"normalized collapses spaces", Normalized, "Друга   половинка", "друга половинка", true},
		{"normalized composes", Normalized, "Стрии\u0306", "стрий", true},
		{"exact does not compose", Exact, "Стрии\u0306", "Стрий", false},
		{"contains submitted in candidate", Contains, "ваші вподобання", "Відмітьте, будь ласка, ваші вподобання:", true},
		{"contains candidate in submitted", Contains, "Так, з радістю буду!", "Так", true},
		{"contains ignores empty candidate", Contains, "Так", " ", false},
		{"contains mismatch", Contains, "Лосось", "Курятина", false},
		{"prefix before parenthesis", Prefix, "Так (Друга половинка)", "так", true},
		{"prefix of longer text", Prefix, "Вегетаріанське меню без глютену", "Вегетаріанське меню", true},
		{"prefix mismatch", Prefix, "Ні (нікого)", "Так", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.strategy.Match(tt.submitted, tt.candidate); got != tt.want {
				t.Errorf("%s.Match(%q, %q) = %v, want %v", tt.strategy.Name, tt.submitted, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatchOrder(t *testing.T) {
	candidates := []string{"Так, з радістю", "Так", "Ні"}

	// An exact hit later in the list beats a contains hit earlier in the list
	i, strategy, ok := Match(ChoiceStrategies, "Так", candidates)
	if !ok || i != 1 || strategy != "exact" {
		t.Errorf("Match() = %d, %q, %v; want 1, exact, true", i, strategy, ok)
	}

	i, strategy, ok = Match(ChoiceStrategies, "так", candidates)
	if !ok || i != 1 || strategy != "normalized" {
		t.Errorf("Match() = %d, %q, %v; want 1, normalized, true", i, strategy, ok)
	}

	// Within a strategy the first candidate wins
	i, strategy, ok = Match(ChoiceStrategies, "так, з радістю буду", candidates)
	if !ok || i != 0 || strategy != "contains" {
		t.Errorf("Match() = %d, %q, %v; want 0, contains, true", i, strategy, ok)
	}

	// Prefix inputs are already caught by contains
	for _, v := range []string{"Так (Друга половинка)", "Вегетаріанське меню без глютену"} {
		choices := []string{"Так", "Вегетаріанське меню"}
		if _, strategy, ok := Match(ChoiceStrategies, v, choices); !ok || strategy != "contains" {
			t.Errorf("Match(%q) strategy = %q, %v; want contains", v, strategy, ok)
		}
	}

	if _, _, ok := Match(QuestionStrategies, "Куди летимо?", candidates); ok {
		t.Errorf("Match() matched an unrelated label")
	}
}

func TestClassifyAttendance(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Так, з радістю буду!", "accepted"},
		{"На жаль, не зможу бути.", "declined"},
		{"НЕ ЗМОЖУ", "declined"},
		{"К сожалению, не сможу", "declined"},
		{"Sorry, I can’t attend", "declined"},
		{"I will attend", "accepted"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ClassifyAttendance(tt.input); string(got) != tt.want {
			t.Errorf("ClassifyAttendance(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
