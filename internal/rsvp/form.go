package rsvp

import (
	"strings"

	"github.com/AlexTLDR/wedding/internal/database"
)

// yesNo are the base answers of the companion question. Every other choice
// of that question is a companion type.
var yesNo = map[string]bool{"так": true, "ні": true, "да": true, "нет": true, "yes": true, "no": true}

// IsCompanionQuestion reports whether q carries the companion marker.
func IsCompanionQuestion(q *database.Question, marker string) bool {
	if marker == "" {
		marker = DefaultCompanionMarker
	}
	return strings.Contains(q.Text, marker)
}

// SplitCompanionChoices separates the yes/no answers of the companion
// question from the companion types offered after "yes".
func SplitCompanionChoices(q *database.Question) (base, companions []database.Choice) {
	for _, c := range q.Choices {
		if yesNo[Normalize(c.Text)] {
			base = append(base, c)
			continue
		}
		companions = append(companions, c)
	}
	return base, companions
}

// IsAttendanceQuestion reports whether q is the "will you come" question:
// a single question with a choice that reads as a refusal.
func IsAttendanceQuestion(q *database.Question) bool {
	if q.Kind != database.KindSingle {
		return false
	}
	for _, c := range q.Choices {
		if ClassifyAttendance(c.Text) == database.StatusDeclined {
			return true
		}
	}
	return false
}
