package rsvp

import (
	"strings"

	"github.com/AlexTLDR/wedding/internal/database"
)

// negationMarkers flag an attendance answer as a refusal.
var negationMarkers = []string{
	"не зможу",
	"не сможу",
	"cannot attend",
	"can't attend",
	"unable to attend",
	"will not attend",
	"won't attend",
}

// ClassifyAttendance maps the free-text attendance answer to a status.
// An empty answer returns "" which leaves the stored status unchanged.
func ClassifyAttendance(attendance string) database.InvitationStatus {
	a := Normalize(attendance)
	if a == "" {
		return ""
	}
	// Curly apostrophes come from mobile keyboards
	a = strings.ReplaceAll(a, "’", "'")
	for _, marker := range negationMarkers {
		if strings.Contains(a, marker) {
			return database.StatusDeclined
		}
	}
	return database.StatusAccepted
}
