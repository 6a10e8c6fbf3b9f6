package i18n

import (
	"fmt"
	"net/http"
	"time"
)

type Language string

const (
	Ukrainian Language = "uk"
	English   Language = "en"
)

// Parse returns the language for a code, and false for unknown codes.
func Parse(code string) (Language, bool) {
	switch code {
	case "uk", "ua":
		return Ukrainian, true
	case "en":
		return English, true
	}
	return "", false
}

// GetLanguageFromRequest extracts language from request (query param or cookie)
func GetLanguageFromRequest(r *http.Request) Language {
	// Check query parameter first
	if lang, ok := Parse(r.URL.Query().Get("lang")); ok {
		return lang
	}

	// Check cookie
	if cookie, err := r.Cookie("lang"); err == nil {
		if lang, ok := Parse(cookie.Value); ok {
			return lang
		}
	}

	// Default to Ukrainian
	return Ukrainian
}

var messages = map[string]map[Language]string{
	"title":            {Ukrainian: "Запрошення на весілля", English: "Wedding invitation"},
	"greeting":         {Ukrainian: "Дорогі гості", English: "Dear guests"},
	"invite_text":      {Ukrainian: "Запрошуємо вас розділити з нами цей особливий день.", English: "We invite you to share this special day with us."},
	"when":             {Ukrainian: "Коли", English: "When"},
	"where":            {Ukrainian: "Де", English: "Where"},
	"rsvp":             {Ukrainian: "Підтвердіть, будь ласка, вашу присутність", English: "Please confirm your attendance"},
	"attend_yes":       {Ukrainian: "Так, з радістю буду!", English: "Yes, I will gladly attend!"},
	"attend_no":        {Ukrainian: "На жаль, не зможу бути.", English: "Sorry, I can't attend."},
	"note":             {Ukrainian: "Побажання або коментар", English: "Wishes or comments"},
	"submit":           {Ukrainian: "Надіслати", English: "Send"},
	"thanks":           {Ukrainian: "Дякуємо! Вашу відповідь збережено.", English: "Thank you! Your answer has been saved."},
	"submit_failed":    {Ukrainian: "Не вдалося надіслати відповідь. Спробуйте ще раз.", English: "Could not send your answer. Please try again."},
	"not_found":        {Ukrainian: "Запрошення не знайдено", English: "Invitation not found"},
	"already_answered": {Ukrainian: "Ви вже відповіли. Можете змінити відповідь нижче.", English: "You have already answered. You can change your answer below."},
}

// T returns the message for key in lang, falling back to Ukrainian and then
// to the key itself.
func T(lang Language, key string) string {
	m, ok := messages[key]
	if !ok {
		return key
	}
	if s, ok := m[lang]; ok {
		return s
	}
	return m[Ukrainian]
}

var ukrainianMonths = []string{"", "січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня"}

// FormatDate formats the event date for display, e.g. "20 червня 2026, 15:00"
// in Ukrainian or "June 20, 2026, 15:00" in English.
func FormatDate(t time.Time, lang Language) string {
	if lang == Ukrainian {
		return fmt.Sprintf("%d %s %d, %02d:%02d",
			t.Day(), ukrainianMonths[t.Month()], t.Year(), t.Hour(), t.Minute())
	}
	return t.Format("January 2, 2006, 15:04")
}
