package database

import (
	"database/sql"
	"time"
)

// InvitationStatus is the RSVP state of an invitation.
type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusDeclined InvitationStatus = "declined"
)

// Valid reports whether s is one of the known statuses.
func (s InvitationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// QuestionKind tells whether a question takes one or several choices.
type QuestionKind string

const (
	KindSingle QuestionKind = "single"
	KindMulti  QuestionKind = "multi"
)

func (k QuestionKind) Valid() bool {
	return k == KindSingle || k == KindMulti
}

type Guest struct {
	ID        int64
	FullName  string
	Email     string
	Phone     string
	Telegram  string
	Instagram string
	CreatedAt time.Time

	// Populated by ListGuests only
	InvitationCount int
}

type Invitation struct {
	ID          int64
	GuestID     int64
	Token       string
	Status      InvitationStatus
	OpenedAt    sql.NullTime
	RespondedAt sql.NullTime
	Note        string
	CreatedAt   time.Time
}

type InvitationWithGuest struct {
	Invitation
	Guest Guest
}

type Question struct {
	ID       int64
	Text     string
	Order    int
	IsActive bool
	Kind     QuestionKind
	Choices  []Choice
}

type Choice struct {
	ID         int64
	QuestionID int64
	Text       string
	Order      int
}

type Answer struct {
	ID           int64
	InvitationID int64
	QuestionID   int64
	ChoiceID     int64
}

// AnswerDetail is an answer joined with its question and choice texts.
type AnswerDetail struct {
	Answer
	QuestionText string
	ChoiceText   string
}

// QuestionAnswers groups the chosen texts of one question.
type QuestionAnswers struct {
	QuestionID   int64
	QuestionText string
	Choices      []string
}

// GuestAnswers is one row of the aggregate answers view.
type GuestAnswers struct {
	InvitationWithGuest
	Questions []QuestionAnswers
}

// AnswerReplacement is the full answer set for one question of an invitation.
type AnswerReplacement struct {
	QuestionID int64
	ChoiceIDs  []int64
}

// Response is everything one RSVP submission writes.
type Response struct {
	InvitationID int64
	// Status is left untouched when empty
	Status       InvitationStatus
	Note         string
	RespondedAt  time.Time
	Replacements []AnswerReplacement
}

// Stats feeds the admin dashboard.
type Stats struct {
	Guests      int
	Invitations int
	Pending     int
	Accepted    int
	Declined    int
	Opened      int
	Responded   int
}
