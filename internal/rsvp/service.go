package rsvp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/logging"
)

// Store is the part of the database the submission flow needs.
type Store interface {
	GetInvitationByToken(ctx context.Context, token string) (*database.Invitation, error)
	ListQuestions(ctx context.Context, activeOnly bool) ([]*database.Question, error)
	SaveResponse(ctx context.Context, r database.Response) (int, error)
}

// Result is what a submission reports back to the page.
type Result struct {
	Saved   int
	Skipped int
	Status  database.InvitationStatus
}

// Service handles RSVP submissions.
type Service struct {
	store           Store
	companionMarker string
	now             func() time.Time
}

func NewService(store Store, companionMarker string) *Service {
	return &Service{
		store:           store,
		companionMarker: companionMarker,
		now:             time.Now,
	}
}

// Submit records one submission for the invitation identified by token.
// Unknown tokens return database.ErrNotFound. Labels and values that match
// nothing are counted and logged, never reported as errors.
func (s *Service) Submit(ctx context.Context, token string, p *Payload) (*Result, error) {
	inv, err := s.store.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	questions, err := s.store.ListQuestions(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	resolution := NewResolver(questions, s.companionMarker).Resolve(p.Answers)
	status := ClassifyAttendance(p.Attendance)

	saved, err := s.store.SaveResponse(ctx, database.Response{
		InvitationID: inv.ID,
		Status:       status,
		Note:         strings.TrimSpace(p.Note),
		RespondedAt:  s.now().UTC(),
		Replacements: resolution.Replacements,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	for _, skip := range resolution.Skips {
		logging.Log.Warn("rsvp answer skipped",
			zap.Int64("invitation_id", inv.ID),
			zap.String("label", skip.Label),
			zap.String("value", skip.Value),
			zap.String("reason", skip.Reason),
		)
	}

	if status == "" {
		status = inv.Status
	}
	logging.Log.Info("rsvp submitted",
		zap.Int64("invitation_id", inv.ID),
		zap.String("status", string(status)),
		zap.Int("saved", saved),
		zap.Int("skipped", len(resolution.Skips)),
	)

	return &Result{Saved: saved, Skipped: len(resolution.Skips), Status: status}, nil
}
