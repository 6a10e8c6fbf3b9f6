package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

// SaveResponse writes one RSVP submission atomically: the invitation's status,
// note and responded_at, then every answer replacement. It returns the number
// of answer rows inserted.
func (db *DB) SaveResponse(ctx context.Context, r Response) (int, error) {
	saved := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		var (
			res sql.Result
			err error
		)
		if r.Status != "" {
			res, err = tx.ExecContext(ctx,
				`UPDATE invitations SET status = ?, note = ?, responded_at = ? WHERE id = ?`,
				string(r.Status), r.Note, r.RespondedAt, r.InvitationID,
			)
		} else {
			res, err = tx.ExecContext(ctx,
				`UPDATE invitations SET note = ?, responded_at = ? WHERE id = ?`,
				r.Note, r.RespondedAt, r.InvitationID,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}
		if err := expectAffected(res); err != nil {
			return err
		}

		for _, rep := range r.Replacements {
			n, err := replaceAnswers(ctx, tx, r.InvitationID, rep)
			if err != nil {
				return err
			}
			saved += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// replaceAnswers deletes every answer of (invitation, question) and inserts
// the given choices. Duplicate choice IDs are written once.
func replaceAnswers(ctx context.Context, q Querier, invitationID int64, rep AnswerReplacement) (int, error) {
	if _, err := q.ExecContext(ctx,
		`DELETE FROM answers WHERE invitation_id = ? AND question_id = ?`, invitationID, rep.QuestionID,
	); err != nil {
		return 0, fmt.Errorf("failed to delete answers for question %d: %w", rep.QuestionID, err)
	}

	seen := make(map[int64]bool, len(rep.ChoiceIDs))
	inserted := 0
	for _, choiceID := range rep.ChoiceIDs {
		if seen[choiceID] {
			continue
		}
		seen[choiceID] = true

		if _, err := q.ExecContext(ctx,
			`INSERT INTO answers (invitation_id, question_id, choice_id) VALUES (?, ?, ?)`,
			invitationID, rep.QuestionID, choiceID,
		); err != nil {
			return inserted, fmt.Errorf("failed to insert answer for question %d: %w", rep.QuestionID, err)
		}
		inserted++
	}
	return inserted, nil
}

// CreateAnswer adds a single answer row (admin). The question is taken from
// the choice. Adding an answer that already exists is a no-op.
func (db *DB) CreateAnswer(ctx context.Context, invitationID, choiceID int64) (*Answer, error) {
	choice, err := db.GetChoice(ctx, choiceID)
	if err != nil {
		return nil, err
	}
	if _, err := db.GetInvitationByID(ctx, invitationID); err != nil {
		return nil, err
	}

	a := &Answer{InvitationID: invitationID, QuestionID: choice.QuestionID, ChoiceID: choice.ID}
	err = db.QueryRowContext(ctx,
		`SELECT id FROM answers WHERE invitation_id = ? AND question_id = ? AND choice_id = ?`,
		a.InvitationID, a.QuestionID, a.ChoiceID,
	).Scan(&a.ID)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up answer: %w", err)
	}

	a.ID, err = db.ExecReturningID(ctx,
		`INSERT INTO answers (invitation_id, question_id, choice_id) VALUES (?, ?, ?)`,
		a.InvitationID, a.QuestionID, a.ChoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return a, nil
}

// DeleteAnswer removes one answer row.
func (db *DB) DeleteAnswer(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return expectAffected(res)
}

// ListAnswers returns an invitation's answers in question then choice order.
func (db *DB) ListAnswers(ctx context.Context, invitationID int64) ([]*AnswerDetail, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT a.id, a.invitation_id, a.question_id, a.choice_id, q.text, c.text
		 FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 JOIN choices c ON c.id = a.choice_id
		 WHERE a.invitation_id = ?
		 ORDER BY q.sort_order, q.id, c.sort_order, c.id`,
		invitationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []*AnswerDetail
	for rows.Next() {
		a := &AnswerDetail{}
		if err := rows.Scan(&a.ID, &a.InvitationID, &a.QuestionID, &a.ChoiceID, &a.QuestionText, &a.ChoiceText); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// GroupAnswers folds ordered answer rows into one entry per question.
func GroupAnswers(answers []*AnswerDetail) []QuestionAnswers {
	var groups []QuestionAnswers
	for _, a := range answers {
		if n := len(groups); n > 0 && groups[n-1].QuestionID == a.QuestionID {
			groups[n-1].Choices = append(groups[n-1].Choices, a.ChoiceText)
			continue
		}
		groups = append(groups, QuestionAnswers{
			QuestionID:   a.QuestionID,
			QuestionText: a.QuestionText,
			Choices:      []string{a.ChoiceText},
		})
	}
	return groups
}

// ListGuestAnswers is the aggregate view: every invitation that has responded,
// with its answers grouped by question, ordered by guest name.
func (db *DB) ListGuestAnswers(ctx context.Context) ([]*GuestAnswers, error) {
	invitations, err := db.listInvitations(ctx, `WHERE i.responded_at IS NOT NULL`)
	if err != nil {
		return nil, err
	}

	result := make([]*GuestAnswers, 0, len(invitations))
	for _, inv := range invitations {
		answers, err := db.ListAnswers(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &GuestAnswers{
			InvitationWithGuest: *inv,
			Questions:           GroupAnswers(answers),
		})
	}

	sortGuestAnswers(result)
	return result, nil
}

func sortGuestAnswers(list []*GuestAnswers) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Guest.FullName != list[j].Guest.FullName {
			return list[i].Guest.FullName < list[j].Guest.FullName
		}
		return list[i].ID < list[j].ID
	})
}
