package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrChoiceInUse is returned when deleting a choice that answers still reference.
var ErrChoiceInUse = errors.New("choice is referenced by answers")

// ListQuestions returns questions ordered by (order, id) with their choices
// ordered the same way. activeOnly restricts the list to the live catalog.
func (db *DB) ListQuestions(ctx context.Context, activeOnly bool) ([]*Question, error) {
	query := `SELECT id, text, sort_order, is_active, kind FROM questions`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY sort_order, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*Question
	byID := make(map[int64]*Question)
	for rows.Next() {
		q := &Question{}
		if err := rows.Scan(&q.ID, &q.Text, &q.Order, &q.IsActive, &q.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	choices, err := db.listChoices(ctx, ``)
	if err != nil {
		return nil, err
	}
	for _, c := range choices {
		if q, ok := byID[c.QuestionID]; ok {
			q.Choices = append(q.Choices, c)
		}
	}
	return questions, nil
}

// GetQuestion loads one question with its choices.
func (db *DB) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	q := &Question{}
	err := db.QueryRowContext(ctx,
		`SELECT id, text, sort_order, is_active, kind FROM questions WHERE id = ?`, id,
	).Scan(&q.ID, &q.Text, &q.Order, &q.IsActive, &q.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	q.Choices, err = db.listChoices(ctx, `WHERE question_id = ?`, id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (db *DB) listChoices(ctx context.Context, where string, args ...any) ([]Choice, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, question_id, text, sort_order FROM choices `+where+` ORDER BY question_id, sort_order, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list choices: %w", err)
	}
	defer rows.Close()

	var choices []Choice
	for rows.Next() {
		var c Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Order); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// CreateQuestion inserts a question (choices are added separately).
func (db *DB) CreateQuestion(ctx context.Context, q Question) (*Question, error) {
	if !q.Kind.Valid() {
		return nil, fmt.Errorf("invalid question kind %q", q.Kind)
	}
	id, err := db.ExecReturningID(ctx,
		`INSERT INTO questions (text, sort_order, is_active, kind) VALUES (?, ?, ?, ?)`,
		q.Text, q.Order, q.IsActive, string(q.Kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return db.GetQuestion(ctx, id)
}

// UpdateQuestion overwrites text, order, active flag and kind.
func (db *DB) UpdateQuestion(ctx context.Context, q Question) error {
	if !q.Kind.Valid() {
		return fmt.Errorf("invalid question kind %q", q.Kind)
	}
	res, err := db.ExecContext(ctx,
		`UPDATE questions SET text = ?, sort_order = ?, is_active = ?, kind = ? WHERE id = ?`,
		q.Text, q.Order, q.IsActive, string(q.Kind), q.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return expectAffected(res)
}

// DeleteQuestion removes a question with its choices and answers.
func (db *DB) DeleteQuestion(ctx context.Context, id int64) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE question_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE question_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete choices: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete question: %w", err)
		}
		return expectAffected(res)
	})
}

// CreateChoice adds a choice to a question.
func (db *DB) CreateChoice(ctx context.Context, c Choice) (*Choice, error) {
	id, err := db.ExecReturningID(ctx,
		`INSERT INTO choices (question_id, text, sort_order) VALUES (?, ?, ?)`,
		c.QuestionID, c.Text, c.Order,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create choice: %w", err)
	}
	return db.GetChoice(ctx, id)
}

// GetChoice retrieves a choice by ID
func (db *DB) GetChoice(ctx context.Context, id int64) (*Choice, error) {
	choices, err := db.listChoices(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return nil, ErrNotFound
	}
	return &choices[0], nil
}

// UpdateChoice changes a choice's text and order.
func (db *DB) UpdateChoice(ctx context.Context, c Choice) error {
	res, err := db.ExecContext(ctx,
		`UPDATE choices SET text = ?, sort_order = ? WHERE id = ?`, c.Text, c.Order, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update choice: %w", err)
	}
	return expectAffected(res)
}

// DeleteChoice deletes a choice unless an answer still points at it. The
// answers.choice_id foreign key (ON DELETE RESTRICT) does the check.
func (db *DB) DeleteChoice(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM choices WHERE id = ?`, id)
	if db.Dialect.IsForeignKeyViolation(err) {
		return ErrChoiceInUse
	}
	if err != nil {
		return fmt.Errorf("failed to delete choice: %w", err)
	}
	return expectAffected(res)
}

// UpsertQuestion finds a question by exact text or creates it. Existing
// questions get their order, kind and active flag refreshed.
func (db *DB) UpsertQuestion(ctx context.Context, q Question) (*Question, bool, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT id FROM questions WHERE text = ? ORDER BY id LIMIT 1`, q.Text).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created, err := db.CreateQuestion(ctx, q)
		return created, true, err
	case err != nil:
		return nil, false, fmt.Errorf("failed to look up question: %w", err)
	}

	q.ID = id
	if err := db.UpdateQuestion(ctx, q); err != nil {
		return nil, false, err
	}
	existing, err := db.GetQuestion(ctx, id)
	return existing, false, err
}

// UpsertChoice finds a choice of the question by exact text or creates it.
func (db *DB) UpsertChoice(ctx context.Context, c Choice) (*Choice, bool, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM choices WHERE question_id = ? AND text = ? ORDER BY id LIMIT 1`, c.QuestionID, c.Text,
	).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created, err := db.CreateChoice(ctx, c)
		return created, true, err
	case err != nil:
		return nil, false, fmt.Errorf("failed to look up choice: %w", err)
	}

	existing, err := db.GetChoice(ctx, id)
	return existing, false, err
}
