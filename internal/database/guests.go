package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const guestColumns = `g.id, g.full_name, g.email, g.phone, g.telegram, g.instagram, g.created_at`

func scanGuest(row interface{ Scan(...any) error }, g *Guest, extra ...any) error {
	dest := append([]any{&g.ID, &g.FullName, &g.Email, &g.Phone, &g.Telegram, &g.Instagram, &g.CreatedAt}, extra...)
	return row.Scan(dest...)
}

// CreateGuest inserts a guest and returns the stored row.
func (db *DB) CreateGuest(ctx context.Context, g Guest) (*Guest, error) {
	id, err := db.ExecReturningID(ctx,
		`INSERT INTO guests (full_name, email, phone, telegram, instagram) VALUES (?, ?, ?, ?, ?)`,
		g.FullName, g.Email, g.Phone, g.Telegram, g.Instagram,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return db.GetGuestByID(ctx, id)
}

// GetGuestByID retrieves a guest by ID
func (db *DB) GetGuestByID(ctx context.Context, id int64) (*Guest, error) {
	g := &Guest{}
	err := scanGuest(db.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM guests g WHERE g.id = ?`, id), g)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return g, nil
}

// ListGuests returns every guest with the number of invitations they hold.
func (db *DB) ListGuests(ctx context.Context) ([]*Guest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+guestColumns+`, COUNT(i.id)
		 FROM guests g
		 LEFT JOIN invitations i ON i.guest_id = g.id
		 GROUP BY g.id, g.full_name, g.email, g.phone, g.telegram, g.instagram, g.created_at
		 ORDER BY g.full_name, g.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	var guests []*Guest
	for rows.Next() {
		g := &Guest{}
		if err := scanGuest(rows, g, &g.InvitationCount); err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

// UpdateGuest overwrites the guest's name and contact fields.
func (db *DB) UpdateGuest(ctx context.Context, g Guest) error {
	res, err := db.ExecContext(ctx,
		`UPDATE guests SET full_name = ?, email = ?, phone = ?, telegram = ?, instagram = ? WHERE id = ?`,
		g.FullName, g.Email, g.Phone, g.Telegram, g.Instagram, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}
	return expectAffected(res)
}

// DeleteGuest deletes a guest with all invitations and answers.
func (db *DB) DeleteGuest(ctx context.Context, id int64) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM answers WHERE invitation_id IN (SELECT id FROM invitations WHERE guest_id = ?)`, id); err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM invitations WHERE guest_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete invitations: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete guest: %w", err)
		}
		return expectAffected(res)
	})
}

// expectAffected maps "zero rows touched" to ErrNotFound.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
