package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

const (
	tokenBytes      = 9 // 12 URL-safe characters
	tokenMaxRetries = 5
)

const invitationColumns = `i.id, i.guest_id, i.token, i.status, i.opened_at, i.responded_at, i.note, i.created_at`

func invitationDest(inv *Invitation) []any {
	return []any{&inv.ID, &inv.GuestID, &inv.Token, &inv.Status, &inv.OpenedAt, &inv.RespondedAt, &inv.Note, &inv.CreatedAt}
}

// GenerateToken returns a random 12-character URL-safe token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateInvitation creates a pending invitation for a guest with a unique token.
// The token is never changed afterwards.
func (db *DB) CreateInvitation(ctx context.Context, guestID int64) (*Invitation, error) {
	var token string
	for i := 0; i < tokenMaxRetries; i++ {
		candidate, err := GenerateToken()
		if err != nil {
			return nil, err
		}

		var exists bool
		err = db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM invitations WHERE token = ?)`, candidate,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check token uniqueness: %w", err)
		}
		if !exists {
			token = candidate
			break
		}
	}
	if token == "" {
		return nil, fmt.Errorf("failed to generate unique token after %d retries", tokenMaxRetries)
	}

	id, err := db.ExecReturningID(ctx,
		`INSERT INTO invitations (guest_id, token, status, note) VALUES (?, ?, ?, ?)`,
		guestID, token, string(StatusPending), "",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return db.GetInvitationByID(ctx, id)
}

// CreateInvitations creates one invitation per guest, in order.
func (db *DB) CreateInvitations(ctx context.Context, guestIDs []int64) ([]*Invitation, error) {
	var created []*Invitation
	for _, guestID := range guestIDs {
		if _, err := db.GetGuestByID(ctx, guestID); err != nil {
			return created, fmt.Errorf("guest %d: %w", guestID, err)
		}
		inv, err := db.CreateInvitation(ctx, guestID)
		if err != nil {
			return created, err
		}
		created = append(created, inv)
	}
	return created, nil
}

// GetInvitationByID retrieves an invitation by ID
func (db *DB) GetInvitationByID(ctx context.Context, id int64) (*Invitation, error) {
	return db.getInvitation(ctx, `i.id = ?`, id)
}

// GetInvitationByToken retrieves an invitation by its public token
func (db *DB) GetInvitationByToken(ctx context.Context, token string) (*Invitation, error) {
	return db.getInvitation(ctx, `i.token = ?`, token)
}

func (db *DB) getInvitation(ctx context.Context, where string, arg any) (*Invitation, error) {
	inv := &Invitation{}
	err := db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations i WHERE `+where, arg,
	).Scan(invitationDest(inv)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// GetInvitationWithGuest loads an invitation joined with its guest.
func (db *DB) GetInvitationWithGuest(ctx context.Context, id int64) (*InvitationWithGuest, error) {
	list, err := db.listInvitations(ctx, `WHERE i.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

// ListInvitations returns all invitations with their guests, newest first.
func (db *DB) ListInvitations(ctx context.Context) ([]*InvitationWithGuest, error) {
	return db.listInvitations(ctx, ``)
}

// ListGuestInvitations returns the guest's invitations, newest first.
func (db *DB) ListGuestInvitations(ctx context.Context, guestID int64) ([]*InvitationWithGuest, error) {
	return db.listInvitations(ctx, `WHERE i.guest_id = ?`, guestID)
}

func (db *DB) listInvitations(ctx context.Context, where string, args ...any) ([]*InvitationWithGuest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+invitationColumns+`, `+guestColumns+`
		 FROM invitations i
		 JOIN guests g ON g.id = i.guest_id `+where+`
		 ORDER BY i.created_at DESC, i.id DESC`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*InvitationWithGuest
	for rows.Next() {
		iwg := &InvitationWithGuest{}
		dest := append(invitationDest(&iwg.Invitation),
			&iwg.Guest.ID, &iwg.Guest.FullName, &iwg.Guest.Email, &iwg.Guest.Phone,
			&iwg.Guest.Telegram, &iwg.Guest.Instagram, &iwg.Guest.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, iwg)
	}
	return invitations, rows.Err()
}

// MarkAsOpened records the first time the invitation page was rendered.
// Later calls leave opened_at untouched.
func (db *DB) MarkAsOpened(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE invitations SET opened_at = ? WHERE id = ? AND opened_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invitation as opened: %w", err)
	}
	return nil
}

// UpdateInvitationStatus is the admin override of an invitation's status.
func (db *DB) UpdateInvitationStatus(ctx context.Context, id int64, status InvitationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid invitation status %q", status)
	}
	res, err := db.ExecContext(ctx, `UPDATE invitations SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}
	return expectAffected(res)
}

// DeleteInvitation deletes an invitation and all its answers
func (db *DB) DeleteInvitation(ctx context.Context, id int64) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE invitation_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete invitation: %w", err)
		}
		return expectAffected(res)
	})
}

// GetStats counts guests and invitations for the dashboard.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guests`).Scan(&s.Guests); err != nil {
		return nil, fmt.Errorf("failed to count guests: %w", err)
	}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN opened_at IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN responded_at IS NOT NULL THEN 1 ELSE 0 END), 0)
		 FROM invitations`,
		string(StatusPending), string(StatusAccepted), string(StatusDeclined),
	).Scan(&s.Invitations, &s.Pending, &s.Accepted, &s.Declined, &s.Opened, &s.Responded)
	if err != nil {
		return nil, fmt.Errorf("failed to count invitations: %w", err)
	}
	return s, nil
}
