package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/taskhub/taskhub-backend/pkg/database"
	"github.com/taskhub/taskhub-backend/pkg/errors"
)

// Session represents a user session backed by a refresh token
type Session struct {
	ID           string       `db:"id"`
	UserID       string       `db:"user_id"`
	RefreshToken string       `db:"refresh_token"`
	UserAgent    string       `db:"user_agent"`
	IPAddress    string       `db:"ip_address"`
	ExpiresAt    time.Time    `db:"expires_at"`
	RevokedAt    sql.NullTime `db:"revoked_at"`
	LastUsedAt   sql.NullTime `db:"last_used_at"`
	CreatedAt    time.Time    `db:"created_at"`
}

// Active reports whether the session can still be used to mint tokens
func (s *Session) Active() bool {
	return !s.RevokedAt.Valid && s.ExpiresAt.After(time.Now())
}

// SessionRepository handles session persistence
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (id, user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
	).Scan(&session.CreatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByRefreshToken looks up a session by its refresh token
func (r *SessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	query := `
		SELECT id, user_id, refresh_token, user_agent, ip_address,
		       expires_at, revoked_at, last_used_at, created_at
		FROM sessions
		WHERE refresh_token = $1
	`
	err := r.db.GetContext(ctx, &session, query, refreshToken)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("session")
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// RotateRefreshToken replaces the session's refresh token and extends its expiry
func (r *SessionRepository) RotateRefreshToken(ctx context.Context, sessionID, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET refresh_token = $2, expires_at = $3, last_used_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, sessionID, refreshToken, expiresAt)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("session")
	}

	return nil
}

// Revoke marks a session as revoked
func (r *SessionRepository) Revoke(ctx context.Context, sessionID string) error {
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("session")
	}

	return nil
}

// RevokeAllForUser revokes every active session belonging to a user
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`

	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
