package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-api-employees/internal/domain"
)

type SessionRepo struct {
	db DBTX
}

func NewSessionRepo(db DBTX) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Put(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (id, user_id, enable, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, s.SessionID, s.UserID, s.Enable, s.CreatedAt, s.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `SELECT id, user_id, enable, created_at, updated_at FROM sessions WHERE id = $1`

	var s domain.Session
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&s.SessionID, &s.UserID, &s.Enable, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) Disable(ctx context.Context, sessionID string) error {
	query := `UPDATE sessions SET enable = FALSE, updated_at = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return nil
}
