package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-api-employees/internal/domain"
)

const userColumns = `id, name, email, password_hash, activation_token, email_verified_at,
		profile_picture, profile_picture_key, created_at, updated_at`

// updatableUserColumns whitelists the keys accepted by UserRepo.Update.
var updatableUserColumns = map[string]bool{
	"name":                true,
	"email":               true,
	"password_hash":       true,
	"activation_token":    true,
	"email_verified_at":   true,
	"profile_picture":     true,
	"profile_picture_key": true,
	"updated_at":          true,
}

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		u.UserID, u.Name, u.Email, u.PasswordHash, u.ActivationToken, u.EmailVerifiedAt,
		u.ProfilePicture, u.ProfilePictureKey, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user exists: %w", domain.ErrConflict)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	return r.getBy(ctx, "id", userID)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByActivationToken finds the unverified user holding token. The empty
// token never matches.
func (r *UserRepo) GetByActivationToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("empty activation token: %w", domain.ErrNotFound)
	}
	return r.getBy(ctx, "activation_token", token)
}

// Update applies a partial update. A nil value stores NULL.
func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if !updatableUserColumns[k] {
			return fmt.Errorf("unknown user column %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, updates[k])
	}
	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email taken: %w", domain.ErrConflict)
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return nil
}

// Redeem marks the user verified and clears token in one statement guarded by
// the token itself. A lost race or a replay yields ErrNotFound.
func (r *UserRepo) Redeem(ctx context.Context, userID, token string, verifiedAt time.Time) error {
	if token == "" {
		return fmt.Errorf("empty activation token: %w", domain.ErrNotFound)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email_verified_at = $1, activation_token = NULL, updated_at = $2
		 WHERE id = $3 AND activation_token = $4`,
		verifiedAt, time.Now().UTC(), userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("activation token already redeemed: %w", domain.ErrNotFound)
	}
	return nil
}

// column is always one of the literals passed by the getters above.
func (r *UserRepo) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	var (
		u                          domain.User
		token, picture, pictureKey sql.NullString
		verifiedAt                 sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &token, &verifiedAt,
		&picture, &pictureKey, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.ActivationToken = nullString(token)
	u.ProfilePicture = nullString(picture)
	u.ProfilePictureKey = nullString(pictureKey)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		u.EmailVerifiedAt = &t
	}
	return &u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
