package http

import (
	"context"
	"io"
	"time"

	"github.com/go-api-employees/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
// Both the DynamoDB and the Postgres repositories satisfy it.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByActivationToken(ctx context.Context, token string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Redeem(ctx context.Context, userID, token string, verifiedAt time.Time) error
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// RowCache stores parsed employee rows with an expiry.
type RowCache interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
}

// Parser turns an uploaded spreadsheet into employee rows.
type Parser interface {
	Parse(r io.Reader, filename string) ([]domain.EmployeeRow, error)
}

// Mailer sends plain-text emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}
