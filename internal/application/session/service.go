package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-api-employees/internal/domain"
	"github.com/go-api-employees/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest carries no validation tags: any credential mismatch,
// malformed or empty input included, is reported as 401.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token   string
	Session *domain.Session
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	// Validate returns the session if it exists and is still enabled.
	Validate(ctx context.Context, sessionID string) (*domain.Session, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

type jwtSigner interface {
	Sign(userID, sessionID string) (string, error)
}

type service struct {
	sessionRepo sessionStore
	userRepo    userStore
	jwtProvider jwtSigner
}

type ServiceDeps struct {
	SessionRepo sessionStore
	UserRepo    userStore
	JWTProvider jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessionRepo: deps.SessionRepo,
		userRepo:    deps.UserRepo,
		jwtProvider: deps.JWTProvider,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("missing credentials: %w", domain.ErrUnauthorized)
	}
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !u.Activated() {
		return nil, fmt.Errorf("account not activated: %w", domain.ErrForbidden)
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID: id.New(),
		UserID:    u.UserID,
		Enable:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &LoginResult{Token: bearer, Session: sess}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Disable(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session not found: %w", domain.ErrUnauthorized)
		}
		return err
	}
	return nil
}

func (s *service) Validate(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("session not found: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session disabled: %w", domain.ErrUnauthorized)
	}
	return sess, nil
}
