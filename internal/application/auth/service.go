package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-api-employees/internal/domain"
	"github.com/go-api-employees/internal/pkg/id"
	pkgtoken "github.com/go-api-employees/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

const activationSubject = "Activation Code"

type Service interface {
	// Register creates an unverified user and returns its activation token.
	Register(ctx context.Context, req domain.RegisterRequest) (string, error)
	Activate(ctx context.Context, token string) error
	ResendActivation(ctx context.Context, email string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByActivationToken(ctx context.Context, token string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	// Redeem verifies the user only if it still holds token.
	Redeem(ctx context.Context, userID, token string, verifiedAt time.Time) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	userRepo userStore
	mailer   mailer
	baseURL  string
	newToken func() (string, error)
}

type ServiceDeps struct {
	UserRepo userStore
	Mailer   mailer
	// BaseURL prefixes the activation link in emails.
	BaseURL string
	// NewToken defaults to pkgtoken.NewActivationToken.
	NewToken func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	newToken := deps.NewToken
	if newToken == nil {
		newToken = pkgtoken.NewActivationToken
	}
	return &service{
		userRepo: deps.UserRepo,
		mailer:   deps.Mailer,
		baseURL:  strings.TrimRight(deps.BaseURL, "/"),
		newToken: newToken,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return "", emailTaken()
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	token, err := s.newToken()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:          id.New(),
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    string(hash),
		ActivationToken: &token,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", emailTaken()
		}
		return "", err
	}
	if err := s.sendActivation(u.Email, token); err != nil {
		slog.Warn("failed to send activation email", "user_id", u.UserID, "err", err)
	}
	return token, nil
}

func (s *service) Activate(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("empty activation token: %w", domain.ErrNotFound)
	}
	u, err := s.userRepo.GetByActivationToken(ctx, token)
	if err != nil {
		return err
	}
	return s.userRepo.Redeem(ctx, u.UserID, token, time.Now().UTC())
}

func (s *service) ResendActivation(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.Activated() {
		return fmt.Errorf("account already activated: %w", domain.ErrConflict)
	}
	token, err := s.newToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"activation_token": token}); err != nil {
		return err
	}
	return s.sendActivation(u.Email, token)
}

func (s *service) sendActivation(to, token string) error {
	body := fmt.Sprintf("Your activation code is: %s\n\nActivate your account: %s/activate/%s\n", token, s.baseURL, token)
	return s.mailer.SendEmail(to, activationSubject, body)
}

func emailTaken() error {
	return domain.NewFieldError("email", "The email has already been taken.")
}
