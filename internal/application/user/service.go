package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/go-api-employees/internal/domain"
	"github.com/go-api-employees/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Attribute names used in partial update maps.
const (
	fieldName              = "name"
	fieldEmail             = "email"
	fieldPasswordHash      = "password_hash"
	fieldProfilePicture    = "profile_picture"
	fieldProfilePictureKey = "profile_picture_key"
)

const avatarPrefix = "profile_pictures"

// AvatarInput is an already validated image upload.
type AvatarInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	// UploadAvatar replaces the profile picture and returns its public URL.
	UploadAvatar(ctx context.Context, userID string, in AvatarInput) (string, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo    userStore
	objects objectStore
}

type ServiceDeps struct {
	UserRepo    userStore
	ObjectStore objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.UserRepo,
		objects: deps.ObjectStore,
	}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Email != nil && *req.Email != u.Email {
		other, err := s.repo.GetByEmail(ctx, *req.Email)
		switch {
		case err == nil && other.UserID != userID:
			return nil, emailTaken()
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		updates[fieldEmail] = *req.Email
	}
	if len(updates) == 0 {
		return u, nil
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, emailTaken()
		}
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) UploadAvatar(ctx context.Context, userID string, in AvatarInput) (string, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.ProfilePictureKey != nil && *u.ProfilePictureKey != "" {
		if err := s.objects.Delete(ctx, *u.ProfilePictureKey); err != nil {
			slog.Warn("failed to delete previous profile picture", "user_id", userID, "key", *u.ProfilePictureKey, "err", err)
		}
	}
	key := fmt.Sprintf("%s/%s/%s%s", avatarPrefix, userID, id.New(), strings.ToLower(path.Ext(in.Filename)))
	url, err := s.objects.Upload(ctx, key, in.Body, in.ContentType)
	if err != nil {
		return "", &domain.StorageError{Op: "upload profile picture", Err: err}
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{
		fieldProfilePicture:    url,
		fieldProfilePictureKey: key,
	}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

func emailTaken() error {
	return domain.NewFieldError("email", "The email has already been taken.")
}
