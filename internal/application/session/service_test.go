package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-api-employees/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Disable(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, sessionID string) (string, error) {
	args := m.Called(userID, sessionID)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func newService(us *mockUserStore, ss *mockSessionStore, jwt *mockJWTSigner) Service {
	return NewService(ServiceDeps{UserRepo: us, SessionRepo: ss, JWTProvider: jwt})
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func activeUser(t *testing.T) *domain.User {
	now := time.Now().UTC()
	return &domain.User{UserID: "u1", Email: "a@b.com", PasswordHash: hashed(t, "password123"), EmailVerifiedAt: &now}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	us, ss, jwt := &mockUserStore{}, &mockSessionStore{}, &mockJWTSigner{}
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(activeUser(t), nil)
	ss.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.UserID == "u1" && s.Enable && s.SessionID != ""
	})).Return(nil)
	jwt.On("Sign", "u1", mock.AnythingOfType("string")).Return("bearer-token", nil)

	res, err := newService(us, ss, jwt).Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", res.Token)
	require.NotNil(t, res.Session.User)
	assert.Equal(t, "u1", res.Session.User.UserID)
	ss.AssertExpectations(t)
}

func TestLogin_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "x@b.com").Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))

	_, err := newService(us, nil, nil).Login(context.Background(), LoginRequest{Email: "x@b.com", Password: "password123"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmptyCredentialsSkipStore(t *testing.T) {
	for _, req := range []LoginRequest{
		{Email: "", Password: "password123"},
		{Email: "a@b.com", Password: ""},
	} {
		us := &mockUserStore{}

		_, err := newService(us, nil, nil).Login(context.Background(), req)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		us.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	}
}

func TestLogin_WrongPasswordIsUnauthorizedEvenIfUnverified(t *testing.T) {
	us := &mockUserStore{}
	u := activeUser(t)
	u.EmailVerifiedAt = nil
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(u, nil)

	_, err := newService(us, nil, nil).Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "wrong-password"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UnverifiedIsForbiddenAndIssuesNothing(t *testing.T) {
	us, ss, jwt := &mockUserStore{}, &mockSessionStore{}, &mockJWTSigner{}
	u := activeUser(t)
	u.EmailVerifiedAt = nil
	us.On("GetByEmail", mock.Anything, "a@b.com").Return(u, nil)

	_, err := newService(us, ss, jwt).Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "password123"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	jwt.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
}

func TestLogin_StoreFailurePropagates(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := newService(us, nil, nil).Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "x"})

	assert.EqualError(t, err, "db down")
}

// --- Logout / Validate ---

func TestLogout_DisablesSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Disable", mock.Anything, "s1").Return(nil)

	require.NoError(t, newService(nil, ss, nil).Logout(context.Background(), "s1"))
	ss.AssertExpectations(t)
}

func TestLogout_MissingSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Disable", mock.Anything, "s1").Return(fmt.Errorf("session not found: %w", domain.ErrNotFound))

	assert.ErrorIs(t, newService(nil, ss, nil).Logout(context.Background(), "s1"), domain.ErrUnauthorized)
}

func TestValidate(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "live").Return(&domain.Session{SessionID: "live", Enable: true}, nil)
	ss.On("Get", mock.Anything, "dead").Return(&domain.Session{SessionID: "dead", Enable: false}, nil)
	ss.On("Get", mock.Anything, "gone").Return(nil, fmt.Errorf("session not found: %w", domain.ErrNotFound))
	svc := newService(nil, ss, nil)

	sess, err := svc.Validate(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, "live", sess.SessionID)

	_, err = svc.Validate(context.Background(), "dead")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Validate(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
