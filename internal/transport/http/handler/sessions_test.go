package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-api-employees/internal/application/session"
	"github.com/go-api-employees/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Login(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*session.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSessionSvc) Validate(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

const loginBody = `{"email":"a@b.com","password":"password123"}`

func TestLogin_HappyPath(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Login", mock.Anything, session.LoginRequest{Email: "a@b.com", Password: "password123"}).
		Return(&session.LoginResult{Token: "jwt", Session: &domain.Session{User: &domain.User{UserID: "u1", Email: "a@b.com", PasswordHash: "h"}}}, nil)
	h := NewSessionHandler(svc)

	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(loginBody)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp LoginEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestLogin_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"bad credentials", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized), http.StatusUnauthorized, `{"message":"Unauthorized"}`},
		{"unverified", fmt.Errorf("not activated: %w", domain.ErrForbidden), http.StatusForbidden, `{"message":"Please activate your account."}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSessionSvc{}
			svc.On("Login", mock.Anything, mock.Anything).Return(nil, tc.err)
			h := NewSessionHandler(svc)

			rr := httptest.NewRecorder()
			h.Login(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(loginBody)))

			assert.Equal(t, tc.code, rr.Code)
			assert.JSONEq(t, tc.body, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "token")
		})
	}
}

func TestLogin_MalformedCredentialsAreUnauthorized(t *testing.T) {
	cases := map[string]string{
		"malformed email": `{"email":"not-an-email","password":"password123"}`,
		"empty password":  `{"email":"a@b.com","password":""}`,
		"missing fields":  `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockSessionSvc{}
			svc.On("Login", mock.Anything, mock.Anything).
				Return(nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))
			h := NewSessionHandler(svc)

			rr := httptest.NewRecorder()
			h.Login(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"message":"Unauthorized"}`, rr.Body.String())
		})
	}
}

func TestLogout(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("Logout", mock.Anything, "sess1").Return(nil)
	h := NewSessionHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, h.Logout, rr, bearerReq(t, p, http.MethodPost, "/logout", "u1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
