package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-api-employees/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidationEnvelope carries per-field validation messages (422).
type ValidationEnvelope struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// UploadErrorEnvelope reports a storage failure during an upload.
type UploadErrorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path,omitempty"`
}

// RegisterEnvelope wraps the register response.
type RegisterEnvelope struct {
	Message         string `json:"message"`
	ActivationToken string `json:"activation_token,omitempty"`
}

// LoginEnvelope wraps the login response.
type LoginEnvelope struct {
	Token string      `json:"token"`
	User  *PublicUser `json:"user"`
}

// UserEnvelope wraps profile update responses.
type UserEnvelope struct {
	Message string      `json:"message"`
	User    *PublicUser `json:"user"`
}

// AvatarEnvelope wraps the profile picture upload response.
type AvatarEnvelope struct {
	Message        string `json:"message"`
	ProfilePicture string `json:"profile_picture"`
}

// RowsEnvelope wraps employee rows.
type RowsEnvelope struct {
	Message string               `json:"message,omitempty"`
	Data    []domain.EmployeeRow `json:"data"`
}

// PublicUser is the only user shape written to response bodies.
type PublicUser struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	ProfilePicture  *string    `json:"profile_picture"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toPublicUser(u *domain.User) *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:              u.UserID,
		Name:            u.Name,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		ProfilePicture:  u.ProfilePicture,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}
