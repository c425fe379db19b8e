package domain

import "time"

type User struct {
	UserID            string     `json:"id" dynamodbav:"user_id"`
	Name              string     `json:"name" dynamodbav:"name"`
	Email             string     `json:"email" dynamodbav:"email"`
	PasswordHash      string     `json:"-" dynamodbav:"password_hash"`
	ActivationToken   *string    `json:"-" dynamodbav:"activation_token,omitempty"` // sparse GSI key, absent once redeemed
	EmailVerifiedAt   *time.Time `json:"email_verified_at" dynamodbav:"email_verified_at,omitempty"`
	ProfilePicture    *string    `json:"profile_picture" dynamodbav:"profile_picture,omitempty"`
	ProfilePictureKey *string    `json:"-" dynamodbav:"profile_picture_key,omitempty"`
	CreatedAt         time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt         time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Activated reports whether the user has redeemed an activation token.
func (u *User) Activated() bool {
	return u.EmailVerifiedAt != nil
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,bcrypt"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

type ResendActivationRequest struct {
	Email string `json:"email" validate:"required,email"`
}
