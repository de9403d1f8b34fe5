package model

import (
	"context"
	"time"
)

// AuthAPI defines the remote authentication operations used by the session.
type AuthAPI interface {
	RegisterUser(ctx context.Context, reg Registration) (AuthResult, error)
	LoginUser(ctx context.Context, creds Credentials) (AuthResult, error)
	LogoutUser(ctx context.Context) error
	FetchCurrentUser(ctx context.Context) (User, error)
	RequestPasswordReset(ctx context.Context, email string) error
}

// User represents the account returned by the API.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

// Apply merges the patch into u and returns the result.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

// Credentials are submitted by the login form.
type Credentials struct {
	Email        string `json:"email" validate:"required,email_address"`
	Password     string `json:"password" validate:"required,min=8"`
	RememberMe   bool   `json:"-"`
	LogoutOthers bool   `json:"logout_others"`
}

// Registration is submitted by the register form.
type Registration struct {
	Name                 string `json:"name" validate:"required,min=2"`
	Email                string `json:"email" validate:"required,email_address"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	AcceptTerms          bool   `json:"-" validate:"required"`
}

// PasswordReset is submitted by the forgot-password form.
type PasswordReset struct {
	Email string `json:"email" validate:"required,email_address"`
}

// AuthResult is the payload of successful login and register calls.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
