package rest

import (
	"context"
	"net/http"

	"github.com/dtroode/outagetracker/internal/model"
)

type loginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	LogoutOthers bool   `json:"logout_others"`
}

type userResponse struct {
	User model.User `json:"user"`
}

// RegisterUser creates an account and returns the user with a token.
func (c *Client) RegisterUser(ctx context.Context, reg model.Registration) (model.AuthResult, error) {
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &res); err != nil {
		return model.AuthResult{}, err
	}
	return res, nil
}

// LoginUser exchanges credentials for a user and token.
func (c *Client) LoginUser(ctx context.Context, creds model.Credentials) (model.AuthResult, error) {
	body := loginRequest{
		Email:        creds.Email,
		Password:     creds.Password,
		LogoutOthers: creds.LogoutOthers,
	}
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &res); err != nil {
		return model.AuthResult{}, err
	}
	return res, nil
}

// LogoutUser notifies the server that the current token is no longer used.
func (c *Client) LogoutUser(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// FetchCurrentUser returns the user owning the current token.
func (c *Client) FetchCurrentUser(ctx context.Context) (model.User, error) {
	var res userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, nil, &res); err != nil {
		return model.User{}, err
	}
	return res.User, nil
}

// RequestPasswordReset asks the server to send a reset link to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, model.PasswordReset{Email: email}, nil)
}
