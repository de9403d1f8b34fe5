package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
	"github.com/dtroode/outagetracker/internal/validate"
)

// Fallback messages shown when the API gives none.
const (
	MsgLoginFailed    = "Login failed. Please check your credentials."
	MsgRegisterFailed = "Registration failed. Please try again."
	MsgResetFailed    = "Failed to send reset email. Please try again."
)

// Session owns the authentication state machine.
type Session struct {
	api    model.AuthAPI
	store  model.SessionStore
	tokens model.TokenInspector
	logger *logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   model.Session
	changes notifier[model.Session]
}

// NewSession creates a session in the Unknown state. tokens may be nil,
// in which case every stored token is revalidated over the network.
func NewSession(
	api model.AuthAPI,
	store model.SessionStore,
	tokens model.TokenInspector,
	logger *logger.Logger,
) *Session {
	return &Session{
		api:    api,
		store:  store,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
		state: model.Session{
			State:     model.SessionUnknown,
			IsLoading: true,
		},
	}
}

// Restore resolves the Unknown state from the stored token.
func (s *Session) Restore(ctx context.Context) error {
	s.logger.Debug("Session service: restoring session")

	gen := s.update(func(st *model.Session) {
		st.IsLoading = true
	}).Generation

	token, ok := s.store.AuthToken(ctx)
	if !ok {
		s.logger.Debug("Session service: no stored token")
		s.settleAnonymous(gen)
		return nil
	}

	if s.tokens != nil && s.tokens.Expired(token, s.now()) {
		s.logger.Info("Session service: stored token expired")
		s.store.ClearSession(ctx)
		s.settleAnonymous(gen)
		return nil
	}

	user, err := s.api.FetchCurrentUser(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.settleAnonymous(gen)
			return fmt.Errorf("failed to revalidate token: %w", ctxErr)
		}
		s.logger.Warn("Session service: failed to revalidate token",
			"error", err.Error())
		s.store.ClearSession(ctx)
		s.settleAnonymous(gen)
		return nil
	}

	if !s.store.SaveUser(ctx, user) {
		s.logger.Warn("Session service: failed to cache user",
			"user_id", user.ID)
	}

	s.update(func(st *model.Session) {
		if st.Generation != gen {
			return
		}
		authenticate(st, user, token)
	})

	s.logger.Info("Session service: session restored",
		"user_id", user.ID)

	return nil
}

// Login authenticates with credentials and persists the returned token.
func (s *Session) Login(ctx context.Context, creds model.Credentials) (model.User, error) {
	if err := validate.Credentials(creds); err != nil {
		return model.User{}, err
	}

	s.logger.Debug("Session service: logging in",
		"email", creds.Email)

	res, err := s.exchange(ctx, MsgLoginFailed, func() (model.AuthResult, error) {
		return s.api.LoginUser(ctx, creds)
	})
	if err != nil {
		s.logger.Info("Session service: login failed",
			"email", creds.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to login: %w", err)
	}

	s.logger.Info("Session service: logged in",
		"user_id", res.User.ID)

	return res.User, nil
}

// Register creates an account and signs in with it.
func (s *Session) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	if err := validate.Registration(reg); err != nil {
		return model.User{}, err
	}

	s.logger.Debug("Session service: registering",
		"email", reg.Email)

	res, err := s.exchange(ctx, MsgRegisterFailed, func() (model.AuthResult, error) {
		return s.api.RegisterUser(ctx, reg)
	})
	if err != nil {
		s.logger.Info("Session service: registration failed",
			"email", reg.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to register: %w", err)
	}

	s.logger.Info("Session service: registered",
		"user_id", res.User.ID)

	return res.User, nil
}

func (s *Session) exchange(
	ctx context.Context,
	fallback string,
	call func() (model.AuthResult, error),
) (model.AuthResult, error) {
	s.update(func(st *model.Session) {
		st.IsLoading = true
		st.LastError = ""
	})

	res, err := call()
	if err != nil {
		msg := model.MessageOr(err, fallback)
		s.update(func(st *model.Session) {
			st.IsLoading = false
			st.LastError = msg
		})
		return model.AuthResult{}, err
	}

	if !s.store.SaveAuthToken(ctx, res.Token) {
		s.logger.Warn("Session service: failed to persist token",
			"user_id", res.User.ID)
	}
	if !s.store.SaveUser(ctx, res.User) {
		s.logger.Warn("Session service: failed to cache user",
			"user_id", res.User.ID)
	}

	s.update(func(st *model.Session) {
		authenticate(st, res.User, res.Token)
	})

	return res, nil
}

// Logout ends the session. It always succeeds locally; a failed server
// notification is only logged.
func (s *Session) Logout(ctx context.Context) {
	local := context.WithoutCancel(ctx)

	if token, ok := s.store.AuthToken(local); ok && token != "" {
		if err := s.api.LogoutUser(ctx); err != nil {
			s.logger.Warn("Session service: failed to notify server about logout",
				"error", err.Error())
		}
	}

	if !s.store.ClearSession(local) {
		s.logger.Warn("Session service: failed to clear stored session")
	}

	s.update(toAnonymous)

	s.logger.Info("Session service: logged out")
}

// Invalidate drops the session after the server rejected its token.
func (s *Session) Invalidate(ctx context.Context) {
	s.logger.Info("Session service: invalidating session")

	s.update(func(st *model.Session) {
		st.State = model.SessionInvalidating
	})

	if !s.store.ClearSession(context.WithoutCancel(ctx)) {
		s.logger.Warn("Session service: failed to clear stored session")
	}

	s.update(toAnonymous)
}

// UpdateProfile merges patch into the current user.
func (s *Session) UpdateProfile(ctx context.Context, patch model.UserPatch) (model.User, error) {
	var (
		updated model.User
		ok      bool
	)
	s.update(func(st *model.Session) {
		if !st.IsAuthenticated || st.User == nil {
			return
		}
		updated = patch.Apply(*st.User)
		st.User = &updated
		ok = true
	})
	if !ok {
		return model.User{}, model.ErrNotAuthenticated
	}

	if !s.store.SaveUser(ctx, updated) {
		s.logger.Warn("Session service: failed to cache user",
			"user_id", updated.ID)
	}

	return updated, nil
}

// ForgotPassword asks the server to send a reset link.
func (s *Session) ForgotPassword(ctx context.Context, email string) error {
	if err := validate.PasswordReset(model.PasswordReset{Email: email}); err != nil {
		return err
	}

	if err := s.api.RequestPasswordReset(ctx, email); err != nil {
		s.logger.Info("Session service: failed to request password reset",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	s.logger.Info("Session service: password reset requested",
		"email", email)

	return nil
}

// ClearError resets the last error message.
func (s *Session) ClearError() {
	s.update(func(st *model.Session) {
		st.LastError = ""
	})
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySession(s.state)
}

// Subscribe registers fn to receive every state change.
func (s *Session) Subscribe(fn func(model.Session)) func() {
	return s.changes.subscribe(fn)
}

func (s *Session) settleAnonymous(gen uint64) {
	s.update(func(st *model.Session) {
		if st.Generation != gen {
			return
		}
		toAnonymous(st)
	})
}

func (s *Session) update(fn func(st *model.Session)) model.Session {
	s.mu.Lock()
	fn(&s.state)
	snap := copySession(s.state)
	s.mu.Unlock()

	s.changes.publish(snap)
	return snap
}

func authenticate(st *model.Session, user model.User, token string) {
	st.State = model.SessionAuthenticated
	st.User = &user
	st.Token = token
	st.IsAuthenticated = true
	st.IsLoading = false
	st.LastError = ""
	st.Generation++
}

func toAnonymous(st *model.Session) {
	if st.IsAuthenticated {
		st.Generation++
	}
	st.State = model.SessionAnonymous
	st.User = nil
	st.Token = ""
	st.IsAuthenticated = false
	st.IsLoading = false
}

func copySession(st model.Session) model.Session {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}
