package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"moneytrack/internal/amqp"
	"moneytrack/internal/auth"
	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

// UserService handles registration, login and account lifecycle. Mail never
// leaves this process: lifecycle events go to the notify queue and the
// worker does the sending.
type UserService struct {
	repo         *storage.Repository
	auth         *auth.Service
	events       EventPublisher
	resetURLBase string
}

func NewUserService(repo *storage.Repository, authService *auth.Service, events EventPublisher, resetURLBase string) *UserService {
	return &UserService{
		repo:         repo,
		auth:         authService,
		events:       events,
		resetURLBase: strings.TrimRight(resetURLBase, "/"),
	}
}

// RegisterInput carries the signup form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Currency string
	Timezone string
}

// Register creates the account and returns it with a signed token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (core.User, string, error) {
	if err := core.ValidatePassword(in.Password); err != nil {
		return core.User{}, "", err
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return core.User{}, "", err
	}

	user, err := s.repo.Users.Create(ctx, core.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Currency: in.Currency,
		Timezone: in.Timezone,
	})
	if err != nil {
		return core.User{}, "", err
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return core.User{}, "", err
	}

	s.publishEvent(ctx, amqp.NewUserEventMessage(amqp.EventUserRegistered, user.ID, user.Email, user.Name))
	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	user, err := s.repo.Users.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return core.User{}, "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, "", err
	}

	if !s.auth.CheckPassword(user.Password, password) {
		return core.User{}, "", auth.ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return core.User{}, "", err
	}
	return user, token, nil
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, id string, u storage.UserUpdate) (core.User, error) {
	return s.repo.Users.Update(ctx, id, u)
}

// ChangePassword validates and replaces the user's password.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword string) error {
	if err := core.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.Users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	user, err := s.repo.Users.Get(ctx, id)
	if err == nil {
		s.publishEvent(ctx, amqp.NewUserEventMessage(amqp.EventPasswordChanged, user.ID, user.Email, user.Name))
	}
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (s *UserService) CheckPassword(ctx context.Context, id, password string) (bool, error) {
	user, err := s.repo.Users.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return s.auth.CheckPassword(user.Password, password), nil
}

// ForgotPassword publishes a reset event carrying a signed link. It never
// reveals whether the email exists: unknown addresses succeed silently.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.Users.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		slog.InfoContext(ctx, "Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return err
	}

	msg := amqp.NewUserEventMessage(amqp.EventPasswordReset, user.ID, user.Email, user.Name)
	msg.ResetLink = fmt.Sprintf("%s/reset-password/%s/%s", s.resetURLBase, user.ID, token)
	s.publishEvent(ctx, msg)
	return nil
}

// ResetPassword sets the new password after the reset link's token was
// verified by the auth middleware.
func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) error {
	if err := core.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.Users.UpdatePassword(ctx, id, hash)
}

// Delete removes the account and cascades over both record collections.
// The cascade is sequential and best-effort: a failing collection is logged
// and the rest still runs.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.Users.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Users.Delete(ctx, id); err != nil {
		return err
	}

	for _, collection := range []*storage.RecordCollection{s.repo.Transactions, s.repo.Debts} {
		n, err := collection.DeleteByUser(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to cascade user deletion",
				"user_id", id, "family", collection.Family(), "error", err)
			continue
		}
		slog.InfoContext(ctx, "Cascaded user deletion",
			"user_id", id, "family", collection.Family(), "removed", n)
	}

	s.publishEvent(ctx, amqp.NewUserEventMessage(amqp.EventAccountDeleted, user.ID, user.Email, user.Name))
	return nil
}

// Get returns the account by id.
func (s *UserService) Get(ctx context.Context, id string) (core.User, error) {
	return s.repo.Users.Get(ctx, id)
}

func (s *UserService) publishEvent(ctx context.Context, msg *amqp.UserEventMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishUserEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish user event",
			"event", msg.Event, "user_id", msg.UserID, "error", err)
	}
}
