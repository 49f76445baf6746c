package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/amqp"
	"moneytrack/internal/auth"
	"moneytrack/internal/core"
	"moneytrack/internal/storage"
)

func newUserFixture(t *testing.T) (*UserService, *storage.Repository, *fakePublisher) {
	t.Helper()
	repo, err := storage.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	authService := auth.NewService("test-secret", 3*time.Hour, 4)
	events := &fakePublisher{}
	return NewUserService(repo, authService, events, "http://localhost:3000/"), repo, events
}

func TestRegister(t *testing.T) {
	svc, _, events := newUserFixture(t)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Jamie",
		Email:    "jamie@example.com",
		Password: "hunter22",
		Currency: "USD",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "hunter22", user.Password, "stored password must be hashed")

	require.Len(t, events.userEvents, 1)
	assert.Equal(t, amqp.EventUserRegistered, events.userEvents[0].Event)
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _, events := newUserFixture(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "jamie@example.com",
		Password: "12345",
	})
	assert.ErrorIs(t, err, core.ErrPasswordTooWeak)
	assert.Empty(t, events.userEvents)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "a@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "a@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "hunter22")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestChangeAndCheckPassword(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "newpassword"))

	ok, err := svc.CheckPassword(ctx, user.ID, "newpassword")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckPassword(ctx, user.ID, "hunter22")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "short"), core.ErrPasswordTooWeak)
}

func TestForgotPassword(t *testing.T) {
	svc, _, events := newUserFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)
	events.userEvents = nil

	t.Run("known email publishes a reset link", func(t *testing.T) {
		require.NoError(t, svc.ForgotPassword(ctx, "a@example.com"))

		require.Len(t, events.userEvents, 1)
		msg := events.userEvents[0]
		assert.Equal(t, amqp.EventPasswordReset, msg.Event)
		assert.True(t, strings.HasPrefix(msg.ResetLink, "http://localhost:3000/reset-password/"+user.ID+"/"),
			"reset link %q should embed the user id and token", msg.ResetLink)
	})

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		events.userEvents = nil
		require.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"))
		assert.Empty(t, events.userEvents)
	})
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, user.ID, "resetvalue"))

	_, _, err = svc.Login(ctx, "a@example.com", "resetvalue")
	assert.NoError(t, err)
}

func TestDeleteCascades(t *testing.T) {
	svc, repo, events := newUserFixture(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	rec := core.FinancialRecord{
		Kind: core.KindIncome, Concept: "Salary",
		Amount: core.Money{Cents: 1000}, Date: time.Now(), UserID: user.ID,
	}
	_, err = repo.Transactions.Create(ctx, rec)
	require.NoError(t, err)
	debt := rec
	debt.Kind = core.KindDebt
	_, err = repo.Debts.Create(ctx, debt)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = repo.Users.Get(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	transactions, err := repo.Transactions.List(ctx, core.Filter{UserID: user.ID}, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, transactions)

	debts, err := repo.Debts.List(ctx, core.Filter{UserID: user.ID}, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, debts)

	last := events.userEvents[len(events.userEvents)-1]
	assert.Equal(t, amqp.EventAccountDeleted, last.Event)

	assert.ErrorIs(t, svc.Delete(ctx, user.ID), storage.ErrNotFound)
}
