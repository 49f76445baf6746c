package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/amqp"
	"moneytrack/internal/mail"
)

func TestHandleUserEvent(t *testing.T) {
	sender := mail.NewMemory()
	n := NewNotifier(sender)
	ctx := context.Background()

	t.Run("welcome mail", func(t *testing.T) {
		msg := amqp.NewUserEventMessage(amqp.EventUserRegistered, "u1", "u1@example.com", "Jamie")
		require.NoError(t, n.HandleUserEvent(ctx, msg))

		messages := sender.Messages()
		require.Len(t, messages, 1)
		assert.Equal(t, "u1@example.com", messages[0].To)
		assert.Equal(t, "Welcome to MoneyTrack", messages[0].Subject)
		assert.Contains(t, messages[0].Body, "Jamie")
	})

	t.Run("reset mail carries the link", func(t *testing.T) {
		msg := amqp.NewUserEventMessage(amqp.EventPasswordReset, "u1", "u1@example.com", "Jamie")
		msg.ResetLink = "http://localhost:3000/reset-password/u1/tok"
		require.NoError(t, n.HandleUserEvent(ctx, msg))

		messages := sender.Messages()
		assert.Contains(t, messages[len(messages)-1].Body, msg.ResetLink)
	})

	t.Run("unknown event is dropped", func(t *testing.T) {
		before := len(sender.Messages())
		msg := amqp.NewUserEventMessage("user_sneezed", "u1", "u1@example.com", "Jamie")
		require.NoError(t, n.HandleUserEvent(ctx, msg))
		assert.Len(t, sender.Messages(), before)
	})
}

func TestHandleUserEventSendFailure(t *testing.T) {
	sender := mail.NewMemory()
	boom := errors.New("relay down")
	sender.FailWith(boom)
	n := NewNotifier(sender)

	msg := amqp.NewUserEventMessage(amqp.EventUserRegistered, "u1", "u1@example.com", "Jamie")
	err := n.HandleUserEvent(context.Background(), msg)
	assert.ErrorIs(t, err, boom, "send failures must surface so the delivery is requeued")
}
