package worker

import (
	"context"
	"fmt"
	"log/slog"

	"moneytrack/internal/amqp"
	"moneytrack/internal/mail"
)

// Notifier turns user lifecycle events into mail.
type Notifier struct {
	sender mail.Sender
}

func NewNotifier(sender mail.Sender) *Notifier {
	return &Notifier{sender: sender}
}

// HandleUserEvent renders and sends the mail for one event. Unknown events
// are dropped, not requeued.
func (n *Notifier) HandleUserEvent(ctx context.Context, msg *amqp.UserEventMessage) error {
	subject, body, ok := renderMail(msg)
	if !ok {
		slog.WarnContext(ctx, "Dropping unknown user event", "event", msg.Event)
		return nil
	}

	if err := n.sender.Send(ctx, msg.Email, subject, body); err != nil {
		return fmt.Errorf("send %s mail: %w", msg.Event, err)
	}

	slog.InfoContext(ctx, "Sent notification mail",
		"event", msg.Event, "user_id", msg.UserID)
	return nil
}

func renderMail(msg *amqp.UserEventMessage) (subject, body string, ok bool) {
	name := msg.Name
	if name == "" {
		name = "there"
	}

	switch msg.Event {
	case amqp.EventUserRegistered:
		return "Welcome to MoneyTrack",
			fmt.Sprintf("Hi %s,\n\nyour account is ready. Start tracking your transactions and debts right away.\n", name),
			true
	case amqp.EventPasswordReset:
		return "Reset your password",
			fmt.Sprintf("Hi %s,\n\nan email has been sent because a password reset was requested for your account.\nFollow this link to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this message.\n", name, msg.ResetLink),
			true
	case amqp.EventPasswordChanged:
		return "Your password was changed",
			fmt.Sprintf("Hi %s,\n\nthe password of your account was just changed. If this was not you, reset it immediately.\n", name),
			true
	case amqp.EventAccountDeleted:
		return "Your account was deleted",
			fmt.Sprintf("Hi %s,\n\nyour account and all its records have been removed. Goodbye!\n", name),
			true
	default:
		return "", "", false
	}
}
