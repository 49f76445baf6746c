// Package services orchestrates the domain operations across storage, auth
// and the AMQP event fan-out.
package services

import (
	"context"

	"moneytrack/internal/amqp"
)

// EventPublisher is the slice of the AMQP client the services need. A nil
// publisher disables events without failing requests.
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, msg *amqp.UserEventMessage) error
	PublishRecordSync(ctx context.Context, msg *amqp.RecordSyncMessage) error
}
