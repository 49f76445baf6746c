package amqp

import (
	"encoding/json"
	"time"
)

// User event kinds routed to the notify queue.
const (
	EventUserRegistered  = "user_registered"
	EventPasswordReset   = "password_reset"
	EventAccountDeleted  = "account_deleted"
	EventPasswordChanged = "password_changed"
)

// UserEventMessage notifies the mail worker about an account event. The
// reset link is only set for password_reset events.
type UserEventMessage struct {
	Event     string    `json:"event"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ResetLink string    `json:"resetLink,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserEventMessage(event, userID, email, name string) *UserEventMessage {
	return &UserEventMessage{
		Event:     event,
		UserID:    userID,
		Email:     email,
		Name:      name,
		Timestamp: time.Now(),
	}
}

func (m *UserEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func UserEventMessageFromJSON(data []byte) (*UserEventMessage, error) {
	var msg UserEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RecordSyncMessage asks the export worker to append one record to the
// spreadsheet. Only the id and family travel; the worker fetches the full
// record from the database.
type RecordSyncMessage struct {
	ID        string    `json:"id"`
	Family    string    `json:"family"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(id, family string) *RecordSyncMessage {
	return &RecordSyncMessage{
		ID:        id,
		Family:    family,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
