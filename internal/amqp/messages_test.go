package amqp

import (
	"testing"
	"time"
)

func TestNewUserEventMessage(t *testing.T) {
	msg := NewUserEventMessage(EventPasswordReset, "u1", "u1@example.com", "Jamie")

	if msg.Event != EventPasswordReset {
		t.Errorf("Event = %v, want %v", msg.Event, EventPasswordReset)
	}
	if msg.UserID != "u1" || msg.Email != "u1@example.com" || msg.Name != "Jamie" {
		t.Errorf("unexpected payload: %+v", msg)
	}
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	parsed, err := UserEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("UserEventMessageFromJSON() error = %v", err)
	}
	if parsed.Event != msg.Event || parsed.UserID != msg.UserID {
		t.Errorf("round trip changed payload: %+v", parsed)
	}
}

func TestNewRecordSyncMessage(t *testing.T) {
	msg := NewRecordSyncMessage("rec-1", "debts")

	if msg.ID != "rec-1" || msg.Family != "debts" {
		t.Errorf("unexpected payload: %+v", msg)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	parsed, err := RecordSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("RecordSyncMessageFromJSON() error = %v", err)
	}
	if parsed.ID != msg.ID || parsed.Family != msg.Family {
		t.Errorf("round trip changed payload: %+v", parsed)
	}
}

func TestRecordSyncMessageInvalidJSON(t *testing.T) {
	if _, err := RecordSyncMessageFromJSON([]byte(`{"id": 42}`)); err == nil {
		t.Error("RecordSyncMessageFromJSON() should fail when id is not a string")
	}
}
