// Package mail sends notification email over SMTP. No mail library is
// involved; plain net/smtp covers the single send primitive we need.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends through a configured relay with PLAIN auth.
type SMTP struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

var _ Sender = (*SMTP)(nil)

func NewSMTP(host, port, user, password, from string) *SMTP {
	return &SMTP{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
	}
}

func (s *SMTP) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// Message is one delivered mail captured by the Memory sender.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Memory records messages instead of sending them, for tests.
type Memory struct {
	mu       sync.Mutex
	messages []Message
	fail     error
}

var _ Sender = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

// FailWith makes every subsequent Send return err.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *Memory) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.messages = append(m.messages, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}
