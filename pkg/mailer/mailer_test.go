package mailer

import (
	"context"
	"testing"

	"car-rental/pkg/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewFallsBackToLogMailer(t *testing.T) {
	m := New(config.MailConfig{}, zap.NewNop())
	_, ok := m.(*logMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@example.com", Subject: "hi"}))

	_, ok = New(config.MailConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop()).(*smtpMailer)
	assert.True(t, ok)
}

func TestCompose(t *testing.T) {
	raw := string(Compose("no-reply@car-rental.local", Message{To: "a@example.com", Subject: "Welcome", Body: "Hello"}))
	assert.Contains(t, raw, "To: a@example.com\r\n")
	assert.Contains(t, raw, "Subject: Welcome\r\n")
	assert.Contains(t, raw, "\r\n\r\nHello")
}
