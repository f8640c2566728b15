package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("us@agency.example", "jane@acme.example", "Quick question", "Hi Jane,\n\nSaw your site."))

	assert.Contains(t, msg, "From: us@agency.example\r\n")
	assert.Contains(t, msg, "To: jane@acme.example\r\n")
	assert.Contains(t, msg, "Subject: Quick question\r\n")
	assert.Contains(t, msg, "\r\n\r\nHi Jane,")
}

func TestBuildMessageStripsHeaderInjection(t *testing.T) {
	msg := string(buildMessage("us@agency.example", "jane@acme.example", "hi\r\nBcc: victim@x.com", "body"))
	assert.Contains(t, msg, "Subject: hi Bcc: victim@x.com\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
}

func TestSendValidation(t *testing.T) {
	m := New(Config{Host: "localhost", Port: 2525, From: "us@agency.example"})

	err := m.Send(context.Background(), "", "subject", "body")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Send(ctx, "jane@acme.example", "subject", "body")
	assert.Error(t, err)
}
