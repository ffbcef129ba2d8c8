package email

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smtpConfig() SMTPConfig {
	return SMTPConfig{
		Host:      "smtp.inara.org",
		Port:      587,
		Username:  "hub",
		Password:  "secret",
		FromName:  "INARA Hub",
		FromEmail: "hub@inara.org",
		BaseURL:   "https://hub.inara.org/",
	}
}

func TestSendPasswordResetEmail(t *testing.T) {
	var gotTo string
	var gotMsg string
	svc := NewEmailServiceWithSender(smtpConfig(), zerolog.New(io.Discard), func(to string, msg []byte) error {
		gotTo, gotMsg = to, string(msg)
		return nil
	})

	require.NoError(t, svc.SendPasswordResetEmail("amina@inara.org", "Amina <script>", "tok123"))

	assert.Equal(t, "amina@inara.org", gotTo)
	assert.Contains(t, gotMsg, "Subject: Reset your INARA Hub password\r\n")
	assert.Contains(t, gotMsg, "https://hub.inara.org/reset-password?token=tok123")
	assert.Contains(t, gotMsg, "Amina &lt;script&gt;")
}

func TestSendNotificationEmail_SenderError(t *testing.T) {
	svc := NewEmailServiceWithSender(smtpConfig(), zerolog.New(io.Discard), func(string, []byte) error {
		return errors.New("connection refused")
	})

	err := svc.SendNotificationEmail("a@inara.org", "A", "New policy", "Please read it", "/policies/3")
	assert.EqualError(t, err, "connection refused")
}

func TestUnconfiguredSMTPIsNoop(t *testing.T) {
	called := false
	svc := NewEmailServiceWithSender(SMTPConfig{}, zerolog.New(io.Discard), func(string, []byte) error {
		called = true
		return nil
	})

	assert.NoError(t, svc.SendWelcomeEmail("a@inara.org", "A"))
	assert.NoError(t, svc.SendPasswordResetEmail("a@inara.org", "A", "t"))
	assert.False(t, called)
}

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("Hub", "hub@inara.org", "x@inara.org", "Hi", "<p>body</p>"))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, "<p>body</p>", body)
	assert.True(t, strings.HasPrefix(headers, "Content-Type: text/html"))
	assert.Contains(t, headers, "From: Hub <hub@inara.org>")
}
