package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(toEmail, toName, token string) error
	SendWelcomeEmail(toEmail, toName string) error
	SendNotificationEmail(toEmail, toName, subject, message, link string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // Base URL of the web application
}

// SendFunc delivers an already built message
type SendFunc func(toEmail string, message []byte) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   SendFunc
}

// NewEmailService creates a new EmailService that delivers over SMTP
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

// NewEmailServiceWithSender creates an EmailService with a custom delivery function
func NewEmailServiceWithSender(config SMTPConfig, logger zerolog.Logger, send SendFunc) EmailService {
	return &EmailServiceImpl{config: config, logger: logger, send: send}
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// SendPasswordResetEmail sends the password reset link
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.config.BaseURL, "/"), token)

	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP not configured - password reset email not sent")
		return nil
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Reset your INARA Hub password</h2>
				<p>Hello %s,</p>
				<p>A password reset was requested for your account. Use the button below to choose a new password:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #00708a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset password</a>
				</div>
				<p>This link expires in one hour. If you did not request it, you can ignore this email.</p>
				<p>INARA Hub</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName), html.EscapeString(resetURL))

	return s.sendHTMLEmail(toEmail, "Reset your INARA Hub password", body)
}

// SendWelcomeEmail greets an account created by an administrator
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Msg("SMTP not configured - welcome email not sent")
		return nil
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to INARA Hub</h2>
				<p>Hello %s,</p>
				<p>An account has been created for you. Sign in at <a href="%s">%s</a> to find your trainings, policies and resources.</p>
				<p>INARA Hub</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName), html.EscapeString(s.config.BaseURL), html.EscapeString(s.config.BaseURL))

	return s.sendHTMLEmail(toEmail, "Welcome to INARA Hub", body)
}

// SendNotificationEmail mirrors an in-app notification by email
func (s *EmailServiceImpl) SendNotificationEmail(toEmail, toName, subject, message, link string) error {
	if !s.configured() {
		s.logger.Debug().Str("toEmail", toEmail).Str("subject", subject).Msg("SMTP not configured - notification email not sent")
		return nil
	}

	action := ""
	if link != "" {
		action = fmt.Sprintf(`<p><a href="%s%s">Open in INARA Hub</a></p>`,
			html.EscapeString(strings.TrimRight(s.config.BaseURL, "/")), html.EscapeString(link))
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Hello %s,</p>
				<p>%s</p>
				%s
				<p>INARA Hub</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(toName), html.EscapeString(message), action)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// BuildMessage renders the headers and HTML body of a message
func BuildMessage(fromName, fromEmail, toEmail, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", fromName, fromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	message := BuildMessage(s.config.FromName, s.config.FromEmail, toEmail, subject, htmlBody)
	if err := s.send(toEmail, message); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return err
	}
	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}

func (s *EmailServiceImpl) sendSMTP(toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
