package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer is the notification sink for password reset emails. Dispatch
// failures are the caller's concern to log, never to surface.
type Mailer interface {
	SendPasswordResetEmail(toEmail, resetToken, username string) error
}

// SMTPConfig holds the SMTP mailer settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppURL   string
}

// EmailService sends emails over SMTP with STARTTLS.
type EmailService struct {
	cfg SMTPConfig
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg SMTPConfig) *EmailService {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &EmailService{cfg: cfg}
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.cfg.Username != "" && e.cfg.Password != ""
}

// SendPasswordResetEmail sends a password reset email to the user
func (e *EmailService) SendPasswordResetEmail(toEmail, resetToken, username string) error {
	if !e.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", e.cfg.AppURL, resetToken)

	subject := "Reset Your Password - ExamStack"
	body := buildPasswordResetEmailBody(username, resetLink)

	return e.sendEmail(toEmail, subject, body)
}

// buildPasswordResetEmailBody creates the HTML email body for password reset
func buildPasswordResetEmailBody(username, resetLink string) string {
	if username == "" {
		username = "there"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Reset Your Password - ExamStack</title>
</head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
    <h1 style="color: #1a3c6e;">ExamStack</h1>
    <h2>Reset Your Password</h2>
    <p>Hello %s,</p>
    <p>We received a request to reset the password for your ExamStack account. Click the button below to choose a new password:</p>
    <p style="text-align: center;">
        <a href="%s" style="display: inline-block; background-color: #1a3c6e; color: #ffffff; padding: 14px 28px; text-decoration: none; border-radius: 6px;">Reset Password</a>
    </p>
    <p>If the button doesn't work, copy and paste this link into your browser:</p>
    <p style="word-break: break-all; font-size: 12px; background-color: #f5f5f5; padding: 10px;">%s</p>
    <p style="font-size: 13px;"><strong>Important:</strong> this link expires in 1 hour. If you didn't request a password reset you can safely ignore this email.</p>
</body>
</html>`, username, resetLink, resetLink)
}

// sendEmail sends an email using SMTP with TLS
func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	headers := map[string]string{
		"From":         fmt.Sprintf("ExamStack <%s>", e.cfg.From),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)

	tlsConfig := &tls.Config{
		ServerName: e.cfg.Host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err := w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Password reset email sent successfully to: %s", to)
	return nil
}
