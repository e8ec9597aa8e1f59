// Package mail delivers account notification emails.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Notification carries everything needed to render an account email.
type Notification struct {
	Name  string
	Email string
	Token string
}

// Sender delivers account notifications. The lifecycle manager treats
// delivery as fire-and-forget: a failed send is logged, never surfaced
// to the caller as an account failure.
type Sender interface {
	SendConfirmation(ctx context.Context, n Notification) error
	SendPasswordReset(ctx context.Context, n Notification) error
}

// SMTPSender delivers notifications through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates a sender for the given relay address ("host:port").
// user may be empty for relays that accept unauthenticated mail (e.g. a
// local Mailhog instance during development).
func NewSMTPSender(addr, from, user, password, host string) *SMTPSender {
	s := &SMTPSender{addr: addr, from: from}
	if user != "" {
		s.auth = smtp.PlainAuth("", user, password, host)
	}
	return s
}

// SendConfirmation emails the account confirmation code.
func (s *SMTPSender) SendConfirmation(ctx context.Context, n Notification) error {
	subject := "CashTrackr - Confirm your account"
	body := fmt.Sprintf(
		"Hi %s, your CashTrackr account is almost ready.\r\n\r\n"+
			"Enter this code to confirm it: %s\r\n", n.Name, n.Token)
	return s.send(n.Email, subject, body)
}

// SendPasswordReset emails the password reset code.
func (s *SMTPSender) SendPasswordReset(ctx context.Context, n Notification) error {
	subject := "CashTrackr - Reset your password"
	body := fmt.Sprintf(
		"Hi %s, you requested a password reset for your CashTrackr account.\r\n\r\n"+
			"Enter this code to choose a new password: %s\r\n", n.Name, n.Token)
	return s.send(n.Email, subject, body)
}

func (s *SMTPSender) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogSender writes notifications to the log instead of sending them.
// Used when no SMTP relay is configured, typically local development.
type LogSender struct {
	Logger *slog.Logger
}

// SendConfirmation logs the confirmation code.
func (s *LogSender) SendConfirmation(ctx context.Context, n Notification) error {
	s.logger().Info("confirmation email (not sent, no SMTP relay configured)",
		"email", n.Email, "token", n.Token)
	return nil
}

// SendPasswordReset logs the reset code.
func (s *LogSender) SendPasswordReset(ctx context.Context, n Notification) error {
	s.logger().Info("password reset email (not sent, no SMTP relay configured)",
		"email", n.Email, "token", n.Token)
	return nil
}

func (s *LogSender) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
