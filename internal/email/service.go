// Package email sends transactional mail via SMTP. Sending is best-effort:
// callers log failures and never fail the triggering write.
package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Service provides email sending
type Service struct {
	config Config
	server string
	auth   smtp.Auth
}

// NewService creates a new email service
func NewService(config Config) *Service {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	return &Service{
		config: config,
		server: config.Host + ":" + config.Port,
		auth:   auth,
	}
}

// IsConfigured returns true if email is configured
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port != "" && s.config.From != ""
}

// SendEmail sends a plain text email
func (s *Service) SendEmail(to []string, subject, body string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email not configured")
	}

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := []byte(fmt.Sprintf(
		"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"Content-Type: text/plain; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		strings.Join(to, ", "),
		from,
		subject,
		body,
	))

	return smtp.SendMail(s.server, s.auth, s.config.From, to, msg)
}

// SendBookingConfirmed mails a rider when the driver confirms their booking.
func (s *Service) SendBookingConfirmed(to, riderName, jobRef, fromLocation, toLocation string) error {
	subject := fmt.Sprintf("Booking %s confirmed", jobRef)
	body := BookingConfirmedBody(riderName, jobRef, fromLocation, toLocation)
	return s.SendEmail([]string{to}, subject, body)
}

// BookingConfirmedBody builds the plain-text confirmation message.
func BookingConfirmedBody(riderName, jobRef, fromLocation, toLocation string) string {
	name := strings.TrimSpace(riderName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nYour driver has confirmed booking %s (%s to %s).\n"+
			"You can message them from your rides tab with any questions.\n\n"+
			"Safe travels,\nThe HitchBuddy team\n",
		name, jobRef, fromLocation, toLocation,
	)
}
