package services

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

var ErrEmailNotConfigured = errors.New("SMTP credentials not fully configured")

type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService() *EmailService {
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		user:     os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
		from:     os.Getenv("EMAIL_FROM"),
		send:     smtp.SendMail,
	}
}

// Enabled reports whether SMTP is configured
func (s *EmailService) Enabled() bool {
	return s.host != "" && s.port != "" && s.user != "" && s.password != ""
}

func (s *EmailService) SendEmail(to []string, subject, body string) error {
	if !s.Enabled() {
		return ErrEmailNotConfigured
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := s.send(addr, auth, s.from, to, buildMessage(s.from, to, subject, body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerification mails the account verification link
func (s *EmailService) SendVerification(to, link string) error {
	body := "Welcome to JourneyLink!\r\n\r\n" +
		"Confirm your e-mail address by opening this link:\r\n" + link + "\r\n"
	return s.SendEmail([]string{to}, "Verify your JourneyLink account", body)
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
