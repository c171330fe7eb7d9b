package services

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"auzland/internal/domain"
	"auzland/internal/repos"

	"github.com/google/uuid"
)

// ErrMissingFields is a validation failure caught before any network call.
var ErrMissingFields = errors.New("all fields are required")

// sender is the mail transport; swappable in tests.
type sender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// ContactService validates, persists and relays contact-form submissions.
type ContactService struct {
	Contacts *repos.ContactRepo

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	From     string
	To       string

	send sender
}

func NewContactService(contacts *repos.ContactRepo, host, port, user, pass, from, to string) *ContactService {
	return &ContactService{
		Contacts: contacts,
		SMTPHost: host, SMTPPort: port, SMTPUser: user, SMTPPass: pass,
		From: from, To: to,
		send: smtp.SendMail,
	}
}

// Submit checks the required fields, stores the message for audit, then
// relays it. A relay failure is returned (the handler maps it to 500) but
// the stored row is kept.
func (s *ContactService) Submit(m *domain.ContactMessage) error {
	if m.Name == "" || m.Email == "" || m.Phone == "" || m.Subject == "" || m.Message == "" {
		return ErrMissingFields
	}
	m.ID = "c-" + uuid.NewString()
	if err := s.Contacts.Insert(m); err != nil {
		return fmt.Errorf("store contact message: %w", err)
	}
	if s.SMTPHost == "" || s.To == "" {
		// No relay configured (local/dev): persisting is enough.
		return nil
	}
	return s.relay(m)
}

func (s *ContactService) relay(m *domain.ContactMessage) error {
	body := strings.Join([]string{
		"From: " + s.From,
		"To: " + s.To,
		"Subject: [Website Contact] " + m.Subject + " - " + m.Name,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"Name: " + m.Name,
		"Email: " + m.Email,
		"Phone: " + m.Phone,
		"",
		m.Message,
		"",
	}, "\r\n")

	var auth smtp.Auth
	if s.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.SMTPUser, s.SMTPPass, s.SMTPHost)
	}
	addr := s.SMTPHost + ":" + s.SMTPPort
	if err := s.send(addr, auth, s.From, []string{s.To}, []byte(body)); err != nil {
		return fmt.Errorf("relay contact message: %w", err)
	}
	return nil
}
