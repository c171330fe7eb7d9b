package services

import (
	"errors"
	"strings"

	"auzland/internal/domain"
	"auzland/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds       = errors.New("invalid email or password")
	ErrDuplicateEmail = errors.New("an account with that email already exists")
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// CreateUser provisions a dashboard account with a bcrypt hash. Validation
// of email/password shape happens at the handler; this enforces uniqueness.
func (s *AuthService) CreateUser(email, name, password, role string) (*domain.User, error) {
	if role != "EDITOR" && role != "ADMIN" {
		role = "EDITOR"
	}
	if existing, err := s.Users.ByEmail(email); err == nil && existing != nil {
		return nil, ErrDuplicateEmail
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    "u-" + uuid.NewString(),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
		Hash:  string(h),
		Role:  role,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}
