package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned when the username is unknown or the
// password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// Login checks the submitted credentials by exact string equality against the
// stored password. Password storage is deliberately left as-is; see DESIGN.md.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// CreateUser registers a new account. Used by seeding only.
func (s *Service) CreateUser(ctx context.Context, u *User) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Password == "" {
		return fmt.Errorf("password is required")
	}
	if u.Role == "" {
		u.Role = "admin"
	}
	return s.users.Create(ctx, u)
}

// GetByUsername looks up an account by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsername(ctx, username)
}
