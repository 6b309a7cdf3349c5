package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service { return &Service{repo: repo} }

// Login checks the credentials and on success binds the chat to the user.
// The same error covers unknown user and wrong password.
func (s *Service) Login(ctx context.Context, chatID int64, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.repo.SetSession(ctx, chatID, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// CurrentUser resolves the chat's session, nil when not logged in.
func (s *Service) CurrentUser(ctx context.Context, chatID int64) (*User, error) {
	sess, err := s.repo.GetSession(ctx, chatID)
	if err != nil || sess == nil {
		return nil, err
	}
	// Session survives a deleted user only until this lookup.
	row, err := s.repo.GetByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		_ = s.repo.ClearSession(ctx, chatID)
	}
	return row, nil
}

func (s *Service) Logout(ctx context.Context, chatID int64) error {
	return s.repo.ClearSession(ctx, chatID)
}

// HashPassword is used by the seed migration tooling and tests.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
