package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"planboard/internal/apperr"
	"planboard/internal/auth"
	"planboard/internal/identity"
	"planboard/internal/repository"
	"planboard/internal/view"
)

type AuthService struct {
	users     *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(users *repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

// Authenticate verifies the credential and issues a token carrying the
// identity assertion. Disabled accounts cannot authenticate; the error is
// the same as for bad credentials so probing reveals nothing.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*view.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Transaction(err)
	}
	if user == nil || user.Disabled {
		return nil, "", apperr.Unauthorizedf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorizedf("invalid credentials")
	}

	token, err := auth.GenerateToken(identity.FromUser(user), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, "", apperr.Transaction(err)
	}

	v := view.NewUser(user)
	return &v, token, nil
}
