// Package services – AuthService
//
// This file implements registration, login, and profile retrieval. Password
// digesting uses bcrypt; token minting and verification live in the auth
// package and are injected here as a TokenManager. Login failure is a single
// sentinel regardless of whether the email was unknown or the password wrong.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/auth"
	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/repo"
)

// AuthService provides account registration, credential verification, and
// caller-profile assembly.
type AuthService struct {
	// DB is the GORM handle used for lookups.
	DB *gorm.DB
	// Users handles account creation (allocation, folding, conflicts).
	Users *UserService
	// Tokens mints and verifies bearer tokens.
	Tokens *auth.TokenManager
}

// Profile is the caller-facing account projection returned by Me: the user
// row plus the recipes the caller authored. The password digest never
// appears in any serialized form of this type.
type Profile struct {
	User     *domain.User    `json:"user"`
	Authored []domain.Recipe `json:"createdRecipes"`
}

// Register creates an account and signs a token for it. Username, email, and
// password are all required here (unlike the admin creation surface, where
// password is optional).
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	if strings.TrimSpace(password) == "" {
		return nil, "", fmt.Errorf("%w: password is required", ErrValidation)
	}
	u, err := s.Users.Create(ctx, CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.Tokens.Sign(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and signs a token. Unknown email and wrong
// password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, FoldEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordDigest), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.Tokens.Sign(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me assembles the caller's profile: the user row with favorites plus the
// recipes they authored.
func (s *AuthService) Me(ctx context.Context, userID string) (*Profile, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	authored, err := repo.ListRecipesByAuthor(ctx, s.DB, u.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Authored: authored}, nil
}
