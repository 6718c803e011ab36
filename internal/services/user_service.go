// Package services – UserService
//
// This file implements account CRUD. Creation assigns a sequential display
// id through the AllocatorService unless the caller supplies one; either way
// the unique index on the display-id column has the final word and a losing
// creation surfaces as a conflict. Emails are case-folded to one canonical
// form before storage and lookup so the unique index acts on the folded
// value.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/identity"
	"github.com/peteoy/recipe-backend/internal/repo"
)

// emailFold is the caser applied to every email before storage or lookup.
var emailFold = cases.Fold()

// FoldEmail returns the canonical stored form of an email address.
func FoldEmail(email string) string {
	return emailFold.String(strings.TrimSpace(email))
}

// CreateUserInput carries the fields accepted by UserService.Create.
type CreateUserInput struct {
	Username string
	Email    string
	// Password is optional on the admin creation path; when present it is
	// digested with bcrypt before storage.
	Password string
	// DisplayID, when non-nil, overrides sequential allocation. A collision
	// with an existing id is a conflict, not a retry.
	DisplayID *string
}

// UpdateUserInput carries the fields accepted by UserService.Update.
// Username and Email are required; Favorites, when non-nil, replaces the
// user's favorites list wholesale.
type UpdateUserInput struct {
	Username  string
	Email     string
	Favorites []domain.Favorite
}

// UserService provides account-level operations. Favorite-edge mutations
// live in RelationshipService; this service only touches the user row itself
// (plus the wholesale favorites replacement on admin update).
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Allocator assigns display ids when the caller supplies none.
	Allocator *AllocatorService
	// BcryptCost is the work factor for password digests.
	BcryptCost int
}

// Create persists a new user. Username and email are required; duplicates of
// any unique field are reported as the matching conflict sentinel.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	email := FoldEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := repo.GetUserByUsername(ctx, s.DB, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	displayID := in.DisplayID
	if displayID == nil {
		next, err := s.Allocator.NextUserID(ctx)
		if err != nil {
			return nil, err
		}
		displayID = &next
	}

	digest := ""
	if in.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
		if err != nil {
			return nil, err
		}
		digest = string(b)
	}

	u := &domain.User{
		ID:             identity.NewInternalID(),
		DisplayID:      displayID,
		Username:       username,
		Email:          email,
		PasswordDigest: digest,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		// Pre-checks above cover email and username, so a duplicate here is
		// the display-id index (caller-supplied collision or a lost
		// allocation race).
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateDisplayID
		}
		return nil, err
	}
	return repo.GetUser(ctx, s.DB, u.ID)
}

// Get fetches a user by internal id, favorites included.
func (s *UserService) Get(ctx context.Context, ref string) (*domain.User, error) {
	id, err := identity.NormalizeRef(ref)
	if err != nil {
		return nil, err
	}
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns all users, favorites included.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return repo.ListUsers(ctx, s.DB)
}

// Count returns the total number of users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return repo.CountUsers(ctx, s.DB)
}

// Update replaces the user's username and email, and optionally the whole
// favorites list. A favorites replacement validates every edge's recipe
// reference before any write.
func (s *UserService) Update(ctx context.Context, ref string, in UpdateUserInput) (*domain.User, error) {
	id, err := identity.NormalizeRef(ref)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	email := FoldEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if email != u.Email {
		if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
			return nil, ErrDuplicateEmail
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
	}

	var edges []domain.Favorite
	if in.Favorites != nil {
		edges = make([]domain.Favorite, 0, len(in.Favorites))
		for _, e := range in.Favorites {
			rid, err := identity.NormalizeRef(e.RecipeID)
			if err != nil {
				return nil, err
			}
			e.RecipeID = rid
			edges = append(edges, e)
		}
	}

	// The replacement and the row save commit together, so a username
	// conflict rolls back the favorites swap as well.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.Favorites != nil {
			if err := repo.ReplaceFavorites(ctx, tx, id, edges); err != nil {
				return err
			}
		}
		u.Username = username
		u.Email = email
		u.Favorites = nil
		return repo.SaveUser(ctx, tx, u)
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return repo.GetUser(ctx, s.DB, id)
}

// Delete removes a user and their favorite edges. References held by other
// entities (authored recipes) are left in place.
func (s *UserService) Delete(ctx context.Context, ref string) error {
	id, err := identity.NormalizeRef(ref)
	if err != nil {
		return err
	}
	if err := repo.DeleteUser(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}
