// Package services – AllocatorService
//
// This file implements the identity-assignment component: it produces the
// next display identifier for a newly created user or recipe from the current
// population's maximum, obtained through a descending top-1 store query.
//
// The read-maximum-then-compute step is deliberately not locked. Two
// concurrent creations can compute the same next id; the unique index on the
// display-id column decides the race at persist time and the loser's request
// surfaces as a conflict to its caller. If the maximum query itself fails the
// allocation fails and creation is aborted; no entity is ever persisted with
// a guessed id.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/identity"
	"github.com/peteoy/recipe-backend/internal/repo"
)

// AllocatorService assigns display identifiers to new users and recipes.
type AllocatorService struct {
	// DB is the database handle used for the maximum queries.
	DB *gorm.DB

	// AuthoredFloor is the first display id handed to user-authored recipes,
	// reserving the low range for the bulk-imported catalog.
	AuthoredFloor int64
}

// NextUserID returns the display id for a new user: u001 for an empty
// population, max+1 otherwise, restarting at u001 when the stored maximum is
// malformed legacy data.
func (s *AllocatorService) NextUserID(ctx context.Context) (string, error) {
	max, err := repo.MaxUserDisplayID(ctx, s.DB)
	if err != nil {
		return "", err
	}
	return identity.NextUserDisplayID(max), nil
}

// NextRecipeID returns the display id for a new catalog recipe (zero-based
// sequence).
func (s *AllocatorService) NextRecipeID(ctx context.Context) (int64, error) {
	max, err := repo.MaxRecipeDisplayID(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	return identity.NextRecipeDisplayID(max), nil
}

// NextAuthoredRecipeID returns the display id for a new user-authored
// recipe: the reserved floor on first allocation, true-maximum+1 after.
func (s *AllocatorService) NextAuthoredRecipeID(ctx context.Context) (int64, error) {
	max, err := repo.MaxRecipeDisplayID(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	return identity.NextAuthoredRecipeID(max, s.AuthoredFloor), nil
}
