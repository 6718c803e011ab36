// Package services – RecipeService
//
// This file implements recipe CRUD for both surfaces: the public catalog
// path (no authentication, optional caller-supplied display id) and the
// authored path (token identity, floor-allocated display id, author-only
// mutation). Authorship checks and registration are delegated to the
// RelationshipService.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/identity"
	"github.com/peteoy/recipe-backend/internal/repo"
)

// RecipeInput carries the mutable recipe fields shared by create and update.
type RecipeInput struct {
	Title                string
	Ingredients          []string
	Instructions         string
	ImageName            string
	ExtractedIngredients []string
	// DisplayID, when non-nil, overrides sequential allocation (catalog path
	// only; the authored path always allocates).
	DisplayID *int64
}

// RecipeService provides recipe-level operations.
type RecipeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Allocator assigns display ids when the caller supplies none.
	Allocator *AllocatorService
	// Relationships handles authorship registration and mutation checks.
	Relationships *RelationshipService
}

// Create persists a new catalog recipe. Title is required; the display id is
// allocated zero-based unless supplied, and a collision is a conflict.
func (s *RecipeService) Create(ctx context.Context, in RecipeInput) (*domain.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	displayID := in.DisplayID
	if displayID == nil {
		next, err := s.Allocator.NextRecipeID(ctx)
		if err != nil {
			return nil, err
		}
		displayID = &next
	}

	r := &domain.Recipe{
		ID:                   identity.NewInternalID(),
		DisplayID:            displayID,
		Title:                title,
		Ingredients:          in.Ingredients,
		Instructions:         in.Instructions,
		ImageName:            in.ImageName,
		ExtractedIngredients: in.ExtractedIngredients,
	}
	if err := repo.CreateRecipe(ctx, s.DB, r); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateDisplayID
		}
		return nil, err
	}
	return r, nil
}

// CreateAuthored persists a new recipe on behalf of userRef. The display id
// always comes from the reserved authored range and authorship is registered
// immediately after the row lands, so the author-only mutation rules apply
// from the first moment the recipe is visible.
func (s *RecipeService) CreateAuthored(ctx context.Context, userRef string, in RecipeInput) (*domain.Recipe, error) {
	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	next, err := s.Allocator.NextAuthoredRecipeID(ctx)
	if err != nil {
		return nil, err
	}

	r := &domain.Recipe{
		ID:                   identity.NewInternalID(),
		DisplayID:            &next,
		Title:                title,
		Ingredients:          in.Ingredients,
		Instructions:         in.Instructions,
		ImageName:            in.ImageName,
		ExtractedIngredients: in.ExtractedIngredients,
	}
	if err := repo.CreateRecipe(ctx, s.DB, r); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateDisplayID
		}
		return nil, err
	}
	if err := s.Relationships.RegisterAuthorship(ctx, userID, r.ID); err != nil {
		return nil, err
	}
	return repo.GetRecipe(ctx, s.DB, r.ID)
}

// Get fetches a recipe by internal id.
func (s *RecipeService) Get(ctx context.Context, ref string) (*domain.Recipe, error) {
	id, err := identity.NormalizeRef(ref)
	if err != nil {
		return nil, err
	}
	r, err := repo.GetRecipe(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// List returns catalog recipes ordered by display id; limit <= 0 means no
// limit.
func (s *RecipeService) List(ctx context.Context, limit int) ([]domain.Recipe, error) {
	return repo.ListRecipes(ctx, s.DB, limit)
}

// ListByAuthor returns the recipes authored by userRef, newest first.
func (s *RecipeService) ListByAuthor(ctx context.Context, userRef string) ([]domain.Recipe, error) {
	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return nil, err
	}
	return repo.ListRecipesByAuthor(ctx, s.DB, userID)
}

// Count returns the total number of recipes.
func (s *RecipeService) Count(ctx context.Context) (int64, error) {
	return repo.CountRecipes(ctx, s.DB)
}

// Update applies in to the recipe (catalog surface, no authorship check).
// A display-id change is checked against the existing population first; the
// unique index still has the final word under concurrency.
func (s *RecipeService) Update(ctx context.Context, ref string, in RecipeInput) (*domain.Recipe, error) {
	r, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, r, in); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateAuthored applies in to the recipe only if userRef is its author.
func (s *RecipeService) UpdateAuthored(ctx context.Context, userRef, ref string, in RecipeInput) (*domain.Recipe, error) {
	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return nil, err
	}
	r, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Relationships.AuthorizeMutate(r, userID); err != nil {
		return nil, err
	}
	in.DisplayID = nil // authored ids are never reassigned
	if err := s.apply(ctx, r, in); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a recipe by internal id (catalog surface).
func (s *RecipeService) Delete(ctx context.Context, ref string) error {
	id, err := identity.NormalizeRef(ref)
	if err != nil {
		return err
	}
	if err := repo.DeleteRecipe(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

// DeleteAuthored removes a recipe only if userRef is its author. Favorite
// edges pointing at the deleted recipe are left dangling; listings skip them.
func (s *RecipeService) DeleteAuthored(ctx context.Context, userRef, ref string) error {
	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return err
	}
	r, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.Relationships.AuthorizeMutate(r, userID); err != nil {
		return err
	}
	return s.Delete(ctx, r.ID)
}

// apply copies the input onto r and saves it, handling an optional display-id
// change with a conflict pre-check.
func (s *RecipeService) apply(ctx context.Context, r *domain.Recipe, in RecipeInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.DisplayID != nil && (r.DisplayID == nil || *in.DisplayID != *r.DisplayID) {
		if _, err := repo.FindRecipeByDisplayID(ctx, s.DB, *in.DisplayID); err == nil {
			return ErrDuplicateDisplayID
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		r.DisplayID = in.DisplayID
	}
	r.Title = title
	r.Ingredients = in.Ingredients
	r.Instructions = in.Instructions
	r.ImageName = in.ImageName
	r.ExtractedIngredients = in.ExtractedIngredients
	if err := repo.SaveRecipe(ctx, s.DB, r); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrDuplicateDisplayID
		}
		return err
	}
	return nil
}
