// Package services – RelationshipService
//
// This file implements the favorites and authorship relationship manager.
// Every mutation is expressed as a single conditional store operation against
// one row (append-if-absent backed by the (user_id, recipe_id) unique index,
// delete-if-present with a row-count outcome), never as an unconditional
// read, mutate-in-memory, write-back sequence, because that sequence is not
// safe under concurrent requests for the same user.
//
// Zero-effect outcomes are disambiguated by a follow-up read: a failed append
// distinguishes missing-user from already-favorited, a failed delete
// distinguishes missing-user from missing-edge.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the user and recipe references.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/identity"
	"github.com/peteoy/recipe-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RelationshipService maintains the user↔recipe favorites graph and the
// authorship assignment. References are validated and normalized to the
// canonical internal-id form before any store call; malformed references
// (including numeric display ids) fail with ErrInvalidReference.
type RelationshipService struct {
	// DB is the database handle used for all relationship operations.
	DB *gorm.DB
}

// AddFavorite appends the favorite edge (userRef → recipeRef), snapshotting
// the recipe title (or titleOverride when non-empty) and the save time.
//
// Outcomes:
//   - ErrInvalidReference: either reference is malformed (no store call made).
//   - ErrRecipeNotFound: the recipe does not exist.
//   - ErrUserNotFound: the user does not exist.
//   - ErrAlreadyFavorited: the edge already exists; the favorites list is
//     unchanged.
//
// On success the updated user projection (with favorites) is returned.
func (s *RelationshipService) AddFavorite(ctx context.Context, userRef, recipeRef, titleOverride string) (*domain.User, error) {
	tr := otel.Tracer("services/RelationshipService")
	ctx, span := tr.Start(ctx, "AddFavorite",
		trace.WithAttributes(
			attribute.String("user.ref", userRef),
			attribute.String("recipe.ref", recipeRef),
		),
	)
	defer span.End()

	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return nil, err
	}
	recipeID, err := identity.NormalizeRef(recipeRef)
	if err != nil {
		return nil, err
	}

	// Resolve the recipe for its canonical reference and title snapshot.
	recipe, err := repo.GetRecipe(ctx, s.DB, recipeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	title := titleOverride
	if title == "" {
		title = recipe.Title
	}

	// One conditional append: the unique edge index decides concurrent
	// duplicates; the user-existence check shares the transaction so the
	// disambiguation below stays consistent.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetUser(ctx, tx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if _, err := repo.InsertFavorite(ctx, tx, userID, recipe.ID, title); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrAlreadyFavorited
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return repo.GetUser(ctx, s.DB, userID)
}

// RemoveFavorite deletes the favorite edge (userRef → recipeRef). The delete
// applies only if the edge is present; a zero-row outcome is disambiguated by
// re-reading the user. Removing an absent edge fails with ErrFavoriteNotFound
// rather than succeeding silently.
func (s *RelationshipService) RemoveFavorite(ctx context.Context, userRef, recipeRef string) (*domain.User, error) {
	tr := otel.Tracer("services/RelationshipService")
	ctx, span := tr.Start(ctx, "RemoveFavorite",
		trace.WithAttributes(
			attribute.String("user.ref", userRef),
			attribute.String("recipe.ref", recipeRef),
		),
	)
	defer span.End()

	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return nil, err
	}
	recipeID, err := identity.NormalizeRef(recipeRef)
	if err != nil {
		return nil, err
	}

	removed, err := repo.DeleteFavorite(ctx, s.DB, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if !removed {
		if _, err := repo.GetUser(ctx, s.DB, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return nil, ErrFavoriteNotFound
	}

	return repo.GetUser(ctx, s.DB, userID)
}

// IsFavorite reports whether userRef has favorited recipeRef. Pure read; both
// references are normalized to the canonical string form before comparison.
func (s *RelationshipService) IsFavorite(ctx context.Context, userRef, recipeRef string) (bool, error) {
	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return false, err
	}
	recipeID, err := identity.NormalizeRef(recipeRef)
	if err != nil {
		return false, err
	}
	if _, err := repo.GetUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return repo.HasFavorite(ctx, s.DB, userID, recipeID)
}

// ListFavorites returns the user's favorite edges in saved order.
func (s *RelationshipService) ListFavorites(ctx context.Context, userRef string) ([]domain.Favorite, error) {
	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return nil, err
	}
	if _, err := repo.GetUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return repo.ListFavorites(ctx, s.DB, userID)
}

// ListFavoriteRecipes resolves the user's favorite edges to full recipe
// documents, skipping edges whose recipe has since been deleted (dangling
// references are accepted behavior, not an error).
func (s *RelationshipService) ListFavoriteRecipes(ctx context.Context, userRef string) ([]domain.Recipe, error) {
	edges, err := s.ListFavorites(ctx, userRef)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Recipe, 0, len(edges))
	for _, e := range edges {
		r, err := repo.GetRecipe(ctx, s.DB, e.RecipeID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// RegisterAuthorship records userRef as the author of the recipe. The claim
// is a conditional update that applies only while the recipe has no author,
// so authorship is assigned exactly once at creation time and never
// reassigned. Used only by the authored-creation path.
func (s *RelationshipService) RegisterAuthorship(ctx context.Context, userRef, recipeInternalID string) error {
	tr := otel.Tracer("services/RelationshipService")
	ctx, span := tr.Start(ctx, "RegisterAuthorship",
		trace.WithAttributes(
			attribute.String("user.ref", userRef),
			attribute.String("recipe.ref", recipeInternalID),
		),
	)
	defer span.End()

	userID, err := identity.NormalizeRef(userRef)
	if err != nil {
		return err
	}
	recipeID, err := identity.NormalizeRef(recipeInternalID)
	if err != nil {
		return err
	}

	claimed, err := repo.ClaimAuthorship(ctx, s.DB, recipeID, userID)
	if err != nil {
		return err
	}
	if !claimed {
		if _, err := repo.GetRecipe(ctx, s.DB, recipeID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}
		// Recipe exists but already carries an author.
		return ErrForbidden
	}
	return nil
}

// AuthorizeMutate permits a mutation of recipe by userRef only when the
// recipe's author reference equals userRef. A recipe with no author (catalog
// import) can never be mutated through the authored path.
func (s *RelationshipService) AuthorizeMutate(recipe *domain.Recipe, userRef string) error {
	if recipe.AuthorRef == nil || *recipe.AuthorRef != userRef {
		return ErrForbidden
	}
	return nil
}
