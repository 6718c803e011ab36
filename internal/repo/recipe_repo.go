// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe
// model, including the display-id maximum query used by the allocator and
// the conditional authorship claim.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
)

// CreateRecipe inserts a new recipe row. A colliding display id yields
// ErrDuplicate, the persist-time check that closes the allocator race.
func CreateRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	return translateDuplicate(db.WithContext(ctx).Create(r).Error)
}

// GetRecipe fetches a recipe by internal id, or ErrNotFound.
func GetRecipe(ctx context.Context, db *gorm.DB, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).First(&r, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindRecipeByDisplayID fetches a recipe by its numeric display id.
func FindRecipeByDisplayID(ctx context.Context, db *gorm.DB, displayID int64) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).First(&r, "display_id = ?", displayID).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecipes returns recipes ordered by display id, unassigned ids last.
// limit <= 0 means no limit.
func ListRecipes(ctx context.Context, db *gorm.DB, limit int) ([]domain.Recipe, error) {
	var out []domain.Recipe
	q := db.WithContext(ctx).Order("display_id IS NULL, display_id asc, created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListRecipesByAuthor returns the recipes authored by the given user, oldest
// first. This is how the user's createdRecipes set is derived.
func ListRecipesByAuthor(ctx context.Context, db *gorm.DB, authorRef string) ([]domain.Recipe, error) {
	var out []domain.Recipe
	err := db.WithContext(ctx).
		Where("author_ref = ?", authorRef).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// CountRecipes returns the total number of recipes.
func CountRecipes(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Recipe{}).Count(&total).Error
	return total, err
}

// SaveRecipe persists in-place modifications to an existing recipe row.
// Display-id conflicts become ErrDuplicate.
func SaveRecipe(ctx context.Context, db *gorm.DB, r *domain.Recipe) error {
	return translateDuplicate(db.WithContext(ctx).Save(r).Error)
}

// DeleteRecipe removes a recipe by internal id, or ErrNotFound when no row
// matched. Favorites referencing the recipe are left in place (no cascading
// cleanup; dangling references are accepted behavior).
func DeleteRecipe(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&domain.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxRecipeDisplayID returns the current maximum recipe display id, or nil
// when no recipe has one assigned yet.
func MaxRecipeDisplayID(ctx context.Context, db *gorm.DB) (*int64, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Where("display_id IS NOT NULL").
		Order("display_id DESC").
		Select("display_id").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.DisplayID, nil
}

// ClaimAuthorship conditionally registers userRef as the recipe's author:
// the update applies only while author_ref is still NULL, so authorship is
// assigned exactly once and never reassigned. A zero-match outcome is
// disambiguated by the caller (recipe missing vs. already claimed).
func ClaimAuthorship(ctx context.Context, db *gorm.DB, recipeID, userRef string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ? AND author_ref IS NULL", recipeID).
		Updates(map[string]any{"author_ref": userRef, "is_user_authored": true})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
