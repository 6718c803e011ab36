// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Favorite
// edge.
//
// Both mutations are single conditional store operations, never an
// unprotected read-modify-write:
//
//   - InsertFavorite appends the edge; the (user_id, recipe_id) unique index
//     rejects a second edge for the same pair atomically, reported as
//     ErrDuplicate.
//   - DeleteFavorite removes the edge only if present; a zero-row outcome is
//     reported so the service can disambiguate missing-user from
//     missing-edge.
//
// Concurrent requests against the same user therefore either both apply
// (different recipes) or exactly one applies, with no lost updates.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
)

// InsertFavorite appends a favorite edge carrying the denormalized title
// snapshot and save timestamp. Returns ErrDuplicate when the edge already
// exists.
func InsertFavorite(ctx context.Context, db *gorm.DB, userID, recipeID, title string) (*domain.Favorite, error) {
	f := &domain.Favorite{
		ID:       uuid.NewString(),
		UserID:   userID,
		RecipeID: recipeID,
		Title:    title,
		SavedAt:  time.Now().UTC(),
	}
	if err := translateDuplicate(db.WithContext(ctx).Create(f).Error); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFavorite removes the edge matching (userID, recipeID) if present and
// reports whether a row was deleted.
func DeleteFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) (bool, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasFavorite reports whether the edge (userID, recipeID) exists.
func HasFavorite(ctx context.Context, db *gorm.DB, userID, recipeID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

// ListFavorites returns a user's favorite edges in saved order.
func ListFavorites(ctx context.Context, db *gorm.DB, userID string) ([]domain.Favorite, error) {
	var out []domain.Favorite
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at asc").
		Find(&out).Error
	return out, err
}

// ReplaceFavorites swaps a user's whole favorites list in one transaction.
// Used only by the admin user-update surface, which accepts a full
// replacement list. Edges without a save timestamp get the current time.
func ReplaceFavorites(ctx context.Context, db *gorm.DB, userID string, edges []domain.Favorite) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		for i := range edges {
			edges[i].ID = uuid.NewString()
			edges[i].UserID = userID
			if edges[i].SavedAt.IsZero() {
				edges[i].SavedAt = now
			}
			if err := translateDuplicate(tx.Create(&edges[i]).Error); err != nil {
				return err
			}
		}
		return nil
	})
}
