// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - Unique-index violations (display id, email, username) are translated
//     to ErrDuplicate; the service layer maps them to domain conflicts.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
)

// CreateUser inserts a new user row. The caller supplies the internal id and
// (optionally) the display id; a colliding display id, email, or username
// yields ErrDuplicate. This is the persist step that closes the allocator's
// read-max-then-compute race.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return translateDuplicate(db.WithContext(ctx).Create(u).Error)
}

// GetUser fetches a user by internal id, preloading the favorites edges in
// saved order. Returns ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Preload("Favorites", func(tx *gorm.DB) *gorm.DB { return tx.Order("saved_at asc") }).
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by canonical (folded) email.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by exact username.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).First(&u, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users ordered by creation time ascending, favorites
// preloaded. Returns an empty slice when there are none.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Preload("Favorites", func(tx *gorm.DB) *gorm.DB { return tx.Order("saved_at asc") }).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// CountUsers returns the total number of users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// SaveUser persists in-place modifications to an existing user row,
// bumping updated_at. Unique violations (email conflicts) become ErrDuplicate.
func SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	return translateDuplicate(db.WithContext(ctx).Save(u).Error)
}

// DeleteUser removes a user by internal id. The user's own favorites rows go
// with it (the edge lives on the user side of the aggregate); reverse
// references held by other documents are intentionally not swept.
// Returns ErrNotFound when no row matched.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MaxUserDisplayID returns the current maximum user display id via a
// descending top-1 query, or "" when no user has one yet.
//
// Ordering is by length first so that the sequence keeps counting correctly
// once ids grow past the three-digit padding (lexically "u999" > "u1000").
func MaxUserDisplayID(ctx context.Context, db *gorm.DB) (string, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("display_id IS NOT NULL").
		Order("length(display_id) DESC, display_id DESC").
		Select("display_id").
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if u.DisplayID == nil {
		return "", nil
	}
	return *u.DisplayID, nil
}

// UserStats returns the favorites count and the latest saved_at for a user,
// used to seed weak ETags on favorites listings.
func UserStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	var total int64
	if err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}
	if total == 0 {
		return 0, nil, nil
	}
	// Top-1 instead of MAX() to avoid SQLite's MAX() -> TEXT on datetimes.
	var row struct {
		SavedAt time.Time
	}
	if err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Select("saved_at").
		Order("saved_at DESC").
		Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return total, &row.SavedAt, nil
}
