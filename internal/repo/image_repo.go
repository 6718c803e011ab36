// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for stored image
// blobs.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
)

// UpsertImage stores an image blob under name, replacing any previous blob
// with the same name (re-uploads overwrite; names are unique).
func UpsertImage(ctx context.Context, db *gorm.DB, name, contentType string, data []byte) (*domain.Image, error) {
	img := &domain.Image{
		ID:          uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		Data:        data,
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", name).Delete(&domain.Image{}).Error; err != nil {
			return err
		}
		return tx.Create(img).Error
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GetImage fetches an image by exact name, or ErrNotFound.
func GetImage(ctx context.Context, db *gorm.DB, name string) (*domain.Image, error) {
	var img domain.Image
	err := db.WithContext(ctx).First(&img, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// ListImages returns image metadata (no blob data) for up to limit images,
// newest first. limit <= 0 applies a default of 100.
func ListImages(ctx context.Context, db *gorm.DB, limit int) ([]domain.Image, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Image
	err := db.WithContext(ctx).
		Select("id", "name", "content_type", "size", "created_at").
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
