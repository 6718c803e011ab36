// Package services – ImageService
//
// This file implements the blob store for recipe images: named binary
// objects with a content type, replaced wholesale on re-upload. Lookup
// applies a .jpg fallback for names stored without an extension, which is
// how the bulk-imported catalog references its images.
package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"gorm.io/gorm"

	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/repo"
)

// allowedImageTypes is the accepted upload content-type set.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService stores and serves named image blobs.
type ImageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// MaxBytes rejects uploads larger than this size; <= 0 disables the cap.
	MaxBytes int64
}

// Put stores an image under name, replacing any previous blob with that
// name. The content type must be in the accepted set and the payload must be
// non-empty and within the configured size cap.
func (s *ImageService) Put(ctx context.Context, name, contentType string, data []byte) (*domain.Image, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: image name is required", ErrValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image payload is empty", ErrValidation)
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrValidation, s.MaxBytes)
	}
	ct := canonicalImageType(contentType)
	if ct == "" {
		return nil, fmt.Errorf("%w: unsupported image type %q", ErrValidation, contentType)
	}
	return repo.UpsertImage(ctx, s.DB, name, ct, data)
}

// Get returns the blob stored under name. Names with no extension fall back
// to name + ".jpg" before reporting not-found.
func (s *ImageService) Get(ctx context.Context, name string) (*domain.Image, error) {
	img, err := repo.GetImage(ctx, s.DB, name)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if path.Ext(name) == "" {
		img, err = repo.GetImage(ctx, s.DB, name+".jpg")
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrImageNotFound
}

// List returns stored image metadata (no payloads), newest first.
func (s *ImageService) List(ctx context.Context, limit int) ([]domain.Image, error) {
	return repo.ListImages(ctx, s.DB, limit)
}

// canonicalImageType maps an upload content type onto its stored form, or ""
// when the type is not accepted. Parameters ("image/jpeg; q=1") are ignored.
func canonicalImageType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := allowedImageTypes[ct]; !ok {
		return ""
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}
