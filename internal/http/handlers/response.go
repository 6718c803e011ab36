// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelopes and the ordered entity views used
// across all endpoints.
//
// Envelope conventions:
//   - Success: {"message": ..., "data": ...}; list endpoints always put an
//     array in data, even for single-element results.
//   - Failure: {"message": ..., "success": false} plus a stable code.
//   - Single-entity GET-by-id responses serialize the entity with a fixed key
//     order (id fields first, then scalars, then arrays and timestamps) via
//     the ordered view structs below, giving clients a stable diffable shape.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "message": "Recipe not found",
//	  "success": false,
//	  "code": "not_found"
//	}
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/http/middleware"
	"github.com/peteoy/recipe-backend/internal/services"
)

// DataResponse is the success envelope carrying a payload.
type DataResponse struct {
	Message string `json:"message" example:"OK"`
	Data    any    `json:"data"`
}

// StatusResponse is the success envelope for authenticated endpoints, which
// additionally carry an explicit success flag and an optional total.
type StatusResponse struct {
	Message string `json:"message" example:"Favorites fetched successfully"`
	Success bool   `json:"success" example:"true"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
}

// ErrorResponse is the failure envelope returned by all endpoints.
type ErrorResponse struct {
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"Recipe not found"`
	// Always false on errors
	Success bool `json:"success"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code,omitempty" example:"not_found"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// UserView is the ordered single-user projection for GET-by-id responses.
// The password digest is deliberately absent.
type UserView struct {
	ID        string            `json:"_id"`
	DisplayID *string           `json:"id,omitempty"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Favorites []domain.Favorite `json:"favorites"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// RecipeView is the ordered single-recipe projection. ImageURL is derived
// from ImageName for listing surfaces that serve clients directly.
type RecipeView struct {
	ID                   string   `json:"_id"`
	DisplayID            *int64   `json:"id,omitempty"`
	Title                string   `json:"title"`
	Ingredients          []string `json:"ingredients"`
	Instructions         string   `json:"instructions"`
	ImageName            string   `json:"imageName"`
	ImageURL             string   `json:"imageUrl,omitempty"`
	ExtractedIngredients []string `json:"extractedIngredients"`
	CreatedBy            string   `json:"createdBy,omitempty"`
	IsUserCreated        bool     `json:"isUserCreated,omitempty"`
}

// userView builds the ordered user projection.
func userView(u *domain.User) UserView {
	favs := u.Favorites
	if favs == nil {
		favs = []domain.Favorite{}
	}
	return UserView{
		ID:        u.ID,
		DisplayID: u.DisplayID,
		Username:  u.Username,
		Email:     u.Email,
		Favorites: favs,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// recipeView builds the ordered recipe projection. basePath, when non-empty,
// is the API mount point used to derive imageUrl ("/api" →
// "/api/gridfs-images/<name>").
func recipeView(r *domain.Recipe, basePath string) RecipeView {
	v := RecipeView{
		ID:                   r.ID,
		DisplayID:            r.DisplayID,
		Title:                r.Title,
		Ingredients:          orEmpty(r.Ingredients),
		Instructions:         r.Instructions,
		ImageName:            r.ImageName,
		ExtractedIngredients: orEmpty(r.ExtractedIngredients),
		IsUserCreated:        r.IsUserAuthored,
	}
	if basePath != "" && r.ImageName != "" {
		v.ImageURL = basePath + "/gridfs-images/" + r.ImageName
	}
	return v
}

// recipeViews maps a slice of recipes onto ordered projections.
func recipeViews(rs []domain.Recipe, basePath string) []RecipeView {
	out := make([]RecipeView, 0, len(rs))
	for i := range rs {
		out = append(out, recipeView(&rs[i], basePath))
	}
	return out
}

func orEmpty(l domain.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

// ok writes a {"message", "data"} success envelope.
func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, DataResponse{Message: message, Data: data})
}

// okStatus writes a {"message", "success": true, ...} success envelope.
func okStatus(c *gin.Context, status int, message string, data any, total *int) {
	c.JSON(status, StatusResponse{Message: message, Success: true, Data: data, Total: total})
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		Message:   msg,
		Code:      code,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failService maps service sentinels onto HTTP failures with the default
// message per sentinel. Handlers that need a route-specific message test the
// sentinel themselves before delegating here. Unrecognized errors surface as
// a 500 carrying the raw store error message.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidReference):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid ID format")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "User not found")
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Recipe not found")
	case errors.Is(err, services.ErrFavoriteNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Favorite not found")
	case errors.Is(err, services.ErrImageNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "Image not found")
	case errors.Is(err, services.ErrAlreadyFavorited):
		fail(c, http.StatusBadRequest, ErrCodeConflict, "Recipe already in favorites")
	case errors.Is(err, services.ErrDuplicateEmail):
		fail(c, http.StatusBadRequest, ErrCodeConflict, "Email already exists")
	case errors.Is(err, services.ErrDuplicateUsername):
		fail(c, http.StatusBadRequest, ErrCodeConflict, "Username already taken")
	case errors.Is(err, services.ErrDuplicateDisplayID):
		fail(c, http.StatusBadRequest, ErrCodeConflict, "ID already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "You do not have permission to modify this resource")
	case errors.Is(err, services.ErrValidation):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
