// Package services defines the business logic for users, recipes, favorites,
// authentication, and image storage. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import (
	"errors"

	"github.com/peteoy/recipe-backend/internal/identity"
)

// Reference and lookup errors.
var (
	// ErrInvalidReference indicates a malformed identifier shape, rejected
	// before any store round trip. Aliased from the identity package so both
	// layers report the same sentinel.
	ErrInvalidReference = identity.ErrInvalidReference

	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRecipeNotFound indicates the referenced recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrFavoriteNotFound indicates a removal targeted an edge the user does
	// not have. Removing twice is not idempotent-success.
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrImageNotFound indicates the named image blob does not exist.
	ErrImageNotFound = errors.New("image not found")
)

// Conflict errors (duplicate unique value; the losing side of a race).
var (
	// ErrAlreadyFavorited is returned when the favorite edge already exists.
	ErrAlreadyFavorited = errors.New("recipe already in favorites")

	// ErrDuplicateDisplayID is returned when a creation loses the allocation
	// race (or a caller-supplied display id collides). The caller retries;
	// the system never does so silently.
	ErrDuplicateDisplayID = errors.New("display id already exists")

	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)

// Validation and authorization errors.
var (
	// ErrValidation indicates a missing or malformed required field.
	// Wrapped with a field-specific message via fmt.Errorf("%w: ...").
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned on login when the email is unknown or
	// the password does not match. The two cases are deliberately not
	// distinguishable by the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when a mutation is attempted by someone other
	// than the recipe's author (including when the recipe has no author).
	ErrForbidden = errors.New("forbidden")
)
