// Package identity computes the human-readable sequential display
// identifiers exposed alongside the store-assigned internal UUIDs, and
// validates reference shapes at the API boundary.
//
// Display-id allocation is read-max-then-compute: callers fetch the current
// maximum with a descending top-1 query and pass it here. Two concurrent
// creations can therefore compute the same next id; the unique index on the
// display-id column closes that race at persist time, and a losing writer is
// reported a conflict rather than retried.
package identity

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidReference indicates a reference value whose shape does not match
// an internal identifier. Callers reject such references before touching the
// store.
var ErrInvalidReference = errors.New("invalid reference")

// userDisplayRE matches well-formed user display ids: "u" plus digits.
// Malformed legacy ids fall back to restarting the sequence rather than
// failing creation.
var userDisplayRE = regexp.MustCompile(`^u(\d+)$`)

// NextUserDisplayID returns the display id to assign to a new user given the
// current maximum display id across all users ("" when none exists).
//
// Sequence: u001, u002, ... The three-digit padding is a minimum width; past
// u999 ids simply grow (u1000) without truncation. A malformed maximum is a
// defined recovery case and restarts the sequence at u001.
func NextUserDisplayID(max string) string {
	m := userDisplayRE.FindStringSubmatch(strings.TrimSpace(max))
	if m == nil {
		return "u001"
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		// Digits too long for int64; treat as malformed legacy data.
		return "u001"
	}
	return fmt.Sprintf("u%03d", n+1)
}

// NextRecipeDisplayID returns the display id for a new catalog recipe given
// the current maximum (nil when no recipe has one yet). The catalog sequence
// is zero-based.
func NextRecipeDisplayID(max *int64) int64 {
	if max == nil {
		return 0
	}
	return *max + 1
}

// NextAuthoredRecipeID returns the display id for a new user-authored recipe.
// The first-ever authored allocation starts at floor (keeping authored
// content out of the bulk-imported catalog's low id range); once any recipe
// at or above the floor exists the true maximum wins.
func NextAuthoredRecipeID(max *int64, floor int64) int64 {
	if max == nil || *max < floor {
		return floor
	}
	return *max + 1
}

// NormalizeRef validates and canonicalizes a reference to an internal
// identifier. Only the UUID form is accepted; numeric display ids and any
// other shape return ErrInvalidReference. Comparisons elsewhere rely on the
// canonical lowercase string this returns.
func NormalizeRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidReference
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return "", ErrInvalidReference
	}
	// uuid.Parse accepts urn: and braced forms; require the plain 36-char shape.
	if len(ref) != 36 {
		return "", ErrInvalidReference
	}
	return id.String(), nil
}

// NewInternalID mints a fresh internal identifier for a document.
func NewInternalID() string { return uuid.NewString() }
