// Package domain defines the persistence models for users, recipes, favorite
// edges, and stored images. These types are mapped with GORM and form the
// core data layer of the recipe backend.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList stores a []string as a JSON-encoded TEXT column. Used for recipe
// ingredient lists where element order matters.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(l))
	default:
		return errors.New("domain: unsupported source type for StringList")
	}
}

// User represents an account in the catalog.
//
// Identifier model:
//   - ID: internal identifier (UUID string), immutable, primary lookup key.
//   - DisplayID: optional human-readable sequential id ("u001", "u002", ...),
//     unique when present, assigned once at creation and never reassigned.
//
// The favorites relationship is stored in the favorites table (one row per
// edge) rather than embedded; authored recipes are discovered through
// Recipe.AuthorRef.
type User struct {
	ID             string     `json:"_id"        gorm:"type:char(36);primaryKey"`
	DisplayID      *string    `json:"id,omitempty" gorm:"type:varchar(32);uniqueIndex:ux_users_display_id"`
	Username       string     `json:"username"   gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	Email          string     `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordDigest string     `json:"-"          gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Favorites      []Favorite `json:"favorites"  gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Favorite is a single edge of the favorites relationship. It denormalizes
// the recipe title at save time; the snapshot does not update if the recipe
// is later renamed.
//
// RecipeID holds the recipe's internal identifier (the canonical reference
// form for this deployment). The (user_id, recipe_id) unique index enforces
// the at-most-one-edge invariant at the store level, which is what makes the
// add operation safe under concurrent requests.
type Favorite struct {
	ID       string    `json:"-"         gorm:"type:char(36);primaryKey"`
	UserID   string    `json:"-"         gorm:"type:char(36);not null;index;uniqueIndex:ux_favorites_user_recipe,priority:1"`
	RecipeID string    `json:"recipe_id" gorm:"type:char(36);not null;uniqueIndex:ux_favorites_user_recipe,priority:2"`
	Title    string    `json:"title"     gorm:"type:varchar(255);not null"`
	SavedAt  time.Time `json:"saved_at"  gorm:"not null"`
}

// TableName returns the database table name for Favorite.
func (Favorite) TableName() string { return "favorites" }

// Recipe represents a catalog or user-authored recipe.
//
// Fields:
//   - ID: internal identifier (UUID string), primary lookup key.
//   - DisplayID: optional numeric sequential id, unique when assigned.
//     Catalog recipes count up from 0; user-authored recipes are allocated
//     from a reserved high range (see identity package).
//   - AuthorRef: internal id of the authoring user; nil for bulk-imported
//     catalog recipes, which can never be mutated through the authored path.
type Recipe struct {
	ID                   string     `json:"_id"    gorm:"type:char(36);primaryKey"`
	DisplayID            *int64     `json:"id,omitempty" gorm:"uniqueIndex:ux_recipes_display_id"`
	Title                string     `json:"title"  gorm:"type:varchar(255);not null"`
	Ingredients          StringList `json:"ingredients"          gorm:"type:text"`
	Instructions         string     `json:"instructions"         gorm:"type:text"`
	ImageName            string     `json:"imageName"            gorm:"type:varchar(255)"`
	ExtractedIngredients StringList `json:"extractedIngredients" gorm:"type:text"`
	AuthorRef            *string    `json:"createdBy,omitempty"  gorm:"type:char(36);index"`
	IsUserAuthored       bool       `json:"isUserCreated"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// Image is a stored binary blob keyed by name. Re-uploading a name replaces
// the previous contents.
type Image struct {
	ID          string    `json:"-"           gorm:"type:char(36);primaryKey"`
	Name        string    `json:"filename"    gorm:"type:varchar(255);not null;uniqueIndex:ux_images_name"`
	ContentType string    `json:"contentType" gorm:"type:varchar(128)"`
	Data        []byte    `json:"-"           gorm:"type:blob"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"uploadDate"`
}

// TableName returns the database table name for Image.
func (Image) TableName() string { return "images" }
