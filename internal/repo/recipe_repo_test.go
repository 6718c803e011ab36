package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/peteoy/recipe-backend/internal/domain"
)

func newRecipeRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("recipe_repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func mkRecipe(displayID *int64, title string) *domain.Recipe {
	return &domain.Recipe{
		ID:          uuid.NewString(),
		DisplayID:   displayID,
		Title:       title,
		Ingredients: domain.StringList{"salt", "pepper"},
	}
}

func TestCreateRecipe_DisplayIDUnique(t *testing.T) {
	db := newRecipeRepoDB(t, &domain.Recipe{})
	id := int64(1)

	if err := CreateRecipe(context.Background(), db, mkRecipe(&id, "A")); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	if err := CreateRecipe(context.Background(), db, mkRecipe(&id, "B")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// NULL display ids coexist.
	if err := CreateRecipe(context.Background(), db, mkRecipe(nil, "C")); err != nil {
		t.Fatalf("nil display id: %v", err)
	}
	if err := CreateRecipe(context.Background(), db, mkRecipe(nil, "D")); err != nil {
		t.Fatalf("second nil display id: %v", err)
	}
}

func TestGetRecipe_RoundtripsIngredients(t *testing.T) {
	db := newRecipeRepoDB(t, &domain.Recipe{})
	r := mkRecipe(nil, "Moussaka")
	r.ExtractedIngredients = domain.StringList{"eggplant"}
	if err := CreateRecipe(context.Background(), db, r); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	got, err := GetRecipe(context.Background(), db, r.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[0] != "salt" {
		t.Fatalf("ingredients lost: %+v", got.Ingredients)
	}
	if len(got.ExtractedIngredients) != 1 || got.ExtractedIngredients[0] != "eggplant" {
		t.Fatalf("extracted ingredients lost: %+v", got.ExtractedIngredients)
	}

	if _, err := GetRecipe(context.Background(), db, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMaxRecipeDisplayID(t *testing.T) {
	db := newRecipeRepoDB(t, &domain.Recipe{})

	max, err := MaxRecipeDisplayID(context.Background(), db)
	if err != nil || max != nil {
		t.Fatalf("empty population = (%v, %v), want (nil, nil)", max, err)
	}

	for _, id := range []int64{3, 41, 7} {
		id := id
		if err := CreateRecipe(context.Background(), db, mkRecipe(&id, "t")); err != nil {
			t.Fatalf("seed %d: %v", id, err)
		}
	}
	// A recipe without a display id must not disturb the maximum.
	if err := CreateRecipe(context.Background(), db, mkRecipe(nil, "t")); err != nil {
		t.Fatalf("seed nil: %v", err)
	}

	max, err = MaxRecipeDisplayID(context.Background(), db)
	if err != nil {
		t.Fatalf("MaxRecipeDisplayID: %v", err)
	}
	if max == nil || *max != 41 {
		t.Fatalf("max = %v, want 41", max)
	}
}

func TestClaimAuthorship_AppliesOnlyWhileUnclaimed(t *testing.T) {
	db := newRecipeRepoDB(t, &domain.Recipe{})
	r := mkRecipe(nil, "Moussaka")
	if err := CreateRecipe(context.Background(), db, r); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	alice, bob := uuid.NewString(), uuid.NewString()

	claimed, err := ClaimAuthorship(context.Background(), db, r.ID, alice)
	if err != nil || !claimed {
		t.Fatalf("first claim = (%v, %v), want (true, nil)", claimed, err)
	}
	// Second claim targets a row whose author_ref is no longer NULL.
	claimed, err = ClaimAuthorship(context.Background(), db, r.ID, bob)
	if err != nil || claimed {
		t.Fatalf("second claim = (%v, %v), want (false, nil)", claimed, err)
	}
	// Missing recipe is also a zero-match outcome.
	claimed, err = ClaimAuthorship(context.Background(), db, uuid.NewString(), alice)
	if err != nil || claimed {
		t.Fatalf("missing recipe claim = (%v, %v), want (false, nil)", claimed, err)
	}

	got, err := GetRecipe(context.Background(), db, r.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.AuthorRef == nil || *got.AuthorRef != alice || !got.IsUserAuthored {
		t.Fatalf("authorship state wrong: %+v", got)
	}
}

func TestListRecipes_OrderAndLimit(t *testing.T) {
	db := newRecipeRepoDB(t, &domain.Recipe{})

	ids := []int64{5, 1, 3}
	for _, id := range ids {
		id := id
		if err := CreateRecipe(context.Background(), db, mkRecipe(&id, fmt.Sprintf("r%d", id))); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := CreateRecipe(context.Background(), db, mkRecipe(nil, "unassigned")); err != nil {
		t.Fatalf("seed nil: %v", err)
	}

	got, err := ListRecipes(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 recipes, got %d", len(got))
	}
	for i, want := range []int64{1, 3, 5} {
		if got[i].DisplayID == nil || *got[i].DisplayID != want {
			t.Fatalf("position %d = %v, want %d", i, got[i].DisplayID, want)
		}
	}
	if got[3].DisplayID != nil {
		t.Fatalf("unassigned id must sort last: %+v", got[3])
	}

	limited, err := ListRecipes(context.Background(), db, 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("limit: got %d, %v", len(limited), err)
	}
}

func TestDeleteRecipe_LeavesEdgesDangling(t *testing.T) {
	db := newRecipeRepoDB(t, &domain.Recipe{}, &domain.Favorite{})
	r := mkRecipe(nil, "Moussaka")
	if err := CreateRecipe(context.Background(), db, r); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	userID := uuid.NewString()
	if _, err := InsertFavorite(context.Background(), db, userID, r.ID, "t"); err != nil {
		t.Fatalf("InsertFavorite: %v", err)
	}

	if err := DeleteRecipe(context.Background(), db, r.ID); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	if err := DeleteRecipe(context.Background(), db, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// No cascading cleanup: the favorite edge keeps pointing at the deleted
	// recipe.
	ok, err := HasFavorite(context.Background(), db, userID, r.ID)
	if err != nil || !ok {
		t.Fatalf("edge was swept: (%v, %v)", ok, err)
	}
}
