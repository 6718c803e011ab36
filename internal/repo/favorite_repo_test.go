package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/peteoy/recipe-backend/internal/domain"
)

// test DB helper
func newFavRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("fav_repo_%d.db", time.Now().UnixNano()))
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

func TestInsertFavorite_SetsFieldsAndRejectsDuplicate(t *testing.T) {
	db := newFavRepoDB(t, &domain.Favorite{})
	userID, recipeID := uuid.NewString(), uuid.NewString()

	f, err := InsertFavorite(context.Background(), db, userID, recipeID, "Moussaka")
	if err != nil {
		t.Fatalf("InsertFavorite: %v", err)
	}
	if f.ID == "" || f.UserID != userID || f.RecipeID != recipeID || f.Title != "Moussaka" {
		t.Fatalf("unexpected edge: %+v", f)
	}
	if f.SavedAt.IsZero() || time.Since(f.SavedAt) > time.Minute {
		t.Fatalf("SavedAt not set reasonably: %v", f.SavedAt)
	}

	// The unique index decides the duplicate, not application logic.
	if _, err := InsertFavorite(context.Background(), db, userID, recipeID, "other title"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same recipe for another user is a different edge.
	if _, err := InsertFavorite(context.Background(), db, uuid.NewString(), recipeID, "Moussaka"); err != nil {
		t.Fatalf("other user edge: %v", err)
	}
}

func TestDeleteFavorite_ConditionalOutcome(t *testing.T) {
	db := newFavRepoDB(t, &domain.Favorite{})
	userID, recipeID := uuid.NewString(), uuid.NewString()

	applied, err := DeleteFavorite(context.Background(), db, userID, recipeID)
	if err != nil {
		t.Fatalf("DeleteFavorite: %v", err)
	}
	if applied {
		t.Fatalf("delete of absent edge reported applied")
	}

	if _, err := InsertFavorite(context.Background(), db, userID, recipeID, "t"); err != nil {
		t.Fatalf("InsertFavorite: %v", err)
	}
	applied, err = DeleteFavorite(context.Background(), db, userID, recipeID)
	if err != nil || !applied {
		t.Fatalf("delete of present edge = (%v, %v), want (true, nil)", applied, err)
	}
	// Second delete observes the already-absent outcome.
	applied, err = DeleteFavorite(context.Background(), db, userID, recipeID)
	if err != nil || applied {
		t.Fatalf("second delete = (%v, %v), want (false, nil)", applied, err)
	}
}

func TestHasFavorite(t *testing.T) {
	db := newFavRepoDB(t, &domain.Favorite{})
	userID, recipeID := uuid.NewString(), uuid.NewString()

	ok, err := HasFavorite(context.Background(), db, userID, recipeID)
	if err != nil || ok {
		t.Fatalf("HasFavorite before insert = (%v, %v)", ok, err)
	}
	if _, err := InsertFavorite(context.Background(), db, userID, recipeID, "t"); err != nil {
		t.Fatalf("InsertFavorite: %v", err)
	}
	ok, err = HasFavorite(context.Background(), db, userID, recipeID)
	if err != nil || !ok {
		t.Fatalf("HasFavorite after insert = (%v, %v)", ok, err)
	}
}

func TestListFavorites_SavedOrder(t *testing.T) {
	db := newFavRepoDB(t, &domain.Favorite{})
	userID := uuid.NewString()

	t0 := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		f := &domain.Favorite{
			ID:       uuid.NewString(),
			UserID:   userID,
			RecipeID: uuid.NewString(),
			Title:    title,
			SavedAt:  t0.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	// Another user's edge must not leak in.
	other := &domain.Favorite{ID: uuid.NewString(), UserID: uuid.NewString(), RecipeID: uuid.NewString(), Title: "x", SavedAt: t0}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}

	got, err := ListFavorites(context.Background(), db, userID)
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Title != want {
			t.Fatalf("position %d = %q, want %q", i, got[i].Title, want)
		}
	}
}

func TestReplaceFavorites_SwapsWholeList(t *testing.T) {
	db := newFavRepoDB(t, &domain.Favorite{})
	userID := uuid.NewString()

	if _, err := InsertFavorite(context.Background(), db, userID, uuid.NewString(), "old"); err != nil {
		t.Fatalf("InsertFavorite: %v", err)
	}
	edges := []domain.Favorite{
		{RecipeID: uuid.NewString(), Title: "new-1", SavedAt: time.Now().UTC()},
		{RecipeID: uuid.NewString(), Title: "new-2", SavedAt: time.Now().UTC()},
	}
	if err := ReplaceFavorites(context.Background(), db, userID, edges); err != nil {
		t.Fatalf("ReplaceFavorites: %v", err)
	}

	got, err := ListFavorites(context.Background(), db, userID)
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(got) != 2 || got[0].Title == "old" || got[1].Title == "old" {
		t.Fatalf("replacement incomplete: %+v", got)
	}
}
