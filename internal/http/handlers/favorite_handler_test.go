package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestFavorites_AddListCheckRemove(t *testing.T) {
	_, h, tokens := newEnv(t)
	r := newRouter(h, tokens)

	_, token := registerUser(t, r, "alice", "alice@example.com")
	recipeID := createRecipe(t, r, "Pie")

	// Initially empty
	w, env := doJSON(t, r, http.MethodGet, "/favorites", "", bearer(token))
	if w.Code != http.StatusOK || env.Message != "Favorites fetched successfully" {
		t.Fatalf("list -> %d %q", w.Code, env.Message)
	}
	if env.Total == nil || *env.Total != 0 {
		t.Fatalf("total = %v, want 0", env.Total)
	}

	// Check before adding
	w, env = doJSON(t, r, http.MethodGet, "/favorites/check/"+recipeID, "", bearer(token))
	if w.Code != http.StatusOK || env.Message != "Favorite status checked" {
		t.Fatalf("check -> %d %q", w.Code, env.Message)
	}
	var check struct {
		IsFavorited bool `json:"isFavorited"`
	}
	if err := json.Unmarshal(env.Data, &check); err != nil {
		t.Fatalf("check data: %v", err)
	}
	if check.IsFavorited {
		t.Fatalf("isFavorited must start false")
	}

	// Add
	w, env = doJSON(t, r, http.MethodPost, "/favorites/"+recipeID, "", bearer(token))
	if w.Code != http.StatusOK || env.Message != "Recipe added to favorites" {
		t.Fatalf("add -> %d %q", w.Code, env.Message)
	}
	var favs struct {
		Favorites []string `json:"favorites"`
	}
	if err := json.Unmarshal(env.Data, &favs); err != nil {
		t.Fatalf("add data: %v", err)
	}
	if len(favs.Favorites) != 1 || favs.Favorites[0] != recipeID {
		t.Fatalf("favorites = %v", favs.Favorites)
	}

	// Add again -> conflict, list unchanged
	w, env = doJSON(t, r, http.MethodPost, "/favorites/"+recipeID, "", bearer(token))
	if w.Code != http.StatusBadRequest || env.Message != "Recipe already in favorites" {
		t.Fatalf("dup add -> %d %q", w.Code, env.Message)
	}

	// List carries the full recipe projection
	w, env = doJSON(t, r, http.MethodGet, "/favorites", "", bearer(token))
	if env.Total == nil || *env.Total != 1 {
		t.Fatalf("total = %v, want 1", env.Total)
	}
	var listed struct {
		Favorites []struct {
			ID    string `json:"_id"`
			Title string `json:"title"`
		} `json:"favorites"`
	}
	if err := json.Unmarshal(env.Data, &listed); err != nil {
		t.Fatalf("list data: %v", err)
	}
	if len(listed.Favorites) != 1 || listed.Favorites[0].ID != recipeID || listed.Favorites[0].Title != "Pie" {
		t.Fatalf("listed = %+v", listed.Favorites)
	}

	// Check after adding
	_, env = doJSON(t, r, http.MethodGet, "/favorites/check/"+recipeID, "", bearer(token))
	if err := json.Unmarshal(env.Data, &check); err != nil {
		t.Fatalf("check data: %v", err)
	}
	if !check.IsFavorited {
		t.Fatalf("isFavorited must be true after add")
	}

	// Remove
	w, env = doJSON(t, r, http.MethodDelete, "/favorites/"+recipeID, "", bearer(token))
	if w.Code != http.StatusOK || env.Message != "Recipe removed from favorites" {
		t.Fatalf("remove -> %d %q", w.Code, env.Message)
	}
	if err := json.Unmarshal(env.Data, &favs); err != nil {
		t.Fatalf("remove data: %v", err)
	}
	if len(favs.Favorites) != 0 {
		t.Fatalf("favorites after remove = %v", favs.Favorites)
	}

	// Remove again -> 400, not a no-op
	w, env = doJSON(t, r, http.MethodDelete, "/favorites/"+recipeID, "", bearer(token))
	if w.Code != http.StatusBadRequest || env.Message != "Recipe not in favorites" {
		t.Fatalf("double remove -> %d %q", w.Code, env.Message)
	}
}

func TestFavorites_ListETag304(t *testing.T) {
	_, h, tokens := newEnv(t)
	r := newRouter(h, tokens)

	_, token := registerUser(t, r, "alice", "alice@example.com")
	recipeID := createRecipe(t, r, "Pie")

	// Empty set still produces an ETag with a zero timestamp.
	w, _ := doJSON(t, r, http.MethodGet, "/favorites", "", bearer(token))
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	if et := w.Header().Get("ETag"); et == "" {
		t.Fatalf("expected ETag on empty favorites list")
	}

	if w, _ = doJSON(t, r, http.MethodPost, "/favorites/"+recipeID, "", bearer(token)); w.Code != http.StatusOK {
		t.Fatalf("add -> %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/favorites", "", bearer(token))
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag on favorites list")
	}

	// Matching If-None-Match short-circuits to 304.
	hdr := bearer(token)
	hdr["If-None-Match"] = etag
	w, _ = doJSON(t, r, http.MethodGet, "/favorites", "", hdr)
	if w.Code != http.StatusNotModified {
		t.Fatalf("etag 304 -> %d", w.Code)
	}

	// Mutating the set invalidates the tag.
	if w, _ = doJSON(t, r, http.MethodDelete, "/favorites/"+recipeID, "", bearer(token)); w.Code != http.StatusOK {
		t.Fatalf("remove -> %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/favorites", "", hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("stale etag -> %d, want 200", w.Code)
	}
}

func TestFavorites_UnknownRecipe(t *testing.T) {
	_, h, tokens := newEnv(t)
	r := newRouter(h, tokens)

	_, token := registerUser(t, r, "alice", "alice@example.com")

	w, env := doJSON(t, r, http.MethodPost,
		"/favorites/11111111-2222-3333-4444-555555555555", "", bearer(token))
	if w.Code != http.StatusNotFound || env.Message != "Recipe not found" {
		t.Fatalf("unknown recipe -> %d %q", w.Code, env.Message)
	}
}

func TestFavorites_RequireToken(t *testing.T) {
	_, h, tokens := newEnv(t)
	r := newRouter(h, tokens)

	w, env := doJSON(t, r, http.MethodGet, "/favorites", "", nil)
	if w.Code != http.StatusUnauthorized || env.Message != "No token provided" {
		t.Fatalf("no token -> %d %q", w.Code, env.Message)
	}
}
