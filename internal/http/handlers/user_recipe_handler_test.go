package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestUserRecipes_CreateListUpdateDelete(t *testing.T) {
	_, h, tokens := newEnv(t)
	r := newRouter(h, tokens)

	_, token := registerUser(t, r, "alice", "alice@example.com")

	// Seed a catalog recipe so the authored floor is visibly distinct.
	createRecipe(t, r, "Catalog pie")

	// Create
	w, env := doJSON(t, r, http.MethodPost, "/user-recipes",
		`{"title":"Alice stew","ingredients":["carrot"],"instructions":"simmer"}`, bearer(token))
	if w.Code != http.StatusCreated || env.Message != "Recipe created successfully" {
		t.Fatalf("create -> %d %q", w.Code, env.Message)
	}
	var created struct {
		ID            string `json:"_id"`
		DisplayID     *int64 `json:"id"`
		CreatedBy     string `json:"createdBy"`
		IsUserCreated bool   `json:"isUserCreated"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("create data: %v", err)
	}
	if created.DisplayID == nil || *created.DisplayID != 10000 {
		t.Fatalf("display id = %v, want 10000", created.DisplayID)
	}
	if created.CreatedBy != "alice" || !created.IsUserCreated {
		t.Fatalf("authorship projection = %+v", created)
	}

	// List
	w, env = doJSON(t, r, http.MethodGet, "/user-recipes", "", bearer(token))
	if w.Code != http.StatusOK || env.Message != "User recipes fetched successfully" {
		t.Fatalf("list -> %d %q", w.Code, env.Message)
	}
	if env.Total == nil || *env.Total != 1 {
		t.Fatalf("total = %v, want 1", env.Total)
	}

	// Update by author
	w, env = doJSON(t, r, http.MethodPut, "/user-recipes/"+created.ID,
		`{"title":"Alice stew v2"}`, bearer(token))
	if w.Code != http.StatusOK || env.Message != "Recipe updated successfully" {
		t.Fatalf("update -> %d %q", w.Code, env.Message)
	}
	var updated struct {
		Title     string `json:"title"`
		DisplayID *int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("update data: %v", err)
	}
	if updated.Title != "Alice stew v2" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.DisplayID == nil || *updated.DisplayID != 10000 {
		t.Fatalf("authored display id must never change, got %v", updated.DisplayID)
	}

	// Delete by author
	w, env = doJSON(t, r, http.MethodDelete, "/user-recipes/"+created.ID, "", bearer(token))
	if w.Code != http.StatusOK || env.Message != "Recipe deleted successfully" {
		t.Fatalf("delete -> %d %q", w.Code, env.Message)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/recipes/"+created.ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted recipe still served: %d", w.Code)
	}
}

func TestUserRecipes_AuthorOnly(t *testing.T) {
	_, h, tokens := newEnv(t)
	r := newRouter(h, tokens)

	_, aliceTok := registerUser(t, r, "alice", "alice@example.com")
	_, bobTok := registerUser(t, r, "bob", "bob@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/user-recipes",
		`{"title":"Alice stew"}`, bearer(aliceTok))
	if w.Code != http.StatusCreated {
		t.Fatalf("create -> %d", w.Code)
	}
	var created struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("data: %v", err)
	}

	// Bob may not edit or delete Alice's recipe.
	w, env = doJSON(t, r, http.MethodPut, "/user-recipes/"+created.ID,
		`{"title":"Bob was here"}`, bearer(bobTok))
	if w.Code != http.StatusForbidden || env.Message != "You do not have permission to edit this recipe" {
		t.Fatalf("foreign edit -> %d %q", w.Code, env.Message)
	}
	w, env = doJSON(t, r, http.MethodDelete, "/user-recipes/"+created.ID, "", bearer(bobTok))
	if w.Code != http.StatusForbidden || env.Message != "You do not have permission to delete this recipe" {
		t.Fatalf("foreign delete -> %d %q", w.Code, env.Message)
	}

	// Catalog recipes (no author) are not mutable on this surface either.
	catalogID := createRecipe(t, r, "Catalog pie")
	w, env = doJSON(t, r, http.MethodPut, "/user-recipes/"+catalogID,
		`{"title":"hijack"}`, bearer(aliceTok))
	if w.Code != http.StatusForbidden || env.Message != "You do not have permission to edit this recipe" {
		t.Fatalf("catalog edit -> %d %q", w.Code, env.Message)
	}
}

func TestUserRecipes_TitleRequired(t *testing.T) {
	_, h, tokens := newEnv(t)
	r := newRouter(h, tokens)

	_, token := registerUser(t, r, "alice", "alice@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/user-recipes", `{"ingredients":["x"]}`, bearer(token))
	if w.Code != http.StatusBadRequest || env.Message != "Title is required" {
		t.Fatalf("missing title -> %d %q", w.Code, env.Message)
	}
}
