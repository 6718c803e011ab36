package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/peteoy/recipe-backend/internal/auth"
)

func newAuthSvc(t *testing.T) *AuthService {
	t.Helper()
	db := newSvcDB(t)
	users := &UserService{
		DB:        db,
		Allocator: &AllocatorService{DB: db, AuthoredFloor: 10000},
	}
	return &AuthService{
		DB:     db,
		Users:  users,
		Tokens: auth.NewTokenManager("test-secret", time.Hour),
	}
}

func TestAuth_RegisterLoginRoundtrip(t *testing.T) {
	svc := newAuthSvc(t)

	u, token, err := svc.Register(context.Background(), "alice", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatalf("register issued no token")
	}
	claims, err := svc.Tokens.Verify(token)
	if err != nil || claims.UserID != u.ID || claims.Username != "alice" {
		t.Fatalf("register token claims = %+v, %v", claims, err)
	}

	// Login folds the email before lookup.
	got, token2, err := svc.Login(context.Background(), "A@X.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || token2 == "" {
		t.Fatalf("login returned wrong identity")
	}
}

func TestAuth_Login_InvalidCredentials(t *testing.T) {
	svc := newAuthSvc(t)

	if _, _, err := svc.Register(context.Background(), "alice", "a@x.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Wrong password and unknown email fail identically.
	if _, _, err := svc.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_Register_RequiresPassword(t *testing.T) {
	svc := newAuthSvc(t)

	if _, _, err := svc.Register(context.Background(), "alice", "a@x.com", " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	svc := newAuthSvc(t)

	if _, _, err := svc.Register(context.Background(), "alice", "a@x.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "alice2", "a@x.com", "secret2"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuth_Me_ProfileShape(t *testing.T) {
	svc := newAuthSvc(t)

	u, _, err := svc.Register(context.Background(), "alice", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	rel := &RelationshipService{DB: svc.DB}
	recipes := &RecipeService{
		DB:            svc.DB,
		Allocator:     svc.Users.Allocator,
		Relationships: rel,
	}
	authored, err := recipes.CreateAuthored(context.Background(), u.ID, RecipeInput{Title: "Moussaka"})
	if err != nil {
		t.Fatalf("create authored: %v", err)
	}
	fav := seedRecipe(t, svc.DB, "Pastitsio")
	if _, err := rel.AddFavorite(context.Background(), u.ID, fav.ID, ""); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	p, err := svc.Me(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if p.User.Username != "alice" || p.User.Email != "a@x.com" {
		t.Fatalf("profile identity wrong: %+v", p.User)
	}
	if len(p.User.Favorites) != 1 || p.User.Favorites[0].RecipeID != fav.ID {
		t.Fatalf("profile favorites wrong: %+v", p.User.Favorites)
	}
	if len(p.Authored) != 1 || p.Authored[0].ID != authored.ID {
		t.Fatalf("profile authored wrong: %+v", p.Authored)
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(strings.ToLower(string(b)), "password") || strings.Contains(string(b), "secret1") {
		t.Fatalf("password material leaked into profile JSON: %s", b)
	}
}
