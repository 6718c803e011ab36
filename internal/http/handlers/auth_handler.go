// Authentication HTTP handlers.
//
// This file exposes the account endpoints:
//   - POST /auth/register  (create account, issue token)
//   - POST /auth/login     (verify credentials, issue token)
//   - GET  /auth/me        (caller's profile, bearer token)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into the response envelopes.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/http/middleware"
	"github.com/peteoy/recipe-backend/internal/services"
)

// Handlers groups the HTTP endpoints over the application services.
type Handlers struct {
	auth          *services.AuthService
	users         *services.UserService
	recipes       *services.RecipeService
	relationships *services.RelationshipService
	images        *services.ImageService

	// basePath is the API mount point, used to derive image URLs on recipe
	// projections.
	basePath string
}

// New constructs a Handlers instance bound to the given services.
func New(
	auth *services.AuthService,
	users *services.UserService,
	recipes *services.RecipeService,
	relationships *services.RelationshipService,
	images *services.ImageService,
	basePath string,
) *Handlers {
	return &Handlers{
		auth:          auth,
		users:         users,
		recipes:       recipes,
		relationships: relationships,
		images:        images,
		basePath:      basePath,
	}
}

// RegisterRequest is the JSON payload for account registration.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"secret1"`
}

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"secret1"`
}

// registeredUser is the account projection embedded in auth responses.
type registeredUser struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// loginUser extends registeredUser with the relationship state clients
// restore on login.
type loginUser struct {
	ID             string   `json:"_id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Favorites      []string `json:"favorites"`
	CreatedRecipes []string `json:"createdRecipes"`
}

// ProfileView is the /auth/me payload: the ordered user projection plus the
// caller's authored recipes.
type ProfileView struct {
	UserView
	CreatedRecipes []RecipeView `json:"createdRecipes"`
}

// Register godoc
// @ID          register
// @Summary     Register a new account
// @Description Creates a user with a digested password, assigns a display id, and issues a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
// @Success     201  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field or duplicate email/username"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Please provide username, email and password")
		return
	}

	u, token, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			fail(c, http.StatusBadRequest, ErrCodeConflict, "Email already registered")
			return
		}
		failService(c, err)
		return
	}

	okStatus(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  registeredUser{ID: u.ID, Username: u.Username, Email: u.Email},
		"token": token,
	}, nil)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and issues a bearer token. Unknown email and wrong password are indistinguishable.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Login payload"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Please provide email and password")
		return
	}

	u, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failService(c, err)
		return
	}

	authored, err := h.recipes.ListByAuthor(c.Request.Context(), u.ID)
	if err != nil {
		failService(c, err)
		return
	}
	favIDs := make([]string, 0, len(u.Favorites))
	for _, f := range u.Favorites {
		favIDs = append(favIDs, f.RecipeID)
	}
	authoredIDs := make([]string, 0, len(authored))
	for _, r := range authored {
		authoredIDs = append(authoredIDs, r.ID)
	}

	okStatus(c, http.StatusOK, "Login successful", gin.H{
		"user": loginUser{
			ID:             u.ID,
			Username:       u.Username,
			Email:          u.Email,
			Favorites:      favIDs,
			CreatedRecipes: authoredIDs,
		},
		"token": token,
	}, nil)
}

// Me godoc
// @ID          me
// @Summary     Current user profile
// @Description Returns the caller's account, favorites, and authored recipes. Requires a bearer token.
// @Tags        Auth
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing, expired, or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	p, err := h.auth.Me(c.Request.Context(), middleware.AuthUserID(c))
	if err != nil {
		failService(c, err)
		return
	}

	okStatus(c, http.StatusOK, "User fetched successfully", ProfileView{
		UserView:       userView(p.User),
		CreatedRecipes: recipeViews(p.Authored, h.basePath),
	}, nil)
}
