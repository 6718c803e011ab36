// User HTTP handlers.
//
// This file exposes the unauthenticated account administration surface:
// user CRUD by internal id plus the two favorite-edge forms (body payload
// and path parameter). Responses that return a single user use the ordered
// UserView projection.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/domain"
	"github.com/peteoy/recipe-backend/internal/services"
)

// CreateUserRequest is the JSON payload for admin user creation. The display
// id is optional; when absent one is allocated.
type CreateUserRequest struct {
	ID       *string `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
}

// UpdateUserRequest is the JSON payload for user updates. A non-nil favorites
// array replaces the user's favorite edges wholesale.
type UpdateUserRequest struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Favorites []FavoritePatch `json:"favorites"`
}

// FavoritePatch is one favorite edge in an update payload. Both recipe id
// spellings are accepted.
type FavoritePatch struct {
	RecipeID    string `json:"recipeId"`
	RecipeIDAlt string `json:"recipe_id"`
	Title       string `json:"title"`
}

func (p FavoritePatch) ref() string {
	if p.RecipeID != "" {
		return p.RecipeID
	}
	return p.RecipeIDAlt
}

// AddFavoriteRequest is the body form for adding a favorite. Both recipe id
// spellings are accepted; title is an optional denormalized override.
type AddFavoriteRequest struct {
	RecipeID    string `json:"recipe_id"`
	RecipeIDAlt string `json:"recipeId"`
	Title       string `json:"title"`
}

func (r AddFavoriteRequest) ref() string {
	if r.RecipeID != "" {
		return r.RecipeID
	}
	return r.RecipeIDAlt
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Returns all users, or only their number when count=true.
// @Tags        Users
// @Produce     json
// @Param       count  query  bool  false  "Return the count instead of the list"
// @Success     200  {object}  handlers.DataResponse
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	if c.Query("count") == "true" {
		n, err := h.users.Count(c.Request.Context())
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, "OK", n)
		return
	}

	us, err := h.users.List(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	views := make([]UserView, 0, len(us))
	for i := range us {
		views = append(views, userView(&us[i]))
	}
	ok(c, http.StatusOK, "OK", views)
}

// CreateUser godoc
// @ID          createUser
// @Summary     Create a user
// @Description Admin creation surface. The display id is optional and allocated when absent; password is required.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateUserRequest  true  "User payload"
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field or duplicate id/email/username"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Username, email, and password are required")
		return
	}

	u, err := h.users.Create(c.Request.Context(), services.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		DisplayID: req.ID,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateDisplayID) {
			fail(c, http.StatusBadRequest, ErrCodeConflict, "User ID already exists")
			return
		}
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, "User created", userView(u))
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user
// @Description Fetches a user by internal id and returns the ordered projection.
// @Tags        Users
// @Produce     json
// @Param       id  path  string  true  "User internal id (uuid)"
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failUserRef(c, err)
		return
	}
	ok(c, http.StatusOK, "OK", userView(u))
}

// UpdateUser godoc
// @ID          updateUser
// @Summary     Update a user
// @Description Updates username/email and optionally replaces the favorites array.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "User internal id (uuid)"
// @Param       body  body  handlers.UpdateUserRequest  true  "Update payload"
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field or email conflict"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{id} [put]
func (h *Handlers) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Username and email are required")
		return
	}

	in := services.UpdateUserInput{Username: req.Username, Email: req.Email}
	if req.Favorites != nil {
		in.Favorites = make([]domain.Favorite, 0, len(req.Favorites))
		for _, p := range req.Favorites {
			in.Favorites = append(in.Favorites, domain.Favorite{RecipeID: p.ref(), Title: p.Title})
		}
	}

	u, err := h.users.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		failUserRef(c, err)
		return
	}
	ok(c, http.StatusOK, "User updated", userView(u))
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete a user
// @Description Deletes a user and all of their favorite edges.
// @Tags        Users
// @Produce     json
// @Param       id  path  string  true  "User internal id (uuid)"
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failUserRef(c, err)
		return
	}
	ok(c, http.StatusOK, "User deleted", []any{})
}

// AddUserFavorite godoc
// @ID          addUserFavorite
// @Summary     Add a favorite (body form)
// @Description Adds a recipe to the user's favorites. The recipe id comes from the JSON body.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "User internal id (uuid)"
// @Param       body  body  handlers.AddFavoriteRequest  true  "Favorite payload"
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing recipe_id or already favorited"
// @Failure     404  {object}  handlers.ErrorResponse  "User or recipe not found"
// @Router      /users/{id}/favorites [post]
func (h *Handlers) AddUserFavorite(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ref()) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe_id is required")
		return
	}

	u, err := h.relationships.AddFavorite(c.Request.Context(), c.Param("id"), req.ref(), req.Title)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, "Favorite added", userView(u))
}

// AddUserFavoriteByPath godoc
// @ID          addUserFavoriteByPath
// @Summary     Add a favorite (path form)
// @Description Adds a recipe to the user's favorites. The recipe id comes from the path.
// @Tags        Users
// @Produce     json
// @Param       id        path  string  true  "User internal id (uuid)"
// @Param       recipeId  path  string  true  "Recipe internal id (uuid)"
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed recipe id or already favorited"
// @Failure     404  {object}  handlers.ErrorResponse  "User or recipe not found"
// @Router      /users/{id}/favorites/{recipeId} [post]
func (h *Handlers) AddUserFavoriteByPath(c *gin.Context) {
	u, err := h.relationships.AddFavorite(c.Request.Context(), c.Param("id"), c.Param("recipeId"), "")
	if err != nil {
		failRecipeRefParam(c, err)
		return
	}
	ok(c, http.StatusCreated, "Favorite added", userView(u))
}

// RemoveUserFavorite godoc
// @ID          removeUserFavorite
// @Summary     Remove a favorite
// @Description Removes a recipe from the user's favorites.
// @Tags        Users
// @Produce     json
// @Param       id        path  string  true  "User internal id (uuid)"
// @Param       recipeId  path  string  true  "Recipe internal id (uuid)"
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed recipe id"
// @Failure     404  {object}  handlers.ErrorResponse  "User or favorite not found"
// @Router      /users/{id}/favorites/{recipeId} [delete]
func (h *Handlers) RemoveUserFavorite(c *gin.Context) {
	u, err := h.relationships.RemoveFavorite(c.Request.Context(), c.Param("id"), c.Param("recipeId"))
	if err != nil {
		failRecipeRefParam(c, err)
		return
	}
	ok(c, http.StatusOK, "Favorite removed", userView(u))
}

// failUserRef maps errors from the /users/:id surface, where a malformed id
// answers with the surface's own message instead of the generic one.
func failUserRef(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidReference) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request")
		return
	}
	failService(c, err)
}

// failRecipeRefParam is failUserRef's counterpart for the path-parameter
// favorite forms, where the malformed reference is the recipe id.
func failRecipeRefParam(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidReference) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid recipe_id")
		return
	}
	failService(c, err)
}
