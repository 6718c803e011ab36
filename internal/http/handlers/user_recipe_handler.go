// Authored-recipe HTTP handlers.
//
// This file exposes the bearer-token surface for recipes owned by the
// caller: listing, creation with a floor-allocated display id, and
// author-only update and delete.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/http/middleware"
	"github.com/peteoy/recipe-backend/internal/services"
)

// ListUserRecipes godoc
// @ID          listUserRecipes
// @Summary     List the caller's recipes
// @Description Returns the recipes authored by the token identity, newest first.
// @Tags        UserRecipes
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing, expired, or invalid token"
// @Router      /user-recipes [get]
func (h *Handlers) ListUserRecipes(c *gin.Context) {
	rs, err := h.recipes.ListByAuthor(c.Request.Context(), middleware.AuthUserID(c))
	if err != nil {
		failService(c, err)
		return
	}

	views := recipeViews(rs, h.basePath)
	username := middleware.AuthUsername(c)
	for i := range views {
		views[i].CreatedBy = username
	}
	total := len(views)
	okStatus(c, http.StatusOK, "User recipes fetched successfully", views, &total)
}

// CreateUserRecipe godoc
// @ID          createUserRecipe
// @Summary     Create an authored recipe
// @Description Creates a recipe owned by the token identity. The display id is always allocated from the authored floor.
// @Tags        UserRecipes
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body  body  handlers.RecipeRequest  true  "Recipe payload"
// @Success     201  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing title"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing, expired, or invalid token"
// @Router      /user-recipes [post]
func (h *Handlers) CreateUserRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Title is required")
		return
	}

	r, err := h.recipes.CreateAuthored(c.Request.Context(), middleware.AuthUserID(c), req.input())
	if err != nil {
		failService(c, err)
		return
	}

	view := recipeView(r, h.basePath)
	view.CreatedBy = middleware.AuthUsername(c)
	okStatus(c, http.StatusCreated, "Recipe created successfully", view, nil)
}

// UpdateUserRecipe godoc
// @ID          updateUserRecipe
// @Summary     Update an authored recipe
// @Description Updates a recipe owned by the caller. Anyone else, including on catalog recipes, gets 403.
// @Tags        UserRecipes
// @Accept      json
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       recipeId  path  string  true  "Recipe internal id (uuid)"
// @Param       body  body  handlers.RecipeRequest  true  "Recipe payload"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /user-recipes/{recipeId} [put]
func (h *Handlers) UpdateUserRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Title is required")
		return
	}

	r, err := h.recipes.UpdateAuthored(c.Request.Context(), middleware.AuthUserID(c), c.Param("recipeId"), req.input())
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "You do not have permission to edit this recipe")
			return
		}
		failService(c, err)
		return
	}

	view := recipeView(r, h.basePath)
	view.CreatedBy = middleware.AuthUsername(c)
	okStatus(c, http.StatusOK, "Recipe updated successfully", view, nil)
}

// DeleteUserRecipe godoc
// @ID          deleteUserRecipe
// @Summary     Delete an authored recipe
// @Description Deletes a recipe owned by the caller. Anyone else, including on catalog recipes, gets 403.
// @Tags        UserRecipes
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       recipeId  path  string  true  "Recipe internal id (uuid)"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /user-recipes/{recipeId} [delete]
func (h *Handlers) DeleteUserRecipe(c *gin.Context) {
	if err := h.recipes.DeleteAuthored(c.Request.Context(), middleware.AuthUserID(c), c.Param("recipeId")); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "You do not have permission to delete this recipe")
			return
		}
		failService(c, err)
		return
	}
	okStatus(c, http.StatusOK, "Recipe deleted successfully", nil, nil)
}
