// Recipe HTTP handlers.
//
// This file exposes the public catalog surface: recipe CRUD by internal id
// plus listing with an optional limit or count. Single-recipe responses use
// the ordered RecipeView projection.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/services"
	"github.com/peteoy/recipe-backend/internal/utils"
)

// RecipeRequest is the JSON payload for catalog recipe creation and update.
// The display id is optional on create; on update a changed id is checked
// for conflicts first.
type RecipeRequest struct {
	ID                   *int64   `json:"id"`
	Title                string   `json:"title"`
	Ingredients          []string `json:"ingredients"`
	Instructions         string   `json:"instructions"`
	ImageName            string   `json:"imageName"`
	ExtractedIngredients []string `json:"extractedIngredients"`
}

func (r RecipeRequest) input() services.RecipeInput {
	return services.RecipeInput{
		Title:                r.Title,
		Ingredients:          r.Ingredients,
		Instructions:         r.Instructions,
		ImageName:            r.ImageName,
		ExtractedIngredients: r.ExtractedIngredients,
		DisplayID:            r.ID,
	}
}

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes
// @Description Returns the catalog ordered by display id, or only its size when count=true.
// @Tags        Recipes
// @Produce     json
// @Param       count  query  bool  false  "Return the count instead of the list"
// @Param       limit  query  int   false  "Maximum number of recipes (0 = all)"
// @Success     200  {object}  handlers.DataResponse
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	if c.Query("count") == "true" {
		n, err := h.recipes.Count(c.Request.Context())
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, "OK", n)
		return
	}

	limit := utils.AtoiDefault(c.Query("limit"), 0)
	rs, err := h.recipes.List(c.Request.Context(), limit)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, "OK", recipeViews(rs, h.basePath))
}

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Create a catalog recipe
// @Description Creates a recipe; the display id is allocated zero-based unless supplied.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RecipeRequest  true  "Recipe payload"
// @Success     201  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing title or duplicate display id"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Title is required")
		return
	}

	r, err := h.recipes.Create(c.Request.Context(), req.input())
	if err != nil {
		if errors.Is(err, services.ErrDuplicateDisplayID) {
			fail(c, http.StatusBadRequest, ErrCodeConflict, "Recipe ID already exists")
			return
		}
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, "Recipe created", recipeView(r, h.basePath))
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a recipe
// @Description Fetches a recipe by internal id and returns the ordered projection.
// @Tags        Recipes
// @Produce     json
// @Param       id  path  string  true  "Recipe internal id (uuid)"
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	r, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failRecipeRef(c, err)
		return
	}
	ok(c, http.StatusOK, "OK", recipeView(r, h.basePath))
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Update a recipe
// @Description Updates a catalog recipe. A changed display id is checked for conflicts first.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Recipe internal id (uuid)"
// @Param       body  body  handlers.RecipeRequest  true  "Recipe payload"
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing title or duplicate display id"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id} [put]
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Title is required")
		return
	}

	r, err := h.recipes.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		if errors.Is(err, services.ErrDuplicateDisplayID) {
			fail(c, http.StatusBadRequest, ErrCodeConflict, "Recipe ID already exists")
			return
		}
		failRecipeRef(c, err)
		return
	}
	ok(c, http.StatusOK, "Recipe updated", recipeView(r, h.basePath))
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Deletes a catalog recipe by internal id.
// @Tags        Recipes
// @Produce     json
// @Param       id  path  string  true  "Recipe internal id (uuid)"
// @Success     200  {object}  handlers.DataResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	if err := h.recipes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failRecipeRef(c, err)
		return
	}
	ok(c, http.StatusOK, "Recipe deleted", []any{})
}

// failRecipeRef maps errors from the /recipes/:id surface, where a malformed
// id gets the surface's own wording.
func failRecipeRef(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidReference) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Invalid recipe ID format")
		return
	}
	failService(c, err)
}
