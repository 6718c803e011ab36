// Favorite HTTP handlers.
//
// This file exposes the bearer-token favorites surface: the caller's
// favorites as recipe projections, add/remove by recipe id, and a
// membership check.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/http/middleware"
	"github.com/peteoy/recipe-backend/internal/repo"
	"github.com/peteoy/recipe-backend/internal/services"
)

// ListFavorites godoc
// @ID          listFavorites
// @Summary     List the caller's favorites
// @Description Returns the favorited recipes as full projections with derived image URLs.
// @Tags        Favorites
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Success     200  {object}  handlers.StatusResponse
// @Header      200  {string}  ETag  "Weak ETag for the current favorites set"
// @Success     304  {string}  string "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing, expired, or invalid token"
// @Router      /favorites [get]
func (h *Handlers) ListFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.AuthUserID(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := repo.UserStats(ctx, h.relationships.DB, uid); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"favorites:%s:%d:%d"`, uid, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	rs, err := h.relationships.ListFavoriteRecipes(ctx, uid)
	if err != nil {
		failService(c, err)
		return
	}

	views := recipeViews(rs, h.basePath)
	total := len(views)
	okStatus(c, http.StatusOK, "Favorites fetched successfully", gin.H{"favorites": views}, &total)
}

// AddFavorite godoc
// @ID          addFavorite
// @Summary     Favorite a recipe
// @Description Adds the recipe to the caller's favorites and returns the updated list.
// @Tags        Favorites
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       recipeId  path  string  true  "Recipe internal id (uuid)"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id or already favorited"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipe not found"
// @Router      /favorites/{recipeId} [post]
func (h *Handlers) AddFavorite(c *gin.Context) {
	uid := middleware.AuthUserID(c)
	u, err := h.relationships.AddFavorite(c.Request.Context(), uid, c.Param("recipeId"), "")
	if err != nil {
		failService(c, err)
		return
	}

	favs := make([]string, 0, len(u.Favorites))
	for _, f := range u.Favorites {
		favs = append(favs, f.RecipeID)
	}
	okStatus(c, http.StatusOK, "Recipe added to favorites", gin.H{"favorites": favs}, nil)
}

// RemoveFavorite godoc
// @ID          removeFavorite
// @Summary     Unfavorite a recipe
// @Description Removes the recipe from the caller's favorites and returns the updated list. Removing an absent favorite is an error, not a no-op.
// @Tags        Favorites
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       recipeId  path  string  true  "Recipe internal id (uuid)"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id or not favorited"
// @Router      /favorites/{recipeId} [delete]
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	u, err := h.relationships.RemoveFavorite(c.Request.Context(), middleware.AuthUserID(c), c.Param("recipeId"))
	if err != nil {
		if errors.Is(err, services.ErrFavoriteNotFound) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Recipe not in favorites")
			return
		}
		failService(c, err)
		return
	}

	favs := make([]string, 0, len(u.Favorites))
	for _, f := range u.Favorites {
		favs = append(favs, f.RecipeID)
	}
	okStatus(c, http.StatusOK, "Recipe removed from favorites", gin.H{"favorites": favs}, nil)
}

// CheckFavorite godoc
// @ID          checkFavorite
// @Summary     Check favorite status
// @Description Reports whether the recipe is in the caller's favorites.
// @Tags        Favorites
// @Produce     json
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       recipeId  path  string  true  "Recipe internal id (uuid)"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Router      /favorites/check/{recipeId} [get]
func (h *Handlers) CheckFavorite(c *gin.Context) {
	fav, err := h.relationships.IsFavorite(c.Request.Context(), middleware.AuthUserID(c), c.Param("recipeId"))
	if err != nil {
		failService(c, err)
		return
	}
	okStatus(c, http.StatusOK, "Favorite status checked", gin.H{"isFavorited": fav}, nil)
}
