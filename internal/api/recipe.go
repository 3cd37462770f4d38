package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	subscriptions *service.SubscriptionService
	authService   *service.AuthService
	createLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, subscriptions *service.SubscriptionService, authService *service.AuthService, createLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		subscriptions: subscriptions,
		authService:   authService,
		createLimiter: createLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authed := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", authed, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		if h.createLimiter != nil {
			recipes.POST("", authed, h.createLimiter.RateLimitMiddleware(), h.CreateRecipe)
		} else {
			recipes.POST("", authed, h.CreateRecipe)
		}
		recipes.PATCH("/:id", authed, h.UpdateRecipe)
		recipes.DELETE("/:id", authed, h.DeleteRecipe)
		recipes.POST("/:id/favorite", authed, h.addMembership(service.KindFavorite))
		recipes.DELETE("/:id/favorite", authed, h.removeMembership(service.KindFavorite))
		recipes.POST("/:id/shopping_cart", authed, h.addMembership(service.KindShoppingCart))
		recipes.DELETE("/:id/shopping_cart", authed, h.removeMembership(service.KindShoppingCart))
	}
}

// IngredientAmountRequest references a catalog ingredient with its amount.
type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

type RecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time"`
	Tags        []uuid.UUID               `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
}

func (r *RecipeRequest) toInput() *service.RecipeInput {
	ingredients := make([]service.IngredientAmountInput, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = service.IngredientAmountInput{IngredientID: ing.ID, Amount: ing.Amount}
	}
	return &service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: ingredients,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := pageParams(c)
	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Page:     page,
		Limit:    limit,
	}

	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	// Membership filters are viewer-relative and ignored for anonymous
	// requests.
	if id := viewerID(c); id != uuid.Nil {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = &id
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InCartOf = &id
		}
	}

	recipes, count, err := h.recipeService.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	results := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		results[i] = NewRecipeResponse(&recipes[i], viewer)
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "results": results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, NewRecipeResponse(recipe, viewer))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), viewerID(c), req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusCreated, NewRecipeResponse(recipe, viewer))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, viewerID(c), req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, NewRecipeResponse(recipe, viewer))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, viewerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addMembership handles POST /recipes/:id/favorite and
// /recipes/:id/shopping_cart with one toggle semantics: 201 with the
// recipe summary, 400 when already present.
func (h *RecipeHandler) addMembership(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		recipe, err := h.recipeService.AddMembership(c.Request.Context(), kind, viewerID(c), id)
		if err != nil {
			if errors.Is(err, service.ErrAlreadyExists) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("recipe is already in your %s", kind)})
				return
			}
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, NewRecipeSummary(recipe))
	}
}

// removeMembership handles the DELETE side: 204 on success, 400 when the
// recipe was not present.
func (h *RecipeHandler) removeMembership(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		if err := h.recipeService.RemoveMembership(c.Request.Context(), kind, viewerID(c), id); err != nil {
			if errors.Is(err, service.ErrNotInList) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("recipe is not in your %s", kind)})
				return
			}
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart streams the aggregated shopping list as a CSV
// attachment with (name, unit, total) rows.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.recipeService.ShoppingList(c.Request.Context(), viewerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="shopping_list.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	for _, item := range items {
		record := []string{item.Name, item.Measurement, strconv.Itoa(item.Total)}
		if err := w.Write(record); err != nil {
			return
		}
	}
	w.Flush()
}

// viewer assembles the viewer-relative sets for recipe responses.
func (h *RecipeHandler) viewer(c *gin.Context) (Viewer, error) {
	id := viewerID(c)
	if id == uuid.Nil {
		return Viewer{}, nil
	}

	favorites, cart, err := h.recipeService.MembershipSets(c.Request.Context(), id)
	if err != nil {
		return Viewer{}, err
	}
	following, err := h.subscriptions.FollowingSet(c.Request.Context(), id)
	if err != nil {
		return Viewer{}, err
	}
	return Viewer{
		ID:            id,
		Authenticated: true,
		Favorites:     favorites,
		Cart:          cart,
		Following:     following,
	}, nil
}
