package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
)

// Viewer is the identity a response is shaped for. The zero value is the
// anonymous viewer: every viewer-relative flag renders false.
type Viewer struct {
	ID            uuid.UUID
	Authenticated bool
	Favorites     map[uuid.UUID]bool
	Cart          map[uuid.UUID]bool
	Following     map[uuid.UUID]bool
}

// viewerID returns the authenticated user's ID from the gin context, or
// uuid.Nil for anonymous requests.
func viewerID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Measurement string    `json:"measurement_unit"`
}

// RecipeIngredientResponse flattens an ingredient together with its amount
// in the recipe.
type RecipeIngredientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Measurement string    `json:"measurement_unit"`
	Amount      int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsInFavorite     bool                       `json:"is_in_favorite"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// RecipeSummary is the compact recipe shape used by toggle responses and
// subscription payloads.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionResponse is an author the viewer follows, with a slice of
// their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func NewUserResponse(u *models.User, viewer Viewer) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: viewer.Authenticated && viewer.Following[u.ID],
	}
}

func NewTagResponse(t *models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func NewIngredientResponse(i *models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, Measurement: i.Measurement}
}

// NewRecipeResponse shapes a stored recipe for the given viewer. The
// membership flags are always relative to the viewer, never the author,
// and default to false for anonymous viewers.
func NewRecipeResponse(r *models.Recipe, viewer Viewer) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i := range r.Tags {
		tags[i] = NewTagResponse(&r.Tags[i])
	}

	ingredients := make([]RecipeIngredientResponse, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:          ri.IngredientID,
			Name:        ri.Ingredient.Name,
			Measurement: ri.Ingredient.Measurement,
			Amount:      ri.Amount,
		}
	}

	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           NewUserResponse(&r.Author, viewer),
		Ingredients:      ingredients,
		IsInFavorite:     viewer.Authenticated && viewer.Favorites[r.ID],
		IsInShoppingCart: viewer.Authenticated && viewer.Cart[r.ID],
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		CreatedAt:        r.CreatedAt,
	}
}

func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}
