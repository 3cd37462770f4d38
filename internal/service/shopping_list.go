package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
)

// ShoppingListItem is one aggregated line of the exported shopping list.
type ShoppingListItem struct {
	Name        string
	Measurement string
	Total       int
}

// ShoppingList aggregates ingredient amounts across every recipe in the
// user's cart: grouped by (name, measurement unit), summed, ordered by
// ingredient name. An empty cart is a distinct error, not an empty list.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var entries int64
	err := s.db.WithContext(ctx).Model(&models.ShoppingCartEntry{}).
		Where("user_id = ?", userID).
		Count(&entries).Error
	if err != nil {
		return nil, err
	}
	if entries == 0 {
		return nil, ErrEmptyCart
	}

	var items []ShoppingListItem
	err = s.db.WithContext(ctx).
		Table("shopping_cart_entries").
		Select("ingredients.name AS name, ingredients.measurement AS measurement, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
