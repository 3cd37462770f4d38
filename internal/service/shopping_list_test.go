package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestShoppingList_AggregatesAcrossRecipes(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "cook", "cook@example.com", "password123")
	fan := testhelpers.CreateTestUser(t, db, "fan", "fan@example.com", "password123")
	tag := testhelpers.CreateTestTag(t, db, "Breakfast", "breakfast")
	flour := testhelpers.CreateTestIngredient(t, db, "flour", "g")
	milk := testhelpers.CreateTestIngredient(t, db, "milk", "ml")

	pancakes := testhelpers.CreateTestRecipe(t, db, author.ID, "Pancakes", tag, flour, 200)
	bread := testhelpers.CreateTestRecipe(t, db, author.ID, "Bread", tag, flour, 100)
	porridge := testhelpers.CreateTestRecipe(t, db, author.ID, "Porridge", tag, milk, 300)

	for _, recipeID := range []uuid.UUID{pancakes.ID, bread.ID, porridge.ID} {
		_, err := svc.AddMembership(ctx, service.KindShoppingCart, fan.ID, recipeID)
		require.NoError(t, err)
	}

	items, err := svc.ShoppingList(ctx, fan.ID)
	require.NoError(t, err)

	// Grouped by ingredient, summed, ordered by name.
	require.Len(t, items, 2)
	assert.Equal(t, service.ShoppingListItem{Name: "flour", Measurement: "g", Total: 300}, items[0])
	assert.Equal(t, service.ShoppingListItem{Name: "milk", Measurement: "ml", Total: 300}, items[1])
}

func TestShoppingList_SameNameDifferentUnit(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "cook", "cook@example.com", "password123")
	tag := testhelpers.CreateTestTag(t, db, "Breakfast", "breakfast")
	sugarGrams := testhelpers.CreateTestIngredient(t, db, "sugar", "g")
	sugarSpoons := testhelpers.CreateTestIngredient(t, db, "sugar", "tbsp")

	cake := testhelpers.CreateTestRecipe(t, db, author.ID, "Cake", tag, sugarGrams, 150)
	tea := testhelpers.CreateTestRecipe(t, db, author.ID, "Tea", tag, sugarSpoons, 2)

	_, err := svc.AddMembership(ctx, service.KindShoppingCart, author.ID, cake.ID)
	require.NoError(t, err)
	_, err = svc.AddMembership(ctx, service.KindShoppingCart, author.ID, tea.ID)
	require.NoError(t, err)

	items, err := svc.ShoppingList(ctx, author.ID)
	require.NoError(t, err)

	// Different units never merge.
	require.Len(t, items, 2)
	assert.Equal(t, 150, items[0].Total)
	assert.Equal(t, 2, items[1].Total)
}

func TestShoppingList_EmptyCart(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewRecipeService(db, nil)

	fan := testhelpers.CreateTestUser(t, db, "fan", "fan@example.com", "password123")

	_, err := svc.ShoppingList(context.Background(), fan.ID)
	assert.ErrorIs(t, err, service.ErrEmptyCart)
}
