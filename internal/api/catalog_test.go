package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestListTagsEndpoint(t *testing.T) {
	server := newTestServer(t)
	testhelpers.CreateTestTag(t, server.db, "Dinner", "dinner")
	breakfast := testhelpers.CreateTestTag(t, server.db, "Breakfast", "breakfast")

	w := server.do(t, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []api.TagResponse
	decodeJSON(t, w, &tags)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "Dinner", tags[1].Name)

	w = server.do(t, http.MethodGet, "/api/v1/tags/"+breakfast.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tag api.TagResponse
	decodeJSON(t, w, &tag)
	assert.Equal(t, "breakfast", tag.Slug)
	assert.NotEmpty(t, tag.Color)

	w = server.do(t, http.MethodGet, "/api/v1/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListIngredientsEndpoint_PrefixSearch(t *testing.T) {
	server := newTestServer(t)
	testhelpers.CreateTestIngredient(t, server.db, "Flour", "g")
	testhelpers.CreateTestIngredient(t, server.db, "flax seeds", "g")
	testhelpers.CreateTestIngredient(t, server.db, "milk", "ml")

	var ingredients []api.IngredientResponse

	w := server.do(t, http.MethodGet, "/api/v1/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ingredients)
	assert.Len(t, ingredients, 3)

	// Prefix match is case-insensitive.
	w = server.do(t, http.MethodGet, "/api/v1/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ingredients)
	assert.Len(t, ingredients, 2)

	w = server.do(t, http.MethodGet, "/api/v1/ingredients?name=milk", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "ml", ingredients[0].Measurement)
}
