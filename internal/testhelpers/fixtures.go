package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// OpenTestDB returns an in-memory sqlite database with the full schema.
// A unique shared-cache name keeps each test isolated while letting the
// connection pool see the same database.
func OpenTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, migrateAll(db))
	return db
}

// CreateTestUser inserts a user with a bcrypt-hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestTag inserts a tag with the first palette color.
func CreateTestTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	tag := &models.Tag{
		Name:  name,
		Color: models.TagColors[0],
		Slug:  slug,
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// CreateTestIngredient inserts an ingredient.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, measurement string) *models.Ingredient {
	ingredient := &models.Ingredient{
		Name:        name,
		Measurement: measurement,
	}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateTestRecipe inserts a minimal valid recipe owned by authorID, with
// one tag and one ingredient amount.
func CreateTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string, tag *models.Tag, ingredient *models.Ingredient, amount int) *models.Recipe {
	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        "Instructions for " + name,
		ImageURL:    "http://example.com/" + name + ".png",
		CookingTime: 30,
		Tags:        []models.Tag{*tag},
	}
	require.NoError(t, db.Omit("Ingredients").Create(recipe).Error)
	require.NoError(t, db.Create(&models.RecipeIngredient{
		RecipeID:     recipe.ID,
		IngredientID: ingredient.ID,
		Amount:       amount,
	}).Error)
	return recipe
}

// MockTokenValidator satisfies the middleware token validator with fixed
// claims or a fixed error.
type MockTokenValidator struct {
	Claims *types.TokenClaims
	Error  error
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Claims, nil
}
