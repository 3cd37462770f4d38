package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 180
)

// IngredientAmountInput is one ingredient reference with its amount in a
// recipe payload.
type IngredientAmountInput struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput is a candidate recipe payload for create and update.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmountInput
}

// RecipeFilter narrows ListRecipes results.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uuid.UUID
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Page        int
	Limit       int
}

// RecipeService owns recipe CRUD, validation and the membership tables
// hanging off recipes.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// validateInput enforces the recipe payload rules: at least one tag, at
// least one ingredient, positive non-duplicated ingredient amounts and a
// bounded cooking time.
func validateInput(input *RecipeInput) error {
	if len(input.TagIDs) == 0 {
		return &ValidationError{Field: "tags", Message: "at least one tag is required"}
	}
	if len(input.Ingredients) == 0 {
		return &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}
	seen := make(map[uuid.UUID]bool, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		if ing.Amount <= 0 {
			return &ValidationError{Field: "ingredients", Message: "ingredient amount must be greater than 0"}
		}
		if seen[ing.IngredientID] {
			return &ValidationError{Field: "ingredients", Message: "duplicated ingredient"}
		}
		seen[ing.IngredientID] = true
	}
	if input.CookingTime < MinCookingTime || input.CookingTime > MaxCookingTime {
		return &ValidationError{
			Field:   "cooking_time",
			Message: fmt.Sprintf("cooking_time must be between %d and %d minutes", MinCookingTime, MaxCookingTime),
		}
	}
	if input.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

// resolveReferences loads the referenced tags and checks the referenced
// ingredients exist. Missing references surface as ErrNotFound.
func resolveReferences(tx *gorm.DB, input *RecipeInput) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", input.TagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(input.TagIDs) {
		return nil, fmt.Errorf("tag: %w", ErrNotFound)
	}

	ids := make([]uuid.UUID, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		ids[i] = ing.IngredientID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return nil, err
	}
	if int(count) != len(ids) {
		return nil, fmt.Errorf("ingredient: %w", ErrNotFound)
	}
	return tags, nil
}

// storeImage resolves the submitted image reference. Data URIs are pushed
// to object storage when a store is configured, anything else is kept
// verbatim.
func (s *RecipeService) storeImage(ctx context.Context, image string) (string, error) {
	if s.images == nil || !strings.HasPrefix(image, "data:image") {
		return image, nil
	}
	return s.images.StoreDataURI(ctx, image)
}

// CreateRecipe validates the payload and writes the recipe, its ingredient
// amounts and its tag associations in a single transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, input *RecipeInput) (*models.Recipe, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	var recipeID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveReferences(tx, input)
		if err != nil {
			return err
		}

		recipe := models.Recipe{
			AuthorID:    authorID,
			Name:        input.Name,
			Text:        input.Text,
			ImageURL:    imageURL,
			CookingTime: input.CookingTime,
			Tags:        tags,
		}
		if err := tx.Omit("Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		if err := insertIngredientAmounts(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipeID)
}

// UpdateRecipe replaces the recipe's fields, tag associations and
// ingredient rows with the new set. Only the author may update.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, userID uuid.UUID, input *RecipeInput) (*models.Recipe, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotOwner
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveReferences(tx, input)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         input.Name,
			"text":         input.Text,
			"cooking_time": input.CookingTime,
		}
		if imageURL != "" {
			updates["image_url"] = imageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		// Clear-then-reinsert: the new sets fully replace the old ones.
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertIngredientAmounts(tx, recipe.ID, input.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipeID)
}

func insertIngredientAmounts(tx *gorm.DB, recipeID uuid.UUID, inputs []IngredientAmountInput) error {
	rows := make([]models.RecipeIngredient, len(inputs))
	for i, ing := range inputs {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ing.IngredientID,
			Amount:       ing.Amount,
		}
	}
	return tx.Create(&rows).Error
}

// GetRecipe loads a recipe with its tags, ingredient amounts and author.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes a recipe. Only the author may delete; the membership
// and ingredient rows go with it via cascade.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.RecipeIngredient{},
			&models.FavoriteRecipe{},
			&models.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// ListRecipes returns a page of recipes, newest first, honoring the filter.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		// Subquery instead of a join so a recipe carrying several of the
		// requested tags still shows up once.
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		query = query.
			Joins("JOIN favorite_recipes ON favorite_recipes.recipe_id = recipes.id").
			Where("favorite_recipes.user_id = ?", *filter.FavoritedBy)
	}
	if filter.InCartOf != nil {
		query = query.
			Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipes.id").
			Where("shopping_cart_entries.user_id = ?", *filter.InCartOf)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// ListByAuthor returns the author's recipes, newest first, optionally
// truncated. Used by the subscriptions payload.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}
