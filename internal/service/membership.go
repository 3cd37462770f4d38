package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// MembershipKind selects which user↔recipe relation a toggle acts on.
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorites"
	KindShoppingCart MembershipKind = "shopping cart"
)

func membershipRow(kind MembershipKind, userID, recipeID uuid.UUID) interface{} {
	if kind == KindFavorite {
		return &models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	}
	return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
}

func membershipModel(kind MembershipKind) interface{} {
	if kind == KindFavorite {
		return &models.FavoriteRecipe{}
	}
	return &models.ShoppingCartEntry{}
}

// AddMembership puts the recipe into the user's favorites or cart. Adding
// twice fails with ErrAlreadyExists; the unique index backs this up under
// concurrent adds. Returns the affected recipe for the response summary.
func (s *RecipeService) AddMembership(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(membershipModel(kind)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	if err := s.db.WithContext(ctx).Create(membershipRow(kind, userID, recipeID)).Error; err != nil {
		// A concurrent add may win the race between the check and the
		// insert; the constraint turns that into the same duplicate error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &recipe, nil
}

// RemoveMembership takes the recipe out of the user's favorites or cart.
// Removing an absent relation fails with ErrNotInList.
func (s *RecipeService) RemoveMembership(ctx context.Context, kind MembershipKind, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(membershipModel(kind))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotInList
	}
	return nil
}

// MembershipSets returns the recipe IDs the viewer has favorited and
// carted, for viewer-relative response flags. Both sets are empty for the
// anonymous viewer.
func (s *RecipeService) MembershipSets(ctx context.Context, viewerID uuid.UUID) (favorites, cart map[uuid.UUID]bool, err error) {
	favorites = make(map[uuid.UUID]bool)
	cart = make(map[uuid.UUID]bool)
	if viewerID == uuid.Nil {
		return favorites, cart, nil
	}

	var favRows []models.FavoriteRecipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", viewerID).Find(&favRows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range favRows {
		favorites[row.RecipeID] = true
	}

	var cartRows []models.ShoppingCartEntry
	if err := s.db.WithContext(ctx).Where("user_id = ?", viewerID).Find(&cartRows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range cartRows {
		cart[row.RecipeID] = true
	}
	return favorites, cart, nil
}
