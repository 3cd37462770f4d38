package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	db            *gorm.DB
	authService   *service.AuthService
	subscriptions *service.SubscriptionService
	recipeService *service.RecipeService
}

func NewUserHandler(db *gorm.DB, authService *service.AuthService, subscriptions *service.SubscriptionService, recipeService *service.RecipeService) *UserHandler {
	return &UserHandler{
		db:            db,
		authService:   authService,
		subscriptions: subscriptions,
		recipeService: recipeService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.authService), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email,max=150"`
	FirstName string `json:"first_name" binding:"max=20"`
	LastName  string `json:"last_name" binding:"max=30"`
	Password  string `json:"password" binding:"required,min=6"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req.Username, req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewUserResponse(user, Viewer{}))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	var count int64
	if err := h.db.Model(&models.User{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	var users []models.User
	err := h.db.Order("username").Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	results := make([]UserResponse, len(users))
	for i := range users {
		results[i] = NewUserResponse(&users[i], viewer)
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "results": results})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(&user, viewer))
}

func (h *UserHandler) Me(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, "id = ?", viewerID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(&user, Viewer{}))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	author, err := h.subscriptions.Subscribe(c.Request.Context(), viewerID(c), authorID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp, err := h.subscriptionResponse(c, author)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build subscription"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), viewerID(c), authorID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the viewer follows, each with their
// recipes truncated by the recipes_limit query parameter.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, limit := pageParams(c)

	authors, count, err := h.subscriptions.Subscriptions(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	results := make([]SubscriptionResponse, len(authors))
	for i := range authors {
		resp, err := h.subscriptionResponse(c, &authors[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build subscriptions"})
			return
		}
		results[i] = resp
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "results": results})
}

func (h *UserHandler) subscriptionResponse(c *gin.Context, author *models.User) (SubscriptionResponse, error) {
	recipesLimit := 0
	if v, err := strconv.Atoi(c.Query("recipes_limit")); err == nil && v > 0 {
		recipesLimit = v
	}

	recipes, recipesCount, err := h.recipeService.ListByAuthor(c.Request.Context(), author.ID, recipesLimit)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	viewer, err := h.viewer(c)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	summaries := make([]RecipeSummary, len(recipes))
	for i := range recipes {
		summaries[i] = NewRecipeSummary(&recipes[i])
	}
	return SubscriptionResponse{
		UserResponse: NewUserResponse(author, viewer),
		Recipes:      summaries,
		RecipesCount: recipesCount,
	}, nil
}

// viewer builds the viewer context for user responses: only the following
// set matters here.
func (h *UserHandler) viewer(c *gin.Context) (Viewer, error) {
	id := viewerID(c)
	if id == uuid.Nil {
		return Viewer{}, nil
	}
	following, err := h.subscriptions.FollowingSet(c.Request.Context(), id)
	if err != nil {
		return Viewer{}, err
	}
	return Viewer{ID: id, Authenticated: true, Following: following}, nil
}
