package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pantrywise/backend/internal/domain"
	"github.com/pantrywise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pricingService *usecase.PricingService
	qualityService *usecase.QualityService
	priceProvider  domain.PriceProvider
	qualityData    domain.QualityProvider
	preferences    domain.PreferenceProvider
	resultCache    domain.PricingCache
	cacheTTL       time.Duration
}

// HandlerConfig wires the handler's collaborators.
type HandlerConfig struct {
	PricingService *usecase.PricingService
	QualityService *usecase.QualityService
	PriceProvider  domain.PriceProvider
	QualityData    domain.QualityProvider
	Preferences    domain.PreferenceProvider
	ResultCache    domain.PricingCache
	CacheTTL       time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(config HandlerConfig) *Handler {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &Handler{
		pricingService: config.PricingService,
		qualityService: config.QualityService,
		priceProvider:  config.PriceProvider,
		qualityData:    config.QualityData,
		preferences:    config.Preferences,
		resultCache:    config.ResultCache,
		cacheTTL:       cacheTTL,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pantrywise-backend",
		"version": "1.0.0",
	})
}

// ingredientRequest is one recipe line as submitted by the caller.
type ingredientRequest struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId" binding:"required"`
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Unit        string  `json:"unit" binding:"required"`
}

type priceRecipeRequest struct {
	UserID      string              `json:"userId" binding:"required"`
	Servings    int                 `json:"servings"`
	Ingredients []ingredientRequest `json:"ingredients" binding:"required,min=1,dive"`
}

type publicPriceRequest struct {
	RecipeID    string              `json:"recipeId"`
	Servings    int                 `json:"servings"`
	Ingredients []ingredientRequest `json:"ingredients" binding:"required,min=1,dive"`
}

type qualityRequest struct {
	Ingredients []ingredientRequest `json:"ingredients" binding:"required,min=1,dive"`
}

// PriceRecipe prices a recipe for one user: fetches the user's preferences
// and the candidate prices, then runs the personalized engine. User-mode
// results are preference-dependent and never cached.
func (h *Handler) PriceRecipe(c *gin.Context) {
	var req priceRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCtx, err := h.preferences.PricingContext(c.Request.Context(), req.UserID)
	if err != nil {
		log.Printf("[API] preference lookup failed for user %s: %v", req.UserID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load user preferences"})
		return
	}

	ingredients := toDomainIngredients(req.Ingredients)
	candidates, err := h.priceProvider.PricesForProducts(c.Request.Context(), productIDsOf(ingredients))
	if err != nil {
		h.renderProviderError(c, err)
		return
	}

	result, err := h.pricingService.ComputeForUser(
		c.Request.Context(), ingredients, candidates, userCtx, servingsOrDefault(req.Servings))
	if err != nil {
		h.renderEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PriceRecipePublic returns the anonymous average-price estimate of a
// recipe. Results are cached per recipe when a recipe id is supplied.
func (h *Handler) PriceRecipePublic(c *gin.Context) {
	var req publicPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	servings := servingsOrDefault(req.Servings)
	cacheKey := ""
	if req.RecipeID != "" && h.resultCache != nil {
		cacheKey = fmt.Sprintf("pricing:public:%s:%d", req.RecipeID, servings)
		if cached, err := h.resultCache.Get(c.Request.Context(), cacheKey); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	ingredients := toDomainIngredients(req.Ingredients)
	candidates, err := h.priceProvider.PricesForProducts(c.Request.Context(), productIDsOf(ingredients))
	if err != nil {
		h.renderProviderError(c, err)
		return
	}

	result, err := h.pricingService.ComputePublic(c.Request.Context(), ingredients, candidates, servings)
	if err != nil {
		h.renderEngineError(c, err)
		return
	}

	if cacheKey != "" {
		if err := h.resultCache.Set(c.Request.Context(), cacheKey, result, h.cacheTTL); err != nil {
			log.Printf("[API] failed to cache public pricing for %s: %v", req.RecipeID, err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// RecipeQuality computes the aggregate quality scores of a recipe.
func (h *Handler) RecipeQuality(c *gin.Context) {
	var req qualityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredients := toDomainIngredients(req.Ingredients)
	products, err := h.qualityData.QualityForProducts(c.Request.Context(), productIDsOf(ingredients))
	if err != nil {
		h.renderProviderError(c, err)
		return
	}

	result, err := h.qualityService.ComputeRecipeQuality(ingredients, products)
	if err != nil {
		h.renderEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) renderProviderError(c *gin.Context, err error) {
	log.Printf("[API] provider error: %v", err)
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch price data"})
	}
}

func (h *Handler) renderEngineError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[API] engine error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func toDomainIngredients(reqs []ingredientRequest) []domain.Ingredient {
	ingredients := make([]domain.Ingredient, len(reqs))
	for i, r := range reqs {
		ingredients[i] = domain.Ingredient{
			ID:          r.ID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			Unit:        r.Unit,
		}
	}
	return ingredients
}

func productIDsOf(ingredients []domain.Ingredient) []string {
	seen := make(map[string]struct{}, len(ingredients))
	var ids []string
	for _, ingredient := range ingredients {
		if _, ok := seen[ingredient.ProductID]; ok {
			continue
		}
		seen[ingredient.ProductID] = struct{}{}
		ids = append(ids, ingredient.ProductID)
	}
	return ids
}

func servingsOrDefault(servings int) int {
	if servings <= 0 {
		return 1
	}
	return servings
}
