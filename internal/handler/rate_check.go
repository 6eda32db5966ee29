package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gopal274/Ssdn/internal/apierror"
	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/repository"
	"github.com/Gopal274/Ssdn/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateCheckHandler serves the public current-rate lookup by product name.
// Read-only, no side effects; answers from Redis when it can. The ledger
// deletes the cache key on every mutation, so a hit is never stale for long.
type RateCheckHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewRateCheckHandler(repo repository.ProductRepository, rdb *redis.Client, ttl time.Duration) *RateCheckHandler {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &RateCheckHandler{repo: repo, rdb: rdb, ttl: ttl}
}

// GetByName godoc
// @Summary      Current rate of a product by exact name (no side effects)
// @Tags         rate
// @Produce      json
// @Param        name path string true "Product name"
// @Success      200 {object} dto.RateCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/rate/{name} [get]
func (h *RateCheckHandler) GetByName(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()
	cacheKey := service.RateCacheKey(name)

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.RateCheckResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	product, err := h.repo.FindByName(ctx, name)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	resp := dto.RateCheckResponse{
		ProductName: product.ProductName,
		Unit:        product.Unit,
		FinalRate:   product.CurrentRate.FinalRate,
		PartyName:   product.CurrentRate.PartyName,
		Category:    product.CurrentRate.Category,
		UpdatedAt:   product.CurrentRate.UpdatedAt.Format(time.RFC3339),
	}

	// Cache populate is best effort.
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, h.ttl).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
