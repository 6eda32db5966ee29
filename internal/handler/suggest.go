package handler

import (
	"net/http"

	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/service"

	"github.com/gin-gonic/gin"
)

// SuggestHandler fronts the category oracle. Purely advisory: the response
// pre-fills a form field and nothing else.
type SuggestHandler struct{ svc service.SuggestService }

func NewSuggestHandler(svc service.SuggestService) *SuggestHandler {
	return &SuggestHandler{svc: svc}
}

// Suggest godoc
// @Summary      Suggest a category for a product name
// @Tags         suggest
// @Accept       json
// @Produce      json
// @Param        body body dto.SuggestCategoryRequest true "Product name"
// @Success      200 {object} dto.SuggestCategoryResponse
// @Failure      503 {object} apierror.APIError "oracle unavailable"
// @Router       /v1/suggest-category [post]
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req dto.SuggestCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	category, err := h.svc.Suggest(c.Request.Context(), req.ProductName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuggestCategoryResponse{Category: category})
}
