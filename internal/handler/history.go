package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Gopal274/Ssdn/internal/apierror"
	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/infra"
	"github.com/Gopal274/Ssdn/internal/repository"
	"github.com/Gopal274/Ssdn/internal/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the rate history trail of one product: listing,
// selective deletion, restore, and the printable PDF report.
type HistoryHandler struct {
	svc  service.LedgerService
	repo repository.ProductRepository
}

func NewHistoryHandler(svc service.LedgerService, repo repository.ProductRepository) *HistoryHandler {
	return &HistoryHandler{svc: svc, repo: repo}
}

// List godoc
// @Summary      Rate history of a product, newest first
// @Tags         history
// @Produce      json
// @Param        id    path  string true  "Product id"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Entries per page (default 50, max 200)"
// @Success      200 {object} dto.HistoryListResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id}/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	product, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// The history is embedded in the product record; paginate the slice.
	total := len(product.RateHistory)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, dto.HistoryListResponse{
		Data:  product.RateHistory[start:end],
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// DeleteEntry removes exactly one history entry, addressed by entry_id or by
// exact quotation timestamp. Removing nothing is a 404, never a silent success.
func (h *HistoryHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.DeleteHistoryEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DeleteHistoryEntry(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Restore godoc
// @Summary      Discard the current rate and promote the newest history entry
// @Tags         history
// @Produce      json
// @Param        id path string true "Product id"
// @Success      200 {object} dto.ProductResponse
// @Failure      400 {object} apierror.APIError "history is empty"
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id}/current-rate [delete]
func (h *HistoryHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RestoreFromHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF streams the printable rate-history report.
func (h *HistoryHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("product not found"))
			return
		}
		respondError(c, err)
		return
	}

	data, err := infra.GenerateHistoryPDF(product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "rate-history-"+product.ID.String()+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
