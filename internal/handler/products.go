package handler

import (
	"net/http"

	"github.com/Gopal274/Ssdn/internal/apierror"
	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductsHandler exposes the rate ledger over HTTP.
type ProductsHandler struct{ svc service.LedgerService }

func NewProductsHandler(svc service.LedgerService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a product with its initial rate
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateProductRequest true "Product"
// @Success      201 {object} dto.ProductResponse
// @Failure      409 {object} apierror.APIError "duplicate product name"
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List products, most recently quoted first
// @Tags         products
// @Produce      json
// @Param        name     query string false "Name filter (substring)"
// @Param        party    query string false "Supplier filter (exact)"
// @Param        category query string false "Category filter (exact)"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Page size (default 20, max 100)"
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateRate godoc
// @Summary      Supersede the current rate
// @Description  Moves the current rate to the front of the history and installs a new current rate.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id   path string true "Product id"
// @Param        body body dto.UpdateRateRequest true "New rate"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError "concurrent update"
// @Router       /v1/products/{id}/rate [put]
func (h *ProductsHandler) UpdateRate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateRateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SupersedeRate(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AmendDetails patches metadata on the current rate; price fields stay put.
func (h *ProductsHandler) AmendDetails(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AmendDetailsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AmendDetails(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a product and its entire history
// @Tags         products
// @Param        id path string true "Product id"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return uuid.Nil, false
	}
	return id, true
}
