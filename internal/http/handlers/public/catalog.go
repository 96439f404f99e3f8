package public

import (
	"strings"

	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c, h.defaultPageSize())
	products, total, err := h.CatalogService.ListProducts(page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// SearchProducts 商品搜索
func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page, pageSize := shared.ParsePagination(c, h.defaultPageSize())
	products, total, err := h.CatalogService.SearchProducts(c.Request.Context(), query, page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.search_failed")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := shared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.CatalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}
