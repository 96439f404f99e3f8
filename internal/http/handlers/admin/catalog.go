package admin

import (
	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 全部商品 (Admin)
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c, 20)
	products, total, err := h.CatalogService.ListProducts(page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// DeleteProduct 删除任意商品 (Admin)
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := shared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.SellerProductService.AdminDelete(c.Request.Context(), productID); err != nil {
		shared.RespondServiceError(c, err, "error.product_delete_failed")
		return
	}
	adminID, _ := c.Get(shared.ContextKeyAdminID)
	shared.RequestLog(c).Infow("admin_product_deleted", "admin_id", adminID, "product_id", productID)
	response.Success(c, gin.H{"deleted": true})
}
