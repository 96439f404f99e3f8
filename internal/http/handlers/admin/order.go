package admin

import (
	"github.com/minishop-next/internal/http/handlers/public"
	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListOrders 全部订单 (Admin)
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c, 20)
	orders, total, err := h.OrderService.ListAllOrders(page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情 (Admin)
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := shared.ParseUintParam(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByID(orderID)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// GetOrderInvoice 订单发票 (Admin)
func (h *Handler) GetOrderInvoice(c *gin.Context) {
	orderID, ok := shared.ParseUintParam(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	rendered, err := h.InvoiceService.RenderForAdmin(orderID, public.InvoiceFormat(c))
	if err != nil {
		shared.RespondServiceError(c, err, "error.invoice_render_failed")
		return
	}
	response.Attachment(c, rendered.ContentType, rendered.FileName, rendered.Body)
}
