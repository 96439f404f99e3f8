package public

import (
	"strings"

	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Checkout 购物车下单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.Checkout(c.Request.Context(), uid)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_create_failed")
		return
	}
	response.Success(c, order)
}

// ListOrders 本人订单列表，按下单时间倒序
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c, 20)
	orders, total, err := h.OrderService.ListOrders(uid, page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 本人订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseUintParam(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(uid, orderID)
	if err != nil {
		shared.RespondServiceError(c, err, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// GetOrderInvoice 下载本人订单发票
func (h *Handler) GetOrderInvoice(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	orderID, ok := shared.ParseUintParam(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	rendered, err := h.InvoiceService.RenderForUser(uid, orderID, InvoiceFormat(c))
	if err != nil {
		shared.RespondServiceError(c, err, "error.invoice_render_failed")
		return
	}
	response.Attachment(c, rendered.ContentType, rendered.FileName, rendered.Body)
}

// InvoiceFormat 读取发票格式参数，默认 pdf
func InvoiceFormat(c *gin.Context) string {
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		return constants.InvoiceFormatPDF
	}
	return format
}
