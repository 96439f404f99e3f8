package public

import (
	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求，已有行时固定加一
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest 设置数量请求，0 表示删除
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车行与小计
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.View(uid)
	if err != nil {
		shared.RespondServiceError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if err := h.CartService.AddOrIncrement(uid, req.ProductID, quantity); err != nil {
		shared.RespondServiceError(c, err, "error.cart_update_failed")
		return
	}
	h.respondCart(c, uid)
}

// UpdateCartItem 设置购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParseUintParam(c, "product_id", "error.cart_item_invalid")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}
	if err := h.CartService.UpdateQuantity(uid, productID, *req.Quantity); err != nil {
		shared.RespondServiceError(c, err, "error.cart_update_failed")
		return
	}
	h.respondCart(c, uid)
}

// DeleteCartItem 删除购物车行，不存在时同样成功
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParseUintParam(c, "product_id", "error.cart_item_invalid")
	if !ok {
		return
	}
	if err := h.CartService.RemoveLineItem(uid, productID); err != nil {
		shared.RespondServiceError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		shared.RespondServiceError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

func (h *Handler) respondCart(c *gin.Context, uid uint) {
	view, err := h.CartService.View(uid)
	if err != nil {
		shared.RespondServiceError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, view)
}
