package public

import (
	"bytes"
	"fmt"

	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	maxImportFileSize = 5 << 20
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SellerProductRequest 卖家商品编辑请求
type SellerProductRequest struct {
	Title       string       `json:"title" binding:"required"`
	Price       models.Money `json:"price"`
	Description string       `json:"description" binding:"required"`
	ImageURL    string       `json:"image_url"`
}

func (r SellerProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

// ListSellerProducts 我的商品列表
func (h *Handler) ListSellerProducts(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c, 20)
	products, total, err := h.SellerProductService.ListOwn(uid, page, pageSize)
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// CountSellerProducts 我的商品数量
func (h *Handler) CountSellerProducts(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	total, err := h.SellerProductService.CountOwn(uid)
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, gin.H{"count": total})
}

// GetSellerProduct 我的商品详情
func (h *Handler) GetSellerProduct(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.SellerProductService.Get(uid, productID)
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// CreateSellerProduct 发布商品
func (h *Handler) CreateSellerProduct(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var req SellerProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		return
	}
	product, err := h.SellerProductService.Create(c.Request.Context(), uid, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_create_failed")
		return
	}
	response.Success(c, product)
}

// UpdateSellerProduct 编辑商品
func (h *Handler) UpdateSellerProduct(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req SellerProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		return
	}
	product, err := h.SellerProductService.Update(c.Request.Context(), uid, productID, req.toInput())
	if err != nil {
		shared.RespondServiceError(c, err, "error.product_update_failed")
		return
	}
	response.Success(c, product)
}

// DeleteSellerProduct 删除商品
func (h *Handler) DeleteSellerProduct(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	productID, ok := shared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.SellerProductService.Delete(c.Request.Context(), uid, productID); err != nil {
		shared.RespondServiceError(c, err, "error.product_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ImportSellerProducts 表格批量导入商品
func (h *Handler) ImportSellerProducts(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil || header.Size <= 0 || header.Size > maxImportFileSize {
		shared.RespondError(c, response.CodeBadRequest, "error.import_file_invalid", nil)
		return
	}
	file, err := header.Open()
	if err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.import_file_invalid", err)
		return
	}
	defer file.Close()

	products, err := h.SellerProductService.ImportXLSX(c.Request.Context(), uid, file, header.Size)
	if err != nil {
		shared.RespondServiceError(c, err, "error.import_failed")
		return
	}
	response.Success(c, gin.H{"imported": len(products), "items": products})
}

// ExportSellerProducts 导出我的商品为表格
func (h *Handler) ExportSellerProducts(c *gin.Context) {
	uid, ok := shared.GetUserID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.SellerProductService.ExportXLSX(uid, &buf); err != nil {
		shared.RespondServiceError(c, err, "error.export_failed")
		return
	}
	response.Attachment(c, xlsxContentType, fmt.Sprintf("products-%d.xlsx", uid), buf.Bytes())
}
