package search

import (
	"context"
	"errors"
	"strconv"

	"github.com/minishop-next/internal/models"
)

// ErrDisabled 搜索未启用
var ErrDisabled = errors.New("search disabled")

// Document 商品索引文档
type Document struct {
	ID          uint   `json:"id"`
	SellerID    uint   `json:"seller_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

// Result 搜索命中，IDs 按相关度排序
type Result struct {
	IDs   []uint
	Total int64
}

// Index 商品索引接口
type Index interface {
	Enabled() bool
	IndexProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID uint) error
	Search(ctx context.Context, query string, page, pageSize int) (*Result, error)
}

// NewDocument 从商品构建索引文档
func NewDocument(product *models.Product) Document {
	return Document{
		ID:          product.ID,
		SellerID:    product.SellerID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price.String(),
		ImageURL:    product.ImageURL,
	}
}

func documentID(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}

// NopIndex 未启用搜索时使用，查询返回 ErrDisabled 由调用方回退数据库
type NopIndex struct{}

// Enabled 恒为 false
func (NopIndex) Enabled() bool { return false }

// IndexProduct 忽略
func (NopIndex) IndexProduct(context.Context, *models.Product) error { return nil }

// DeleteProduct 忽略
func (NopIndex) DeleteProduct(context.Context, uint) error { return nil }

// Search 返回 ErrDisabled
func (NopIndex) Search(context.Context, string, int, int) (*Result, error) {
	return nil, ErrDisabled
}
