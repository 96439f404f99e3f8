package service

import (
	"context"
	"errors"
	"strings"

	"github.com/minishop-next/internal/cache"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/repository"
	"github.com/minishop-next/internal/search"
)

// CatalogService 商品目录服务（前台只读）
type CatalogService struct {
	productRepo     repository.ProductRepository
	index           search.Index
	defaultPageSize int
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(productRepo repository.ProductRepository, index search.Index, defaultPageSize int) *CatalogService {
	if index == nil {
		index = search.NopIndex{}
	}
	return &CatalogService{
		productRepo:     productRepo,
		index:           index,
		defaultPageSize: defaultPageSize,
	}
}

// GetProduct 获取商品详情，优先读缓存
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	if cached, hit, err := cache.GetProduct(ctx, id); err != nil {
		logger.Debugw("catalog_product_cache_get_failed", "product_id", id, "error", err)
	} else if hit {
		return cached, nil
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, wrapCause(ErrProductFetchFailed, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := cache.SetProduct(ctx, product); err != nil {
		logger.Debugw("catalog_product_cache_set_failed", "product_id", id, "error", err)
	}
	return product, nil
}

// ListProducts 分页列出商品，越界页返回空列表
func (s *CatalogService) ListProducts(page, pageSize int) ([]models.Product, int64, error) {
	page, pageSize = normalizePagination(page, pageSize, s.defaultPageSize)
	products, total, err := s.productRepo.List(repository.ProductListFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, 0, wrapCause(ErrProductFetchFailed, err)
	}
	return products, total, nil
}

// SearchProducts 关键字搜索，搜索引擎不可用时回退数据库模糊匹配
func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, pageSize int) ([]models.Product, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListProducts(page, pageSize)
	}
	page, pageSize = normalizePagination(page, pageSize, s.defaultPageSize)

	if s.index.Enabled() {
		result, err := s.index.Search(ctx, query, page, pageSize)
		if err == nil {
			products, err := s.loadInOrder(result.IDs)
			if err != nil {
				return nil, 0, err
			}
			return products, result.Total, nil
		}
		if !errors.Is(err, search.ErrDisabled) {
			logger.Warnw("catalog_search_fallback_to_db", "query", query, "error", err)
		}
	}

	products, total, err := s.productRepo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  query,
	})
	if err != nil {
		return nil, 0, wrapCause(ErrSearchFailed, err)
	}
	return products, total, nil
}

// loadInOrder 按搜索命中顺序加载商品，索引中残留的已删除商品被跳过
func (s *CatalogService) loadInOrder(ids []uint) ([]models.Product, error) {
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, wrapCause(ErrSearchFailed, err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			ordered = append(ordered, product)
		}
	}
	return ordered, nil
}
