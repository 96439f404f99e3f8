package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/minishop-next/internal/cache"
	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/events"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/repository"
	"github.com/minishop-next/internal/search"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

const (
	productTitleMinLen       = 3
	productTitleMaxLen       = 255
	productDescriptionMinLen = 5
	productDescriptionMaxLen = 400
	exportBatchSize          = 100
	productSheetName         = "Products"
)

// productSheetHeaders 导入导出共用列顺序
var productSheetHeaders = []string{"title", "price", "description", "image_url"}

// ProductInput 卖家商品编辑输入
type ProductInput struct {
	Title       string
	Price       models.Money
	Description string
	ImageURL    string
}

// SellerProductService 卖家商品管理服务，所有操作限定 seller_id
type SellerProductService struct {
	transactor      repository.Transactor
	productRepo     repository.ProductRepository
	index           search.Index
	publisher       events.Publisher
	defaultPageSize int
	now             func() time.Time
}

// NewSellerProductService 创建卖家商品服务
func NewSellerProductService(
	transactor repository.Transactor,
	productRepo repository.ProductRepository,
	index search.Index,
	publisher events.Publisher,
	defaultPageSize int,
) *SellerProductService {
	if index == nil {
		index = search.NopIndex{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &SellerProductService{
		transactor:      transactor,
		productRepo:     productRepo,
		index:           index,
		publisher:       publisher,
		defaultPageSize: defaultPageSize,
		now:             time.Now,
	}
}

// Create 创建商品
func (s *SellerProductService) Create(ctx context.Context, sellerID uint, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	product := &models.Product{
		SellerID:    sellerID,
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, wrapCause(ErrProductCreateFailed, err)
	}
	s.afterChange(ctx, constants.ProductEventCreated, product)
	return product, nil
}

// Update 更新自己的商品，他人商品视为不存在
func (s *SellerProductService) Update(ctx context.Context, sellerID, productID uint, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(&input); err != nil {
		return nil, err
	}
	product, err := s.getOwn(sellerID, productID)
	if err != nil {
		return nil, err
	}
	product.Title = input.Title
	product.Price = input.Price
	product.Description = input.Description
	product.ImageURL = input.ImageURL
	if err := s.productRepo.Update(product); err != nil {
		return nil, wrapCause(ErrProductUpdateFailed, err)
	}
	s.afterChange(ctx, constants.ProductEventUpdated, product)
	return product, nil
}

// Delete 软删除自己的商品，已下单的订单项不受影响
func (s *SellerProductService) Delete(ctx context.Context, sellerID, productID uint) error {
	product, err := s.getOwn(sellerID, productID)
	if err != nil {
		return err
	}
	return s.delete(ctx, product)
}

// AdminDelete 管理员删除任意商品
func (s *SellerProductService) AdminDelete(ctx context.Context, productID uint) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return wrapCause(ErrProductFetchFailed, err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.delete(ctx, product)
}

// Get 获取自己的商品
func (s *SellerProductService) Get(sellerID, productID uint) (*models.Product, error) {
	return s.getOwn(sellerID, productID)
}

// ListOwn 分页列出自己的商品
func (s *SellerProductService) ListOwn(sellerID uint, page, pageSize int) ([]models.Product, int64, error) {
	page, pageSize = normalizePagination(page, pageSize, s.defaultPageSize)
	products, total, err := s.productRepo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		SellerID: sellerID,
	})
	if err != nil {
		return nil, 0, wrapCause(ErrProductFetchFailed, err)
	}
	return products, total, nil
}

// CountOwn 统计自己的商品数
func (s *SellerProductService) CountOwn(sellerID uint) (int64, error) {
	total, err := s.productRepo.CountBySeller(sellerID)
	if err != nil {
		return 0, wrapCause(ErrProductFetchFailed, err)
	}
	return total, nil
}

// ImportXLSX 从表格批量创建商品，任一行不合法则整体失败
func (s *SellerProductService) ImportXLSX(ctx context.Context, sellerID uint, r io.ReaderAt, size int64) ([]models.Product, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, wrapCause(ErrImportFileInvalid, err)
	}
	products, err := parseProductSheet(file, sellerID)
	if err != nil {
		return nil, err
	}

	err = s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		return s.productRepo.WithTx(tx).CreateBatch(products)
	})
	if err != nil {
		return nil, wrapCause(ErrProductCreateFailed, err)
	}
	logger.Infow("seller_products_imported", "seller_id", sellerID, "count", len(products))
	for i := range products {
		s.afterChange(ctx, constants.ProductEventCreated, &products[i])
	}
	return products, nil
}

// ExportXLSX 导出自己的全部商品
func (s *SellerProductService) ExportXLSX(sellerID uint, w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(productSheetName)
	if err != nil {
		return wrapCause(ErrExportFailed, err)
	}
	header := sheet.AddRow()
	for _, name := range productSheetHeaders {
		header.AddCell().SetString(name)
	}

	for page := 1; ; page++ {
		products, total, err := s.productRepo.List(repository.ProductListFilter{
			Page:     page,
			PageSize: exportBatchSize,
			SellerID: sellerID,
		})
		if err != nil {
			return wrapCause(ErrExportFailed, err)
		}
		for _, product := range products {
			row := sheet.AddRow()
			row.AddCell().SetString(product.Title)
			row.AddCell().SetString(product.Price.String())
			row.AddCell().SetString(product.Description)
			row.AddCell().SetString(product.ImageURL)
		}
		if len(products) == 0 || int64(page*exportBatchSize) >= total {
			break
		}
	}
	if err := file.Write(w); err != nil {
		return wrapCause(ErrExportFailed, err)
	}
	return nil
}

func (s *SellerProductService) getOwn(sellerID, productID uint) (*models.Product, error) {
	if productID == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetBySeller(productID, sellerID)
	if err != nil {
		return nil, wrapCause(ErrProductFetchFailed, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *SellerProductService) delete(ctx context.Context, product *models.Product) error {
	if err := s.productRepo.Delete(product.ID); err != nil {
		return wrapCause(ErrProductDeleteFailed, err)
	}
	s.afterChange(ctx, constants.ProductEventDeleted, product)
	return nil
}

// afterChange 同步搜索索引、清理缓存并发布事件，失败只记录日志
func (s *SellerProductService) afterChange(ctx context.Context, eventType string, product *models.Product) {
	var indexErr error
	if eventType == constants.ProductEventDeleted {
		indexErr = s.index.DeleteProduct(ctx, product.ID)
	} else {
		indexErr = s.index.IndexProduct(ctx, product)
	}
	if indexErr != nil {
		logger.Warnw("seller_product_index_failed", "product_id", product.ID, "event", eventType, "error", indexErr)
	}
	if err := cache.DelProduct(ctx, product.ID); err != nil {
		logger.Debugw("seller_product_cache_del_failed", "product_id", product.ID, "error", err)
	}
	event := events.NewProductChanged(eventType, product, s.now())
	if err := s.publisher.PublishProductChanged(ctx, event); err != nil {
		logger.Warnw("seller_product_event_publish_failed", "product_id", product.ID, "event", eventType, "error", err)
	}
}

func validateProductInput(input *ProductInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	titleLen := utf8.RuneCountInString(input.Title)
	if titleLen < productTitleMinLen || titleLen > productTitleMaxLen {
		return fmt.Errorf("%w: title must be %d-%d characters", ErrProductInvalid, productTitleMinLen, productTitleMaxLen)
	}
	if input.Price.Decimal.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrProductInvalid)
	}
	descLen := utf8.RuneCountInString(input.Description)
	if descLen < productDescriptionMinLen || descLen > productDescriptionMaxLen {
		return fmt.Errorf("%w: description must be %d-%d characters", ErrProductInvalid, productDescriptionMinLen, productDescriptionMaxLen)
	}
	return nil
}

// parseProductSheet 解析首个工作表，首行为表头
func parseProductSheet(file *xlsx.File, sellerID uint) ([]models.Product, error) {
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil, fmt.Errorf("%w: sheet is empty or missing header row", ErrImportFileInvalid)
	}
	rows := file.Sheets[0].Rows
	products := make([]models.Product, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		cell := func(index int) string {
			if row == nil || index >= len(row.Cells) {
				return ""
			}
			return strings.TrimSpace(row.Cells[index].String())
		}
		if cell(0) == "" && cell(1) == "" && cell(2) == "" && cell(3) == "" {
			continue
		}
		price, err := models.NewMoneyFromString(cell(1))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid price %q", ErrImportFileInvalid, i+1, cell(1))
		}
		input := ProductInput{
			Title:       cell(0),
			Price:       price,
			Description: cell(2),
			ImageURL:    cell(3),
		}
		if err := validateProductInput(&input); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrImportFileInvalid, i+1, err)
		}
		products = append(products, models.Product{
			SellerID:    sellerID,
			Title:       input.Title,
			Price:       input.Price,
			Description: input.Description,
			ImageURL:    input.ImageURL,
		})
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: no product rows", ErrImportFileInvalid)
	}
	return products, nil
}
