package service

import (
	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/repository"
)

// LineItem 购物车行（实时价格）
type LineItem struct {
	Product   *models.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal models.Money    `json:"line_total"`
}

// CartView 购物车视图
type CartView struct {
	Items     []LineItem   `json:"items"`
	ItemCount int          `json:"item_count"`
	Subtotal  models.Money `json:"subtotal"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreateCart 获取或创建用户购物车
func (s *CartService) GetOrCreateCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrCartItemInvalid
	}
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, wrapCause(ErrCartFetchFailed, err)
	}
	return cart, nil
}

// AddOrIncrement 已有商品行数量加 1，否则以 startQuantity 新建
func (s *CartService) AddOrIncrement(userID, productID uint, startQuantity int) error {
	if productID == 0 || startQuantity < 1 {
		return ErrCartItemInvalid
	}
	if startQuantity > constants.MaxCartItemQuantity {
		return ErrCartQuantityLimit
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return wrapCause(ErrProductFetchFailed, err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return err
	}

	affected, err := s.cartRepo.IncrementItem(cart.ID, productID, 1, constants.MaxCartItemQuantity)
	if err != nil {
		return wrapCause(ErrCartUpdateFailed, err)
	}
	if affected > 0 {
		return nil
	}
	// 未命中可能是行不存在，也可能已达上限；插入冲突时再自增区分两者
	err = s.cartRepo.CreateItem(&models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: startQuantity})
	if err == nil {
		return nil
	}
	if !repository.IsDuplicate(err) {
		return wrapCause(ErrCartUpdateFailed, err)
	}
	logger.Debugw("cart_add_existing_line", "cart_id", cart.ID, "product_id", productID)
	affected, err = s.cartRepo.IncrementItem(cart.ID, productID, 1, constants.MaxCartItemQuantity)
	if err != nil {
		return wrapCause(ErrCartUpdateFailed, err)
	}
	if affected == 0 {
		return ErrCartQuantityLimit
	}
	return nil
}

// UpdateQuantity 设置数量，0 表示移除
func (s *CartService) UpdateQuantity(userID, productID uint, quantity int) error {
	if productID == 0 || quantity < 0 {
		return ErrCartItemInvalid
	}
	if quantity > constants.MaxCartItemQuantity {
		return ErrCartQuantityLimit
	}
	if quantity == 0 {
		return s.RemoveLineItem(userID, productID)
	}
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return err
	}
	affected, err := s.cartRepo.SetItemQuantity(cart.ID, productID, quantity)
	if err != nil {
		return wrapCause(ErrCartUpdateFailed, err)
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// RemoveLineItem 移除商品行，不存在时无操作
func (s *CartService) RemoveLineItem(userID, productID uint) error {
	if productID == 0 {
		return ErrCartItemInvalid
	}
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.DeleteItem(cart.ID, productID); err != nil {
		return wrapCause(ErrCartUpdateFailed, err)
	}
	return nil
}

// ListLineItems 列出购物车行，已下架商品不展示
func (s *CartService) ListLineItems(userID uint) ([]LineItem, error) {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, wrapCause(ErrCartFetchFailed, err)
	}
	return toLineItems(items), nil
}

// ComputeSubtotal 按实时价格计算小计
func (s *CartService) ComputeSubtotal(userID uint) (models.Money, error) {
	lines, err := s.ListLineItems(userID)
	if err != nil {
		return models.ZeroMoney(), err
	}
	return subtotalOf(lines), nil
}

// View 购物车行与小计
func (s *CartService) View(userID uint) (*CartView, error) {
	lines, err := s.ListLineItems(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: lines, Subtotal: subtotalOf(lines)}
	for _, line := range lines {
		view.ItemCount += line.Quantity
	}
	return view, nil
}

// Clear 清空购物车，可重复调用
func (s *CartService) Clear(userID uint) error {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Clear(cart.ID); err != nil {
		return wrapCause(ErrCartUpdateFailed, err)
	}
	return nil
}

func toLineItems(items []models.CartItem) []LineItem {
	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lines = append(lines, LineItem{
			Product:   item.Product,
			Quantity:  item.Quantity,
			LineTotal: item.Product.Price.MulInt(item.Quantity),
		})
	}
	return lines
}

func subtotalOf(lines []LineItem) models.Money {
	total := models.ZeroMoney()
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}
	return total
}
