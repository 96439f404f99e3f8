package service

import (
	"context"
	"errors"

	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/queue"
	"github.com/minishop-next/internal/repository"

	"gorm.io/gorm"
)

// OrderTaskQueue 下单后的异步任务投递
type OrderTaskQueue interface {
	Enabled() bool
	EnqueueOrderPlaced(payload queue.OrderPayload) error
}

// OrderService 订单服务
type OrderService struct {
	transactor      repository.Transactor
	orderRepo       repository.OrderRepository
	cartRepo        repository.CartRepository
	tasks           OrderTaskQueue
	defaultPageSize int
}

// NewOrderService 创建订单服务
func NewOrderService(
	transactor repository.Transactor,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	tasks OrderTaskQueue,
	defaultPageSize int,
) *OrderService {
	return &OrderService{
		transactor:      transactor,
		orderRepo:       orderRepo,
		cartRepo:        cartRepo,
		tasks:           tasks,
		defaultPageSize: defaultPageSize,
	}
}

// Checkout 购物车转订单：同一事务内读取购物车、写入订单与订单项、清空购物车
func (s *OrderService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrCartItemInvalid
	}
	var order *models.Order
	err := s.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		created, err := s.checkoutTx(s.cartRepo.WithTx(tx), s.orderRepo.WithTx(tx), userID)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, s.mapCheckoutError(userID, err)
	}

	logger.Infow("order_checkout_committed",
		"order_id", order.ID,
		"user_id", userID,
		"total_amount", order.TotalAmount.String(),
		"item_count", order.ItemCount,
	)
	s.dispatchOrderPlaced(order)
	return order, nil
}

func (s *OrderService) checkoutTx(carts repository.CartRepository, orders repository.OrderRepository, userID uint) (*models.Order, error) {
	cart, err := carts.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrEmptyCart
	}
	items, err := carts.ListItemsForUpdate(cart.ID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{UserID: userID, TotalAmount: models.ZeroMoney()}
	lines := make([]models.OrderItem, 0, len(items))
	consumed := make([]uint, 0, len(items))
	for _, item := range items {
		consumed = append(consumed, item.ID)
		// 已删除商品不可再购买
		if item.Product == nil {
			continue
		}
		if item.Quantity < 1 || item.Quantity > constants.MaxCartItemQuantity {
			return nil, ErrCartQuantityLimit
		}
		lineTotal := item.Product.Price.MulInt(item.Quantity)
		lines = append(lines, models.OrderItem{
			ProductID:  item.ProductID,
			Title:      item.Product.Title,
			UnitPrice:  item.Product.Price,
			Quantity:   item.Quantity,
			TotalPrice: lineTotal,
		})
		order.TotalAmount = order.TotalAmount.Add(lineTotal)
		order.ItemCount += item.Quantity
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := orders.Create(order); err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if err := orders.CreateItems(lines); err != nil {
		return nil, err
	}

	deleted, err := carts.DeleteItemsByID(cart.ID, consumed)
	if err != nil {
		return nil, err
	}
	// 行数不一致说明并发结算已消费了部分购物车
	if deleted != int64(len(consumed)) {
		return nil, ErrCheckoutConflict
	}
	order.Items = lines
	return order, nil
}

func (s *OrderService) mapCheckoutError(userID uint, err error) error {
	switch {
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrCheckoutConflict), errors.Is(err, ErrValidation):
		logger.Debugw("order_checkout_rejected", "user_id", userID, "reason", err.Error())
		return err
	case errors.Is(err, repository.ErrRetriesExhausted), repository.IsRetryable(err):
		logger.Warnw("order_checkout_conflict", "user_id", userID, "error", err)
		return wrapCause(ErrCheckoutConflict, err)
	default:
		logger.Errorw("order_checkout_failed", "user_id", userID, "error", err)
		return wrapCause(ErrOrderCreateFailed, err)
	}
}

func (s *OrderService) dispatchOrderPlaced(order *models.Order) {
	if s.tasks == nil || !s.tasks.Enabled() {
		logger.Warnw("order_post_checkout_skipped_queue_disabled", "order_id", order.ID)
		return
	}
	if err := s.tasks.EnqueueOrderPlaced(queue.OrderPayload{OrderID: order.ID}); err != nil {
		logger.Warnw("order_post_checkout_enqueue_failed", "order_id", order.ID, "error", err)
	}
}

// ListOrders 用户订单列表，最新在前
func (s *OrderService) ListOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	return s.list(repository.OrderListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// ListAllOrders 后台订单列表
func (s *OrderService) ListAllOrders(page, pageSize int) ([]models.Order, int64, error) {
	return s.list(repository.OrderListFilter{Page: page, PageSize: pageSize})
}

func (s *OrderService) list(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Page, filter.PageSize = normalizePagination(filter.Page, filter.PageSize, s.defaultPageSize)
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, wrapCause(ErrOrderFetchFailed, err)
	}
	return orders, total, nil
}

// GetOrder 获取本人订单，他人订单视为不存在
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	if userID == 0 || orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, wrapCause(ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByID 后台按 ID 获取订单
func (s *OrderService) GetOrderByID(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, wrapCause(ErrOrderFetchFailed, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
