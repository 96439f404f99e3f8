package events

import (
	"context"
	"time"

	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/models"
)

// OrderPlaced 下单成功事件
type OrderPlaced struct {
	Type        string    `json:"type"`
	OrderID     uint      `json:"order_id"`
	UserID      uint      `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ProductChanged 商品变更事件
type ProductChanged struct {
	Type       string    `json:"type"`
	ProductID  uint      `json:"product_id"`
	SellerID   uint      `json:"seller_id"`
	Title      string    `json:"title,omitempty"`
	Price      string    `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 领域事件发布接口
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	PublishProductChanged(ctx context.Context, event ProductChanged) error
	Close() error
}

// NewOrderPlaced 从订单构建事件，发生时间取下单时间
func NewOrderPlaced(order *models.Order) OrderPlaced {
	return OrderPlaced{
		Type:        constants.OrderEventPlaced,
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount.String(),
		ItemCount:   order.ItemCount,
		OccurredAt:  order.CreatedAt,
	}
}

// NewProductChanged 构建商品事件，删除事件不携带标题与价格
func NewProductChanged(eventType string, product *models.Product, at time.Time) ProductChanged {
	event := ProductChanged{
		Type:       eventType,
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		OccurredAt: at,
	}
	if eventType != constants.ProductEventDeleted {
		event.Title = product.Title
		event.Price = product.Price.String()
	}
	return event
}

// NopPublisher 未启用事件时使用
type NopPublisher struct{}

// PublishOrderPlaced 丢弃事件
func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

// PublishProductChanged 丢弃事件
func (NopPublisher) PublishProductChanged(context.Context, ProductChanged) error { return nil }

// Close 无资源需要释放
func (NopPublisher) Close() error { return nil }
