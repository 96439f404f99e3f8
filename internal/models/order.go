package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrOrderImmutable 订单创建后不可修改
var ErrOrderImmutable = errors.New("order is immutable")

// Order 订单表
type Order struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	UserID      uint      `gorm:"index;not null" json:"user_id"`                             // 下单用户
	TotalAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 下单时总额快照
	ItemCount   int       `gorm:"not null;default:0" json:"item_count"`                      // 商品件数
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                   // 下单时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeUpdate 拒绝任何更新
func (o *Order) BeforeUpdate(tx *gorm.DB) error {
	return ErrOrderImmutable
}

// RecalculateTotal 根据订单项快照计算总额
func (o *Order) RecalculateTotal() Money {
	total := ZeroMoney()
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.MulInt(item.Quantity))
	}
	return total
}
