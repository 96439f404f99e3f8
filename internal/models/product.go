package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
// 删除为软删除，订单项只保存快照，不依赖商品行存在
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	SellerID    uint           `gorm:"index;not null" json:"seller_id"`                    // 卖家用户ID
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`            // 标题
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 当前售价
	Description string         `gorm:"type:text" json:"description"`                       // 描述
	ImageURL    string         `gorm:"type:varchar(512)" json:"image_url"`                 // 图片地址
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
