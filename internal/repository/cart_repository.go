package repository

import (
	"errors"

	"github.com/minishop-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetOrCreate(userID uint) (*models.Cart, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	ListItemsForUpdate(cartID uint) ([]models.CartItem, error)
	CreateItem(item *models.CartItem) error
	IncrementItem(cartID, productID uint, delta, maxQuantity int) (int64, error)
	SetItemQuantity(cartID, productID uint, quantity int) (int64, error)
	DeleteItem(cartID, productID uint) error
	DeleteItemsByID(cartID uint, itemIDs []uint) (int64, error)
	Clear(cartID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser 获取用户购物车，不存在返回 nil
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreate 获取或创建用户购物车，并发创建时依赖 user_id 唯一索引
func (r *GormCartRepository) GetOrCreate(userID uint) (*models.Cart, error) {
	cart, err := r.GetByUser(userID)
	if err != nil || cart != nil {
		return cart, err
	}
	created := &models.Cart{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, err
	}
	return r.GetByUser(userID)
}

// ListItems 获取购物车项并预加载实时商品，已删除商品的 Product 为 nil
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListItemsForUpdate 结算时锁定购物车项（postgres 下 FOR UPDATE）
func (r *GormCartRepository) ListItemsForUpdate(cartID uint) ([]models.CartItem, error) {
	query := r.db.Preload("Product").Where("cart_id = ?", cartID).Order("id asc")
	if isPostgresDialect(dbDialectName(r.db)) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var items []models.CartItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// IncrementItem 原子增加数量，增加后超过 maxQuantity 的行不更新，返回受影响行数
func (r *GormCartRepository) IncrementItem(cartID, productID uint, delta, maxQuantity int) (int64, error) {
	result := r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ? AND quantity <= ?", cartID, productID, maxQuantity-delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return result.RowsAffected, result.Error
}

// SetItemQuantity 设置数量，返回受影响行数
func (r *GormCartRepository) SetItemQuantity(cartID, productID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

// DeleteItem 删除购物车项，不存在时不报错
func (r *GormCartRepository) DeleteItem(cartID, productID uint) error {
	return r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{}).Error
}

// DeleteItemsByID 按 ID 删除购物车项，返回实际删除行数
func (r *GormCartRepository) DeleteItemsByID(cartID uint, itemIDs []uint) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := r.db.Where("cart_id = ? AND id IN ?", cartID, itemIDs).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// Clear 清空购物车
func (r *GormCartRepository) Clear(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
