package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/minishop-next/internal/models"
)

const productCacheTTL = 5 * time.Minute

func productKey(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}

// GetProduct 读取商品详情缓存
func GetProduct(ctx context.Context, productID uint) (*models.Product, bool, error) {
	if productID == 0 {
		return nil, false, nil
	}
	var product models.Product
	hit, err := GetJSON(ctx, productKey(productID), &product)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &product, true, nil
}

// SetProduct 写入商品详情缓存
func SetProduct(ctx context.Context, product *models.Product) error {
	if product == nil || product.ID == 0 {
		return nil
	}
	return SetJSON(ctx, productKey(product.ID), product, productCacheTTL)
}

// DelProduct 商品变更后清理缓存
func DelProduct(ctx context.Context, productID uint) error {
	if productID == 0 {
		return nil
	}
	return Del(ctx, productKey(productID))
}
