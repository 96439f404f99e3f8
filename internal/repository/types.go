package repository

// ProductListFilter 商品列表筛选
type ProductListFilter struct {
	Page     int
	PageSize int
	SellerID uint
	Keyword  string
}

// OrderListFilter 订单列表筛选
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
}
