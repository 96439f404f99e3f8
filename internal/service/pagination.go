package service

import "github.com/minishop-next/internal/constants"

// normalizePagination page 小于 1 视为 1，pageSize 非法时回退默认值并限制上限
func normalizePagination(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if defaultSize <= 0 {
		defaultSize = constants.DefaultShopPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
