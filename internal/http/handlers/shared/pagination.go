package shared

import (
	"strconv"

	"github.com/minishop-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize, defaultPageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

// ParsePagination 读取 page / page_size 查询参数，非法值按默认处理
func ParsePagination(c *gin.Context, defaultPageSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return NormalizePagination(page, pageSize, defaultPageSize)
}
