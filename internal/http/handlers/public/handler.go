package public

import "github.com/minishop-next/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于游客、买家与卖家侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) defaultPageSize() int {
	if h.Config == nil {
		return 0
	}
	return h.Config.Shop.DefaultPageSize
}
