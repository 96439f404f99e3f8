package invoice

import (
	"bufio"
	"io"

	"github.com/minishop-next/internal/models"
)

// TextRenderer 纯文本发票
type TextRenderer struct{}

// ContentType 响应类型
func (TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Extension 文件扩展名
func (TextRenderer) Extension() string {
	return "txt"
}

// Render 每个订单项一行，空行后输出总额
func (TextRenderer) Render(w io.Writer, order *models.Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}
	buf := bufio.NewWriter(w)
	for _, item := range order.Items {
		if _, err := buf.WriteString(lineText(item) + "\n"); err != nil {
			return err
		}
	}
	if _, err := buf.WriteString("\n" + totalText(order) + "\n"); err != nil {
		return err
	}
	return buf.Flush()
}
