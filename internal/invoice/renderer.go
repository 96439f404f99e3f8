package invoice

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/models"
)

// ErrUnsupportedFormat 不支持的发票格式
var ErrUnsupportedFormat = errors.New("unsupported invoice format")

// Renderer 发票渲染器，只读取订单项快照，不访问实时商品数据
type Renderer interface {
	Render(w io.Writer, order *models.Order) error
	ContentType() string
	Extension() string
}

// ForFormat 根据格式返回渲染器，空值默认 pdf
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", constants.InvoiceFormatPDF:
		return PDFRenderer{}, nil
	case constants.InvoiceFormatText:
		return TextRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// FileName 发票文件名
func FileName(order *models.Order, r Renderer) string {
	return fmt.Sprintf("invoice-%d.%s", order.ID, r.Extension())
}

// lineText 单行格式 "{title} - {quantity} x {unitPrice}"
func lineText(item models.OrderItem) string {
	return fmt.Sprintf("%s - %d x %s", item.Title, item.Quantity, item.UnitPrice.String())
}

func totalText(order *models.Order) string {
	return "Total price: " + order.RecalculateTotal().String()
}

func validateOrder(order *models.Order) error {
	if order == nil {
		return errors.New("invoice order is nil")
	}
	return nil
}
