package service

import (
	"bytes"
	"errors"

	"github.com/minishop-next/internal/invoice"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
)

// RenderedInvoice 渲染完成的发票
type RenderedInvoice struct {
	FileName    string
	ContentType string
	Body        []byte
}

// InvoiceService 发票服务
type InvoiceService struct {
	orderService *OrderService
	shopName     string
	archiver     *invoice.Archiver
}

// NewInvoiceService 创建发票服务，archiver 为空时不归档
func NewInvoiceService(orderService *OrderService, shopName string, archiver *invoice.Archiver) *InvoiceService {
	return &InvoiceService{
		orderService: orderService,
		shopName:     shopName,
		archiver:     archiver,
	}
}

// RenderForUser 渲染本人订单发票
func (s *InvoiceService) RenderForUser(userID, orderID uint, format string) (*RenderedInvoice, error) {
	order, err := s.orderService.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.Render(order, format)
}

// RenderForAdmin 后台渲染任意订单发票
func (s *InvoiceService) RenderForAdmin(orderID uint, format string) (*RenderedInvoice, error) {
	order, err := s.orderService.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	return s.Render(order, format)
}

// Render 渲染到内存，失败时调用方仍可返回错误响应
func (s *InvoiceService) Render(order *models.Order, format string) (*RenderedInvoice, error) {
	renderer, err := s.rendererFor(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, order); err != nil {
		return nil, wrapCause(ErrInvoiceRenderFailed, err)
	}
	return &RenderedInvoice{
		FileName:    invoice.FileName(order, renderer),
		ContentType: renderer.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

// Archive 将订单发票写入归档目录
func (s *InvoiceService) Archive(orderID uint) (string, error) {
	if s.archiver == nil {
		return "", nil
	}
	order, err := s.orderService.GetOrderByID(orderID)
	if err != nil {
		return "", err
	}
	path, err := s.archiver.Archive(order)
	if err != nil {
		return "", wrapCause(ErrInvoiceRenderFailed, err)
	}
	logger.Infow("invoice_archived", "order_id", orderID, "path", path)
	return path, nil
}

func (s *InvoiceService) rendererFor(format string) (invoice.Renderer, error) {
	renderer, err := invoice.ForFormat(format)
	if err != nil {
		if errors.Is(err, invoice.ErrUnsupportedFormat) {
			return nil, ErrInvoiceFormatInvalid
		}
		return nil, err
	}
	if pdf, ok := renderer.(invoice.PDFRenderer); ok {
		pdf.ShopName = s.shopName
		return pdf, nil
	}
	return renderer, nil
}
