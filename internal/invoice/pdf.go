package invoice

import (
	"fmt"
	"io"

	"github.com/minishop-next/internal/models"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer PDF 发票，文档日期固定为下单时间，保证重复渲染字节一致
type PDFRenderer struct {
	ShopName string
}

// ContentType 响应类型
func (PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Extension 文件扩展名
func (PDFRenderer) Extension() string {
	return "pdf"
}

// Render 渲染 PDF
func (r PDFRenderer) Render(w io.Writer, order *models.Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(order.CreatedAt)
	pdf.SetModificationDate(order.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	pdf.SetTitle(fmt.Sprintf("Invoice %d", order.ID), true)
	if r.ShopName != "" {
		pdf.SetAuthor(r.ShopName, true)
	}

	// 内置字体为 cp1252，标题需转码
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Invoice", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Order #%d  %s", order.ID, order.CreatedAt.UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 14)
	for _, item := range order.Items {
		pdf.MultiCell(0, 8, tr(lineText(item)), "", "L", false)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, totalText(order), "T", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
