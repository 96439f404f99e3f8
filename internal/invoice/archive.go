package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minishop-next/internal/models"
)

// Archiver 发票落盘归档
type Archiver struct {
	dir      string
	renderer Renderer
}

// NewArchiver 创建归档器
func NewArchiver(dir string, renderer Renderer) *Archiver {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = filepath.Join("data", "invoices")
	}
	if renderer == nil {
		renderer = PDFRenderer{}
	}
	return &Archiver{dir: dir, renderer: renderer}
}

// Path 返回订单发票的归档路径
func (a *Archiver) Path(order *models.Order) string {
	return filepath.Join(a.dir, FileName(order, a.renderer))
}

// Archive 先写临时文件再重命名，读者不会看到半写文件
func (a *Archiver) Archive(order *models.Order) (string, error) {
	if err := validateOrder(order); err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice dir failed: %w", err)
	}
	tmp, err := os.CreateTemp(a.dir, ".invoice-*")
	if err != nil {
		return "", fmt.Errorf("create invoice temp file failed: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := a.renderer.Render(tmp, order); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	target := a.Path(order)
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("move invoice file failed: %w", err)
	}
	return target, nil
}
