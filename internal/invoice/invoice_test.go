package invoice

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minishop-next/internal/models"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:          12,
		UserID:      3,
		TotalAmount: models.MustMoney("27.48"),
		CreatedAt:   time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{Title: "Desk Lamp", Quantity: 2, UnitPrice: models.MustMoney("9.99")},
			{Title: "Café Mug", Quantity: 1, UnitPrice: models.MustMoney("7.5")},
		},
	}
}

func TestTextRendererFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := (TextRenderer{}).Render(&buf, sampleOrder()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := "Desk Lamp - 2 x 9.99\nCafé Mug - 1 x 7.50\n\nTotal price: 27.48\n"
	if buf.String() != want {
		t.Fatalf("unexpected text invoice:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestTextRendererUsesSnapshotsOnly(t *testing.T) {
	order := sampleOrder()
	order.TotalAmount = models.MustMoney("999.00")
	var buf bytes.Buffer
	if err := (TextRenderer{}).Render(&buf, order); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Total price: 27.48")) {
		t.Fatalf("total must be computed from item snapshots, got %s", buf.String())
	}
}

func TestPDFRendererIsDeterministic(t *testing.T) {
	renderer := PDFRenderer{ShopName: "Minishop"}
	var first, second bytes.Buffer
	if err := renderer.Render(&first, sampleOrder()); err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if err := renderer.Render(&second, sampleOrder()); err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.HasPrefix(first.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("pdf output differs between renders")
	}
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("TXT")
	if err != nil || r.Extension() != "txt" {
		t.Fatalf("txt renderer expected, got %v err=%v", r, err)
	}
	r, err = ForFormat("")
	if err != nil || r.ContentType() != "application/pdf" {
		t.Fatalf("default should be pdf, got %v err=%v", r, err)
	}
	if _, err := ForFormat("docx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want unsupported format, got %v", err)
	}
}

func TestArchiverWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "invoices")
	archiver := NewArchiver(dir, TextRenderer{})
	path, err := archiver.Archive(sampleOrder())
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if filepath.Base(path) != "invoice-12.txt" {
		t.Fatalf("unexpected archive name %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive failed: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("Desk Lamp - 2 x 9.99")) {
		t.Fatalf("unexpected archive content %q", content)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files should be cleaned up, found %d entries", len(entries))
	}
}
