package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/events"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/repository"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	events.NopPublisher
	products []events.ProductChanged
}

func (p *recordingPublisher) PublishProductChanged(_ context.Context, event events.ProductChanged) error {
	p.products = append(p.products, event)
	return nil
}

type sellerTestEnv struct {
	db        *gorm.DB
	svc       *SellerProductService
	index     *fakeIndex
	publisher *recordingPublisher
}

func newSellerTestEnv(t *testing.T) *sellerTestEnv {
	db := openServiceTestDB(t)
	index := &fakeIndex{enabled: true}
	publisher := &recordingPublisher{}
	svc := NewSellerProductService(newTestTransactor(db), repository.NewProductRepository(db), index, publisher, 2)
	return &sellerTestEnv{db: db, svc: svc, index: index, publisher: publisher}
}

func validInput(title string) ProductInput {
	return ProductInput{Title: title, Price: models.MustMoney("9.99"), Description: "A fine product"}
}

func buildSheet(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(productSheetName)
	if err != nil {
		t.Fatalf("add sheet failed: %v", err)
	}
	for _, values := range rows {
		row := sheet.AddRow()
		for _, value := range values {
			row.AddCell().SetString(value)
		}
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatalf("write sheet failed: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestSellerCreateValidatesAndPublishes(t *testing.T) {
	env := newSellerTestEnv(t)

	bad := validInput("ab")
	if _, err := env.svc.Create(context.Background(), 7, bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("short title want validation got %v", err)
	}
	negative := validInput("Teapot")
	negative.Price = models.MustMoney("-1")
	if _, err := env.svc.Create(context.Background(), 7, negative); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("negative price want ErrProductInvalid got %v", err)
	}

	product, err := env.svc.Create(context.Background(), 7, validInput("  Teapot  "))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Title != "Teapot" || product.SellerID != 7 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if len(env.index.indexed) != 1 || len(env.publisher.products) != 1 {
		t.Fatalf("expected index and event, got %v %v", env.index.indexed, env.publisher.products)
	}
	if env.publisher.products[0].Type != constants.ProductEventCreated {
		t.Fatalf("unexpected event type %s", env.publisher.products[0].Type)
	}
}

func TestSellerCannotTouchOthersProducts(t *testing.T) {
	env := newSellerTestEnv(t)
	product, err := env.svc.Create(context.Background(), 7, validInput("Teapot"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := env.svc.Update(context.Background(), 8, product.ID, validInput("Stolen")); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("update other seller want not found got %v", err)
	}
	if err := env.svc.Delete(context.Background(), 8, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("delete other seller want not found got %v", err)
	}

	updated, err := env.svc.Update(context.Background(), 7, product.ID, validInput("Teapot XL"))
	if err != nil || updated.Title != "Teapot XL" {
		t.Fatalf("own update failed: %v", err)
	}
	if err := env.svc.Delete(context.Background(), 7, product.ID); err != nil {
		t.Fatalf("own delete failed: %v", err)
	}
	if len(env.index.deleted) != 1 || env.index.deleted[0] != product.ID {
		t.Fatalf("expected index delete, got %v", env.index.deleted)
	}
	last := env.publisher.products[len(env.publisher.products)-1]
	if last.Type != constants.ProductEventDeleted || last.Title != "" {
		t.Fatalf("unexpected delete event: %+v", last)
	}
	count, _ := env.svc.CountOwn(7)
	if count != 0 {
		t.Fatalf("deleted product should not be counted, got %d", count)
	}
}

func TestSellerImportIsAllOrNothing(t *testing.T) {
	env := newSellerTestEnv(t)
	header := []string{"title", "price", "description", "image_url"}

	broken := buildSheet(t, [][]string{
		header,
		{"Teapot", "12.00", "Cast iron teapot", ""},
		{"Mug", "abc", "Ceramic mug", ""},
	})
	if _, err := env.svc.ImportXLSX(context.Background(), 7, broken, int64(broken.Len())); !errors.Is(err, ErrImportFileInvalid) {
		t.Fatalf("broken row want ErrImportFileInvalid got %v", err)
	}
	if count, _ := env.svc.CountOwn(7); count != 0 {
		t.Fatalf("nothing should be imported, got %d", count)
	}

	good := buildSheet(t, [][]string{
		header,
		{"Teapot", "12.00", "Cast iron teapot", "https://img.example.com/teapot.png"},
		{"", "", "", ""},
		{"Mug", "4.5", "Ceramic mug", ""},
	})
	products, err := env.svc.ImportXLSX(context.Background(), 7, good, int64(good.Len()))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(products) != 2 || products[0].ID == 0 || products[1].Price.String() != "4.50" {
		t.Fatalf("unexpected imported products: %+v", products)
	}
	if len(env.index.indexed) != 2 {
		t.Fatalf("imported products should be indexed, got %v", env.index.indexed)
	}
}

func TestSellerExportRoundTrip(t *testing.T) {
	env := newSellerTestEnv(t)
	for _, title := range []string{"Teapot", "Kettle", "Saucer"} {
		if _, err := env.svc.Create(context.Background(), 7, validInput(title)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if _, err := env.svc.Create(context.Background(), 8, validInput("Foreign")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var buf bytes.Buffer
	if err := env.svc.ExportXLSX(7, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	file, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("open exported file failed: %v", err)
	}
	parsed, err := parseProductSheet(file, 7)
	if err != nil {
		t.Fatalf("parse exported file failed: %v", err)
	}
	if len(parsed) != 3 || parsed[0].Title != "Teapot" || parsed[2].Title != "Saucer" {
		t.Fatalf("unexpected exported rows: %+v", parsed)
	}
}

func TestAdminDeleteAnyProduct(t *testing.T) {
	env := newSellerTestEnv(t)
	product, _ := env.svc.Create(context.Background(), 7, validInput("Teapot"))

	if err := env.svc.AdminDelete(context.Background(), product.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := env.svc.AdminDelete(context.Background(), product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("second delete want not found got %v", err)
	}
}
