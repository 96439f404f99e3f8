package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/models"
)

func TestNewDisabledReturnsNop(t *testing.T) {
	idx, err := New(config.SearchConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new index failed: %v", err)
	}
	if idx.Enabled() {
		t.Fatalf("disabled search should not report enabled")
	}
	if _, err := idx.Search(context.Background(), "lamp", 1, 2); !errors.Is(err, ErrDisabled) {
		t.Fatalf("want ErrDisabled got %v", err)
	}
	if err := idx.IndexProduct(context.Background(), &models.Product{ID: 1}); err != nil {
		t.Fatalf("nop index should not fail: %v", err)
	}
}

func TestBuildQueryWeightsTitle(t *testing.T) {
	q := buildQuery("lamp", 4, 2)
	if q["from"] != 4 || q["size"] != 2 {
		t.Fatalf("unexpected paging: %+v", q)
	}
	mm := q["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	fields := mm["fields"].([]string)
	if fields[0] != "title^2" || fields[1] != "description" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDecodeResultKeepsHitOrder(t *testing.T) {
	body := `{"hits":{"total":{"value":5},"hits":[{"_source":{"id":9}},{"_source":{"id":3}}]}}`
	result, err := decodeResult(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Total != 5 || len(result.IDs) != 2 || result.IDs[0] != 9 || result.IDs[1] != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(&models.Product{ID: 2, SellerID: 7, Title: "Mug", Price: models.MustMoney("4.5")})
	if doc.Price != "4.50" || doc.SellerID != 7 || documentID(doc.ID) != "2" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
