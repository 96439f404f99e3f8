package repository

import "testing"

func TestProductRepositoryListOrdersByIDAndPages(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	for _, title := range []string{"Lamp", "Desk", "Chair"} {
		seedProduct(t, db, 1, title, "10.00")
	}

	items, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("want total 3 and 2 items, got %d and %d", total, len(items))
	}
	if items[0].Title != "Lamp" || items[1].Title != "Desk" {
		t.Fatalf("unexpected order: %s, %s", items[0].Title, items[1].Title)
	}

	items, _, err = repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Chair" {
		t.Fatalf("unexpected page 2: %+v", items)
	}

	items, total, err = repo.List(ProductListFilter{Page: 9, PageSize: 2})
	if err != nil {
		t.Fatalf("out of range page should not fail: %v", err)
	}
	if len(items) != 0 || total != 3 {
		t.Fatalf("out of range page want empty, got %d items total %d", len(items), total)
	}
}

func TestProductRepositoryKeywordAndSellerFilter(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	seedProduct(t, db, 1, "Desk Lamp", "12.50")
	seedProduct(t, db, 2, "Floor Lamp", "40.00")
	seedProduct(t, db, 2, "100% Cotton", "5.00")

	items, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Keyword: "lamp"})
	if err != nil {
		t.Fatalf("keyword list failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("keyword want 2 got %d", total)
	}

	items, _, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, Keyword: "100%"})
	if err != nil {
		t.Fatalf("escaped keyword failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "100% Cotton" {
		t.Fatalf("escaped keyword unexpected result: %+v", items)
	}

	count, err := repo.CountBySeller(2)
	if err != nil || count != 2 {
		t.Fatalf("count by seller want 2 got %d err=%v", count, err)
	}
}

func TestProductRepositoryScopedLookupAndSoftDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 3, "Mug", "7.00")

	other, err := repo.GetBySeller(product.ID, 4)
	if err != nil {
		t.Fatalf("get by seller failed: %v", err)
	}
	if other != nil {
		t.Fatalf("foreign seller must not see product")
	}

	product.Title = "Big Mug"
	product.Price = product.Price.Add(product.Price)
	if err := repo.Update(product); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := repo.GetBySeller(product.ID, 3)
	if err != nil || got == nil {
		t.Fatalf("get own product failed: %v", err)
	}
	if got.Title != "Big Mug" || got.Price.String() != "14.00" {
		t.Fatalf("unexpected update result: %s %s", got.Title, got.Price.String())
	}

	if err := repo.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	got, err = repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get deleted failed: %v", err)
	}
	if got != nil {
		t.Fatalf("soft deleted product should not resolve")
	}
}
