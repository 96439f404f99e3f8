package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type orderTestEnv struct {
	db       *gorm.DB
	carts    *CartService
	orders   *OrderService
	invoices *InvoiceService
	products *repository.GormProductRepository
	tasks    *recordingTasks
}

func newOrderTestEnv(t *testing.T, wrap func(repository.OrderRepository) repository.OrderRepository) *orderTestEnv {
	return buildOrderTestEnv(t, wrap, nil)
}

func newOrderTestEnvWithCarts(t *testing.T, wrap func(repository.CartRepository) repository.CartRepository) *orderTestEnv {
	return buildOrderTestEnv(t, nil, wrap)
}

func buildOrderTestEnv(
	t *testing.T,
	wrapOrders func(repository.OrderRepository) repository.OrderRepository,
	wrapCarts func(repository.CartRepository) repository.CartRepository,
) *orderTestEnv {
	db := openServiceTestDB(t)
	products := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	var orderRepo repository.OrderRepository = repository.NewOrderRepository(db)
	if wrapOrders != nil {
		orderRepo = wrapOrders(orderRepo)
	}
	var checkoutCarts repository.CartRepository = cartRepo
	if wrapCarts != nil {
		checkoutCarts = wrapCarts(cartRepo)
	}
	tasks := &recordingTasks{enabled: true}
	orders := NewOrderService(newTestTransactor(db), orderRepo, checkoutCarts, tasks, 2)
	return &orderTestEnv{
		db:       db,
		carts:    NewCartService(cartRepo, products),
		orders:   orders,
		invoices: NewInvoiceService(orders, "minishop", nil),
		products: products,
		tasks:    tasks,
	}
}

// failingOrderRepo 写订单项时失败，用于验证整体回滚
type failingOrderRepo struct {
	repository.OrderRepository
}

func (r failingOrderRepo) WithTx(tx *gorm.DB) repository.OrderRepository {
	return failingOrderRepo{OrderRepository: r.OrderRepository.WithTx(tx)}
}

func (r failingOrderRepo) CreateItems([]models.OrderItem) error {
	return errors.New("disk full")
}

// shortDeleteCartRepo 删除购物车项后少报一行，模拟并发结算已消费部分购物车
type shortDeleteCartRepo struct {
	repository.CartRepository
}

func (r shortDeleteCartRepo) WithTx(tx *gorm.DB) repository.CartRepository {
	return shortDeleteCartRepo{CartRepository: r.CartRepository.WithTx(tx)}
}

func (r shortDeleteCartRepo) DeleteItemsByID(cartID uint, itemIDs []uint) (int64, error) {
	deleted, err := r.CartRepository.DeleteItemsByID(cartID, itemIDs)
	return deleted - 1, err
}

// serializationCartRepo 读取购物车时总是返回 postgres 串行化失败
type serializationCartRepo struct {
	repository.CartRepository
	attempts *int
}

func (r serializationCartRepo) WithTx(tx *gorm.DB) repository.CartRepository {
	return serializationCartRepo{CartRepository: r.CartRepository.WithTx(tx), attempts: r.attempts}
}

func (r serializationCartRepo) ListItemsForUpdate(uint) ([]models.CartItem, error) {
	*r.attempts++
	return nil, &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	return count
}

func TestCheckoutSnapshotsAndClearsCart(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	pen := seedTestProduct(t, env.db, 9, "Pen", "2.50")
	_ = env.carts.AddOrIncrement(1, book.ID, 2)
	_ = env.carts.AddOrIncrement(1, pen.ID, 1)

	order, err := env.orders.Checkout(context.Background(), 1)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.TotalAmount.String() != "22.50" || order.ItemCount != 3 || len(order.Items) != 2 {
		t.Fatalf("unexpected order: total=%s count=%d items=%d", order.TotalAmount.String(), order.ItemCount, len(order.Items))
	}
	if len(env.tasks.orders) != 1 || env.tasks.orders[0].OrderID != order.ID {
		t.Fatalf("expected order placed task, got %+v", env.tasks.orders)
	}

	lines, _ := env.carts.ListLineItems(1)
	if len(lines) != 0 {
		t.Fatalf("cart should be empty after checkout, got %d lines", len(lines))
	}

	// 商品改价与删除不影响已下单快照
	book.Price = models.MustMoney("99.00")
	book.Title = "Book (2nd edition)"
	_ = env.products.Update(book)
	_ = env.products.Delete(pen.ID)

	stored, err := env.orders.GetOrder(1, order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if stored.Items[0].Title != "Book" || stored.Items[0].UnitPrice.String() != "10.00" {
		t.Fatalf("snapshot changed: %+v", stored.Items[0])
	}
	if stored.TotalAmount.String() != "22.50" {
		t.Fatalf("total changed: %s", stored.TotalAmount.String())
	}
}

func TestCheckoutEmptyCartWritesNothing(t *testing.T) {
	env := newOrderTestEnv(t, nil)

	if _, err := env.orders.Checkout(context.Background(), 1); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("missing cart want ErrEmptyCart got %v", err)
	}
	if _, err := env.carts.GetOrCreateCart(1); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := env.orders.Checkout(context.Background(), 1); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty cart want ErrEmptyCart got %v", err)
	}
	var count int64
	env.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("no order expected, found %d", count)
	}
	if len(env.tasks.orders) != 0 {
		t.Fatalf("no task expected for rejected checkout")
	}
}

func TestCheckoutSkipsDeletedProducts(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	gone := seedTestProduct(t, env.db, 9, "Gone", "5.00")
	_ = env.carts.AddOrIncrement(1, gone.ID, 1)
	_ = env.products.Delete(gone.ID)

	if _, err := env.orders.Checkout(context.Background(), 1); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("only deleted products want ErrEmptyCart got %v", err)
	}
}

func TestCheckoutRollsBackWhenItemsFail(t *testing.T) {
	env := newOrderTestEnv(t, func(inner repository.OrderRepository) repository.OrderRepository {
		return failingOrderRepo{OrderRepository: inner}
	})
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	_ = env.carts.AddOrIncrement(1, book.ID, 1)

	_, err := env.orders.Checkout(context.Background(), 1)
	if !errors.Is(err, ErrOrderCreateFailed) || !errors.Is(err, ErrInfrastructure) {
		t.Fatalf("want order create failure got %v", err)
	}
	var count int64
	env.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("order header should be rolled back, found %d", count)
	}
	lines, _ := env.carts.ListLineItems(1)
	if len(lines) != 1 {
		t.Fatalf("cart should be untouched after rollback, got %d lines", len(lines))
	}
}

func TestCheckoutConflictWhenCartConsumedConcurrently(t *testing.T) {
	env := newOrderTestEnvWithCarts(t, func(inner repository.CartRepository) repository.CartRepository {
		return shortDeleteCartRepo{CartRepository: inner}
	})
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	pen := seedTestProduct(t, env.db, 9, "Pen", "2.50")
	_ = env.carts.AddOrIncrement(1, book.ID, 2)
	_ = env.carts.AddOrIncrement(1, pen.ID, 1)

	_, err := env.orders.Checkout(context.Background(), 1)
	if !errors.Is(err, ErrCheckoutConflict) || !errors.Is(err, ErrConflict) {
		t.Fatalf("want checkout conflict got %v", err)
	}
	if got := countOrders(t, env.db); got != 0 {
		t.Fatalf("conflicting checkout must not persist an order, found %d", got)
	}
	lines, _ := env.carts.ListLineItems(1)
	if len(lines) != 2 || lines[0].Quantity != 2 || lines[1].Quantity != 1 {
		t.Fatalf("cart should be restored by rollback, got %+v", lines)
	}
	if len(env.tasks.orders) != 0 {
		t.Fatalf("no task expected for conflicting checkout")
	}
}

func TestCheckoutSerializationFailureRetriesThenConflicts(t *testing.T) {
	attempts := 0
	env := newOrderTestEnvWithCarts(t, func(inner repository.CartRepository) repository.CartRepository {
		return serializationCartRepo{CartRepository: inner, attempts: &attempts}
	})
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	_ = env.carts.AddOrIncrement(1, book.ID, 1)

	_, err := env.orders.Checkout(context.Background(), 1)
	if !errors.Is(err, ErrCheckoutConflict) || !errors.Is(err, ErrConflict) {
		t.Fatalf("want conflict after retries got %v", err)
	}
	if !errors.Is(err, repository.ErrRetriesExhausted) {
		t.Fatalf("driver cause should be kept, got %v", err)
	}
	if attempts != constants.DefaultCheckoutRetryAttempts {
		t.Fatalf("want %d attempts got %d", constants.DefaultCheckoutRetryAttempts, attempts)
	}
	if got := countOrders(t, env.db); got != 0 {
		t.Fatalf("no order expected, found %d", got)
	}
}

func TestCheckoutRejectsOversizedLine(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	pen := seedTestProduct(t, env.db, 9, "Pen", "1.00")
	cart, err := env.carts.GetOrCreateCart(1)
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	// 绕过服务层写入超限数量
	for _, product := range []*models.Product{book, pen} {
		if err := env.db.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1 << 62}).Error; err != nil {
			t.Fatalf("seed cart item failed: %v", err)
		}
	}

	_, err = env.orders.Checkout(context.Background(), 1)
	if !errors.Is(err, ErrCartQuantityLimit) || !errors.Is(err, ErrValidation) {
		t.Fatalf("want quantity limit got %v", err)
	}
	if got := countOrders(t, env.db); got != 0 {
		t.Fatalf("no order expected, found %d", got)
	}
}

func TestCheckoutSkipsTasksWhenQueueDisabled(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	env.tasks.enabled = false
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	_ = env.carts.AddOrIncrement(1, book.ID, 1)

	if _, err := env.orders.Checkout(context.Background(), 1); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(env.tasks.orders) != 0 {
		t.Fatalf("disabled queue should receive no tasks, got %+v", env.tasks.orders)
	}
}

func TestCheckoutEnqueueFailureKeepsOrder(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	env.tasks.orderErr = errors.New("redis down")
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	_ = env.carts.AddOrIncrement(1, book.ID, 1)

	order, err := env.orders.Checkout(context.Background(), 1)
	if err != nil {
		t.Fatalf("checkout should succeed when enqueue fails: %v", err)
	}
	if _, err := env.orders.GetOrder(1, order.ID); err != nil {
		t.Fatalf("order should be committed: %v", err)
	}
}

func TestGetOrderOfAnotherUserIsNotFound(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	_ = env.carts.AddOrIncrement(1, book.ID, 1)
	order, err := env.orders.Checkout(context.Background(), 1)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if _, err := env.orders.GetOrder(2, order.ID); !errors.Is(err, ErrOrderNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("want not found got %v", err)
	}
	if _, err := env.invoices.RenderForUser(2, order.ID, "txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("invoice of another user want not found got %v", err)
	}
	if _, err := env.orders.GetOrderByID(order.ID); err != nil {
		t.Fatalf("admin lookup failed: %v", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")

	var ids []uint
	for i := 0; i < 3; i++ {
		_ = env.carts.AddOrIncrement(1, book.ID, 1)
		order, err := env.orders.Checkout(context.Background(), 1)
		if err != nil {
			t.Fatalf("checkout %d failed: %v", i, err)
		}
		ids = append(ids, order.ID)
		time.Sleep(5 * time.Millisecond)
	}

	orders, total, err := env.orders.ListOrders(1, 1, 2)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 3 || len(orders) != 2 {
		t.Fatalf("want 2 of 3 orders, got %d of %d", len(orders), total)
	}
	if orders[0].ID != ids[2] || orders[1].ID != ids[1] {
		t.Fatalf("unexpected order: %d,%d", orders[0].ID, orders[1].ID)
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("items should be eagerly loaded")
	}

	others, total, err := env.orders.ListOrders(2, 1, 10)
	if err != nil || total != 0 || len(others) != 0 {
		t.Fatalf("other user should see nothing: %v %d", err, total)
	}
}

func TestRenderInvoiceText(t *testing.T) {
	env := newOrderTestEnv(t, nil)
	book := seedTestProduct(t, env.db, 9, "Book", "10.00")
	_ = env.carts.AddOrIncrement(1, book.ID, 2)
	order, err := env.orders.Checkout(context.Background(), 1)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	rendered, err := env.invoices.RenderForUser(1, order.ID, "txt")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	body := string(rendered.Body)
	if !strings.Contains(body, "Book - 2 x 10.00") || !strings.Contains(body, "Total price: 20.00") {
		t.Fatalf("unexpected invoice body: %s", body)
	}
	if !strings.HasSuffix(rendered.FileName, ".txt") {
		t.Fatalf("unexpected file name: %s", rendered.FileName)
	}
	if _, err := env.invoices.RenderForUser(1, order.ID, "docx"); !errors.Is(err, ErrInvoiceFormatInvalid) {
		t.Fatalf("unknown format want ErrInvoiceFormatInvalid got %v", err)
	}
}
