package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/queue"
	"github.com/minishop-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestTransactor(db *gorm.DB) repository.Transactor {
	opts := repository.DefaultTxOptions()
	opts.Backoff = 0
	return repository.NewTransactor(db, opts)
}

func seedTestUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{Email: email, PasswordHash: string(hash), Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func seedTestProduct(t *testing.T, db *gorm.DB, sellerID uint, title, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:    sellerID,
		Title:       title,
		Price:       models.MustMoney(price),
		Description: title + " description",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 2},
		UserJWT: config.JWTConfig{SecretKey: "user-secret", ExpireHours: 2, RememberMeExpireHours: 72},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
		Email: config.EmailConfig{ResetTokenMinutes: 10},
		Shop:  config.ShopConfig{Name: "minishop", BaseURL: "http://localhost:8080", DefaultPageSize: 2},
	}
}

// recordingTasks 记录投递的任务
type recordingTasks struct {
	mu       sync.Mutex
	enabled  bool
	welcome  []queue.UserEmailPayload
	resets   []queue.PasswordResetEmailPayload
	orders   []queue.OrderPayload
	orderErr error
}

func (r *recordingTasks) Enabled() bool { return r.enabled }

func (r *recordingTasks) EnqueueUserWelcomeEmail(payload queue.UserEmailPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcome = append(r.welcome, payload)
	return nil
}

func (r *recordingTasks) EnqueuePasswordResetEmail(payload queue.PasswordResetEmailPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, payload)
	return nil
}

func (r *recordingTasks) EnqueueOrderPlaced(payload queue.OrderPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.orderErr != nil {
		return r.orderErr
	}
	r.orders = append(r.orders, payload)
	return nil
}
