package main

import (
	"flag"
	"fmt"

	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/constants"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type demoProduct struct {
	title       string
	price       string
	description string
	imageURL    string
}

var demoProducts = []demoProduct{
	{"Wireless Earphones", "99.99", "Bluetooth earphones with 24h battery life", "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800"},
	{"Smart Watch", "199.00", "Heart rate, sleep tracking and notifications", "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800"},
	{"Canvas Backpack", "49.50", "Water resistant backpack with laptop sleeve", "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800"},
	{"Ceramic Mug", "12.00", "350ml mug, dishwasher safe", "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800"},
	{"USB-C Cable", "8.75", "1m braided cable, 60W fast charging", ""},
}

func main() {
	email := flag.String("email", "seller@example.com", "演示卖家邮箱")
	password := flag.String("password", "seller123", "演示卖家密码")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns: cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns: cfg.Database.Pool.MaxIdleConns,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	created := 0
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		seller, err := ensureSeller(tx, *email, *password)
		if err != nil {
			return err
		}
		for _, item := range demoProducts {
			var count int64
			if err := tx.Model(&models.Product{}).
				Where("seller_id = ? AND title = ?", seller.ID, item.title).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			product := models.Product{
				SellerID:    seller.ID,
				Title:       item.title,
				Price:       models.MustMoney(item.price),
				Description: item.description,
				ImageURL:    item.imageURL,
			}
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("create product %q: %w", item.title, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		stdLog.Fatalf("Seed failed: %v", err)
	}
	logger.Infow("seed_completed", "seller", *email, "products_created", created)
}

// ensureSeller 卖家不存在时创建账号及购物车
func ensureSeller(tx *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", email).Limit(1).Find(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID != 0 {
		return &user, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = models.User{Email: email, PasswordHash: string(hash), Status: constants.UserStatusActive}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	if err := tx.Create(&models.Cart{UserID: user.ID}).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
