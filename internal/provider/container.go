package provider

import (
	"context"
	"time"

	"github.com/minishop-next/internal/authz"
	"github.com/minishop-next/internal/cache"
	"github.com/minishop-next/internal/config"
	"github.com/minishop-next/internal/events"
	"github.com/minishop-next/internal/invoice"
	"github.com/minishop-next/internal/logger"
	"github.com/minishop-next/internal/models"
	"github.com/minishop-next/internal/queue"
	"github.com/minishop-next/internal/repository"
	"github.com/minishop-next/internal/search"
	"github.com/minishop-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	DB             *gorm.DB
	QueueClient    *queue.Client
	EventPublisher events.Publisher
	SearchIndex    search.Index
	Transactor     repository.Transactor

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	ProductRepo       repository.ProductRepository
	CartRepo          repository.CartRepository
	OrderRepo         repository.OrderRepository
	PasswordResetRepo repository.PasswordResetRepository

	// Services
	AuthzService         *authz.Service
	AdminAuthService     *service.AdminAuthService
	UserAuthService      *service.UserAuthService
	EmailService         *service.EmailService
	CaptchaService       *service.CaptchaService
	CatalogService       *service.CatalogService
	SellerProductService *service.SellerProductService
	CartService          *service.CartService
	OrderService         *service.OrderService
	InvoiceService       *service.InvoiceService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:         cfg,
		DB:             models.DB,
		QueueClient:    queueClient,
		EventPublisher: newEventPublisher(cfg.Events),
		SearchIndex:    newSearchIndex(cfg.Search),
	}

	c.initRepositories()
	c.initServices()
	return c
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func (c *Container) initRepositories() {
	db := c.DB
	c.Transactor = repository.NewTransactor(db, repository.DefaultTxOptions())
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PasswordResetRepo = repository.NewPasswordResetRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	cfg := c.Config
	pageSize := cfg.Shop.DefaultPageSize
	c.EmailService = service.NewEmailService(&cfg.Email, cfg.Shop.Name)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.AdminAuthService = service.NewAdminAuthService(cfg, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(cfg, c.Transactor, c.UserRepo, c.CartRepo, c.PasswordResetRepo, c.QueueClient, c.EmailService)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.SearchIndex, pageSize)
	c.SellerProductService = service.NewSellerProductService(c.Transactor, c.ProductRepo, c.SearchIndex, c.EventPublisher, pageSize)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.Transactor, c.OrderRepo, c.CartRepo, c.QueueClient, pageSize)
	c.InvoiceService = service.NewInvoiceService(c.OrderService, cfg.Shop.Name, newArchiver(cfg.Invoice, cfg.Shop.Name))
}

func newEventPublisher(cfg config.EventsConfig) events.Publisher {
	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		logger.Warnw("provider_init_event_publisher_failed", "error", err)
		return events.NopPublisher{}
	}
	return publisher
}

func newSearchIndex(cfg config.SearchConfig) search.Index {
	index, err := search.New(cfg)
	if err != nil {
		logger.Warnw("provider_init_search_failed", "error", err)
		return search.NopIndex{}
	}
	if elastic, ok := index.(*search.ElasticIndex); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := elastic.EnsureIndex(ctx); err != nil {
			logger.Warnw("provider_ensure_search_index_failed", "error", err)
		}
	}
	return index
}

func newArchiver(cfg config.InvoiceConfig, shopName string) *invoice.Archiver {
	if !cfg.ArchiveEnabled {
		return nil
	}
	var renderer invoice.Renderer = invoice.TextRenderer{}
	if cfg.ArchiveFormat != "txt" {
		renderer = invoice.PDFRenderer{ShopName: shopName}
	}
	return invoice.NewArchiver(cfg.ArchiveDir, renderer)
}
