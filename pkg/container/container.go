package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/config"
	infraCache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/database"
	"storefront-backend/internal/infrastructure/storage"
	"storefront-backend/internal/shared/checkout"
	"storefront-backend/pkg/cache"

	cartHandler "storefront-backend/internal/domains/cart/handler"
	cartRepo "storefront-backend/internal/domains/cart/repository"
	cartService "storefront-backend/internal/domains/cart/service"
	catalogRepo "storefront-backend/internal/domains/catalog/repository"
	couponRepo "storefront-backend/internal/domains/coupon/repository"
	couponService "storefront-backend/internal/domains/coupon/service"
	orderHandler "storefront-backend/internal/domains/order/handler"
	orderRepo "storefront-backend/internal/domains/order/repository"
	orderService "storefront-backend/internal/domains/order/service"
	paymentGateway "storefront-backend/internal/domains/payment/gateway"
	"storefront-backend/internal/domains/payment/gateway/paypal"
	paymentRepo "storefront-backend/internal/domains/payment/repository"
	paymentService "storefront-backend/internal/domains/payment/service"
	shippingHandler "storefront-backend/internal/domains/shipping/handler"
	shippingRepo "storefront-backend/internal/domains/shipping/repository"
	stockRepo "storefront-backend/internal/domains/stock/repository"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application; the root of
// the dependency graph. Everything here is a singleton.
type Container struct {
	// Infrastructure layer, shared across all domains
	Config          *config.Config
	DB              *database.PostgresDB
	Cache           cache.Cache
	Storage         *storage.MinIOStorage
	AsynqClient     *asynq.Client
	RedirectGateway paymentGateway.RedirectGateway

	// Repository layer (data access)
	CartRepo     cartRepo.RepositoryInterface
	CatalogRepo  catalogRepo.RepositoryInterface
	CouponRepo   couponRepo.RepositoryInterface
	ShippingRepo shippingRepo.RepositoryInterface
	StockRepo    stockRepo.RepositoryInterface
	GatewayRepo  paymentRepo.RepositoryInterface
	OrderRepo    orderRepo.OrderRepository

	// Service layer (business logic)
	CheckoutStore  checkout.Store
	CartService    cartService.ServiceInterface
	CouponService  couponService.ServiceInterface
	PaymentService paymentService.ServiceInterface
	OrderService   orderService.ServiceInterface

	// Handler layer (HTTP)
	CartHandler     *cartHandler.CartHandler
	OrderHandler    *orderHandler.OrderHandler
	ShippingHandler *shippingHandler.ShippingHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initializes the whole dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(ctx); err != nil {
		// Checkout context lives here, so fail hard rather than
		// start a server that loses every coupon selection
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = redisCache
	log.Println("✅ Redis connected")

	// ========================================
	// STEP 4: INITIALIZE OBJECT STORAGE
	// ========================================
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ Object storage ready")

	// ========================================
	// STEP 5: INITIALIZE TASK QUEUE CLIENT
	// ========================================
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Println("✅ Task queue client ready")

	// ========================================
	// STEP 6: INITIALIZE PAYMENT GATEWAY
	// ========================================
	redirectGateway, err := paypal.NewClient(&paypal.Config{
		BaseURL:    cfg.PayPal.BaseURL,
		ClientID:   cfg.PayPal.ClientID,
		HashSecret: cfg.PayPal.HashSecret,
		ReturnURL:  cfg.PayPal.ReturnURL,
	}, cfg.Checkout.GatewayTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize payment gateway: %w", err)
	}
	c.RedirectGateway = redirectGateway
	log.Println("✅ Payment gateway client ready")

	// ========================================
	// STEP 7: REPOSITORIES → SERVICES → HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()
	log.Println("🎉 DI container initialized")

	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CartRepo = cartRepo.NewPostgresRepository(pool)
	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.ShippingRepo = shippingRepo.NewPostgresRepository(pool)
	c.StockRepo = stockRepo.NewPostgresRepository(pool)
	c.GatewayRepo = paymentRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.CheckoutStore = checkout.NewCacheStore(c.Cache, c.Config.Checkout.ContextTTL)

	c.CartService = cartService.NewCartService(c.CartRepo, c.CatalogRepo)
	c.CouponService = couponService.NewCouponService(c.CouponRepo)
	c.PaymentService = paymentService.NewPaymentService(c.GatewayRepo)

	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.CouponRepo,
		c.CouponService,
		c.ShippingRepo,
		c.PaymentService,
		c.StockRepo,
		c.CheckoutStore,
		c.Storage,
		c.AsynqClient,
		c.RedirectGateway,
		c.Config.Checkout.GatewayTimeout,
	)
}

func (c *Container) initHandlers() {
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService, c.RedirectGateway)
	c.ShippingHandler = shippingHandler.NewShippingHandler(c.ShippingRepo)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases container resources during graceful shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close task queue client: %v", err)
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			}
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Container cleanup completed")
}
