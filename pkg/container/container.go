package container

import (
	"fmt"

	"gamestore-backend/internal/config"
	"gamestore-backend/internal/infrastructure/cache"
	"gamestore-backend/internal/infrastructure/database"
	"gamestore-backend/pkg/jwt"
	"gamestore-backend/pkg/logger"

	cartRepo "gamestore-backend/internal/domains/cart/repository"
	checkoutHandler "gamestore-backend/internal/domains/checkout/handler"
	checkoutRepo "gamestore-backend/internal/domains/checkout/repository"
	checkoutService "gamestore-backend/internal/domains/checkout/service"
	couponHandler "gamestore-backend/internal/domains/coupon/handler"
	couponRepo "gamestore-backend/internal/domains/coupon/repository"
	couponService "gamestore-backend/internal/domains/coupon/service"
	orderHandler "gamestore-backend/internal/domains/order/handler"
	orderRepo "gamestore-backend/internal/domains/order/repository"
	productRepo "gamestore-backend/internal/domains/product/repository"
)

// Container wires the application dependency graph.
// Initialization is staged: config -> infrastructure -> repositories
// -> services -> handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *database.PostgresDB
	Cache      *cache.RedisCache
	JWTManager *jwt.Manager

	// Repositories
	CouponRepo   couponRepo.CouponRepository
	CheckoutRepo checkoutRepo.CheckoutRepository
	OrderRepo    orderRepo.OrderRepository
	ProductRepo  productRepo.ProductRepository
	CartRepo     cartRepo.CartRepository

	// Services
	CouponService   couponService.ServiceInterface
	CheckoutService checkoutService.ServiceInterface

	// Handlers
	CouponPublicHandler *couponHandler.PublicHandler
	CouponAdminHandler  *couponHandler.AdminHandler
	CheckoutHandler     *checkoutHandler.CheckoutHandler
	OrderHandler        *orderHandler.OrderHandler
}

// New builds the full container
func New(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

// ===================================================================
// INFRASTRUCTURE
// ===================================================================

func (c *Container) initInfrastructure() error {
	db, err := database.NewPostgresDB(c.Config.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	c.DB = db

	redisCache, err := cache.NewRedisCache(c.Config.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret)

	return nil
}

// ===================================================================
// REPOSITORIES
// ===================================================================

func (c *Container) initRepositories() {
	c.CouponRepo = couponRepo.NewPostgresRepository(c.DB.Pool)
	c.CheckoutRepo = checkoutRepo.NewPostgresRepository(c.DB.Pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(c.DB.Pool)
	c.ProductRepo = productRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.CartRepo = cartRepo.NewPostgresRepository(c.DB.Pool)
}

// ===================================================================
// SERVICES
// ===================================================================

func (c *Container) initServices() {
	c.CouponService = couponService.NewCouponService(c.CouponRepo)
	c.CheckoutService = checkoutService.NewCheckoutService(
		c.CheckoutRepo,
		c.OrderRepo,
		c.ProductRepo,
		c.CouponService,
		c.CartRepo,
	)
}

// ===================================================================
// HANDLERS
// ===================================================================

func (c *Container) initHandlers() {
	c.CouponPublicHandler = couponHandler.NewPublicHandler(c.CouponService)
	c.CouponAdminHandler = couponHandler.NewAdminHandler(c.CouponService)
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.CheckoutService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderRepo)
}

// Cleanup releases infrastructure resources
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
