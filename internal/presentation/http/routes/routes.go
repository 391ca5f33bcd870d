package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/config"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/internal/presentation/http/handler"
	"github.com/sangkips/tablepos-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Product   *handler.ProductHandler
	Cart      *handler.CartHandler
	Promotion *handler.PromotionHandler
	Sale      *handler.SaleHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TerminalRateLimiter
}

// NewRateLimiter builds the per-terminal limiter from configuration.
// RATE_LIMIT_REQUESTS requests are allowed every RATE_LIMIT_DURATION seconds.
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.TerminalRateLimiter {
	perSecond := 0.0
	if cfg.Duration > 0 {
		perSecond = float64(cfg.Requests) / float64(cfg.Duration)
	}
	return middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: perSecond,
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(middleware.TerminalMiddleware())

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health.Check)

	limited := v1.Group("")
	if deps.RateLimiter != nil {
		limited.Use(deps.RateLimiter.Middleware())
	}

	idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	})

	registerProductRoutes(limited, h)
	registerCartRoutes(limited, h, idempotent)
	registerPromotionRoutes(limited, h)
	registerSaleRoutes(limited, h, idempotent)
	registerPrinterRoutes(limited, h)

	return router
}

func registerProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("/:code", h.Product.Get)
	}
}

func registerCartRoutes(rg *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.POST("/items/:key/increment", h.Cart.Increment)
		cart.POST("/items/:key/decrement", h.Cart.Decrement)
		cart.DELETE("/items/:key", h.Cart.RemoveItem)
		cart.POST("/promotion", h.Cart.ApplyPromotion)
		cart.DELETE("/promotion", h.Cart.ClearPromotion)
		cart.GET("/kitchen-ticket", h.Cart.KitchenTicket)
		// Checkout uses idempotency middleware to prevent duplicate invoices
		cart.POST("/checkout", idempotent, h.Cart.Checkout)
	}
}

func registerPromotionRoutes(rg *gin.RouterGroup, h *Handlers) {
	promotions := rg.Group("/promotions")
	{
		promotions.GET("", h.Promotion.List)
		promotions.POST("", h.Promotion.Save)
		promotions.POST("/apply", h.Promotion.Apply)
		promotions.GET("/:code", h.Promotion.Get)
		promotions.DELETE("/:code", h.Promotion.Delete)
	}
}

func registerSaleRoutes(rg *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	sales := rg.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", idempotent, h.Sale.Create)
		sales.GET("/:invoiceNo", h.Sale.Get)
		sales.PATCH("/:invoiceNo/cancel", h.Sale.Cancel)
		sales.GET("/:invoiceNo/kitchen-ticket", h.Sale.KitchenTicket)
		sales.POST("/:invoiceNo/print/receipt", h.Printer.PrintReceipt)
		sales.POST("/:invoiceNo/print/kitchen", h.Printer.PrintKitchenTicket)
	}
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printerGroup := rg.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
