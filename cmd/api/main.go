package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/config"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/event"
	"github.com/sangkips/tablepos-api/internal/domain/invoice"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/internal/infrastructure/cache"
	"github.com/sangkips/tablepos-api/internal/infrastructure/database"
	"github.com/sangkips/tablepos-api/internal/infrastructure/memory"
	"github.com/sangkips/tablepos-api/internal/infrastructure/messaging"
	"github.com/sangkips/tablepos-api/internal/infrastructure/repository"
	"github.com/sangkips/tablepos-api/internal/presentation/http/handler"
	"github.com/sangkips/tablepos-api/internal/presentation/http/routes"
	"github.com/sangkips/tablepos-api/pkg/logger"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"go.uber.org/zap"
)

// stores groups the persistence adapters picked from configuration
type stores struct {
	catalog     domainRepo.CatalogRepository
	promotions  domainRepo.PromotionRepository
	invoices    domainRepo.InvoiceRepository
	idempotency domainRepo.IdempotencyRepository
	carts       domainRepo.CartStore
	checks      map[string]handler.HealthCheck
	closers     []func() error
}

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		_ = zlog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer st.close(zlog)

	publisher, producer := openPublisher(ctx, cfg, zlog)

	// Initialize services
	promotionService := service.NewPromotionService(st.promotions, st.catalog, zlog)
	saleService := service.NewSaleService(
		st.invoices,
		st.catalog,
		promotionService,
		publisher,
		invoice.NewTaxPolicy(cfg.Sale.TaxRate),
		service.SaleSettings{
			InvoicePrefix:      cfg.Sale.InvoicePrefix,
			DefaultPaymentMode: cfg.Sale.DefaultPaymentMode,
			Producer:           cfg.App.Name,
		},
		zlog,
	)
	cartService := service.NewCartService(st.carts, st.catalog, promotionService, saleService, zlog)
	catalogService := service.NewCatalogService(st.catalog)

	// Initialize thermal printers
	receiptPrinter := openPrinter(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address, "receipt", zlog)
	kitchenPrinter := openPrinter(cfg.Printer.KitchenType, cfg.Printer.KitchenUSBPath, cfg.Printer.KitchenAddress, "kitchen", zlog)
	defer func() {
		_ = receiptPrinter.Close()
		_ = kitchenPrinter.Close()
	}()

	printerService := service.NewPrinterService(receiptPrinter, kitchenPrinter, saleService, service.PrinterSettings{
		ReceiptType:  cfg.Printer.Type,
		ReceiptWidth: cfg.Printer.Width,
		KitchenType:  cfg.Printer.KitchenType,
		KitchenWidth: cfg.Printer.KitchenWidth,
		Header: entity.ReceiptHeader{
			StoreName: cfg.Store.Name,
			Address:   cfg.Store.Address,
			Phone:     cfg.Store.Phone,
			TaxID:     cfg.Store.TaxID,
		},
	}, zlog)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:    handler.NewHealthHandler(cfg.App.Name, st.checks),
		Product:   handler.NewProductHandler(catalogService),
		Cart:      handler.NewCartHandler(cartService),
		Promotion: handler.NewPromotionHandler(promotionService),
		Sale:      handler.NewSaleHandler(saleService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             zlog,
		IdempotencyRepo: st.idempotency,
		RateLimiter:     rateLimiter,
	})

	go purgeIdempotencyKeys(ctx, st.idempotency, zlog)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver),
			zap.Bool("redis", cfg.Redis.Enabled),
			zap.Bool("kafka", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		zlog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}

	if producer != nil {
		producer.Close()
		producer.WaitClosed()
	}
	return nil
}

// openStores picks the gorm or in-memory adapters and layers Redis on top when enabled
func openStores(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (*stores, error) {
	st := &stores{checks: map[string]handler.HealthCheck{}}

	switch cfg.Database.Driver {
	case "memory":
		zlog.Warn("using in-memory storage, data is lost on restart")
		st.catalog = memory.NewCatalogRepository(database.DemoCatalog()...)
		st.promotions = memory.NewPromotionRepository()
		st.invoices = memory.NewInvoiceRepository()
		st.idempotency = memory.NewIdempotencyRepository()

	case "", "postgres":
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, zlog)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database handle: %w", err)
		}
		st.closers = append(st.closers, sqlDB.Close)
		st.checks["database"] = sqlDB.PingContext

		if err := database.AutoMigrate(db, zlog); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		if cfg.Database.Seed {
			if err := database.SeedCatalog(db, zlog); err != nil {
				zlog.Warn("failed to seed catalog", zap.Error(err))
			}
		}

		st.catalog = repository.NewCatalogRepository(db)
		st.promotions = repository.NewPromotionRepository(db)
		st.invoices = repository.NewInvoiceRepository(db)
		st.idempotency = repository.NewIdempotencyRepository(db)

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}

	st.carts = memory.NewCartStore()
	if cfg.Redis.Enabled {
		rdb, err := cache.New(ctx, &cfg.Redis)
		if err != nil {
			st.close(zlog)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		st.closers = append(st.closers, rdb.Close)
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		st.carts = cache.NewCartStore(rdb, cfg.Redis.CartTTL)
		st.promotions = cache.NewPromotionRepository(st.promotions, rdb, cfg.Redis.RuleTTL, zlog)
	}

	return st, nil
}

func (st *stores) close(zlog *zap.Logger) {
	for i := len(st.closers) - 1; i >= 0; i-- {
		if err := st.closers[i](); err != nil {
			zlog.Warn("close store", zap.Error(err))
		}
	}
	st.closers = nil
}

// openPublisher starts the Kafka producer when enabled. Sale events are dropped otherwise.
// The producer outlives ctx so that sales finishing during shutdown are still flushed.
func openPublisher(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (event.Publisher, *messaging.Producer) {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		return messaging.NopPublisher{}, nil
	}
	producer := messaging.NewProducer(&cfg.Kafka, zlog)
	producer.Start(context.WithoutCancel(ctx))
	zlog.Info("publishing sale events",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return messaging.NewSalePublisher(producer), producer
}

func openPrinter(printerType, usbPath, address, role string, zlog *zap.Logger) printer.Printer {
	p, err := printer.NewPrinterFromConfig(printerType, usbPath, address)
	if err != nil {
		zlog.Warn("failed to initialize printer", zap.String("role", role), zap.Error(err))
		return printer.NewNullPrinter()
	}
	return p
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, zlog *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				zlog.Warn("purge idempotency keys", zap.Error(err))
			}
		}
	}
}
