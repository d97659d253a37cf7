package v1

import (
	"github.com/gin-gonic/gin"

	"purchasing/internal/domain/catalogs/currency"
	"purchasing/internal/domain/catalogs/item"
	"purchasing/internal/domain/catalogs/paymentterm"
	"purchasing/internal/domain/catalogs/supplier"
	"purchasing/internal/domain/catalogs/warehouse"
	"purchasing/internal/domain/documents/purchase_order"
	"purchasing/internal/domain/refdata"
	"purchasing/internal/infrastructure/http/v1/handlers"
	"purchasing/internal/infrastructure/http/v1/middleware"
	"purchasing/internal/infrastructure/storage/postgres"
	"purchasing/internal/infrastructure/storage/postgres/approval_repo"
	"purchasing/internal/infrastructure/storage/postgres/catalog_repo"
	"purchasing/internal/infrastructure/storage/postgres/document_repo"
	"purchasing/pkg/logger"
	"purchasing/pkg/numerator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs repository operations in transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// TokenValidator for bearer token validation
	TokenValidator middleware.TokenValidator

	// Numerator for document number generation
	Numerator *numerator.Service

	// Audit records document mutations; may be nil
	Audit *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.TokenValidator))

		registerEntityRoutes(protected, cfg)
	}

	return router
}

// registerEntityRoutes wires repositories, services and handlers for every
// catalog and document endpoint.
func registerEntityRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	currencyService := currency.NewService(catalog_repo.NewCurrencyRepo(cfg.TxManager), cfg.TxManager)
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(cfg.TxManager), cfg.TxManager)
	itemService := item.NewService(catalog_repo.NewItemRepo(cfg.TxManager), cfg.TxManager)
	warehouseService := warehouse.NewService(catalog_repo.NewWarehouseRepo(cfg.TxManager), cfg.TxManager)
	paymentTermService := paymentterm.NewService(catalog_repo.NewPaymentTermRepo(cfg.TxManager), cfg.TxManager)

	// --- Catalogs ---
	catalogs := rg.Group("/catalog")
	{
		handler := handlers.NewCurrencyHandler(baseHandler, currencyService)
		RegisterCatalogRoutes(catalogs.Group("/currencies"), handler, "catalog:currency")
	}
	{
		handler := handlers.NewSupplierHandler(baseHandler, supplierService)
		RegisterCatalogRoutes(catalogs.Group("/suppliers"), handler, "catalog:supplier")
	}
	{
		handler := handlers.NewItemHandler(baseHandler, itemService)
		RegisterCatalogRoutes(catalogs.Group("/items"), handler, "catalog:item")
	}
	{
		handler := handlers.NewWarehouseHandler(baseHandler, warehouseService)
		RegisterCatalogRoutes(catalogs.Group("/warehouses"), handler, "catalog:warehouse")
	}
	{
		handler := handlers.NewPaymentTermHandler(baseHandler, paymentTermService)
		RegisterCatalogRoutes(catalogs.Group("/payment-terms"), handler, "catalog:payment_term")
	}

	// --- Documents ---
	documents := rg.Group("/document")
	{
		loader := &refdata.Loader{
			ModuleCode:   purchase_order.ModuleCode,
			Currencies:   currencyService,
			PaymentTerms: paymentTermService,
			Suppliers:    supplierService,
			Items:        itemService,
			Warehouses:   warehouseService,
			Approvals:    approval_repo.NewApprovalConfigRepo(cfg.TxManager),
		}
		refCache := refdata.NewCache(loader.Load)

		// a nil *AuditService must stay a nil interface inside the service
		var audit purchase_order.AuditRecorder
		if cfg.Audit != nil {
			audit = cfg.Audit
		}

		repo := document_repo.NewPurchaseOrderRepo(cfg.TxManager)
		service := purchase_order.NewService(repo, cfg.Numerator, cfg.TxManager, refCache, audit)

		handler := handlers.NewPurchaseOrderHandler(baseHandler, service, cfg.Audit)
		RegisterPurchaseOrderRoutes(documents.Group("/purchase-orders"), handler, "document:purchase_order")
	}
}
