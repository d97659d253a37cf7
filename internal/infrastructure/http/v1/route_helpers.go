// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"purchasing/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// PurchaseOrderRouteHandler defines the routes of the purchase order handler.
type PurchaseOrderRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Cancel(c *gin.Context)
	CheckStatus(c *gin.Context)
	SubmitApproval(c *gin.Context)
	History(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewCurrencyRepo(txManager)
//	service := currency.NewService(repo, txManager)
//	handler := handlers.NewCurrencyHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/currencies"), handler, "catalog:currency")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequirePermission(permission+":delete"), handler.SetDeletionMark)
}

// RegisterPurchaseOrderRoutes registers CRUD plus lifecycle routes for the
// purchase order document. There is no hard delete: documents leave the
// working set through Cancel only.
func RegisterPurchaseOrderRoutes(group *gin.RouterGroup, handler PurchaseOrderRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.POST("/:id/cancel", middleware.RequirePermission(permission+":cancel"), handler.Cancel)
	group.GET("/:id/status", middleware.RequirePermission(permission+":read"), handler.CheckStatus)
	group.POST("/:id/approval", middleware.RequirePermission(permission+":approve"), handler.SubmitApproval)
	group.GET("/:id/history", middleware.RequirePermission(permission+":read"), handler.History)
}
