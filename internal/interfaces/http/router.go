package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-pos/internal/application/analytics"
	"github.com/tu-usuario/retail-pos/internal/application/auth"
	"github.com/tu-usuario/retail-pos/internal/application/inventory"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/application/usecase"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	BusinessUC  *usecase.BusinessUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	StockUC     *inventory.StockUseCase
	StockQuery  *inventory.StockQueryUseCase
	CreateSale  *sales.CreateSaleUseCase
	SaleQuery   *sales.SaleQueryUseCase
	ReceiptPDF  *sales.ReceiptPDFUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Businesses (solo superuser)
	businesses := protected.Group("/businesses", RequireRole(entity.RoleSuperuser))
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	businesses.Post("/", businessHandler.Create)
	businesses.Get("/", businessHandler.List)
	businesses.Get("/:id", businessHandler.GetByID)

	// Categories (manager)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", RequireRole(entity.RoleManager), categoryHandler.Create)
	categories.Delete("/:id", RequireRole(entity.RoleManager), categoryHandler.Delete)

	// Products (lectura para todos; escritura solo manager)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleManager), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleManager), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleManager), productHandler.Delete)

	// Inventory (reposiciones y ajustes solo manager; consultas para todos)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.StockQuery)
	invGroup.Post("/restock", RequireRole(entity.RoleManager), inventoryHandler.Restock)
	invGroup.Post("/adjustments", RequireRole(entity.RoleManager), inventoryHandler.Adjust)
	invGroup.Get("/stock-logs", inventoryHandler.StockLogs)
	invGroup.Get("/restock-history", inventoryHandler.RestockHistory)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Sales (manager y cashier)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.SaleQuery, deps.ReceiptPDF)
	salesGroup.Post("/", RequireRole(entity.RoleManager, entity.RoleCashier), saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.ReceiptPDF)

	// Dashboards
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/manager", RequireRole(entity.RoleManager), dashboardHandler.Manager)
	dashboard.Get("/cashier", RequireRole(entity.RoleManager, entity.RoleCashier), dashboardHandler.Cashier)
}
