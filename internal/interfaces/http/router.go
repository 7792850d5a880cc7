package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/cafe-pos-api/internal/application/analytics"
	"github.com/jhoicas/cafe-pos-api/internal/application/auth"
	"github.com/jhoicas/cafe-pos-api/internal/application/catalog"
	"github.com/jhoicas/cafe-pos-api/internal/application/sales"
	"github.com/jhoicas/cafe-pos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MaterialUC  *catalog.MaterialUseCase
	ProductUC   *catalog.ProductUseCase
	RecipeUC    *catalog.RecipeUseCase
	QuoteUC     *sales.QuoteUseCase
	RecordUC    *sales.RecordSaleUseCase
	OrderSyncUC *sales.OrderSyncUseCase
	DashboardUC *appanalytics.DashboardUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
// Política de roles: el catálogo (materiales, productos, recetas) y el tablero
// son de admin; cotizar y registrar ventas también lo puede hacer el cajero;
// el tiquete de cocina además el barista.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)
	adminOrCashier := RequireRole(entity.RoleAdmin, entity.RoleCashier)
	anyStaff := RequireRole(entity.RoleAdmin, entity.RoleCashier, entity.RoleBarista)

	// Materials (catálogo, admin)
	materials := protected.Group("/materials", adminOnly)
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/low-stock", materialHandler.ListLowStock)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Post("/:id/stock", materialHandler.AdjustStock)
	materials.Delete("/:id", materialHandler.Delete)

	// Products y recetas (catálogo, admin; lectura también para cajero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	recipeHandler := NewRecipeHandler(deps.RecipeUC)
	products.Get("/", adminOrCashier, productHandler.List)
	products.Get("/:id", adminOrCashier, productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/recipe", adminOrCashier, recipeHandler.GetRecipe)
	products.Post("/:id/recipe", adminOnly, recipeHandler.AddLine)
	products.Post("/:id/recipe/reorder", adminOnly, recipeHandler.Reorder)

	recipeLines := protected.Group("/recipe-lines", adminOnly)
	recipeLines.Put("/:lineId", recipeHandler.UpdateLine)
	recipeLines.Delete("/:lineId", recipeHandler.DeleteLine)

	// Sales: cotización y registro de consumo
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.QuoteUC, deps.RecordUC, deps.OrderSyncUC)
	salesGroup.Post("/components", anyStaff, saleHandler.Components)
	salesGroup.Post("/price", adminOrCashier, saleHandler.Price)
	salesGroup.Post("/cogs", adminOnly, saleHandler.Cogs)
	salesGroup.Post("/ticket", anyStaff, saleHandler.Ticket)
	salesGroup.Post("/record", adminOrCashier, saleHandler.RecordSale)
	salesGroup.Get("/orders/:orderId/consumption", adminOrCashier, saleHandler.ConsumptionByOrder)
	salesGroup.Post("/store-orders/:storeOrderId/record", adminOrCashier, saleHandler.RecordStoreOrder)
	salesGroup.Get("/store/guest-customer", adminOrCashier, saleHandler.GuestCustomer)

	// Dashboard (admin)
	dashboard := protected.Group("/dashboard", adminOnly)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/", dashboardHandler.GetDashboard)
	dashboard.Get("/margins", dashboardHandler.GetMargins)
	dashboard.Get("/cost-trend", dashboardHandler.GetCostTrend)
	dashboard.Get("/pairs", dashboardHandler.GetFrequentPairs)
}
