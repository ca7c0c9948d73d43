package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	MaterialUC   *usecase.MaterialUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	BOMUC        *usecase.BOMUseCase
	StockUC      *usecase.StockUseCase
	PlanningUC   *planning.UseCase
	ProductionUC *production.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	catalogAdmin := RequireRole(jwt.RoleAdmin, jwt.RoleSupervisor)

	catalog := NewCatalogHandler(deps.ProductUC, deps.MaterialUC, deps.WarehouseUC)
	api.Get("/products", catalog.ListProducts)
	api.Post("/products", catalogAdmin, catalog.CreateProduct)
	api.Get("/materials", catalog.ListMaterials)
	api.Post("/materials", catalogAdmin, catalog.CreateMaterial)
	api.Patch("/materials/:code/cost", catalogAdmin, catalog.UpdateMaterialCost)
	api.Get("/warehouses", catalog.ListWarehouses)
	api.Post("/warehouses", catalogAdmin, catalog.CreateWarehouse)
	api.Put("/warehouses/:id/default", catalogAdmin, catalog.SetDefaultWarehouse)

	bomHandler := NewBOMHandler(deps.BOMUC)
	api.Get("/bom/products/:code/cost", bomHandler.ProductCost)
	api.Get("/bom/products/:code/base-materials", bomHandler.BaseMaterials)
	api.Get("/recipes/:code", bomHandler.GetRecipe)
	api.Put("/recipes/:code", catalogAdmin, bomHandler.SaveRecipe)

	stock := NewStockHandler(deps.StockUC)
	api.Get("/stock/:code", stock.GetStock)
	api.Get("/movements", stock.ListMovements)

	api.Post("/planning", NewPlanningHandler(deps.PlanningUC).Plan)

	orders := api.Group("/production-orders")
	prod := NewProductionHandler(deps.ProductionUC)
	orders.Post("/", prod.Create)
	orders.Get("/", prod.List)
	orders.Get("/:id", prod.GetByID)
	orders.Delete("/:id", prod.Delete)
	orders.Post("/:id/complete", prod.Complete)
	orders.Post("/:id/reopen", prod.Reopen)
	orders.Post("/:id/vales", prod.ApplyVale)
	orders.Get("/:id/vales", prod.ListVales)
}
