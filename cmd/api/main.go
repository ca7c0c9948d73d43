package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/internal/interfaces/ws"
	"github.com/jhoicas/Produccion-api/migrations"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Production.Storage).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		txRunner repository.TxRunner
		repos    repository.Repos
	)
	switch cfg.Production.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		if err := seedWarehouse(ctx, store, cfg.Production.DefaultWarehouseID); err != nil {
			log.Fatal().Err(err).Msg("almacén inicial en memoria")
		}
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, migrations.FS, log.Component("migraciones")); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	hub := ws.NewHub(log.Component("ws"))
	go hub.Run(ctx)

	productUC := usecase.NewProductUseCase(txRunner, repos)
	materialUC := usecase.NewMaterialUseCase(txRunner, repos, log.Component("catalogo"))
	warehouseUC := usecase.NewWarehouseUseCase(txRunner, repos.Warehouses)
	bomUC := usecase.NewBOMUseCase(txRunner, repos, log.Component("bom"))
	stockUC := usecase.NewStockUseCase(repos)
	planningUC := planning.NewUseCase(catalog.Sources{
		Products:   repos.Products,
		Materials:  repos.Materials,
		Recipes:    repos.Recipes,
		Warehouses: repos.Warehouses,
	}, repos.Stock, log.Component("planeacion"))
	productionUC := production.NewUseCase(txRunner, repos, hub, log.Component("produccion"), production.Config{
		DefaultWarehouseID: cfg.Production.DefaultWarehouseID,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Producción API",
		}))
	}

	app.Use("/ws", ws.UpgradeOnly)
	app.Get("/ws", hub.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		MaterialUC:   materialUC,
		WarehouseUC:  warehouseUC,
		BOMUC:        bomUC,
		StockUC:      stockUC,
		PlanningUC:   planningUC,
		ProductionUC: productionUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// seedWarehouse crea el almacén predeterminado para que el modo en memoria sea usable de inmediato.
func seedWarehouse(ctx context.Context, store *memory.Store, id string) error {
	if id == "" {
		return nil
	}
	now := time.Now()
	return store.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Warehouses.Create(ctx, &entity.Warehouse{
			ID:        id,
			Name:      id,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		return repos.Warehouses.SetDefault(ctx, id)
	})
}
