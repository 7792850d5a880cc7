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

	appanalytics "github.com/jhoicas/cafe-pos-api/internal/application/analytics"
	"github.com/jhoicas/cafe-pos-api/internal/application/auth"
	"github.com/jhoicas/cafe-pos-api/internal/application/catalog"
	"github.com/jhoicas/cafe-pos-api/internal/application/sales"
	"github.com/jhoicas/cafe-pos-api/internal/domain/expansion"
	infrapdf "github.com/jhoicas/cafe-pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cafe-pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cafe-pos-api/internal/infrastructure/woocommerce"
	httpRouter "github.com/jhoicas/cafe-pos-api/internal/interfaces/http"
	"github.com/jhoicas/cafe-pos-api/pkg/config"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios (atados al pool; el registro de venta usa copias atadas a tx)
	materialRepo := postgres.NewMaterialRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	consumptionRepo := postgres.NewConsumptionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Motor de expansión sobre el catálogo de solo lectura
	repoCatalog := sales.NewRepoCatalog(materialRepo, productRepo, recipeRepo)
	engine := expansion.NewEngine(repoCatalog, log)

	// Catálogo: CRUD + recosteo sincrónico en cascada
	recoster := catalog.NewRecoster(materialRepo, productRepo, recipeRepo, log)
	materialUC := catalog.NewMaterialUseCase(materialRepo, recoster, log)
	productUC := catalog.NewProductUseCase(productRepo)
	recipeUC := catalog.NewRecipeUseCase(recipeRepo, productRepo, materialRepo, recoster)

	// Ventas: cotización, tiquete PDF y registro de consumo
	ticketGenerator := infrapdf.NewMarotoTicketGenerator(cfg.App.Name)
	quoteUC := sales.NewQuoteUseCase(engine, productRepo, ticketGenerator, log)
	recordUC := sales.NewRecordSaleUseCase(productRepo, recipeRepo, materialRepo, consumptionRepo, engine, txRunner, log)

	// Tienda WooCommerce: órdenes remotas y cliente de mostrador. Si
	// WOO_BASE_URL está vacío las llamadas fallan con error descriptivo;
	// la API local sigue operativa.
	wooClient := woocommerce.NewClient(cfg.Woo, log)
	orderSyncUC := sales.NewOrderSyncUseCase(woocommerce.NewGateway(wooClient), recordUC, log)

	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, materialRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Café POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC:  materialUC,
		ProductUC:   productUC,
		RecipeUC:    recipeUC,
		QuoteUC:     quoteUC,
		RecordUC:    recordUC,
		OrderSyncUC: orderSyncUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
