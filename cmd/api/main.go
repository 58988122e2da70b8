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
	appanalytics "github.com/tu-usuario/retail-pos/internal/application/analytics"
	"github.com/tu-usuario/retail-pos/internal/application/auth"
	"github.com/tu-usuario/retail-pos/internal/application/inventory"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/application/usecase"
	infranotifier "github.com/tu-usuario/retail-pos/internal/infrastructure/notifier"
	infrapdf "github.com/tu-usuario/retail-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/retail-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/retail-pos/internal/interfaces/http"
	"github.com/tu-usuario/retail-pos/pkg/config"
	"github.com/tu-usuario/retail-pos/pkg/logger"
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

	// Repositorios sobre el pool (los de escritura transaccional se re-crean
	// atados a la tx dentro del TxRunner)
	userRepo := postgres.NewUserRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockLogRepo := postgres.NewStockLogRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mailNotifier := infranotifier.NewMailNotifier(cfg.SMTP, log)

	stockUC := inventory.NewStockUseCase(txRunner, productRepo, businessRepo, mailNotifier)
	stockQueryUC := inventory.NewStockQueryUseCase(stockLogRepo, productRepo)

	createSaleUC := sales.NewCreateSaleUseCase(txRunner, productRepo, stockUC, stockUC)
	saleQueryUC := sales.NewSaleQueryUseCase(saleRepo)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptPDFUC := sales.NewReceiptPDFUseCase(saleRepo, businessRepo, productRepo, receiptGenerator)

	businessUC := usecase.NewBusinessUseCase(businessRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, productRepo)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, categoryRepo, stockUC)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, saleRepo, stockLogRepo)

	authUC := auth.NewAuthUseCase(userRepo, businessRepo, auth.JWTConfig{
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
		Title:    "Retail POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		BusinessUC:  businessUC,
		CategoryUC:  categoryUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		StockQuery:  stockQueryUC,
		CreateSale:  createSaleUC,
		SaleQuery:   saleQueryUC,
		ReceiptPDF:  receiptPDFUC,
		DashboardUC: dashboardUC,
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
