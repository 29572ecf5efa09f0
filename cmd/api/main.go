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
	"github.com/tallerpro/taller-api/internal/application/inventory"
	"github.com/tallerpro/taller-api/internal/application/sales"
	"github.com/tallerpro/taller-api/internal/application/usecase"
	"github.com/tallerpro/taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/tallerpro/taller-api/internal/interfaces/http"
	"github.com/tallerpro/taller-api/pkg/config"
	"github.com/tallerpro/taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(cfg.App.Env, cfg.Log.Level)
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

	productRepo := postgres.NewProductRepository(pool)
	consumableRepo := postgres.NewConsumableRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	reconcileUC := inventory.NewReconcileUseCase(txRunner, stockRepo)
	historyUC := inventory.NewHistoryUseCase(movementRepo)
	checkoutUC := sales.NewCheckoutUseCase(
		txRunner, reconcileUC,
		productRepo, serviceRepo, customerRepo, saleRepo,
	)

	productUC := usecase.NewProductUseCase(productRepo)
	consumableUC := usecase.NewConsumableUseCase(consumableRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	vehicleUC := usecase.NewVehicleUseCase(vehicleRepo, customerRepo)
	serviceUC := usecase.NewServiceUseCase(serviceRepo)
	appointmentUC := usecase.NewAppointmentUseCase(appointmentRepo, customerRepo, vehicleRepo, serviceRepo)

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
		Title:    "Taller API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		ConsumableUC:  consumableUC,
		CustomerUC:    customerUC,
		VehicleUC:     vehicleUC,
		ServiceUC:     serviceUC,
		AppointmentUC: appointmentUC,
		ReconcileUC:   reconcileUC,
		HistoryUC:     historyUC,
		CheckoutUC:    checkoutUC,
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
