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

	"github.com/jhoicas/Clinica-api/internal/application/auth"
	"github.com/jhoicas/Clinica-api/internal/application/billing"
	infrapdf "github.com/jhoicas/Clinica-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Clinica-api/internal/interfaces/http"
	"github.com/jhoicas/Clinica-api/pkg/config"
	"github.com/jhoicas/Clinica-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := billing.NewLedgerUseCase(txRunner, clientRepo)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, paymentRepo, clientRepo, ledgerUC)
	paymentUC := billing.NewPaymentUseCase(paymentRepo)
	clientUC := billing.NewClientUseCase(clientRepo)
	sweeper := billing.NewOverdueSweeper(invoiceRepo, paymentRepo)

	// PDF: recibo imprimible con historial de pagos
	receiptGen := infrapdf.NewReceiptGenerator(cfg.App.ClinicName)
	receiptUC := billing.NewReceiptUseCase(invoiceRepo, paymentRepo, clientRepo, receiptGen)

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
		Title:    "Clínica Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ClientUC:  clientUC,
		InvoiceUC: invoiceUC,
		LedgerUC:  ledgerUC,
		PaymentUC: paymentUC,
		Sweeper:   sweeper,
		ReceiptUC: receiptUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
	})

	// Barrido de facturas vencidas en segundo plano
	if cfg.Sweeper.Enabled {
		log.Info().Dur("interval", cfg.Sweeper.Interval).Msg("sweeper de vencidas activo")
		go sweeper.Run(ctx, cfg.Sweeper.Interval)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel() // detiene el sweeper

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
