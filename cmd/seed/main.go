// Siembra datos de demostración para desarrollo local: un usuario por rol,
// pacientes y facturas en distintos estados con pagos parciales.
package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/auth"
	"github.com/jhoicas/Clinica-api/internal/application/billing"
	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Clinica-api/pkg/config"
	"github.com/jhoicas/Clinica-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})
	ctx := context.Background()

	if err := postgres.UpMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

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

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	ledgerUC := billing.NewLedgerUseCase(txRunner, clientRepo)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, paymentRepo, clientRepo, ledgerUC)
	clientUC := billing.NewClientUseCase(clientRepo)

	// Personal de demo, uno por rol
	staff := []dto.RegisterRequest{
		{Email: "admin@clinica.local", Password: "admin12345", Name: "Administración", Role: entity.RoleAdmin},
		{Email: "recepcion@clinica.local", Password: "recep12345", Name: "Recepción", Role: entity.RoleRecepcion},
		{Email: "doctor@clinica.local", Password: "doctor12345", Name: "Dra. Gómez", Role: entity.RoleDoctor},
	}
	for _, s := range staff {
		if _, err := authUC.RegisterUser(ctx, s); err != nil {
			log.Warn().Err(err).Str("email", s.Email).Msg("seed: usuario omitido")
		}
	}

	// Pacientes
	patients := []dto.CreateClientRequest{
		{Name: "José Pérez", Email: "jose.perez@example.com", Phone: "300-555-0101"},
		{Name: "María Núñez", Email: "maria.nunez@example.com", Phone: "300-555-0102"},
		{Name: "Andrés Castaño", Email: "andres.castano@example.com"},
	}
	clientIDs := make([]string, 0, len(patients))
	for _, p := range patients {
		c, err := clientUC.Create(ctx, p)
		if err != nil {
			log.Fatal().Err(err).Str("name", p.Name).Msg("seed: crear cliente")
		}
		clientIDs = append(clientIDs, c.ID)
	}

	nextWeek := time.Now().AddDate(0, 0, 7)
	lastWeek := time.Now().AddDate(0, 0, -7)

	// Factura pendiente con vencimiento futuro
	mustInvoice(ctx, log, invoiceUC, dto.CreateInvoiceRequest{
		ClientID:    clientIDs[0],
		Amount:      decimal.NewFromInt(250000),
		Description: "Limpieza dental y control",
		DueDate:     &nextWeek,
	})

	// Factura con pago parcial
	inv := mustInvoice(ctx, log, invoiceUC, dto.CreateInvoiceRequest{
		ClientID:    clientIDs[1],
		Amount:      decimal.NewFromInt(800000),
		Description: "Tratamiento de ortodoncia, cuota inicial",
		DueDate:     &nextWeek,
	})
	mustPayment(ctx, log, ledgerUC, dto.RecordPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(300000),
		Method:    entity.PaymentMethodCard,
		Notes:     "abono inicial",
	})

	// Factura ya vencida, la marca el sweeper
	mustInvoice(ctx, log, invoiceUC, dto.CreateInvoiceRequest{
		ClientID:    clientIDs[2],
		Amount:      decimal.NewFromInt(120000),
		Description: "Radiografía panorámica",
		DueDate:     &lastWeek,
	})

	// Factura saldada
	inv = mustInvoice(ctx, log, invoiceUC, dto.CreateInvoiceRequest{
		ClientID:    clientIDs[0],
		Amount:      decimal.NewFromInt(90000),
		Description: "Consulta de valoración",
	})
	mustPayment(ctx, log, ledgerUC, dto.RecordPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(90000),
		Method:    entity.PaymentMethodCash,
	})

	log.Info().Msg("datos de demo sembrados")
}

func mustInvoice(ctx context.Context, log *logger.Logger, uc *billing.InvoiceUseCase, in dto.CreateInvoiceRequest) *dto.InvoiceResponse {
	inv, err := uc.Create(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Str("description", in.Description).Msg("seed: crear factura")
	}
	return inv
}

func mustPayment(ctx context.Context, log *logger.Logger, uc *billing.LedgerUseCase, in dto.RecordPaymentRequest) {
	if _, err := uc.RecordPayment(ctx, in); err != nil {
		log.Fatal().Err(err).Str("invoice_id", in.InvoiceID).Msg("seed: registrar pago")
	}
}
