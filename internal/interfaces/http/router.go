package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/auth"
	"github.com/jhoicas/Clinica-api/internal/application/billing"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC  *billing.ClientUseCase
	InvoiceUC *billing.InvoiceUseCase
	LedgerUC  *billing.LedgerUseCase
	PaymentUC *billing.PaymentUseCase
	Sweeper   *billing.OverdueSweeper
	ReceiptUC *billing.ReceiptUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
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

	// Escrituras de facturación solo para admin y recepción; los doctores
	// tienen lectura.
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleRecepcion)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", canWrite, clientHandler.Create)
	clients.Get("/", clientHandler.List)

	// Invoices (protegido). Las rutas fijas van antes que /:id.
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Sweeper, deps.ReceiptUC)
	invoices.Get("/stats", invoiceHandler.Stats)
	invoices.Patch("/mark-overdue", canWrite, invoiceHandler.MarkOverdue)
	invoices.Post("/", canWrite, invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Put("/:id", canWrite, invoiceHandler.Update)
	invoices.Delete("/:id", RequireRole(entity.RoleAdmin), invoiceHandler.Delete)

	// Payments (protegido)
	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.LedgerUC, deps.PaymentUC)
	payments.Post("/", canWrite, paymentHandler.Create)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:id", paymentHandler.GetByID)
}
