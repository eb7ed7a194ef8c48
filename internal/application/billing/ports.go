package billing

import (
	"context"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// LedgerTxRunner ejecuta una función dentro de una transacción con los repos
// de facturas y pagos atados a ella. Es la frontera de atomicidad del motor de
// cobros: leer saldo, insertar pago y actualizar estado ocurren o todos o ninguno.
type LedgerTxRunner interface {
	RunLedger(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// ReceiptPDFGenerator genera el PDF de una factura con su historial de pagos.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		invoice *entity.Invoice,
		client *entity.Client,
		payments []*entity.Payment,
	) ([]byte, error)
}
