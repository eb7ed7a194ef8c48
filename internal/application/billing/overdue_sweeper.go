package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	ledger "github.com/jhoicas/Clinica-api/internal/domain/billing"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// OverdueSweeper pasa a OVERDUE las facturas PENDING/PARTIAL cuya fecha de
// vencimiento ya venció. Corre en un loop de fondo y también bajo demanda
// (PATCH /api/invoices/mark-overdue). Es idempotente: la consulta de
// candidatas excluye lo que ya está en OVERDUE, PAID o CANCELLED, así que una
// segunda pasada inmediata no cambia nada.
type OverdueSweeper struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
}

// NewOverdueSweeper construye el sweeper.
func NewOverdueSweeper(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) *OverdueSweeper {
	return &OverdueSweeper{invoiceRepo: invoiceRepo, paymentRepo: paymentRepo}
}

// Sweep procesa cada factura vencida de forma independiente (una actualización
// por factura, sin transacción global): el fallo de una no aborta el resto,
// se registra en el log y se continúa. Devuelve cuántas facturas cambiaron.
func (s *OverdueSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.invoiceRepo.ListDueForSweep(ctx, now)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, inv := range candidates {
		payments, err := s.paymentRepo.ListByInvoice(ctx, inv.ID)
		if err != nil {
			log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("sweep: cargar pagos")
			continue
		}
		// Re-derivar contra el historial real: si entre la consulta y ahora la
		// factura quedó pagada, se deja en paz.
		status := ledger.DeriveStatus(inv, payments, now)
		if status != entity.InvoiceStatusOverdue {
			continue
		}
		if err := s.invoiceRepo.SetStatus(ctx, inv.ID, entity.InvoiceStatusOverdue, now); err != nil {
			log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("sweep: actualizar estado")
			continue
		}
		updated++
	}
	if updated > 0 {
		log.Info().Int("updated", updated).Msg("sweep de facturas vencidas")
	}
	return updated, nil
}

// Run ejecuta Sweep cada interval hasta que el contexto se cancele. Cada
// pasada usa su propio now; los errores se loguean y el loop sigue vivo.
func (s *OverdueSweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Sweep(ctx, time.Now()); err != nil {
			log.Error().Err(err).Msg("sweep de facturas vencidas falló")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
