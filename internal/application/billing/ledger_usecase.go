package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
	ledger "github.com/jhoicas/Clinica-api/internal/domain/billing"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// maxTxAttempts reintentos ante contención transitoria sobre la misma factura
// (deadlock o fallo de serialización). Los errores de negocio nunca se reintentan.
const maxTxAttempts = 3

// LedgerUseCase es la única vía de escritura del estado monetario de una
// factura: todo registro de pago y toda anulación pasan por aquí. Ningún otro
// código inserta pagos ni cambia el estado derivado.
type LedgerUseCase struct {
	txRunner   LedgerTxRunner
	clientRepo repository.ClientRepository
}

// NewLedgerUseCase construye el motor de cobros.
func NewLedgerUseCase(txRunner LedgerTxRunner, clientRepo repository.ClientRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, clientRepo: clientRepo}
}

// RecordPayment registra un abono contra una factura y recalcula su estado,
// todo dentro de una transacción con la fila de la factura bloqueada. Dos
// abonos concurrentes contra la misma factura se serializan: cada uno valida
// contra el saldo real, no contra una lectura obsoleta, así el invariante
// sum(pagos) <= monto se sostiene también bajo concurrencia.
//
// Errores:
//   - domain.ErrNotFound      factura inexistente
//   - domain.ErrInvalidState  factura cancelada
//   - domain.ErrInvalidInput  monto no positivo, método inválido o sobrepago
//   - domain.ErrConflict      contención persistente tras agotar reintentos
func (uc *LedgerUseCase) RecordPayment(ctx context.Context, in dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if in.InvoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: método de pago desconocido %q", domain.ErrInvalidInput, in.Method)
	}

	var out *dto.RecordPaymentResponse
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		out, err = uc.recordPaymentTx(ctx, in)
		if err == nil || !errors.Is(err, domain.ErrTxConflict) {
			return out, err
		}
	}
	// Contención que no cedió: se reporta como conflicto al caller.
	return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

func (uc *LedgerUseCase) recordPaymentTx(ctx context.Context, in dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	var inv *entity.Invoice
	var payment *entity.Payment
	totalPaid := decimal.Zero

	err := uc.txRunner.RunLedger(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status == entity.InvoiceStatusCancelled {
			return domain.ErrInvalidState
		}

		payments, err := paymentRepo.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		remaining := ledger.RemainingBalance(inv, payments)
		if in.Amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: el monto excede el saldo pendiente de %s",
				domain.ErrInvalidInput, ledger.FormatAmount(remaining))
		}

		now := time.Now()
		payment = &entity.Payment{
			ID:            uuid.New().String(),
			InvoiceID:     inv.ID,
			ClientID:      inv.ClientID,
			AppointmentID: inv.AppointmentID,
			Amount:        in.Amount,
			Method:        in.Method,
			TransactionID: in.TransactionID,
			Notes:         in.Notes,
			PaidDate:      now,
			CreatedAt:     now,
		}
		if err := paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		// Recalcular estado con el nuevo saldo. El abono cubre a lo sumo el
		// saldo (ya validado), así que el resultado es PAID o PARTIAL.
		totalPaid = ledger.SumPayments(payments).Add(in.Amount)
		newRemaining := remaining.Sub(in.Amount)
		if newRemaining.IsZero() {
			inv.Status = entity.InvoiceStatusPaid
		} else {
			inv.Status = entity.InvoiceStatusPartial
		}
		inv.UpdatedAt = now
		return invoiceRepo.SetStatus(ctx, inv.ID, inv.Status, inv.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}

	clientName := uc.clientName(ctx, inv.ClientID)
	return &dto.RecordPaymentResponse{
		Payment: toPaymentResponse(payment, clientName),
		Invoice: toInvoiceResponse(inv, clientName, totalPaid),
	}, nil
}

// Cancel anula una factura sin pagos. La anulación solo tiene sentido antes
// del primer abono: con pagos registrados retorna domain.ErrConflict. El
// estado CANCELLED es terminal; después de esto ningún pago es aceptado.
func (uc *LedgerUseCase) Cancel(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.txRunner.RunLedger(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status == entity.InvoiceStatusCancelled {
			return nil // ya cancelada, idempotente
		}
		count, err := paymentRepo.CountByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: la factura tiene pagos registrados", domain.ErrConflict)
		}
		inv.Status = entity.InvoiceStatusCancelled
		inv.UpdatedAt = time.Now()
		return invoiceRepo.SetStatus(ctx, inv.ID, inv.Status, inv.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, uc.clientName(ctx, inv.ClientID), decimal.Zero)
	return &resp, nil
}

func (uc *LedgerUseCase) clientName(ctx context.Context, clientID string) string {
	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil || client == nil {
		return ""
	}
	return client.Name
}
