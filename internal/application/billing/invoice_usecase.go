package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
	ledger "github.com/jhoicas/Clinica-api/internal/domain/billing"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
	"github.com/jhoicas/Clinica-api/pkg/normalize"
)

// InvoiceUseCase casos de uso de facturas: creación, consulta, listado,
// edición de metadatos, borrado y agregados. Las mutaciones de dinero
// (pagos, anulación) no viven aquí sino en LedgerUseCase.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	ledgerUC    *LedgerUseCase
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	ledgerUC *LedgerUseCase,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		ledgerUC:    ledgerUC,
	}
}

// Create crea una factura en estado PENDING. El monto debe ser positivo y el
// cliente debe existir; el monto queda inmutable después de esto.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id es requerido", domain.ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		ClientID:      in.ClientID,
		AppointmentID: in.AppointmentID,
		Amount:        in.Amount,
		Status:        entity.InvoiceStatusPending,
		Description:   in.Description,
		DueDate:       in.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, client.Name, decimal.Zero)
	return &resp, nil
}

// Get devuelve la factura con total pagado, saldo, porcentaje y el historial
// de pagos completo (ordenado del más antiguo al más reciente).
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceDetailResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := uc.paymentRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	clientName := ""
	if client, _ := uc.clientRepo.GetByID(ctx, inv.ClientID); client != nil {
		clientName = client.Name
	}

	totalPaid := ledger.SumPayments(payments)
	history := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		history = append(history, toPaymentResponse(p, clientName))
	}
	return &dto.InvoiceDetailResponse{
		InvoiceResponse:   toInvoiceResponse(inv, clientName, totalPaid),
		RemainingAmount:   ledger.RemainingBalance(inv, payments),
		PaymentPercentage: ledger.PaymentPercentage(inv, payments),
		PaymentHistory:    history,
	}, nil
}

// List lista facturas con filtros opcionales de estado, cliente y búsqueda
// por texto (nombre del cliente o descripción, sin distinguir tildes ni
// mayúsculas).
func (uc *InvoiceUseCase) List(ctx context.Context, status, clientID, search string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	if status != "" && !validInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, status)
	}
	items, total, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{
		Status:   status,
		ClientID: clientID,
		Search:   normalize.Fold(search),
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toInvoiceResponse(&it.Invoice, it.ClientName, it.TotalPaid))
	}
	return &dto.InvoiceListResponse{
		Items: out,
		Meta:  dto.PageResponse{Page: page.Page, Limit: page.Limit, Total: total},
	}, nil
}

// Update edita metadatos (description, due_date) o anula la factura si el
// body trae status CANCELLED. Amount, client_id y los demás estados no son
// editables por esta vía: el estado lo deriva el motor de cobros.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.Status != "" {
		if in.Status != entity.InvoiceStatusCancelled {
			return nil, fmt.Errorf("%w: solo se acepta status CANCELLED", domain.ErrInvalidInput)
		}
		return uc.ledgerUC.Cancel(ctx, id)
	}

	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if in.Description != nil {
		inv.Description = *in.Description
	}
	if in.DueDate != nil {
		inv.DueDate = in.DueDate
	}
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.UpdateMeta(ctx, inv.ID, inv.Description, inv.DueDate, inv.UpdatedAt); err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(ctx, inv.ClientID); client != nil {
		clientName = client.Name
	}
	resp := toInvoiceResponse(inv, clientName, ledger.SumPayments(payments))
	return &resp, nil
}

// Delete elimina una factura sin actividad. Con pagos registrados retorna
// domain.ErrConflict: el historial de pagos debe sobrevivir, igual que no se
// puede borrar un cliente con citas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	count, err := uc.paymentRepo.CountByInvoice(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: la factura tiene pagos registrados", domain.ErrConflict)
	}
	return uc.invoiceRepo.Delete(ctx, id)
}

// Stats agregados para reportes: conteo por estado, total recaudado, saldo
// vivo y monto promedio. Es una lectura directa, no pasa por el motor de cobros.
func (uc *InvoiceUseCase) Stats(ctx context.Context) (*dto.InvoiceStatsResponse, error) {
	stats, err := uc.invoiceRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceStatsResponse{
		CountByStatus: map[string]int{
			entity.InvoiceStatusPending:   stats.PendingCount,
			entity.InvoiceStatusPartial:   stats.PartialCount,
			entity.InvoiceStatusPaid:      stats.PaidCount,
			entity.InvoiceStatusOverdue:   stats.OverdueCount,
			entity.InvoiceStatusCancelled: stats.CancelledCount,
		},
		TotalPaid:     stats.TotalPaid,
		TotalPending:  stats.TotalPending,
		AverageAmount: stats.AverageAmount,
	}, nil
}

func validInvoiceStatus(s string) bool {
	switch s {
	case entity.InvoiceStatusPending, entity.InvoiceStatusPartial,
		entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled:
		return true
	}
	return false
}
