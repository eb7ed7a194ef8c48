package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// InvoiceFilter filtros para el listado de facturas.
type InvoiceFilter struct {
	Status   string
	ClientID string
	Search   string // subcadena normalizada contra nombre del cliente o descripción
	Limit    int
	Offset   int
}

// InvoiceListItem fila de listado con el nombre del cliente desnormalizado.
type InvoiceListItem struct {
	Invoice    entity.Invoice
	ClientName string
	TotalPaid  decimal.Decimal
}

// InvoiceStats agregados para el tablero de facturación.
type InvoiceStats struct {
	PendingCount   int
	PartialCount   int
	PaidCount      int
	OverdueCount   int
	CancelledCount int
	TotalPaid      decimal.Decimal // suma de todos los pagos registrados
	TotalPending   decimal.Decimal // saldo vivo de facturas no canceladas
	AverageAmount  decimal.Decimal // monto promedio de facturas no canceladas
}

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIDForUpdate carga la factura bloqueando su fila (SELECT ... FOR UPDATE).
	// Solo tiene sentido dentro de una transacción; serializa los registros de
	// pago concurrentes contra la misma factura.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]InvoiceListItem, int, error)
	// SetStatus actualiza el estado derivado y updated_at. Es la única vía de
	// escritura del estado; la usan el motor de cobros y la anulación explícita.
	SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	UpdateMeta(ctx context.Context, id, description string, dueDate *time.Time, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	// ListDueForSweep devuelve facturas PENDING/PARTIAL con due_date < now,
	// candidatas a pasar a OVERDUE.
	ListDueForSweep(ctx context.Context, now time.Time) ([]*entity.Invoice, error)
	Stats(ctx context.Context) (*InvoiceStats, error)
}
