package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// PaymentFilter filtros para el listado global de pagos.
type PaymentFilter struct {
	InvoiceID string
	ClientID  string
	Method    string
	From      *time.Time // rango sobre paid_date
	To        *time.Time
	Limit     int
	Offset    int
}

// PaymentListItem fila de listado con campos de despliegue desnormalizados.
type PaymentListItem struct {
	Payment    entity.Payment
	ClientName string
}

// PaymentRepository define el puerto de persistencia para Payment.
// Create es persistencia pura: la validación contra el saldo de la factura es
// responsabilidad del motor de cobros, que la ejecuta antes de llamar aquí.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	// ListByInvoice devuelve el historial de pagos ordenado por created_at
	// ascendente (el más antiguo primero, como se muestra en pantalla).
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]PaymentListItem, int, error)
	CountByInvoice(ctx context.Context, invoiceID string) (int, error)
}
