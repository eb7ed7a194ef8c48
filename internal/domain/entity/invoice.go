package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. PENDING, PARTIAL, PAID y OVERDUE se derivan del total
// pagado y la fecha de vencimiento; CANCELLED es terminal y solo se fija por la
// vía explícita de anulación.
const (
	InvoiceStatusPending   = "PENDING"
	InvoiceStatusPartial   = "PARTIAL"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice representa una obligación de cobro de un cliente de la clínica.
// Amount es inmutable después de la creación; Status es una proyección del
// historial de pagos más la fecha de vencimiento.
type Invoice struct {
	ID            string
	ClientID      string
	AppointmentID string // opcional: cita que originó la factura
	Amount        decimal.Decimal
	Status        string
	Description   string
	DueDate       *time.Time // opcional: sin fecha, la factura nunca vence
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
