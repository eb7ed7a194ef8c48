package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados. Son etiquetas opacas: no hay integración con
// pasarelas, el procesamiento real ocurre fuera del sistema.
const (
	PaymentMethodCash      = "CASH"
	PaymentMethodCard      = "CARD"
	PaymentMethodTransfer  = "TRANSFER"
	PaymentMethodCheck     = "CHECK"
	PaymentMethodFinancing = "FINANCING"
	PaymentMethodOther     = "OTHER"
)

// ValidPaymentMethod verifica que el método sea uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer,
		PaymentMethodCheck, PaymentMethodFinancing, PaymentMethodOther:
		return true
	}
	return false
}

// Payment representa un abono individual contra una factura. Se crea una sola
// vez y es inmutable: no hay edición, borrado ni reembolso de un pago registrado.
// ClientID y AppointmentID se desnormalizan para reportes.
type Payment struct {
	ID            string
	InvoiceID     string
	ClientID      string
	AppointmentID string
	Amount        decimal.Decimal
	Method        string
	TransactionID string // referencia externa opcional (voucher, consignación)
	Notes         string
	PaidDate      time.Time
	CreatedAt     time.Time
}
