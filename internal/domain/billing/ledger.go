// Package billing contiene las reglas puras del libro de cobros: saldo
// pendiente, porcentaje pagado y derivación de estado de una factura.
//
// Invariante central: para toda factura I,
//
//	sum(P.Amount for P in payments(I)) <= I.Amount
//
// y el estado almacenado siempre coincide con DeriveStatus sobre el historial
// completo de pagos (excepto CANCELLED, que es terminal y se fija aparte).
//
// Todas las funciones son deterministas y no tocan persistencia; los casos de
// uso las invocan con los datos ya cargados.
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// SumPayments suma los montos del historial de pagos de una factura.
func SumPayments(payments []*entity.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingBalance devuelve el saldo pendiente: Amount - sum(pagos).
// Con el invariante de no-sobrepago vigente, nunca es negativo.
func RemainingBalance(inv *entity.Invoice, payments []*entity.Payment) decimal.Decimal {
	return inv.Amount.Sub(SumPayments(payments))
}

// PaymentPercentage devuelve el porcentaje pagado en [0, 100].
// Una factura de monto cero reporta 0% (guarda contra división por cero).
func PaymentPercentage(inv *entity.Invoice, payments []*entity.Payment) float64 {
	if !inv.Amount.IsPositive() {
		return 0
	}
	pct := SumPayments(payments).
		Mul(decimal.NewFromInt(100)).
		Div(inv.Amount)
	f, _ := pct.Float64()
	return f
}

// DeriveStatus deriva el estado de una factura a partir de su historial de
// pagos y la fecha de vencimiento contra "now". Nunca produce CANCELLED: ese
// estado solo existe por anulación explícita y no participa en la derivación.
//
// Reglas, en orden:
//  1. PAID    si sum(pagos) cubre el monto total.
//  2. OVERDUE si queda saldo y la fecha de vencimiento ya pasó.
//  3. PARTIAL si hay algún abono.
//  4. PENDING en cualquier otro caso.
func DeriveStatus(inv *entity.Invoice, payments []*entity.Payment, now time.Time) string {
	paid := SumPayments(payments)
	if inv.Amount.IsPositive() && paid.GreaterThanOrEqual(inv.Amount) {
		return entity.InvoiceStatusPaid
	}
	if inv.DueDate != nil && inv.DueDate.Before(now) && paid.LessThan(inv.Amount) {
		return entity.InvoiceStatusOverdue
	}
	if paid.IsPositive() {
		return entity.InvoiceStatusPartial
	}
	return entity.InvoiceStatusPending
}

// FormatAmount formatea un monto con dos decimales fijos para mostrar y para
// mensajes de error ("el monto excede el saldo pendiente de $120.00").
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
