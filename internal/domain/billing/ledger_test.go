package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clinica-api/internal/domain/billing"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func invoiceOf(amount string, due *time.Time) *entity.Invoice {
	return &entity.Invoice{
		ID:      "inv-1",
		Amount:  decimal.RequireFromString(amount),
		DueDate: due,
	}
}

func paymentsOf(amounts ...string) []*entity.Payment {
	out := make([]*entity.Payment, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, &entity.Payment{Amount: decimal.RequireFromString(a)})
	}
	return out
}

func daysFromNow(d int) *time.Time {
	t := testNow.AddDate(0, 0, d)
	return &t
}

// ──────────────────────────────────────────────────────────────────────────────
// DeriveStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveStatus_SinPagosNiVencimiento_EsPending(t *testing.T) {
	st := billing.DeriveStatus(invoiceOf("220.00", nil), nil, testNow)
	assert.Equal(t, entity.InvoiceStatusPending, st)
}

func TestDeriveStatus_AbonoParcial_EsPartial(t *testing.T) {
	st := billing.DeriveStatus(invoiceOf("220.00", daysFromNow(30)), paymentsOf("100.00"), testNow)
	assert.Equal(t, entity.InvoiceStatusPartial, st)
}

func TestDeriveStatus_PagoCompleto_EsPaid(t *testing.T) {
	st := billing.DeriveStatus(invoiceOf("220.00", nil), paymentsOf("100.00", "120.00"), testNow)
	assert.Equal(t, entity.InvoiceStatusPaid, st)
}

// Una factura pagada no pasa a OVERDUE aunque la fecha ya haya vencido.
func TestDeriveStatus_PagadaVencida_SigueSiendoPaid(t *testing.T) {
	st := billing.DeriveStatus(invoiceOf("100.00", daysFromNow(-5)), paymentsOf("100.00"), testNow)
	assert.Equal(t, entity.InvoiceStatusPaid, st)
}

func TestDeriveStatus_SinPagosVencida_EsOverdue(t *testing.T) {
	st := billing.DeriveStatus(invoiceOf("100.00", daysFromNow(-1)), nil, testNow)
	assert.Equal(t, entity.InvoiceStatusOverdue, st)
}

// El vencimiento domina sobre el abono parcial: saldo + fecha pasada = OVERDUE.
func TestDeriveStatus_ParcialVencida_EsOverdue(t *testing.T) {
	st := billing.DeriveStatus(invoiceOf("100.00", daysFromNow(-1)), paymentsOf("40.00"), testNow)
	assert.Equal(t, entity.InvoiceStatusOverdue, st)
}

// Fecha de vencimiento exactamente "ahora" todavía no está vencida (se exige
// estrictamente dueDate < now).
func TestDeriveStatus_VenceJustoAhora_NoEsOverdue(t *testing.T) {
	due := testNow
	st := billing.DeriveStatus(invoiceOf("100.00", &due), nil, testNow)
	assert.Equal(t, entity.InvoiceStatusPending, st)
}

func TestDeriveStatus_NuncaProduceCancelled(t *testing.T) {
	// La derivación ignora el estado almacenado, incluso si es CANCELLED.
	inv := invoiceOf("100.00", daysFromNow(-1))
	inv.Status = entity.InvoiceStatusCancelled
	st := billing.DeriveStatus(inv, nil, testNow)
	assert.NotEqual(t, entity.InvoiceStatusCancelled, st)
}

// ──────────────────────────────────────────────────────────────────────────────
// RemainingBalance / SumPayments
// ──────────────────────────────────────────────────────────────────────────────

func TestRemainingBalance_SinPagos_EsElMontoTotal(t *testing.T) {
	rem := billing.RemainingBalance(invoiceOf("220.00", nil), nil)
	assert.True(t, rem.Equal(decimal.RequireFromString("220.00")),
		"sin pagos el saldo debe ser el monto completo, fue %s", rem)
}

func TestRemainingBalance_ConAbonos_DescuentaExacto(t *testing.T) {
	rem := billing.RemainingBalance(invoiceOf("220.00", nil), paymentsOf("100.00"))
	assert.True(t, rem.Equal(decimal.RequireFromString("120.00")))
}

// Propiedad: saldo + sum(pagos) == monto, siempre.
func TestRemainingBalance_RoundTripConSuma(t *testing.T) {
	inv := invoiceOf("357.89", nil)
	pays := paymentsOf("120.50", "0.01", "99.99")
	rem := billing.RemainingBalance(inv, pays)
	assert.True(t, rem.Add(billing.SumPayments(pays)).Equal(inv.Amount),
		"remaining + sum(pagos) debe reconstruir el monto original")
}

// Muchos abonos pequeños no acumulan error de redondeo: 100 × 0.10 = 10.00 exacto.
func TestSumPayments_CienCentavosSumanExacto(t *testing.T) {
	var pays []*entity.Payment
	for i := 0; i < 100; i++ {
		pays = append(pays, &entity.Payment{Amount: decimal.RequireFromString("0.10")})
	}
	total := billing.SumPayments(pays)
	require.True(t, total.Equal(decimal.RequireFromString("10.00")),
		"100 abonos de 0.10 deben sumar exactamente 10.00, fue %s", total)
}

// ──────────────────────────────────────────────────────────────────────────────
// PaymentPercentage
// ──────────────────────────────────────────────────────────────────────────────

func TestPaymentPercentage_MitadPagada_Es50(t *testing.T) {
	pct := billing.PaymentPercentage(invoiceOf("200.00", nil), paymentsOf("100.00"))
	assert.InDelta(t, 50.0, pct, 0.0001)
}

func TestPaymentPercentage_SinPagos_EsCero(t *testing.T) {
	pct := billing.PaymentPercentage(invoiceOf("200.00", nil), nil)
	assert.Equal(t, 0.0, pct)
}

func TestPaymentPercentage_PagoCompleto_Es100(t *testing.T) {
	pct := billing.PaymentPercentage(invoiceOf("220.00", nil), paymentsOf("100.00", "120.00"))
	assert.InDelta(t, 100.0, pct, 0.0001)
}

// Factura de monto cero: 0%, no NaN ni pánico por división por cero.
func TestPaymentPercentage_MontoCero_EsCeroSinPanic(t *testing.T) {
	pct := billing.PaymentPercentage(invoiceOf("0", nil), nil)
	assert.Equal(t, 0.0, pct)
}

// ──────────────────────────────────────────────────────────────────────────────
// FormatAmount
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatAmount_DosDecimalesFijos(t *testing.T) {
	assert.Equal(t, "120.00", billing.FormatAmount(decimal.RequireFromString("120")))
	assert.Equal(t, "0.10", billing.FormatAmount(decimal.RequireFromString("0.1")))
	assert.Equal(t, "99.99", billing.FormatAmount(decimal.RequireFromString("99.99")))
}
