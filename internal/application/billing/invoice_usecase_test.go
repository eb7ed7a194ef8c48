package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

func TestInvoiceCreate_Validaciones(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.invoiceUC.Create(ctx, dto.CreateInvoiceRequest{
		Amount: decimal.RequireFromString("100.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "client_id es obligatorio")

	_, err = env.invoiceUC.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: env.clientID,
		Amount:   decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero no es facturable")

	_, err = env.invoiceUC.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: env.clientID,
		Amount:   decimal.RequireFromString("-5.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto negativo")

	_, err = env.invoiceUC.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: "cliente-fantasma",
		Amount:   decimal.RequireFromString("100.00"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el cliente debe existir")
}

func TestInvoiceCreate_NacePendienteConNombreDeCliente(t *testing.T) {
	env := newTestEnv(t)
	inv, err := env.invoiceUC.Create(context.Background(), dto.CreateInvoiceRequest{
		ClientID:    env.clientID,
		Amount:      decimal.RequireFromString("150.00"),
		Description: "Blanqueamiento",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "José Pérez", inv.ClientName)
	assert.True(t, inv.TotalPaid.IsZero())
}

func TestInvoiceGet_Inexistente(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.invoiceUC.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceList_FiltroPorEstado(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pendiente := env.newInvoice(t, "100.00", nil)
	pagada := env.newInvoice(t, "50.00", nil)
	_, err := env.pay(t, pagada, "50.00", entity.PaymentMethodCash)
	require.NoError(t, err)

	out, err := env.invoiceUC.List(ctx, entity.InvoiceStatusPending, "", "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, pendiente, out.Items[0].ID)

	out, err = env.invoiceUC.List(ctx, entity.InvoiceStatusPaid, "", "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, pagada, out.Items[0].ID)

	_, err = env.invoiceUC.List(ctx, "ARCHIVED", "", "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado desconocido se rechaza")
}

// La búsqueda no distingue tildes ni mayúsculas.
func TestInvoiceList_BusquedaSinTildes(t *testing.T) {
	env := newTestEnv(t)
	env.newInvoice(t, "100.00", nil)

	out, err := env.invoiceUC.List(context.Background(), "", "", "JOSÉ", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1, "JOSÉ debe encontrar a José Pérez")

	out, err = env.invoiceUC.List(context.Background(), "", "", "perez", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1, "perez debe encontrar a Pérez")
}

func TestInvoiceUpdate_SoloMetadatos(t *testing.T) {
	env := newTestEnv(t)
	invID := env.newInvoice(t, "100.00", nil)

	desc := "Control postoperatorio"
	venc := time.Now().AddDate(0, 1, 0)
	out, err := env.invoiceUC.Update(context.Background(), invID, dto.UpdateInvoiceRequest{
		Description: &desc,
		DueDate:     &venc,
	})
	require.NoError(t, err)
	assert.Equal(t, desc, out.Description)
	require.NotNil(t, out.DueDate)
	assert.Equal(t, entity.InvoiceStatusPending, out.Status, "editar metadatos no toca el estado")
}

func TestInvoiceUpdate_SoloAceptaStatusCancelled(t *testing.T) {
	env := newTestEnv(t)
	invID := env.newInvoice(t, "100.00", nil)

	_, err := env.invoiceUC.Update(context.Background(), invID, dto.UpdateInvoiceRequest{
		Status: entity.InvoiceStatusPaid,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"el estado lo deriva el motor de cobros, no el caller")

	out, err := env.invoiceUC.Update(context.Background(), invID, dto.UpdateInvoiceRequest{
		Status: entity.InvoiceStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, out.Status)
}

func TestInvoiceDelete_SinPagosBorra_ConPagosConflicto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sinPagos := env.newInvoice(t, "100.00", nil)
	require.NoError(t, env.invoiceUC.Delete(ctx, sinPagos))
	_, err := env.invoiceUC.Get(ctx, sinPagos)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	conPagos := env.newInvoice(t, "100.00", nil)
	_, err = env.pay(t, conPagos, "10.00", entity.PaymentMethodCash)
	require.NoError(t, err)
	err = env.invoiceUC.Delete(ctx, conPagos)
	assert.ErrorIs(t, err, domain.ErrConflict, "el historial de pagos debe sobrevivir")

	assert.ErrorIs(t, env.invoiceUC.Delete(ctx, "no-existe"), domain.ErrNotFound)
}

func TestInvoiceStats_Agregados(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.newInvoice(t, "100.00", nil)
	pagada := env.newInvoice(t, "50.00", nil)
	_, err := env.pay(t, pagada, "50.00", entity.PaymentMethodCash)
	require.NoError(t, err)
	parcial := env.newInvoice(t, "200.00", nil)
	_, err = env.pay(t, parcial, "80.00", entity.PaymentMethodCard)
	require.NoError(t, err)

	stats, err := env.invoiceUC.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CountByStatus[entity.InvoiceStatusPending])
	assert.Equal(t, 1, stats.CountByStatus[entity.InvoiceStatusPaid])
	assert.Equal(t, 1, stats.CountByStatus[entity.InvoiceStatusPartial])
	assert.True(t, stats.TotalPaid.Equal(decimal.RequireFromString("130.00")),
		"recaudado 50+80, fue %s", stats.TotalPaid)
	assert.True(t, stats.TotalPending.Equal(decimal.RequireFromString("220.00")),
		"saldo vivo 100+120, fue %s", stats.TotalPending)
}
