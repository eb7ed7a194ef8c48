// Package pdf implementa la generación del recibo imprimible de una factura
// de la clínica, con su historial de pagos y el saldo pendiente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Clínica  │  N° Factura + Fecha de emisión          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PACIENTE: Nombre + contacto                                │
//	│  FACTURA: Descripción + Vencimiento + Estado                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Método | Referencia | Monto                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Monto total / Total pagado / SALDO PENDIENTE      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/Clinica-api/internal/application/billing"
	ledger "github.com/jhoicas/Clinica-api/internal/domain/billing"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 105, Blue: 92}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa billing.ReceiptPDFGenerator usando Maroto v2.
type ReceiptGenerator struct {
	clinicName string
}

var _ appbilling.ReceiptPDFGenerator = (*ReceiptGenerator)(nil)

// NewReceiptGenerator construye el generador con el nombre de la clínica
// que encabeza el recibo.
func NewReceiptGenerator(clinicName string) *ReceiptGenerator {
	if clinicName == "" {
		clinicName = "Clínica"
	}
	return &ReceiptGenerator{clinicName: clinicName}
}

// GenerateReceiptPDF genera el PDF del recibo y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceiptPDF(
	_ context.Context,
	invoice *entity.Invoice,
	client *entity.Client,
	payments []*entity.Payment,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de pagos", true).
		WithAuthor(g.clinicName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(client))
	m.AddRows(invoiceMetaRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(payments) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin pagos registrados a la fecha.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	} else {
		m.AddRows(paymentsHeaderRow())
		for _, r := range paymentRows(payments) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice, payments))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la clínica (izq) y N° de factura + fecha (der).
func (g *ReceiptGenerator) headerRow(invoice *entity.Invoice) core.Row {
	fecha := invoice.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.clinicName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Recibo de pagos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(invoice.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitida: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del paciente.
func clientRow(client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PACIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s",
				nonEmpty(client.Email, "—"),
				nonEmpty(client.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// invoiceMetaRow: descripción, vencimiento y estado actual.
func invoiceMetaRow(invoice *entity.Invoice) core.Row {
	venc := "—"
	if invoice.DueDate != nil {
		venc = invoice.DueDate.Format("02/01/2006")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DETALLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Concepto: %s   |   Vence: %s   |   Estado: %s",
				nonEmpty(invoice.Description, "—"),
				venc,
				invoice.Status,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// paymentsHeaderRow: cabecera de la tabla de pagos.
func paymentsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Método", 3, align.Left),
		h("Referencia", 3, align.Left),
		h("Monto", 3, align.Right),
	)
}

// paymentRows: una fila por pago, en orden cronológico.
func paymentRows(payments []*entity.Payment) []core.Row {
	result := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				p.PaidDate.Format("02/01/2006 15:04"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				p.Method,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(p.TransactionID, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				"$"+ledger.FormatAmount(p.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. El saldo pendiente va
// en rojo si es mayor que cero.
func totalsRow(invoice *entity.Invoice, payments []*entity.Payment) core.Row {
	totalPaid := ledger.SumPayments(payments)
	remaining := ledger.RemainingBalance(invoice, payments)

	remainingColor := colorPrimary
	if remaining.IsPositive() {
		remainingColor = colorAlert
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Monto total:"),
			label("Total pagado:"),
			text.New("SALDO PENDIENTE:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: remainingColor, Right: 2,
			}),
		),
		col.New(3).Add(
			value("$"+ledger.FormatAmount(invoice.Amount)),
			value("$"+ledger.FormatAmount(totalPaid)),
			text.New("$"+ledger.FormatAmount(remaining), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: remainingColor, Right: 1,
			}),
		),
		col.New(3),
	)
}

// footerRows: QR de verificación + leyenda.
func footerRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(40).Add(
			col.New(4).Add(code.NewQr(invoice.ID, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para consultar\nel estado de esta factura en recepción.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("RECIBO DE PAGOS", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 22,
					Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Documento generado el %s. Este recibo refleja los pagos registrados a la fecha de emisión.",
				time.Now().Format("02/01/2006 15:04")),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID devuelve los primeros 8 caracteres de un UUID para encabezados.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
