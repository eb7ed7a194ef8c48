package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// ReceiptUseCase genera el PDF imprimible de una factura con su historial de
// pagos y saldo pendiente.
type ReceiptUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		generator:   generator,
	}
}

// DownloadReceiptPDF recupera la factura, el cliente y el historial de pagos
// y genera el PDF. Las facturas canceladas no tienen recibo.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrInvalidState     si la factura está cancelada.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, "", domain.ErrInvalidState
	}

	client, err := uc.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if client == nil {
		client = &entity.Client{ID: inv.ClientID, Name: "Cliente"}
	}

	payments, err := uc.paymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pagos: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, inv, client, payments)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura-%s.pdf", inv.ID), nil
}
