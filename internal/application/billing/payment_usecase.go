package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// PaymentUseCase lecturas sobre pagos. La creación de pagos NO está aquí:
// pasa exclusivamente por LedgerUseCase.RecordPayment.
type PaymentUseCase struct {
	paymentRepo repository.PaymentRepository
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(paymentRepo repository.PaymentRepository) *PaymentUseCase {
	return &PaymentUseCase{paymentRepo: paymentRepo}
}

// Get obtiene un pago por ID.
func (uc *PaymentUseCase) Get(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	resp := toPaymentResponse(p, "")
	return &resp, nil
}

// List lista pagos con filtros opcionales de factura, cliente, método y rango
// de fechas, con el nombre del cliente desnormalizado para despliegue.
func (uc *PaymentUseCase) List(ctx context.Context, invoiceID, clientID, method string, from, to *time.Time, page dto.PageRequest) (*dto.PaymentListResponse, error) {
	page.DefaultPage()
	if method != "" && !entity.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: método de pago desconocido %q", domain.ErrInvalidInput, method)
	}
	items, total, err := uc.paymentRepo.List(ctx, repository.PaymentFilter{
		InvoiceID: invoiceID,
		ClientID:  clientID,
		Method:    method,
		From:      from,
		To:        to,
		Limit:     page.Limit,
		Offset:    page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toPaymentResponse(&it.Payment, it.ClientName))
	}
	return &dto.PaymentListResponse{
		Items: out,
		Meta:  dto.PageResponse{Page: page.Page, Limit: page.Limit, Total: total},
	}, nil
}
