package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/application/dto"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice, clientName string, totalPaid decimal.Decimal) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		ClientName:    clientName,
		AppointmentID: inv.AppointmentID,
		Amount:        inv.Amount,
		Status:        inv.Status,
		Description:   inv.Description,
		DueDate:       inv.DueDate,
		TotalPaid:     totalPaid,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toPaymentResponse(p *entity.Payment, clientName string) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		ClientID:      p.ClientID,
		ClientName:    clientName,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount,
		Method:        p.Method,
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		PaidDate:      p.PaidDate,
		CreatedAt:     p.CreatedAt,
	}
}
