package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	ClientID      string          `json:"client_id"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id.
// Solo description y due_date son editables; status acepta únicamente
// "CANCELLED" (vía de anulación). Amount y client_id son inmutables.
type UpdateInvoiceRequest struct {
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// InvoiceResponse factura en listados y respuestas de mutación.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name,omitempty"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceDetailResponse factura con saldo y historial para GET /api/invoices/:id.
type InvoiceDetailResponse struct {
	InvoiceResponse
	RemainingAmount   decimal.Decimal   `json:"remaining_amount"`
	PaymentPercentage float64           `json:"payment_percentage"`
	PaymentHistory    []PaymentResponse `json:"payment_history"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Meta  PageResponse      `json:"meta"`
}

// RecordPaymentRequest body para POST /api/payments.
type RecordPaymentRequest struct {
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Notes         string          `json:"notes,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	ClientID      string          `json:"client_id,omitempty"`
	ClientName    string          `json:"client_name,omitempty"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	PaidDate      time.Time       `json:"paid_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RecordPaymentResponse pago creado más la factura actualizada.
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// PaymentListResponse página de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Meta  PageResponse      `json:"meta"`
}

// InvoiceStatsResponse agregados para GET /api/invoices/stats.
type InvoiceStatsResponse struct {
	CountByStatus map[string]int  `json:"count_by_status"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

// SweepResponse resultado de PATCH /api/invoices/mark-overdue.
type SweepResponse struct {
	Updated int `json:"updated"`
}
