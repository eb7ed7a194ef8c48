package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/billing"
	"github.com/jhoicas/Clinica-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	invoiceUC *billing.InvoiceUseCase
	sweeper   *billing.OverdueSweeper
	receiptUC *billing.ReceiptUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoiceUC *billing.InvoiceUseCase, sweeper *billing.OverdueSweeper, receiptUC *billing.ReceiptUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, sweeper: sweeper, receiptUC: receiptUC}
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "client_id, amount, description, due_date"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoiceUC.Create(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID godoc
// @Summary      Detalle de factura con saldo e historial de pagos
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	invoice, err := h.invoiceUC.Get(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(invoice)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        status     query  string  false  "PENDING | PARTIAL | PAID | OVERDUE | CANCELLED"
// @Param        client_id  query  string  false  "Filtrar por cliente"
// @Param        search     query  string  false  "Búsqueda por nombre de cliente o descripción"
// @Param        page       query  int     false  "Página (desde 1)"
// @Param        limit      query  int     false  "Tamaño de página (máx 100)"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.invoiceUC.List(c.Context(),
		c.Query("status"), c.Query("client_id"), c.Query("search"), page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar metadatos o anular una factura
// @Description  Solo description y due_date son editables. status acepta únicamente CANCELLED.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "description, due_date, status"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoiceUC.Update(c.Context(), id, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(invoice)
}

// Delete godoc
// @Summary      Eliminar una factura sin pagos
// @Tags         invoices
// @Param        id  path  string  true  "ID de la factura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoiceUC.Delete(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats godoc
// @Summary      Agregados de facturación
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  dto.InvoiceStatsResponse
// @Router       /api/invoices/stats [get]
func (h *InvoiceHandler) Stats(c *fiber.Ctx) error {
	out, err := h.invoiceUC.Stats(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// MarkOverdue godoc
// @Summary      Pasar a OVERDUE las facturas vencidas
// @Description  Idempotente. El mismo barrido corre también en segundo plano.
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  dto.SweepResponse
// @Router       /api/invoices/mark-overdue [patch]
func (h *InvoiceHandler) MarkOverdue(c *fiber.Ctx) error {
	updated, err := h.sweeper.Sweep(c.Context(), time.Now())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.SweepResponse{Updated: updated})
}

// DownloadPDF godoc
// @Summary      Descargar el recibo PDF de una factura
// @Tags         invoices
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receiptUC.DownloadReceiptPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
