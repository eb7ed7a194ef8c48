package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/billing"
	"github.com/jhoicas/Clinica-api/internal/application/dto"
)

// PaymentHandler maneja las peticiones HTTP de pagos (protegido). El registro
// pasa por el motor de cobros; las lecturas por el caso de uso de consulta.
type PaymentHandler struct {
	ledgerUC  *billing.LedgerUseCase
	paymentUC *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(ledgerUC *billing.LedgerUseCase, paymentUC *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{ledgerUC: ledgerUC, paymentUC: paymentUC}
}

// Create godoc
// @Summary      Registrar un abono contra una factura
// @Description  Valida contra el saldo real bajo lock de fila; nunca permite sobrepago.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPaymentRequest  true  "invoice_id, amount, method"
// @Success      201  {object}  dto.RecordPaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.ledgerUC.RecordPayment(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener un pago
// @Tags         payments
// @Produce      json
// @Param        id  path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.paymentUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pagos
// @Tags         payments
// @Produce      json
// @Param        invoice_id  query  string  false  "Filtrar por factura"
// @Param        client_id   query  string  false  "Filtrar por cliente"
// @Param        method      query  string  false  "CASH | CARD | TRANSFER | CHECK | FINANCING | OTHER"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        page        query  int     false  "Página (desde 1)"
// @Param        limit       query  int     false  "Tamaño de página (máx 100)"
// @Success      200  {object}  dto.PaymentListResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	out, err := h.paymentUC.List(c.Context(),
		c.Query("invoice_id"), c.Query("client_id"), c.Query("method"), from, to, page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
