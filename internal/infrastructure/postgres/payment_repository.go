package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, invoice_id, client_id, COALESCE(appointment_id, ''), amount, method,
	       COALESCE(transaction_id, ''), COALESCE(notes, ''), paid_date, created_at`

// Create persiste un pago. Los pagos son inmutables: no hay Update.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, client_id, appointment_id, amount, method, transaction_id, notes, paid_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.InvoiceID, p.ClientID, nullIfEmpty(p.AppointmentID), p.Amount, p.Method,
		nullIfEmpty(p.TransactionID), nullIfEmpty(p.Notes), p.PaidDate, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID. Devuelve (nil, nil) si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	var p entity.Payment
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.InvoiceID, &p.ClientID, &p.AppointmentID, &p.Amount, &p.Method,
		&p.TransactionID, &p.Notes, &p.PaidDate, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// ListByInvoice devuelve el historial de pagos de una factura en orden
// cronológico de registro. El orden es estable: desempata por id.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE invoice_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments by invoice: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.ClientID, &p.AppointmentID, &p.Amount, &p.Method,
			&p.TransactionID, &p.Notes, &p.PaidDate, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// List lista pagos con filtros dinámicos y el nombre del cliente.
func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]repository.PaymentListItem, int, error) {
	applyFilters := func(b sq.SelectBuilder) sq.SelectBuilder {
		if f.InvoiceID != "" {
			b = b.Where(sq.Eq{"p.invoice_id": f.InvoiceID})
		}
		if f.ClientID != "" {
			b = b.Where(sq.Eq{"p.client_id": f.ClientID})
		}
		if f.Method != "" {
			b = b.Where(sq.Eq{"p.method": f.Method})
		}
		if f.From != nil {
			b = b.Where(sq.GtOrEq{"p.paid_date": *f.From})
		}
		if f.To != nil {
			b = b.Where(sq.LtOrEq{"p.paid_date": *f.To})
		}
		return b
	}

	listQ := applyFilters(psql.
		Select(`p.id, p.invoice_id, p.client_id, COALESCE(p.appointment_id, ''), p.amount, p.method,
			COALESCE(p.transaction_id, ''), COALESCE(p.notes, ''), p.paid_date, p.created_at,
			c.name`).
		From("payments p").
		Join("clients c ON c.id = p.client_id")).
		OrderBy("p.paid_date DESC", "p.id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	query, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list payments: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var items []repository.PaymentListItem
	for rows.Next() {
		var it repository.PaymentListItem
		if err := rows.Scan(
			&it.Payment.ID, &it.Payment.InvoiceID, &it.Payment.ClientID, &it.Payment.AppointmentID,
			&it.Payment.Amount, &it.Payment.Method, &it.Payment.TransactionID, &it.Payment.Notes,
			&it.Payment.PaidDate, &it.Payment.CreatedAt, &it.ClientName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQ := applyFilters(psql.Select("COUNT(*)").From("payments p"))
	query, args, err = countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count payments: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return items, total, nil
}

// CountByInvoice cuenta los pagos registrados contra una factura.
func (r *PaymentRepo) CountByInvoice(ctx context.Context, invoiceID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE invoice_id = $1`, invoiceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return count, nil
}
