package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// psql builder con placeholders $1, $2, ... de PostgreSQL.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, client_id, COALESCE(appointment_id, ''), amount, status,
	       COALESCE(description, ''), due_date, created_at, updated_at`

// Create persiste una factura nueva.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, client_id, appointment_id, amount, status, description, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.ClientID, nullIfEmpty(inv.AppointmentID), inv.Amount, inv.Status,
		nullIfEmpty(inv.Description), inv.DueDate, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate obtiene la factura bloqueando su fila con FOR UPDATE.
// Dentro de una transacción, serializa los escritores concurrentes sobre la
// misma factura; fuera de una transacción el lock se libera de inmediato.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getByID(ctx, id, true)
}

func (r *InvoiceRepo) getByID(ctx context.Context, id string, forUpdate bool) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.ClientID, &inv.AppointmentID, &inv.Amount, &inv.Status,
		&inv.Description, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// List lista facturas con filtros dinámicos y el nombre del cliente más el
// total pagado desnormalizados. Search ya llega normalizada (minúsculas, sin
// tildes) y se compara contra clients.search_name y la descripción.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]repository.InvoiceListItem, int, error) {
	applyFilters := func(b sq.SelectBuilder) sq.SelectBuilder {
		if f.Status != "" {
			b = b.Where(sq.Eq{"i.status": f.Status})
		}
		if f.ClientID != "" {
			b = b.Where(sq.Eq{"i.client_id": f.ClientID})
		}
		if f.Search != "" {
			pattern := "%" + f.Search + "%"
			b = b.Where(sq.Or{
				sq.Like{"c.search_name": pattern},
				sq.Like{"LOWER(COALESCE(i.description, ''))": pattern},
			})
		}
		return b
	}

	listQ := applyFilters(psql.
		Select(`i.id, i.client_id, COALESCE(i.appointment_id, ''), i.amount, i.status,
			COALESCE(i.description, ''), i.due_date, i.created_at, i.updated_at,
			c.name, COALESCE(p.total_paid, 0)`).
		From("invoices i").
		Join("clients c ON c.id = i.client_id").
		LeftJoin("(SELECT invoice_id, SUM(amount) AS total_paid FROM payments GROUP BY invoice_id) p ON p.invoice_id = i.id")).
		OrderBy("i.created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	query, args, err := listQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list invoices: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var items []repository.InvoiceListItem
	for rows.Next() {
		var it repository.InvoiceListItem
		if err := rows.Scan(
			&it.Invoice.ID, &it.Invoice.ClientID, &it.Invoice.AppointmentID,
			&it.Invoice.Amount, &it.Invoice.Status, &it.Invoice.Description,
			&it.Invoice.DueDate, &it.Invoice.CreatedAt, &it.Invoice.UpdatedAt,
			&it.ClientName, &it.TotalPaid,
		); err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQ := applyFilters(psql.
		Select("COUNT(*)").
		From("invoices i").
		Join("clients c ON c.id = i.client_id"))
	query, args, err = countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count invoices: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	return items, total, nil
}

// SetStatus actualiza el estado derivado y updated_at.
func (r *InvoiceRepo) SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMeta actualiza descripción y fecha de vencimiento. El monto, el
// cliente y el estado no se tocan por esta vía.
func (r *InvoiceRepo) UpdateMeta(ctx context.Context, id, description string, dueDate *time.Time, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET description = $2, due_date = $3, updated_at = $4 WHERE id = $1`,
		id, nullIfEmpty(description), dueDate, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice meta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una factura. El caso de uso verifica antes que no tenga
// pagos; el FK de payments (RESTRICT) es la última línea de contención.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListDueForSweep devuelve facturas PENDING/PARTIAL con due_date < now.
// Usa el índice (status, due_date).
func (r *InvoiceRepo) ListDueForSweep(ctx context.Context, now time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status IN ($1, $2) AND due_date IS NOT NULL AND due_date < $3
		ORDER BY due_date`
	rows, err := r.q.Query(ctx, query, entity.InvoiceStatusPending, entity.InvoiceStatusPartial, now)
	if err != nil {
		return nil, fmt.Errorf("list due invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.ClientID, &inv.AppointmentID, &inv.Amount, &inv.Status,
			&inv.Description, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// Stats agregados por estado más totales recaudado/pendiente y promedio.
// Usa COALESCE para devolver ceros con la tabla vacía.
func (r *InvoiceRepo) Stats(ctx context.Context) (*repository.InvoiceStats, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE i.status = 'PENDING')                              AS pending_count,
	    COUNT(*) FILTER (WHERE i.status = 'PARTIAL')                              AS partial_count,
	    COUNT(*) FILTER (WHERE i.status = 'PAID')                                 AS paid_count,
	    COUNT(*) FILTER (WHERE i.status = 'OVERDUE')                              AS overdue_count,
	    COUNT(*) FILTER (WHERE i.status = 'CANCELLED')                            AS cancelled_count,
	    COALESCE((SELECT SUM(amount) FROM payments), 0)                           AS total_paid,
	    COALESCE(SUM(i.amount) FILTER (WHERE i.status <> 'CANCELLED'), 0)
	        - COALESCE((SELECT SUM(amount) FROM payments), 0)                     AS total_pending,
	    COALESCE(AVG(i.amount) FILTER (WHERE i.status <> 'CANCELLED'), 0)         AS average_amount
	FROM invoices i`

	var s repository.InvoiceStats
	err := r.q.QueryRow(ctx, query).Scan(
		&s.PendingCount, &s.PartialCount, &s.PaidCount, &s.OverdueCount, &s.CancelledCount,
		&s.TotalPaid, &s.TotalPending, &s.AverageAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("invoice stats: %w", err)
	}
	return &s, nil
}
