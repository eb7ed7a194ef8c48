package billing_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Clinica-api/internal/domain"
	"github.com/jhoicas/Clinica-api/internal/domain/entity"
	"github.com/jhoicas/Clinica-api/internal/domain/repository"
)

// memStore almacén en memoria compartido por los repos fake. Un solo mutex
// protege todo, igual que una base pequeña con lock de fila por factura.
type memStore struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	payments map[string]*entity.Payment
	clients  map[string]*entity.Client
}

func newMemStore() *memStore {
	return &memStore{
		invoices: make(map[string]*entity.Invoice),
		payments: make(map[string]*entity.Payment),
		clients:  make(map[string]*entity.Client),
	}
}

func copyInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	if inv.DueDate != nil {
		d := *inv.DueDate
		cp.DueDate = &d
	}
	return &cp
}

func copyPayment(p *entity.Payment) *entity.Payment {
	cp := *p
	return &cp
}

// ── fakeInvoiceRepo ───────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	store *memStore
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, nil
	}
	return copyInvoice(inv), nil
}

// GetByIDForUpdate en el fake es igual a GetByID: la serialización la da el
// fakeTxRunner, que ejecuta las transacciones una a la vez.
func (r *fakeInvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeInvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]repository.InvoiceListItem, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var all []repository.InvoiceListItem
	for _, inv := range r.store.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.ClientID != "" && inv.ClientID != f.ClientID {
			continue
		}
		clientName := ""
		searchName := ""
		if c, ok := r.store.clients[inv.ClientID]; ok {
			clientName = c.Name
			searchName = c.SearchName
		}
		if f.Search != "" &&
			!strings.Contains(searchName, f.Search) &&
			!strings.Contains(strings.ToLower(inv.Description), f.Search) {
			continue
		}
		totalPaid := decimal.Zero
		for _, p := range r.store.payments {
			if p.InvoiceID == inv.ID {
				totalPaid = totalPaid.Add(p.Amount)
			}
		}
		all = append(all, repository.InvoiceListItem{
			Invoice:    *copyInvoice(inv),
			ClientName: clientName,
			TotalPaid:  totalPaid,
		})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Invoice.CreatedAt.After(all[j].Invoice.CreatedAt)
	})
	total := len(all)
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *fakeInvoiceRepo) SetStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *fakeInvoiceRepo) UpdateMeta(_ context.Context, id, description string, dueDate *time.Time, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Description = description
	inv.DueDate = dueDate
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) ListDueForSweep(_ context.Context, now time.Time) ([]*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.store.invoices {
		if inv.Status != entity.InvoiceStatusPending && inv.Status != entity.InvoiceStatusPartial {
			continue
		}
		if inv.DueDate == nil || !inv.DueDate.Before(now) {
			continue
		}
		out = append(out, copyInvoice(inv))
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Stats(_ context.Context) (*repository.InvoiceStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s := &repository.InvoiceStats{
		TotalPaid:     decimal.Zero,
		TotalPending:  decimal.Zero,
		AverageAmount: decimal.Zero,
	}
	sumAmount := decimal.Zero
	active := 0
	for _, inv := range r.store.invoices {
		switch inv.Status {
		case entity.InvoiceStatusPending:
			s.PendingCount++
		case entity.InvoiceStatusPartial:
			s.PartialCount++
		case entity.InvoiceStatusPaid:
			s.PaidCount++
		case entity.InvoiceStatusOverdue:
			s.OverdueCount++
		case entity.InvoiceStatusCancelled:
			s.CancelledCount++
		}
		if inv.Status != entity.InvoiceStatusCancelled {
			sumAmount = sumAmount.Add(inv.Amount)
			active++
		}
	}
	for _, p := range r.store.payments {
		s.TotalPaid = s.TotalPaid.Add(p.Amount)
	}
	s.TotalPending = sumAmount.Sub(s.TotalPaid)
	if active > 0 {
		s.AverageAmount = sumAmount.Div(decimal.NewFromInt(int64(active)))
	}
	return s, nil
}

// ── fakePaymentRepo ───────────────────────────────────────────────────────────

type fakePaymentRepo struct {
	store *memStore
}

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.store.payments[p.ID] = copyPayment(p)
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.payments[id]
	if !ok {
		return nil, nil
	}
	return copyPayment(p), nil
}

func (r *fakePaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.store.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, copyPayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakePaymentRepo) List(_ context.Context, f repository.PaymentFilter) ([]repository.PaymentListItem, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var all []repository.PaymentListItem
	for _, p := range r.store.payments {
		if f.InvoiceID != "" && p.InvoiceID != f.InvoiceID {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		if f.Method != "" && p.Method != f.Method {
			continue
		}
		if f.From != nil && p.PaidDate.Before(*f.From) {
			continue
		}
		if f.To != nil && p.PaidDate.After(*f.To) {
			continue
		}
		clientName := ""
		if c, ok := r.store.clients[p.ClientID]; ok {
			clientName = c.Name
		}
		all = append(all, repository.PaymentListItem{Payment: *copyPayment(p), ClientName: clientName})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Payment.PaidDate.After(all[j].Payment.PaidDate)
	})
	total := len(all)
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *fakePaymentRepo) CountByInvoice(_ context.Context, invoiceID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, p := range r.store.payments {
		if p.InvoiceID == invoiceID {
			count++
		}
	}
	return count, nil
}

// ── fakeClientRepo ────────────────────────────────────────────────────────────

type fakeClientRepo struct {
	store *memStore
}

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.store.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Client
	for _, c := range r.store.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.store.clients[c.ID] = &cp
	return nil
}

// ── fakeTxRunner ──────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta las transacciones del ledger una a la vez, emulando el
// lock de fila de la factura. No hay rollback: los tests que fallan a mitad de
// transacción verifican estado antes de cualquier escritura.
type fakeTxRunner struct {
	txMu  sync.Mutex
	store *memStore
}

func (t *fakeTxRunner) RunLedger(
	_ context.Context,
	fn func(repository.InvoiceRepository, repository.PaymentRepository) error,
) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return fn(&fakeInvoiceRepo{store: t.store}, &fakePaymentRepo{store: t.store})
}

// flakyTxRunner falla los primeros N intentos con el error indicado y después
// delega en el runner real. Sirve para probar la política de reintentos.
type flakyTxRunner struct {
	inner    *fakeTxRunner
	failures int
	err      error

	mu       sync.Mutex
	attempts int
}

func (t *flakyTxRunner) RunLedger(
	ctx context.Context,
	fn func(repository.InvoiceRepository, repository.PaymentRepository) error,
) error {
	t.mu.Lock()
	t.attempts++
	n := t.attempts
	t.mu.Unlock()
	if n <= t.failures {
		return t.err
	}
	return t.inner.RunLedger(ctx, fn)
}
