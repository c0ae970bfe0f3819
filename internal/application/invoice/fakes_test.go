package invoice

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/mail"
	"github.com/ever-co/invoicing/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryInvoices evaluates scopes in memory with Scope.Allows
type memoryInvoices struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]invoice.Invoice
	saves int
}

func newMemoryInvoices(invs ...*invoice.Invoice) *memoryInvoices {
	r := &memoryInvoices{rows: make(map[uuid.UUID]invoice.Invoice)}
	for _, inv := range invs {
		r.rows[inv.ID] = *inv
	}
	return r
}

func (r *memoryInvoices) visible(tenantID, organizationID uuid.UUID, scope invoice.Scope, inv *invoice.Invoice) bool {
	return inv.TenantID == tenantID && inv.OrganizationID == organizationID && scope.Allows(inv)
}

func (r *memoryInvoices) FindByID(_ context.Context, tenantID, organizationID, id uuid.UUID, scope invoice.Scope) (*invoice.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[id]
	if !ok || !r.visible(tenantID, organizationID, scope, &inv) {
		return nil, shared.ErrNotFound
	}
	return &inv, nil
}

func (r *memoryInvoices) Exists(ctx context.Context, tenantID, organizationID, id uuid.UUID, scope invoice.Scope) (bool, error) {
	_, err := r.FindByID(ctx, tenantID, organizationID, id, scope)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *memoryInvoices) List(_ context.Context, tenantID, organizationID uuid.UUID, scope invoice.Scope, filter invoice.ListFilter) ([]invoice.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []invoice.Invoice
	for _, inv := range r.rows {
		if !r.visible(tenantID, organizationID, scope, &inv) {
			continue
		}
		if filter.IsEstimate != nil && inv.IsEstimate != *filter.IsEstimate {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, inv.Status) {
			continue
		}
		out = append(out, inv)
	}
	slices.SortFunc(out, func(a, b invoice.Invoice) int { return int(a.InvoiceNumber - b.InvoiceNumber) })
	return out, int64(len(out)), nil
}

func (r *memoryInvoices) Save(_ context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[inv.ID] = *inv
	r.saves++
	return nil
}

func (r *memoryInvoices) Delete(_ context.Context, tenantID, organizationID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[id]
	if !ok || inv.TenantID != tenantID || inv.OrganizationID != organizationID {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryInvoices) HighestInvoiceNumber(_ context.Context, tenantID, organizationID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var highest int64
	for _, inv := range r.rows {
		if inv.TenantID == tenantID && inv.OrganizationID == organizationID && inv.InvoiceNumber > highest {
			highest = inv.InvoiceNumber
		}
	}
	return highest, nil
}

func (r *memoryInvoices) Stats(_ context.Context, tenantID, organizationID uuid.UUID, scope invoice.Scope) (invoice.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := invoice.Stats{TotalValue: decimal.Zero}
	for _, inv := range r.rows {
		if inv.IsEstimate || !r.visible(tenantID, organizationID, scope, &inv) {
			continue
		}
		stats.Count++
		stats.TotalValue = stats.TotalValue.Add(inv.TotalValue)
	}
	return stats, nil
}

func (r *memoryInvoices) UpdateToken(_ context.Context, tenantID, organizationID, id uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[id]
	if !ok || inv.TenantID != tenantID || inv.OrganizationID != organizationID {
		return shared.ErrNotFound
	}
	inv.Token = &token
	r.rows[id] = inv
	return nil
}

func (r *memoryInvoices) get(id uuid.UUID) invoice.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

type memoryOrganizations map[uuid.UUID]*invoice.Organization

func (r memoryOrganizations) FindByID(_ context.Context, tenantID, id uuid.UUID) (*invoice.Organization, error) {
	org, ok := r[id]
	if !ok || org.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return org, nil
}

type memoryContacts map[uuid.UUID]*invoice.Contact

func (r memoryContacts) FindByID(_ context.Context, tenantID, organizationID, id uuid.UUID) (*invoice.Contact, error) {
	c, ok := r[id]
	if !ok || c.TenantID != tenantID || c.OrganizationID != organizationID {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

type memoryPayments []invoice.Payment

// ListByInvoice has a pointer receiver so tests can replace the payments after wiring
func (r *memoryPayments) ListByInvoice(_ context.Context, _, _, invoiceID uuid.UUID) ([]invoice.Payment, error) {
	var out []invoice.Payment
	for _, p := range *r {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memoryEmailRecords struct {
	mu      sync.Mutex
	records []invoice.EmailRecord
}

func (r *memoryEmailRecords) Create(_ context.Context, record *invoice.EmailRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

type memoryEstimateEmails struct {
	mu      sync.Mutex
	records []invoice.EstimateEmail
}

func (r *memoryEstimateEmails) Create(_ context.Context, e *invoice.EstimateEmail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *e)
	return nil
}

func (r *memoryEstimateEmails) FindLive(_ context.Context, l invoice.EstimateEmailLookup) (*invoice.EstimateEmail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Email == l.Email && rec.Token == l.Token && rec.OrganizationID == l.OrganizationID &&
			rec.TenantID == l.TenantID && rec.IsLive(l.Now) {
			found := rec
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

// recordingRenderer returns fixed bytes and keeps every document it was given
type recordingRenderer struct {
	mu   sync.Mutex
	docs []*printing.Document
	err  error
}

func (r *recordingRenderer) Render(_ context.Context, doc *printing.Document, _ string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, doc)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (r *recordingRenderer) last() *printing.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.docs) == 0 {
		return nil
	}
	return r.docs[len(r.docs)-1]
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []*mail.Message
	err  error
}

func (t *recordingTransport) Name() string { return "recording" }

func (t *recordingTransport) Send(_ context.Context, msg *mail.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, msg)
	return nil
}
