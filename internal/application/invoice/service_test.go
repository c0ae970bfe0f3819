package invoice

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ever-co/invoicing/internal/application/estimate"
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/domain/shared"
	"github.com/ever-co/invoicing/internal/infrastructure/auth"
	"github.com/ever-co/invoicing/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type testEnv struct {
	now       time.Time
	tenantID  uuid.UUID
	orgID     uuid.UUID
	owner     uuid.UUID
	invoices  *memoryInvoices
	estimates *memoryEstimateEmails
	records   *memoryEmailRecords
	renderer  *recordingRenderer
	transport *recordingTransport
	signer    *auth.CapabilitySigner
	org       *invoice.Organization
	contact   *invoice.Contact
	payments  memoryPayments
	tokens    *estimate.EstimateEmailService
	service   *InvoiceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		now:      time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
		tenantID: uuid.New(),
		orgID:    uuid.New(),
		owner:    uuid.New(),
	}
	env.invoices = newMemoryInvoices()
	env.estimates = &memoryEstimateEmails{}
	env.records = &memoryEmailRecords{}
	env.renderer = &recordingRenderer{}
	env.transport = &recordingTransport{}
	env.org = &invoice.Organization{
		ID:                 env.orgID,
		TenantID:           env.tenantID,
		Name:               "Acme GmbH",
		Currency:           "EUR",
		BrandColor:         "#123456",
		InviteExpiryPeriod: 3,
	}
	env.contact = &invoice.Contact{
		ID:             uuid.New(),
		TenantID:       env.tenantID,
		OrganizationID: env.orgID,
		Name:           "Jane Client",
		PrimaryEmail:   "jane@client.io",
	}
	clock := func() time.Time { return env.now }
	env.signer = auth.NewCapabilitySigner("secret", "invoicing-test", auth.WithClock(clock))
	orgs := memoryOrganizations{env.orgID: env.org}
	env.tokens = estimate.NewEstimateEmailService(env.invoices, env.estimates, orgs, env.signer,
		auth.NewInMemoryRedemptionLedger(), estimate.WithClock(clock))

	env.service = NewInvoiceService(Dependencies{
		Invoices:      env.invoices,
		Organizations: orgs,
		Contacts:      memoryContacts{env.contact.ID: env.contact},
		Payments:      &env.payments,
		EmailRecords:  env.records,
		Estimates:     env.tokens,
		Links:         env.signer,
		Renderer:      env.renderer,
		Transport:     env.transport,
	}, Config{
		ClientBaseURL:  "https://app.example.org/",
		MailFrom:       "billing@acme.io",
		BlockedDomains: []string{"@example.com"},
	}, WithClock(clock))
	return env
}

func (env *testEnv) caller(userID uuid.UUID, perms ...invoice.Permission) invoice.Caller {
	c := invoice.Caller{TenantID: env.tenantID, OrganizationID: env.orgID, UserID: userID}
	for _, p := range perms {
		c.Permissions = append(c.Permissions, string(p))
	}
	return c
}

func (env *testEnv) seed(t *testing.T, number int64, from *uuid.UUID, status invoice.Status, isEstimate bool) *invoice.Invoice {
	t.Helper()
	inv, err := invoice.NewInvoice(env.tenantID, env.orgID, number, env.now)
	require.NoError(t, err)
	inv.FromUserID = from
	inv.Status = status
	inv.IsEstimate = isEstimate
	inv.Currency = "EUR"
	inv.DueDate = env.now.AddDate(0, 0, 14)
	inv.ToContactID = &env.contact.ID
	inv.SetItems([]invoice.Item{{Description: "Consulting", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(50)}})
	require.NoError(t, env.invoices.Save(context.Background(), inv))
	return inv
}

// =============================================================================
// Access
// =============================================================================

func TestPaginate_ReadScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	other := uuid.New()

	own := env.seed(t, 1, &env.owner, invoice.StatusDraft, false)
	foreign := env.seed(t, 2, &other, invoice.StatusDraft, false)
	orgAuthored := env.seed(t, 3, nil, invoice.StatusSent, false)

	ids := func(page *ListInvoicesResponse) []uuid.UUID {
		out := make([]uuid.UUID, len(page.Items))
		for i, item := range page.Items {
			out[i] = item.ID
		}
		return out
	}

	tests := []struct {
		name  string
		perms []invoice.Permission
		want  []uuid.UUID
	}{
		{"own only", []invoice.Permission{invoice.PermInvoicesView}, []uuid.UUID{own.ID}},
		{"organization authored only", []invoice.Permission{invoice.PermOrgInvoicesView}, []uuid.UUID{orgAuthored.ID}},
		{"own and organization", []invoice.Permission{invoice.PermInvoicesView, invoice.PermOrgInvoicesView}, []uuid.UUID{own.ID, orgAuthored.ID}},
		{"all", []invoice.Permission{invoice.PermAllOrgView}, []uuid.UUID{own.ID, foreign.ID, orgAuthored.ID}},
		{"handle", []invoice.Permission{invoice.PermInvoicesHandle}, []uuid.UUID{own.ID, foreign.ID, orgAuthored.ID}},
		{"empty scope yields no rows", []invoice.Permission{invoice.PermEstimatesView}, []uuid.UUID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.service.Paginate(ctx, env.caller(env.owner, tt.perms...), ListInvoicesRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page))
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}

	t.Run("missing permission", func(t *testing.T) {
		_, err := env.service.Paginate(ctx, env.caller(env.owner, invoice.PermInvoicesEdit), ListInvoicesRequest{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("list ignores paging", func(t *testing.T) {
		items, err := env.service.List(ctx, env.caller(env.owner, invoice.PermAllOrgView), ListInvoicesRequest{Page: 2, PageSize: 1})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func TestGetByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	other := uuid.New()
	foreign := env.seed(t, 1, &other, invoice.StatusDraft, false)

	_, err := env.service.GetByID(ctx, env.caller(env.owner, invoice.PermInvoicesView), foreign.ID)
	assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)

	_, err = env.service.GetByID(ctx, env.caller(env.owner, invoice.PermInvoicesView), uuid.New())
	assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)

	got, err := env.service.GetByID(ctx, env.caller(other, invoice.PermInvoicesView), foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, got.ID)
	assert.True(t, decimal.NewFromInt(100).Equal(got.TotalValue))
}

func TestHighestAndStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.caller(env.owner, invoice.PermAllOrgView)

	highest, err := env.service.GetHighestInvoiceNumber(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), highest)

	env.seed(t, 3, nil, invoice.StatusDraft, false)
	env.seed(t, 7, nil, invoice.StatusDraft, false)
	env.seed(t, 5, nil, invoice.StatusDraft, true)

	highest, err = env.service.GetHighestInvoiceNumber(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(7), highest)

	stats, err := env.service.GetStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.True(t, decimal.NewFromInt(200).Equal(stats.TotalValue))

	_, err = env.service.GetHighestInvoiceNumber(ctx, invoice.Caller{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

// =============================================================================
// Commands
// =============================================================================

func TestCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, 41, nil, invoice.StatusDraft, false)

	t.Run("number defaults to highest plus one", func(t *testing.T) {
		created, err := env.service.Create(ctx, env.caller(env.owner, invoice.PermInvoicesHandle), CreateInvoiceRequest{
			Currency:      "EUR",
			DiscountType:  "FLAT_VALUE",
			DiscountValue: decimal.NewFromInt(10),
			Tags:          []string{" urgent ", "urgent", ""},
			Items: []ItemRequest{
				{Description: "Design", Quantity: decimal.NewFromInt(3), Price: decimal.NewFromInt(20)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), created.InvoiceNumber)
		assert.Equal(t, "DRAFT", created.Status)
		assert.Nil(t, created.FromUserID)
		assert.Equal(t, []string{"urgent"}, created.Tags)
		assert.True(t, decimal.NewFromInt(50).Equal(created.TotalValue), created.TotalValue.String())
	})

	t.Run("own forces the caller as author", func(t *testing.T) {
		someone := uuid.New()
		created, err := env.service.CreateOwn(ctx, env.caller(env.owner, invoice.PermInvoicesEdit), CreateInvoiceRequest{
			FromUserID: &someone,
			IsEstimate: true,
		})
		require.NoError(t, err)
		require.NotNil(t, created.FromUserID)
		assert.Equal(t, env.owner, *created.FromUserID)
		assert.True(t, created.IsEstimate)
	})

	t.Run("non privileged caller cannot author for the organization", func(t *testing.T) {
		_, err := env.service.Create(ctx, env.caller(env.owner, invoice.PermInvoicesEdit), CreateInvoiceRequest{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("non privileged caller cannot create paid invoices", func(t *testing.T) {
		_, err := env.service.CreateOwn(ctx, env.caller(env.owner, invoice.PermInvoicesEdit), CreateInvoiceRequest{Status: "FULLY_PAID"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("view permission is not enough", func(t *testing.T) {
		_, err := env.service.CreateOwn(ctx, env.caller(env.owner, invoice.PermInvoicesView), CreateInvoiceRequest{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestUpdateAction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	editor := env.caller(env.owner, invoice.PermInvoicesEdit)
	admin := env.caller(uuid.New(), invoice.PermAllOrgEdit)

	draft := env.seed(t, 1, &env.owner, invoice.StatusDraft, false)
	void := env.seed(t, 2, &env.owner, invoice.StatusVoid, false)

	got, err := env.service.UpdateAction(ctx, editor, draft.ID, UpdateActionRequest{Status: "SENT"})
	require.NoError(t, err)
	assert.Equal(t, "SENT", got.Status)

	_, err = env.service.UpdateAction(ctx, editor, draft.ID, UpdateActionRequest{Status: "FULLY_PAID"})
	assert.ErrorIs(t, err, invoice.ErrStatusNotAllowed)

	_, err = env.service.UpdateAction(ctx, editor, void.ID, UpdateActionRequest{Status: "DRAFT"})
	assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)

	got, err = env.service.UpdateAction(ctx, admin, void.ID, UpdateActionRequest{Status: "FULLY_PAID"})
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, invoice.StatusFullyPaid, env.invoices.get(void.ID).Status)
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	editor := env.caller(env.owner, invoice.PermInvoicesEdit)
	inv := env.seed(t, 1, &env.owner, invoice.StatusSent, false)

	terms := "Net 30"
	tax := decimal.NewFromInt(10)
	got, err := env.service.Update(ctx, editor, inv.ID, UpdateInvoiceRequest{Terms: &terms, Tax: &tax})
	require.NoError(t, err)
	assert.Equal(t, "Net 30", got.Terms)
	assert.Equal(t, env.tenantID, got.TenantID)
	assert.True(t, decimal.NewFromInt(110).Equal(got.TotalValue), got.TotalValue.String())

	paid := "FULLY_PAID"
	_, err = env.service.Update(ctx, editor, inv.ID, UpdateInvoiceRequest{Status: &paid})
	assert.ErrorIs(t, err, invoice.ErrStatusNotAllowed)

	_, err = env.service.Update(ctx, env.caller(uuid.New(), invoice.PermInvoicesEdit), inv.ID, UpdateInvoiceRequest{Terms: &terms})
	assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	void := env.seed(t, 1, &env.owner, invoice.StatusVoid, false)
	orgAuthored := env.seed(t, 2, nil, invoice.StatusDraft, false)

	editor := env.caller(env.owner, invoice.PermInvoicesEdit)
	assert.ErrorIs(t, env.service.Delete(ctx, editor, orgAuthored.ID), invoice.ErrInvalidInvoice)
	require.NoError(t, env.service.Delete(ctx, editor, void.ID))
	assert.ErrorIs(t, env.service.Delete(ctx, editor, void.ID), invoice.ErrInvalidInvoice)
}

// =============================================================================
// Documents
// =============================================================================

func TestDownloadInvoicePDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := env.caller(env.owner, invoice.PermInvoicesView)

	inv := env.seed(t, 9, &env.owner, invoice.StatusSent, false)
	inv.DueDate = env.now.AddDate(0, 0, -1)
	require.NoError(t, env.invoices.Save(ctx, inv))

	pdf, err := env.service.DownloadInvoicePDF(ctx, viewer, inv.ID, "de-CH,de;q=0.9")
	require.NoError(t, err)
	assert.Equal(t, "Invoice-9.pdf", pdf.Filename)
	assert.NotEmpty(t, pdf.Content)

	doc := env.renderer.last()
	require.NotNil(t, doc)
	assert.Equal(t, language.German, doc.Language)
	assert.Equal(t, "#123456", doc.Accent)
	assert.Equal(t, "ÜBERFÄLLIG", doc.Watermark)
	assert.Equal(t, "Rechnung #9", doc.Blocks[0].Text)

	var billTo string
	for _, b := range doc.Blocks {
		for _, f := range b.Fields {
			if f.Label == "Rechnung an" {
				billTo = f.Value
			}
		}
	}
	assert.Equal(t, "Jane Client <jane@client.io>", billTo)

	t.Run("renderer failure", func(t *testing.T) {
		env.renderer.err = printing.NewRenderError(printing.StageEmpty, "engine produced no output", nil)
		defer func() { env.renderer.err = nil }()
		_, err := env.service.DownloadInvoicePDF(ctx, viewer, inv.ID, "en")
		assert.ErrorIs(t, err, invoice.ErrPdfGenerationFailed)
	})

	t.Run("access is checked before rendering", func(t *testing.T) {
		before := len(env.renderer.docs)
		_, err := env.service.DownloadInvoicePDF(ctx, env.caller(uuid.New(), invoice.PermInvoicesView), inv.ID, "en")
		assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)
		assert.Len(t, env.renderer.docs, before)
	})
}

func TestDownloadPaymentPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inv := env.seed(t, 4, nil, invoice.StatusPartiallyPaid, false)
	env.payments = memoryPayments{
		{InvoiceID: inv.ID, Amount: decimal.NewFromInt(40), PaymentDate: inv.DueDate.AddDate(0, 0, -2), RecordedByName: "Ann"},
		{InvoiceID: inv.ID, Amount: decimal.NewFromInt(10), PaymentDate: inv.DueDate.AddDate(0, 0, 3), Note: "late"},
	}

	pdf, err := env.service.DownloadPaymentPDF(ctx, env.caller(env.owner, invoice.PermOrgInvoicesView), inv.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Payments-4.pdf", pdf.Filename)

	doc := env.renderer.last()
	var table *printing.Table
	for _, b := range doc.Blocks {
		if b.Kind == printing.BlockTable {
			table = b.Table
		}
	}
	require.NotNil(t, table)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "On Time", table.Rows[0][4])
	assert.Equal(t, "Overdue", table.Rows[1][4])
	assert.Equal(t, "40.00 EUR", table.Rows[0][1])
}

// =============================================================================
// Mail and links
// =============================================================================

func TestSendEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("estimate mail with links and record", func(t *testing.T) {
		env := newTestEnv(t)
		est := env.seed(t, 12, nil, invoice.StatusDraft, true)
		caller := env.caller(env.owner, invoice.PermInvoicesHandle)

		err := env.service.SendEmail(ctx, caller, SendEmailRequest{
			Email:      "jane@client.io",
			InvoiceID:  est.ID,
			IsEstimate: true,
			Locale:     "fr",
		})
		require.NoError(t, err)

		require.Len(t, env.estimates.records, 1)
		record := env.estimates.records[0]
		assert.WithinDuration(t, env.now.AddDate(0, 0, 3), record.ExpireDate, time.Second)

		require.Len(t, env.transport.sent, 1)
		msg := env.transport.sent[0]
		assert.Equal(t, "EMAIL_ESTIMATE", msg.Template)
		assert.Equal(t, "jane@client.io", msg.To)
		assert.Equal(t, "billing@acme.io", msg.From)
		assert.Equal(t, "fr", msg.Locale)
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, "Estimate-12.pdf", msg.Attachments[0].Filename)
		decoded, err := base64.StdEncoding.DecodeString(msg.Attachments[0].Content)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(decoded))
		assert.Equal(t, "https://app.example.org/#/auth/estimate/?token="+record.Token+
			"&id="+est.ID.String()+"&action=accept&email=jane%40client.io", msg.Variables["acceptUrl"])
		assert.True(t, strings.Contains(msg.Variables["rejectUrl"], "action=reject"))

		require.Len(t, env.records.records, 1)
		assert.Equal(t, invoice.EmailSent, env.records.records[0].Status)
		assert.Equal(t, invoice.TemplateEstimate, env.records.records[0].Template)

		_, err = env.tokens.Validate(ctx, record.Token, nil)
		require.NoError(t, err)
		env.now = env.now.Add(4 * 24 * time.Hour)
		_, err = env.tokens.Validate(ctx, record.Token, nil)
		assert.ErrorIs(t, err, invoice.ErrInvalidToken)
	})

	t.Run("origin overrides base url", func(t *testing.T) {
		env := newTestEnv(t)
		inv := env.seed(t, 3, nil, invoice.StatusSent, false)
		err := env.service.SendEmail(ctx, env.caller(env.owner, invoice.PermAllOrgView), SendEmailRequest{
			Email:     "jane@client.io",
			InvoiceID: inv.ID,
			Origin:    "https://portal.acme.io/",
		})
		require.NoError(t, err)
		require.Len(t, env.transport.sent, 1)
		assert.Equal(t, "EMAIL_INVOICE", env.transport.sent[0].Template)
		assert.Equal(t, "Invoice-3.pdf", env.transport.sent[0].Attachments[0].Filename)
		assert.True(t, strings.HasPrefix(env.transport.sent[0].Variables["acceptUrl"], "https://portal.acme.io/#/auth/estimate/"))
	})

	t.Run("blocked recipient is skipped", func(t *testing.T) {
		env := newTestEnv(t)
		inv := env.seed(t, 3, nil, invoice.StatusSent, false)
		err := env.service.SendEmail(ctx, env.caller(env.owner, invoice.PermAllOrgView), SendEmailRequest{
			Email:     "demo@EXAMPLE.com",
			InvoiceID: inv.ID,
		})
		require.NoError(t, err)
		assert.Empty(t, env.transport.sent)
		assert.Empty(t, env.renderer.docs)
		require.Len(t, env.records.records, 1)
		assert.Equal(t, invoice.EmailSkipped, env.records.records[0].Status)
	})

	t.Run("failures after the token are swallowed", func(t *testing.T) {
		env := newTestEnv(t)
		inv := env.seed(t, 3, nil, invoice.StatusSent, false)
		env.transport.err = errors.New("relay down")

		err := env.service.SendEmail(ctx, env.caller(env.owner, invoice.PermAllOrgView), SendEmailRequest{
			Email:     "jane@client.io",
			InvoiceID: inv.ID,
		})
		require.NoError(t, err)
		require.Len(t, env.estimates.records, 1)
		require.Len(t, env.records.records, 1)
		assert.Equal(t, invoice.EmailFailed, env.records.records[0].Status)

		env.transport.err = nil
		env.renderer.err = errors.New("chrome crashed")
		require.NoError(t, env.service.SendEmail(ctx, env.caller(env.owner, invoice.PermAllOrgView), SendEmailRequest{
			Email:     "jane@client.io",
			InvoiceID: inv.ID,
		}))
		assert.Equal(t, invoice.EmailFailed, env.records.records[1].Status)
	})

	t.Run("unreadable invoice", func(t *testing.T) {
		env := newTestEnv(t)
		inv := env.seed(t, 3, nil, invoice.StatusSent, false)
		err := env.service.SendEmail(ctx, env.caller(env.owner, invoice.PermInvoicesView), SendEmailRequest{
			Email:     "jane@client.io",
			InvoiceID: inv.ID,
		})
		assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)
		assert.Empty(t, env.estimates.records)
		assert.Empty(t, env.records.records)
	})
}

func TestGenerateLinkAndViewPublic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inv := env.seed(t, 5, nil, invoice.StatusSent, false)
	caller := env.caller(env.owner, invoice.PermOrgInvoicesView)

	linked, err := env.service.GenerateLink(ctx, caller, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.Token)
	stored := env.invoices.get(inv.ID)
	require.NotNil(t, stored.Token)
	assert.Equal(t, *linked.Token, *stored.Token)

	env.now = env.now.AddDate(1, 0, 0)
	public, err := env.service.ViewPublic(ctx, inv.ID, *linked.Token)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, public.ID)
	assert.Nil(t, public.Token)

	_, err = env.service.ViewPublic(ctx, uuid.New(), *linked.Token)
	assert.ErrorIs(t, err, invoice.ErrInvalidToken)

	// a regenerated link invalidates the previous one
	env.now = env.now.Add(time.Second)
	relinked, err := env.service.GenerateLink(ctx, caller, inv.ID)
	require.NoError(t, err)
	require.NotEqual(t, *linked.Token, *relinked.Token)
	_, err = env.service.ViewPublic(ctx, inv.ID, *linked.Token)
	assert.ErrorIs(t, err, invoice.ErrInvalidToken)

	_, err = env.service.GenerateLink(ctx, env.caller(env.owner, invoice.PermInvoicesView), inv.ID)
	assert.ErrorIs(t, err, invoice.ErrInvalidInvoice)
}

func TestListInvoicesRequest_ToFilter(t *testing.T) {
	now := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	isEstimate := true

	filter := ListInvoicesRequest{
		Page:        2,
		PageSize:    10,
		IsEstimate:  &isEstimate,
		Statuses:    []string{"DRAFT"},
		InvoiceDate: &DateRangeRequest{},
		DueDate:     &DateRangeRequest{Start: &start},
	}.ToFilter(now)

	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, []invoice.Status{invoice.StatusDraft}, filter.Statuses)
	require.NotNil(t, filter.InvoiceDate)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), filter.InvoiceDate.Start)
	assert.Equal(t, time.Month(2), filter.InvoiceDate.End.Month())
	assert.Equal(t, 29, filter.InvoiceDate.End.Day())
	require.NotNil(t, filter.DueDate)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), filter.DueDate.Start, "a single bound falls back to the month")
	assert.Equal(t, 29, filter.DueDate.End.Day())

	assert.Nil(t, ListInvoicesRequest{}.ToFilter(now).InvoiceDate)
}

func TestDateRangeRequest_BothBounds(t *testing.T) {
	now := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	r := ListInvoicesRequest{InvoiceDate: &DateRangeRequest{Start: &start, End: &end}}.ToFilter(now).InvoiceDate
	require.NotNil(t, r)
	assert.Equal(t, start, r.Start)
	assert.Equal(t, time.Date(2024, 1, 20, 23, 59, 59, 999999999, time.UTC), r.End)

	late := time.Date(2024, 1, 20, 18, 30, 0, 0, time.UTC)
	assert.False(t, late.After(r.End), "invoices dated later on the end day are included")

	exact := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	r = ListInvoicesRequest{InvoiceDate: &DateRangeRequest{Start: &start, End: &exact}}.ToFilter(now).InvoiceDate
	assert.Equal(t, exact, r.End, "an end with a time of day is kept")
}
