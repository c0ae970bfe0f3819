package invoice

import (
	"strconv"
	"strings"
	"time"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "2006-01-02"

// documentInput gathers everything loaded for one rendering
type documentInput struct {
	invoice  *invoice.Invoice
	org      *invoice.Organization
	contact  *invoice.Contact
	payments []invoice.Payment
	tag      language.Tag
	now      time.Time
}

type documentBuilder struct {
	labels *printing.Labels
}

func (b documentBuilder) money(p *message.Printer, amount decimal.Decimal, currency string) string {
	formatted := formatAmount(p, amount)
	if currency == "" {
		return formatted
	}
	return formatted + " " + currency
}

// formatAmount renders amount with two decimals from its exact digits. Only
// the integer part goes through the printer, for locale digit grouping.
func formatAmount(p *message.Printer, amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + whole + decimalSeparator(p) + frac
	}
	return sign + p.Sprintf("%d", n) + decimalSeparator(p) + frac
}

func decimalSeparator(p *message.Printer) string {
	sep := strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%.1f", 1.5), "1"), "5")
	if sep == "" {
		return "."
	}
	return sep
}

func (b documentBuilder) header(in documentInput, p *message.Printer, title string) []printing.Block {
	inv := in.invoice
	dateLabel := "Invoice Date"
	if inv.IsEstimate {
		dateLabel = "Estimate Date"
	}

	blocks := []printing.Block{
		printing.Heading(p.Sprintf(title) + " #" + strconv.FormatInt(inv.InvoiceNumber, 10)),
		printing.Fields(
			printing.Field{Label: p.Sprintf(dateLabel), Value: inv.InvoiceDate.Format(dateLayout)},
			printing.Field{Label: p.Sprintf("Due Date"), Value: inv.DueDate.Format(dateLayout)},
			printing.Field{Label: p.Sprintf("Status"), Value: p.Sprintf(string(inv.Status))},
		),
	}

	var parties []printing.Field
	if in.org != nil {
		parties = append(parties, printing.Field{Label: p.Sprintf("From"), Value: in.org.Name})
	}
	if in.contact != nil {
		to := in.contact.Name
		if in.contact.PrimaryEmail != "" {
			to += " <" + in.contact.PrimaryEmail + ">"
		}
		parties = append(parties, printing.Field{Label: p.Sprintf("Bill To"), Value: to})
	}
	if len(parties) > 0 {
		blocks = append(blocks, printing.Fields(parties...))
	}
	return blocks
}

func (b documentBuilder) base(in documentInput, title string) *printing.Document {
	doc := &printing.Document{
		Title:    title + " " + strconv.FormatInt(in.invoice.InvoiceNumber, 10),
		Language: in.tag,
	}
	if in.org != nil {
		doc.Accent = in.org.BrandColor
		doc.LogoURL = in.org.ImageURL
	}
	return doc
}

// invoiceDocument lays out an invoice or estimate with its lines and totals
func (b documentBuilder) invoiceDocument(in documentInput) *printing.Document {
	inv := in.invoice
	p := b.labels.Printer(in.tag)
	kind := inv.DocumentKind()

	doc := b.base(in, p.Sprintf(kind))
	doc.Blocks = b.header(in, p, kind)

	rows := make([][]string, 0, len(inv.Items))
	for _, item := range inv.Items {
		rows = append(rows, []string{
			item.Description,
			item.Quantity.String(),
			b.money(p, item.Price, inv.Currency),
			b.money(p, item.TotalValue, inv.Currency),
		})
	}
	doc.Blocks = append(doc.Blocks, printing.TableBlock([]printing.Column{
		{Label: p.Sprintf("Description")},
		{Label: p.Sprintf("Quantity"), Numeric: true},
		{Label: p.Sprintf("Price"), Numeric: true},
		{Label: p.Sprintf("Total"), Numeric: true},
	}, rows))

	totals := []printing.Field{
		{Label: p.Sprintf("Subtotal"), Value: b.money(p, inv.Subtotal(), inv.Currency)},
	}
	if !inv.DiscountValue.IsZero() {
		totals = append(totals, printing.Field{Label: p.Sprintf("Discount"), Value: b.rate(p, inv.DiscountValue, inv.DiscountType, inv.Currency)})
	}
	if !inv.Tax.IsZero() {
		totals = append(totals, printing.Field{Label: p.Sprintf("Tax"), Value: b.rate(p, inv.Tax, inv.TaxType, inv.Currency)})
	}
	totals = append(totals, printing.Field{Label: p.Sprintf("Total Value"), Value: b.money(p, inv.TotalValue, inv.Currency)})
	if !inv.IsEstimate {
		totals = append(totals,
			printing.Field{Label: p.Sprintf("Already Paid"), Value: b.money(p, inv.AlreadyPaid, inv.Currency)},
			printing.Field{Label: p.Sprintf("Amount Due"), Value: b.money(p, inv.AmountDue, inv.Currency)},
		)
	}
	doc.Blocks = append(doc.Blocks, printing.Totals(totals...))

	if inv.Terms != "" {
		doc.Blocks = append(doc.Blocks, printing.Fields(printing.Field{Label: p.Sprintf("Terms"), Value: inv.Terms}))
	}

	if !inv.IsEstimate {
		switch {
		case inv.Paid:
			doc.Watermark = b.labels.Watermark(in.tag, "Paid")
		case inv.IsOverdue(in.now):
			doc.Watermark = b.labels.Watermark(in.tag, "Overdue")
		}
	}
	return doc
}

// paymentDocument lists the payments of an invoice, each marked on time or overdue
func (b documentBuilder) paymentDocument(in documentInput) *printing.Document {
	inv := in.invoice
	p := b.labels.Printer(in.tag)

	doc := b.base(in, p.Sprintf("Payment Receipt"))
	doc.Blocks = b.header(in, p, "Payment Receipt")
	doc.Blocks = append(doc.Blocks, printing.Heading(p.Sprintf("Payments")))

	if len(in.payments) == 0 {
		doc.Blocks = append(doc.Blocks, printing.Paragraph(p.Sprintf("No payments yet.")))
	} else {
		rows := make([][]string, 0, len(in.payments))
		for _, pay := range in.payments {
			status := p.Sprintf("On Time")
			if pay.IsOverdue(inv.DueDate) {
				status = p.Sprintf("Overdue")
			}
			currency := pay.Currency
			if currency == "" {
				currency = inv.Currency
			}
			rows = append(rows, []string{
				pay.PaymentDate.Format(dateLayout),
				b.money(p, pay.Amount, currency),
				pay.RecordedByName,
				pay.Note,
				status,
			})
		}
		doc.Blocks = append(doc.Blocks, printing.TableBlock([]printing.Column{
			{Label: p.Sprintf("Payment Date")},
			{Label: p.Sprintf("Amount"), Numeric: true},
			{Label: p.Sprintf("Recorded By")},
			{Label: p.Sprintf("Note")},
			{Label: p.Sprintf("Status")},
		}, rows))
	}

	doc.Blocks = append(doc.Blocks, printing.Totals(
		printing.Field{Label: p.Sprintf("Total Value"), Value: b.money(p, inv.TotalValue, inv.Currency)},
		printing.Field{Label: p.Sprintf("Already Paid"), Value: b.money(p, inv.AlreadyPaid, inv.Currency)},
		printing.Field{Label: p.Sprintf("Amount Due"), Value: b.money(p, inv.AmountDue, inv.Currency)},
	))
	if inv.Paid {
		doc.Watermark = b.labels.Watermark(in.tag, "Paid")
	}
	return doc
}

func (b documentBuilder) rate(p *message.Printer, value decimal.Decimal, kind invoice.DiscountType, currency string) string {
	if kind == invoice.DiscountFlat {
		return b.money(p, value, currency)
	}
	return value.String() + " %"
}
