package printing

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// SupportedLanguages lists the document languages; the first is the fallback
var SupportedLanguages = []language.Tag{language.English, language.German, language.French}

// translations maps an English key to its German and French text.
// English output is the key itself.
var translations = map[string][2]string{
	"Invoice":          {"Rechnung", "Facture"},
	"Estimate":         {"Angebot", "Devis"},
	"Payment Receipt":  {"Zahlungsbeleg", "Reçu de paiement"},
	"Number":           {"Nummer", "Numéro"},
	"Invoice Date":     {"Rechnungsdatum", "Date de facture"},
	"Estimate Date":    {"Angebotsdatum", "Date du devis"},
	"Due Date":         {"Fälligkeitsdatum", "Date d'échéance"},
	"Status":           {"Status", "Statut"},
	"From":             {"Von", "De"},
	"Bill To":          {"Rechnung an", "Facturer à"},
	"Description":      {"Beschreibung", "Description"},
	"Quantity":         {"Menge", "Quantité"},
	"Price":            {"Preis", "Prix"},
	"Total":            {"Gesamt", "Total"},
	"Subtotal":         {"Zwischensumme", "Sous-total"},
	"Discount":         {"Rabatt", "Remise"},
	"Tax":              {"Steuer", "Taxe"},
	"Total Value":      {"Gesamtbetrag", "Montant total"},
	"Already Paid":     {"Bereits bezahlt", "Déjà payé"},
	"Amount Due":       {"Offener Betrag", "Montant dû"},
	"Terms":            {"Bedingungen", "Conditions"},
	"Payments":         {"Zahlungen", "Paiements"},
	"Payment Date":     {"Zahlungsdatum", "Date de paiement"},
	"Amount":           {"Betrag", "Montant"},
	"Note":             {"Notiz", "Note"},
	"Recorded By":      {"Erfasst von", "Enregistré par"},
	"On Time":          {"Pünktlich", "À temps"},
	"Overdue":          {"Überfällig", "En retard"},
	"Paid":             {"Bezahlt", "Payé"},
	"No payments yet.": {"Noch keine Zahlungen.", "Aucun paiement pour le moment."},
	"DRAFT":            {"Entwurf", "Brouillon"},
	"SENT":             {"Gesendet", "Envoyé"},
	"VIEWED":           {"Angesehen", "Consulté"},
	"ACCEPTED":         {"Angenommen", "Accepté"},
	"REJECTED":         {"Abgelehnt", "Refusé"},
	"VOID":             {"Storniert", "Annulé"},
	"FULLY_PAID":       {"Bezahlt", "Payé"},
	"PARTIALLY_PAID":   {"Teilweise bezahlt", "Partiellement payé"},
	"OVERPAID":         {"Überbezahlt", "Trop-perçu"},
}

var englishStatus = map[string]string{
	"DRAFT":          "Draft",
	"SENT":           "Sent",
	"VIEWED":         "Viewed",
	"ACCEPTED":       "Accepted",
	"REJECTED":       "Rejected",
	"VOID":           "Void",
	"FULLY_PAID":     "Paid",
	"PARTIALLY_PAID": "Partially Paid",
	"OVERPAID":       "Overpaid",
}

// Labels resolves the document language and translates fixed labels
type Labels struct {
	catalog catalog.Catalog
	matcher language.Matcher
}

// NewLabels builds the label catalog
func NewLabels() *Labels {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range translations {
		_ = b.SetString(language.German, key, tr[0])
		_ = b.SetString(language.French, key, tr[1])
	}
	for key, text := range englishStatus {
		_ = b.SetString(language.English, key, text)
	}
	return &Labels{catalog: b, matcher: language.NewMatcher(SupportedLanguages)}
}

// Match picks the supported language closest to locale, which may be a tag
// ("de-CH") or an Accept-Language header value. Unknown input yields English.
func (l *Labels) Match(locale string) language.Tag {
	if locale == "" {
		return SupportedLanguages[0]
	}
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return SupportedLanguages[0]
	}
	_, idx, confidence := l.matcher.Match(tags...)
	if confidence == language.No {
		return SupportedLanguages[0]
	}
	return SupportedLanguages[idx]
}

// Printer returns a message printer for tag backed by the label catalog
func (l *Labels) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}

// Watermark returns the translated label in upper case, as stamped across a page
func (l *Labels) Watermark(tag language.Tag, key string) string {
	return cases.Upper(tag).String(l.Printer(tag).Sprintf(key))
}
