package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLabels_Match(t *testing.T) {
	labels := NewLabels()

	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"de", language.German},
		{"de-CH", language.German},
		{"fr-CA,fr;q=0.9,en;q=0.8", language.French},
		{"ja", language.English},
		{"!!", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, labels.Match(tt.locale))
		})
	}
}

func TestLabels_Printer(t *testing.T) {
	labels := NewLabels()

	assert.Equal(t, "Invoice", labels.Printer(language.English).Sprintf("Invoice"))
	assert.Equal(t, "Rechnung", labels.Printer(language.German).Sprintf("Invoice"))
	assert.Equal(t, "Facture", labels.Printer(language.French).Sprintf("Invoice"))

	assert.Equal(t, "Partially Paid", labels.Printer(language.English).Sprintf("PARTIALLY_PAID"))
	assert.Equal(t, "Brouillon", labels.Printer(language.French).Sprintf("DRAFT"))
}

func TestLabels_Watermark(t *testing.T) {
	labels := NewLabels()

	assert.Equal(t, "PAID", labels.Watermark(language.English, "Paid"))
	assert.Equal(t, "ÜBERFÄLLIG", labels.Watermark(language.German, "Overdue"))
	assert.Equal(t, "EN RETARD", labels.Watermark(language.French, "Overdue"))
}
