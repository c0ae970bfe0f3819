package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE invoices;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"valid field returns field", "invoice_number", "invoice_number"},
		{"camelCase is mapped to column", "invoiceNumber", "invoice_number"},
		{"camelCase dueDate", "dueDate", "due_date"},
		{"invalid field returns default", "terms", "created_at"},
		{"uppercase is not a column", "STATUS", "created_at"},
		{"whitespace around valid field returns field", "  status  ", "status"},
		{"sql injection attempt returns default", "id; DROP TABLE invoices;--", "created_at"},
		{"quotes injection returns default", "status'--", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, InvoiceSortFields, "created_at"))
		})
	}
}

func TestInvoiceSortFieldsContainCommonFields(t *testing.T) {
	for _, field := range []string{"id", "created_at", "updated_at"} {
		assert.True(t, InvoiceSortFields[field], field)
	}
}
