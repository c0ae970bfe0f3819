package handler

import (
	"context"

	invoiceapp "github.com/ever-co/invoicing/internal/application/invoice"
	"github.com/ever-co/invoicing/internal/application/estimate"
	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceService implements InvoiceService for testing
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) List(ctx context.Context, caller invoice.Caller, req invoiceapp.ListInvoicesRequest) ([]invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoiceapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Paginate(ctx context.Context, caller invoice.Caller, req invoiceapp.ListInvoicesRequest) (*invoiceapp.ListInvoicesResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.ListInvoicesResponse), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, caller invoice.Caller, id uuid.UUID) (*invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) GetHighestInvoiceNumber(ctx context.Context, caller invoice.Caller) (int64, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceService) GetStats(ctx context.Context, caller invoice.Caller) (*invoiceapp.StatsResponse, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.StatsResponse), args.Error(1)
}

func (m *MockInvoiceService) Create(ctx context.Context, caller invoice.Caller, req invoiceapp.CreateInvoiceRequest) (*invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) CreateOwn(ctx context.Context, caller invoice.Caller, req invoiceapp.CreateInvoiceRequest) (*invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, caller invoice.Caller, id uuid.UUID, req invoiceapp.UpdateInvoiceRequest) (*invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) UpdateAction(ctx context.Context, caller invoice.Caller, id uuid.UUID, req invoiceapp.UpdateActionRequest) (*invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, caller invoice.Caller, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockInvoiceService) DownloadInvoicePDF(ctx context.Context, caller invoice.Caller, id uuid.UUID, locale string) (*invoiceapp.PDFResponse, error) {
	args := m.Called(ctx, caller, id, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.PDFResponse), args.Error(1)
}

func (m *MockInvoiceService) DownloadPaymentPDF(ctx context.Context, caller invoice.Caller, id uuid.UUID, locale string) (*invoiceapp.PDFResponse, error) {
	args := m.Called(ctx, caller, id, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.PDFResponse), args.Error(1)
}

func (m *MockInvoiceService) SendEmail(ctx context.Context, caller invoice.Caller, req invoiceapp.SendEmailRequest) error {
	return m.Called(ctx, caller, req).Error(0)
}

func (m *MockInvoiceService) GenerateLink(ctx context.Context, caller invoice.Caller, id uuid.UUID) (*invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) ViewPublic(ctx context.Context, id uuid.UUID, token string) (*invoiceapp.InvoiceResponse, error) {
	args := m.Called(ctx, id, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoiceapp.InvoiceResponse), args.Error(1)
}

// MockEstimateService implements EstimateService for testing
type MockEstimateService struct {
	mock.Mock
}

func (m *MockEstimateService) Validate(ctx context.Context, token string, relations []string) (*invoice.EstimateEmail, error) {
	args := m.Called(ctx, token, relations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.EstimateEmail), args.Error(1)
}

func (m *MockEstimateService) Redeem(ctx context.Context, token string, action estimate.Action) (*invoice.Invoice, error) {
	args := m.Called(ctx, token, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}
