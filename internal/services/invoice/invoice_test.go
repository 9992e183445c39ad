package invoice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateInvoice(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *RepoMock) ReadInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *RepoMock) UpdateInvoice(ctx context.Context, id int, req models.DummyInvoiceUpdate) (*models.Invoice, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *RepoMock) RemoveInvoice(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RepoMock) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *RepoMock) ReadContract(ctx context.Context, id int) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *RepoMock) ListPaymentsForInvoice(ctx context.Context, invoiceID int) ([]*models.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	contractStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	contractEnd   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

func activeContract() *models.Contract {
	return &models.Contract{
		ID:             3,
		CustomerID:     1,
		SubscriptionID: 2,
		StartDate:      contractStart,
		EndDate:        contractEnd,
	}
}

func TestCreate_Success(t *testing.T) {
	repo := new(RepoMock)
	req := models.DummyInvoice{
		ContractID: 3,
		IssueDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:     100,
	}

	repo.On("ReadContract", mock.Anything, 3).Return(activeContract(), nil)
	repo.On("CreateInvoice", mock.Anything, req).Return(&models.Invoice{
		ID:         11,
		ContractID: 3,
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		Amount:     100,
		Status:     models.InvoiceStatusUnpaid,
	}, nil)

	service := New(repo, discardLogger())
	result, err := service.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 11, result.ID)
	assert.Equal(t, models.InvoiceStatusUnpaid, result.Status)
	repo.AssertExpectations(t)
}

func TestCreate_ContractMissing(t *testing.T) {
	repo := new(RepoMock)
	req := models.DummyInvoice{
		ContractID: 77,
		IssueDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Amount:     100,
	}

	repo.On("ReadContract", mock.Anything, 77).
		Return(nil, &errs.NotFound{Entity: errs.EntityContract, ID: 77})

	service := New(repo, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rnf *errs.ReferenceNotFound
	require.True(t, errors.As(err, &rnf))
	assert.Equal(t, errs.EntityContract, rnf.Entity)
	assert.Equal(t, 77, rnf.ID)
	repo.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}

func TestCreate_OutsideContractWindow(t *testing.T) {
	repo := new(RepoMock)
	req := models.DummyInvoice{
		ContractID: 3,
		IssueDate:  time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:     100,
	}

	repo.On("ReadContract", mock.Anything, 3).Return(activeContract(), nil)

	service := New(repo, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleInvoiceOutsideWindow, rv.Rule)
	repo.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}

func TestCreate_IssueAfterDue(t *testing.T) {
	repo := new(RepoMock)
	req := models.DummyInvoice{
		ContractID: 3,
		IssueDate:  time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:     100,
	}

	repo.On("ReadContract", mock.Anything, 3).Return(activeContract(), nil)

	service := New(repo, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleInvoiceDateOrder, rv.Rule)
}

func TestUpdate_ReValidatesWindow(t *testing.T) {
	repo := new(RepoMock)
	req := models.DummyInvoiceUpdate{
		IssueDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:    100,
	}

	repo.On("ReadInvoice", mock.Anything, 11).Return(&models.Invoice{
		ID:         11,
		ContractID: 3,
		Status:     models.InvoiceStatusUnpaid,
	}, nil)
	repo.On("ReadContract", mock.Anything, 3).Return(activeContract(), nil)

	service := New(repo, discardLogger())
	_, err := service.Update(context.Background(), 11, req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleInvoiceOutsideWindow, rv.Rule)
	repo.AssertNotCalled(t, "UpdateInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPayments_InvoiceMissing(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadInvoice", mock.Anything, 404).
		Return(nil, &errs.NotFound{Entity: errs.EntityInvoice, ID: 404})

	service := New(repo, discardLogger())
	_, err := service.ListPayments(context.Background(), 404)

	require.True(t, errs.IsNotFound(err))
	repo.AssertNotCalled(t, "ListPaymentsForInvoice", mock.Anything, mock.Anything)
}
