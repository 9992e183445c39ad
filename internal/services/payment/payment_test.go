package payment

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
	"github.com/magabrotheeeer/isp-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, req models.DummyPayment) (*models.Payment, *models.Invoice, error) {
	args := m.Called(ctx, req)
	var payment *models.Payment
	var invoice *models.Invoice
	if args.Get(0) != nil {
		payment = args.Get(0).(*models.Payment)
	}
	if args.Get(1) != nil {
		invoice = args.Get(1).(*models.Invoice)
	}
	return payment, invoice, args.Error(2)
}

func (m *RepoMock) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *RepoMock) ReadInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) InvoicePaid(event rabbitmq.InvoicePaidEvent) error {
	return m.Called(event).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func unpaidInvoice() *models.Invoice {
	return &models.Invoice{
		ID:         5,
		ContractID: 3,
		IssueDate:  time.Now().UTC().AddDate(0, 0, -1),
		DueDate:    time.Now().UTC().AddDate(0, 1, 0),
		Amount:     100,
		PaidAmount: 0,
		Status:     models.InvoiceStatusUnpaid,
	}
}

func TestCreate_Success_NoEventWhileUnpaid(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	req := models.DummyPayment{
		InvoiceID:   5,
		PaymentDate: time.Now().UTC().AddDate(0, 0, 1),
		Amount:      40,
	}

	updated := unpaidInvoice()
	updated.PaidAmount = 40

	repo.On("ReadInvoice", mock.Anything, 5).Return(unpaidInvoice(), nil)
	repo.On("CreatePayment", mock.Anything, req).
		Return(&models.Payment{ID: 7, InvoiceID: 5, Amount: 40}, updated, nil)

	service := New(repo, publisher, discardLogger())
	result, err := service.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 7, result.ID)
	publisher.AssertNotCalled(t, "InvoicePaid", mock.Anything)
	repo.AssertExpectations(t)
}

func TestCreate_PublishesEventWhenInvoicePaid(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	req := models.DummyPayment{
		InvoiceID:   5,
		PaymentDate: time.Now().UTC().AddDate(0, 0, 1),
		Amount:      100,
	}

	updated := unpaidInvoice()
	updated.PaidAmount = 100
	updated.Status = models.InvoiceStatusPaid

	repo.On("ReadInvoice", mock.Anything, 5).Return(unpaidInvoice(), nil)
	repo.On("CreatePayment", mock.Anything, req).
		Return(&models.Payment{ID: 8, InvoiceID: 5, Amount: 100}, updated, nil)
	publisher.On("InvoicePaid", rabbitmq.InvoicePaidEvent{
		InvoiceID:  5,
		ContractID: 3,
		Amount:     100,
	}).Return(nil)

	service := New(repo, publisher, discardLogger())
	_, err := service.Create(context.Background(), req)

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestCreate_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	req := models.DummyPayment{
		InvoiceID:   5,
		PaymentDate: time.Now().UTC().AddDate(0, 0, 1),
		Amount:      100,
	}

	updated := unpaidInvoice()
	updated.PaidAmount = 100
	updated.Status = models.InvoiceStatusPaid

	repo.On("ReadInvoice", mock.Anything, 5).Return(unpaidInvoice(), nil)
	repo.On("CreatePayment", mock.Anything, req).
		Return(&models.Payment{ID: 9, InvoiceID: 5, Amount: 100}, updated, nil)
	publisher.On("InvoicePaid", mock.Anything).Return(errors.New("channel closed"))

	service := New(repo, publisher, discardLogger())
	result, err := service.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 9, result.ID)
}

func TestCreate_InvoiceMissing(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	req := models.DummyPayment{
		InvoiceID:   42,
		PaymentDate: time.Now().UTC().AddDate(0, 0, 1),
		Amount:      10,
	}

	repo.On("ReadInvoice", mock.Anything, 42).
		Return(nil, &errs.NotFound{Entity: errs.EntityInvoice, ID: 42})

	service := New(repo, publisher, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rnf *errs.ReferenceNotFound
	require.True(t, errors.As(err, &rnf))
	assert.Equal(t, errs.EntityInvoice, rnf.Entity)
	repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCreate_PaymentBeforeIssueDate(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	invoice := unpaidInvoice()
	invoice.IssueDate = time.Now().UTC().AddDate(0, 1, 0)
	req := models.DummyPayment{
		InvoiceID:   5,
		PaymentDate: time.Now().UTC().AddDate(0, 0, 1),
		Amount:      10,
	}

	repo.On("ReadInvoice", mock.Anything, 5).Return(invoice, nil)

	service := New(repo, publisher, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RulePaymentBeforeIssue, rv.Rule)
	repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCreate_PaymentDateInPast(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	invoice := unpaidInvoice()
	invoice.IssueDate = time.Now().UTC().AddDate(0, 0, -30)
	req := models.DummyPayment{
		InvoiceID:   5,
		PaymentDate: time.Now().UTC().AddDate(0, 0, -10),
		Amount:      10,
	}

	repo.On("ReadInvoice", mock.Anything, 5).Return(invoice, nil)

	service := New(repo, publisher, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RulePaymentDateInPast, rv.Rule)
}

func TestCreate_OverpayRejectedByStore(t *testing.T) {
	repo := new(RepoMock)
	publisher := new(PublisherMock)
	req := models.DummyPayment{
		InvoiceID:   5,
		PaymentDate: time.Now().UTC().AddDate(0, 0, 1),
		Amount:      150,
	}

	repo.On("ReadInvoice", mock.Anything, 5).Return(unpaidInvoice(), nil)
	repo.On("CreatePayment", mock.Anything, req).
		Return(nil, nil, &errs.RuleViolation{Rule: errs.RulePaymentOverpays, Detail: "payment exceeds invoice amount"})

	service := New(repo, publisher, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RulePaymentOverpays, rv.Rule)
	publisher.AssertNotCalled(t, "InvoicePaid", mock.Anything)
}
