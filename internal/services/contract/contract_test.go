package contract

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

func (m *RepoMock) CreateContract(ctx context.Context, req models.DummyContract) (*models.Contract, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *RepoMock) ReadContract(ctx context.Context, id int) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *RepoMock) UpdateContractDates(ctx context.Context, id int, req models.DummyContractUpdate) (*models.Contract, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *RepoMock) RemoveContract(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RepoMock) ListContracts(ctx context.Context) ([]*models.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contract), args.Error(1)
}

func (m *RepoMock) ReadCustomer(ctx context.Context, id int) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *RepoMock) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListInvoicesForContract(ctx context.Context, contractID int) ([]*models.Invoice, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func futureContractRequest() models.DummyContract {
	return models.DummyContract{
		CustomerID:     1,
		SubscriptionID: 2,
		StartDate:      time.Now().UTC().AddDate(0, 0, 1),
		EndDate:        time.Now().UTC().AddDate(0, 6, 0),
	}
}

func TestCreate_Success(t *testing.T) {
	repo := new(RepoMock)
	req := futureContractRequest()

	repo.On("ReadCustomer", mock.Anything, 1).Return(&models.Customer{ID: 1}, nil)
	repo.On("ReadSubscription", mock.Anything, 2).Return(&models.Subscription{ID: 2}, nil)
	repo.On("CreateContract", mock.Anything, req).Return(&models.Contract{
		ID:             10,
		CustomerID:     1,
		SubscriptionID: 2,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}, nil)

	service := New(repo, discardLogger())
	result, err := service.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 10, result.ID)
	repo.AssertExpectations(t)
}

func TestCreate_CustomerMissing(t *testing.T) {
	repo := new(RepoMock)
	req := futureContractRequest()

	repo.On("ReadCustomer", mock.Anything, 1).
		Return(nil, &errs.NotFound{Entity: errs.EntityCustomer, ID: 1})

	service := New(repo, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rnf *errs.ReferenceNotFound
	require.True(t, errors.As(err, &rnf))
	assert.Equal(t, errs.EntityCustomer, rnf.Entity)
	assert.Equal(t, 1, rnf.ID)
	repo.AssertNotCalled(t, "ReadSubscription", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateContract", mock.Anything, mock.Anything)
}

func TestCreate_SubscriptionMissing(t *testing.T) {
	repo := new(RepoMock)
	req := futureContractRequest()
	req.SubscriptionID = 99

	repo.On("ReadCustomer", mock.Anything, 1).Return(&models.Customer{ID: 1}, nil)
	repo.On("ReadSubscription", mock.Anything, 99).
		Return(nil, &errs.NotFound{Entity: errs.EntitySubscription, ID: 99})

	service := New(repo, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rnf *errs.ReferenceNotFound
	require.True(t, errors.As(err, &rnf))
	assert.Equal(t, errs.EntitySubscription, rnf.Entity)
	assert.Equal(t, 99, rnf.ID)
	repo.AssertNotCalled(t, "CreateContract", mock.Anything, mock.Anything)
}

func TestCreate_DatesInPast(t *testing.T) {
	repo := new(RepoMock)
	req := futureContractRequest()
	req.StartDate = time.Now().UTC().AddDate(0, 0, -10)

	repo.On("ReadCustomer", mock.Anything, 1).Return(&models.Customer{ID: 1}, nil)
	repo.On("ReadSubscription", mock.Anything, 2).Return(&models.Subscription{ID: 2}, nil)

	service := New(repo, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleContractDatesInPast, rv.Rule)
	repo.AssertNotCalled(t, "CreateContract", mock.Anything, mock.Anything)
}

func TestCreate_StartAfterEnd(t *testing.T) {
	repo := new(RepoMock)
	req := futureContractRequest()
	req.StartDate = time.Now().UTC().AddDate(1, 0, 0)
	req.EndDate = time.Now().UTC().AddDate(0, 1, 0)

	repo.On("ReadCustomer", mock.Anything, 1).Return(&models.Customer{ID: 1}, nil)
	repo.On("ReadSubscription", mock.Anything, 2).Return(&models.Subscription{ID: 2}, nil)

	service := New(repo, discardLogger())
	_, err := service.Create(context.Background(), req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleContractDateOrder, rv.Rule)
}

func TestUpdate_RejectsPastDates(t *testing.T) {
	repo := new(RepoMock)
	req := models.DummyContractUpdate{
		StartDate: time.Now().UTC().AddDate(0, 0, -5),
		EndDate:   time.Now().UTC().AddDate(0, 1, 0),
	}

	service := New(repo, discardLogger())
	_, err := service.Update(context.Background(), 3, req)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	repo.AssertNotCalled(t, "UpdateContractDates", mock.Anything, mock.Anything, mock.Anything)
}

func TestListInvoices_ContractMissing(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ReadContract", mock.Anything, 404).
		Return(nil, &errs.NotFound{Entity: errs.EntityContract, ID: 404})

	service := New(repo, discardLogger())
	_, err := service.ListInvoices(context.Background(), 404)

	require.True(t, errs.IsNotFound(err))
	repo.AssertNotCalled(t, "ListInvoicesForContract", mock.Anything, mock.Anything)
}
