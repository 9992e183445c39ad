package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

var (
	contractStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	contractEnd   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	invoiceIssue  = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	invoiceDue    = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	paymentDate   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func TestStorage_CustomerLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	created, err := storage.CreateCustomer(ctx, models.DummyCustomer{
		Name:     "ion",
		Fullname: "Ion Popescu",
		Address:  "Strada Mihai Viteazu 1",
		Phone:    "+40711111111",
		CNP:      "1234567890123",
	})
	require.NoError(t, err)
	assert.Equal(t, "1234567890123", created.CNP)

	got, err := storage.ReadCustomer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Ion Popescu", got.Fullname)

	_, err = storage.ReadCustomer(ctx, created.ID+100)
	var nf *errs.NotFound
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, errs.EntityCustomer, nf.Entity)

	require.NoError(t, storage.RemoveCustomer(ctx, created.ID))

	err = storage.RemoveCustomer(ctx, created.ID)
	require.True(t, errors.As(err, &nf))
}

func TestStorage_RemoveCustomerWithContracts(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	customerID := factory.CreateCustomer(t, "ion", "Ion Popescu", "Strada 1", "+40711111111", "1234567890123")
	subscriptionID := factory.CreateSubscription(t, "Fiber 1000", models.SubscriptionFixedInternet, 1000, 50, 0.5)
	factory.CreateContract(t, customerID, subscriptionID, contractStart, contractEnd)

	err := storage.RemoveCustomer(context.Background(), customerID)

	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleHasDependents, rv.Rule)

	err = storage.RemoveSubscription(context.Background(), subscriptionID)
	require.True(t, errors.As(err, &rv))
}

func TestStorage_CreateContract_DanglingCustomer(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	subscriptionID := factory.CreateSubscription(t, "Fiber 1000", models.SubscriptionFixedInternet, 1000, 50, 0.5)

	_, err := storage.CreateContract(context.Background(), models.DummyContract{
		CustomerID:     9999,
		SubscriptionID: subscriptionID,
		StartDate:      contractStart,
		EndDate:        contractEnd,
	})

	var rnf *errs.ReferenceNotFound
	require.True(t, errors.As(err, &rnf))
	assert.Equal(t, errs.EntityCustomer, rnf.Entity)
}

func TestStorage_PaymentFlow(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	customerID := factory.CreateCustomer(t, "ion", "Ion Popescu", "Strada 1", "+40711111111", "1234567890123")
	subscriptionID := factory.CreateSubscription(t, "Fiber 1000", models.SubscriptionFixedInternet, 1000, 50, 0.5)
	contractID := factory.CreateContract(t, customerID, subscriptionID, contractStart, contractEnd)
	invoiceID := factory.CreateInvoice(t, contractID, invoiceIssue, invoiceDue, 100)

	// Первый платёж не закрывает счёт.
	payment, invoice, err := storage.CreatePayment(ctx, models.DummyPayment{
		InvoiceID:   invoiceID,
		PaymentDate: paymentDate,
		Amount:      60,
	})
	require.NoError(t, err)
	assert.Equal(t, invoiceID, payment.InvoiceID)
	assert.Equal(t, models.InvoiceStatusUnpaid, invoice.Status)
	assert.InDelta(t, 60, invoice.PaidAmount, 0.001)

	// Переплата отклоняется условным обновлением.
	_, _, err = storage.CreatePayment(ctx, models.DummyPayment{
		InvoiceID:   invoiceID,
		PaymentDate: paymentDate,
		Amount:      50,
	})
	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RulePaymentOverpays, rv.Rule)

	// Второй платёж закрывает счёт ровно в сумму.
	_, invoice, err = storage.CreatePayment(ctx, models.DummyPayment{
		InvoiceID:   invoiceID,
		PaymentDate: paymentDate,
		Amount:      40,
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.InDelta(t, 100, invoice.PaidAmount, 0.001)

	// Оплаченный счёт закрыт для платежей.
	_, _, err = storage.CreatePayment(ctx, models.DummyPayment{
		InvoiceID:   invoiceID,
		PaymentDate: paymentDate,
		Amount:      1,
	})
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleInvoiceAlreadyPaid, rv.Rule)

	// Платёж по несуществующему счёту.
	_, _, err = storage.CreatePayment(ctx, models.DummyPayment{
		InvoiceID:   invoiceID + 100,
		PaymentDate: paymentDate,
		Amount:      1,
	})
	var rnf *errs.ReferenceNotFound
	require.True(t, errors.As(err, &rnf))
	assert.Equal(t, errs.EntityInvoice, rnf.Entity)

	payments, err := storage.ListPaymentsForInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestStorage_UpdateInvoiceWithPayments(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	customerID := factory.CreateCustomer(t, "ion", "Ion Popescu", "Strada 1", "+40711111111", "1234567890123")
	subscriptionID := factory.CreateSubscription(t, "Fiber 1000", models.SubscriptionFixedInternet, 1000, 50, 0.5)
	contractID := factory.CreateContract(t, customerID, subscriptionID, contractStart, contractEnd)
	invoiceID := factory.CreateInvoice(t, contractID, invoiceIssue, invoiceDue, 100)

	// До первого платежа счёт обновляется.
	updated, err := storage.UpdateInvoice(ctx, invoiceID, models.DummyInvoiceUpdate{
		IssueDate: invoiceIssue,
		DueDate:   invoiceDue.AddDate(0, 0, 5),
		Amount:    120,
	})
	require.NoError(t, err)
	assert.InDelta(t, 120, updated.Amount, 0.001)

	_, _, err = storage.CreatePayment(ctx, models.DummyPayment{
		InvoiceID:   invoiceID,
		PaymentDate: paymentDate,
		Amount:      20,
	})
	require.NoError(t, err)

	// После платежа обновление отклоняется.
	_, err = storage.UpdateInvoice(ctx, invoiceID, models.DummyInvoiceUpdate{
		IssueDate: invoiceIssue,
		DueDate:   invoiceDue,
		Amount:    150,
	})
	var rv *errs.RuleViolation
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, errs.RuleInvoiceHasPayments, rv.Rule)
}

func TestStorage_ListUnpaidInvoicesForCustomer(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	customerID := factory.CreateCustomer(t, "ion", "Ion Popescu", "Strada 1", "+40711111111", "1234567890123")
	otherID := factory.CreateCustomer(t, "ana", "Ana Ionescu", "Strada 2", "+40722222222", "2345678901234")
	subscriptionID := factory.CreateSubscription(t, "Fiber 1000", models.SubscriptionFixedInternet, 1000, 50, 0.5)
	contractID := factory.CreateContract(t, customerID, subscriptionID, contractStart, contractEnd)
	otherContractID := factory.CreateContract(t, otherID, subscriptionID, contractStart, contractEnd)

	paidID := factory.CreateInvoice(t, contractID, invoiceIssue, invoiceDue, 50)
	factory.CreateInvoice(t, contractID, invoiceIssue, invoiceDue, 70)
	factory.CreateInvoice(t, otherContractID, invoiceIssue, invoiceDue, 90)

	_, _, err := storage.CreatePayment(ctx, models.DummyPayment{
		InvoiceID:   paidID,
		PaymentDate: paymentDate,
		Amount:      50,
	})
	require.NoError(t, err)

	unpaid, err := storage.ListUnpaidInvoicesForCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.InDelta(t, 70, unpaid[0].Amount, 0.001)
	assert.Equal(t, models.InvoiceStatusUnpaid, unpaid[0].Status)
}
