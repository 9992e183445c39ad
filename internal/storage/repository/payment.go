package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// CreatePayment проводит платёж одной транзакцией. Условное обновление
// счёта атомарно проверяет, что счёт не оплачен и что сумма платежа не
// превышает остаток; при достижении полной суммы статус переключается
// на PAID. Это защищает от гонки двух одновременных платежей по одному
// счёту без чтения-перед-записью. Возвращает платёж и обновлённый счёт.
func (s *Storage) CreatePayment(ctx context.Context, req models.DummyPayment) (*models.Payment, *models.Invoice, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, errs.Store(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE invoices
			  SET paid_amount = paid_amount + $1,
			      status = CASE WHEN paid_amount + $1 >= amount THEN 'PAID' ELSE status END
			  WHERE id = $2 AND status = 'UNPAID' AND paid_amount + $1 <= amount
			  RETURNING ` + invoiceFields
	var invoice models.Invoice
	err = scanInvoice(tx.QueryRowContext(ctx, query, req.Amount, req.InvoiceID), &invoice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, s.classifyRejectedPayment(ctx, req)
		}
		return nil, nil, errs.Store(op, err)
	}

	insert := `INSERT INTO payments (invoice_id, payment_date, amount)
			   VALUES ($1, $2, $3)
			   RETURNING id, invoice_id, payment_date, amount`
	var payment models.Payment
	err = tx.QueryRowContext(ctx, insert, req.InvoiceID, req.PaymentDate, req.Amount).
		Scan(&payment.ID, &payment.InvoiceID, &payment.PaymentDate, &payment.Amount)
	if err != nil {
		return nil, nil, errs.Store(op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, errs.Store(op, err)
	}
	return &payment, &invoice, nil
}

// classifyRejectedPayment выясняет, почему условное обновление не затронуло
// ни одной строки: счёт отсутствует, уже оплачен или платёж превышает остаток.
func (s *Storage) classifyRejectedPayment(ctx context.Context, req models.DummyPayment) error {
	const op = "storage.classifyRejectedPayment"

	var status string
	err := s.DB.QueryRowContext(ctx,
		`SELECT status FROM invoices WHERE id = $1`, req.InvoiceID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &errs.ReferenceNotFound{Entity: errs.EntityInvoice, ID: req.InvoiceID}
		}
		return errs.Store(op, err)
	}
	if status == models.InvoiceStatusPaid {
		return &errs.RuleViolation{
			Rule:   errs.RuleInvoiceAlreadyPaid,
			Detail: fmt.Sprintf("invoice %d is already paid", req.InvoiceID),
		}
	}
	return &errs.RuleViolation{
		Rule:   errs.RulePaymentOverpays,
		Detail: fmt.Sprintf("payment exceeds remaining balance of invoice %d", req.InvoiceID),
	}
}

// ReadPayment возвращает платёж по ID.
func (s *Storage) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.ReadPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, invoice_id, payment_date, amount FROM payments WHERE id = $1`
	var result models.Payment
	err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.InvoiceID, &result.PaymentDate, &result.Amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntityPayment, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// ListPayments возвращает список всех платежей.
func (s *Storage) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	return s.listPayments(ctx, op, `SELECT id, invoice_id, payment_date, amount FROM payments ORDER BY id`)
}

// ListPaymentsForInvoice возвращает платежи, зачтённые в счёт.
func (s *Storage) ListPaymentsForInvoice(ctx context.Context, invoiceID int) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsForInvoice"
	return s.listPayments(ctx, op,
		`SELECT id, invoice_id, payment_date, amount FROM payments WHERE invoice_id = $1 ORDER BY id`, invoiceID)
}

func (s *Storage) listPayments(ctx context.Context, op, query string, args ...any) ([]*models.Payment, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Store(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var item models.Payment
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.PaymentDate, &item.Amount); err != nil {
			return nil, errs.Store(op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(op, err)
	}
	return result, nil
}
