package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

const invoiceFields = `id, contract_id, issue_date, due_date, amount, paid_amount, status`

func scanInvoice(row interface{ Scan(...any) error }, item *models.Invoice) error {
	return row.Scan(&item.ID, &item.ContractID, &item.IssueDate, &item.DueDate,
		&item.Amount, &item.PaidAmount, &item.Status)
}

// CreateInvoice вставляет новый счёт со статусом UNPAID и возвращает
// сохранённую строку.
func (s *Storage) CreateInvoice(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error) {
	const op = "storage.CreateInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO invoices (contract_id, issue_date, due_date, amount)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + invoiceFields
	var result models.Invoice
	err := scanInvoice(s.DB.QueryRowContext(ctx, query,
		req.ContractID, req.IssueDate, req.DueDate, req.Amount), &result)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &errs.ReferenceNotFound{Entity: errs.EntityContract, ID: req.ContractID}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// ReadInvoice возвращает счёт по ID.
func (s *Storage) ReadInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	const op = "storage.ReadInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + invoiceFields + ` FROM invoices WHERE id = $1`
	var result models.Invoice
	err := scanInvoice(s.DB.QueryRowContext(ctx, query, id), &result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntityInvoice, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// UpdateInvoice обновляет даты и сумму счёта, пока по нему не принят
// ни один платёж, и возвращает сохранённую строку.
func (s *Storage) UpdateInvoice(ctx context.Context, id int, req models.DummyInvoiceUpdate) (*models.Invoice, error) {
	const op = "storage.UpdateInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoices
			  SET issue_date = $1, due_date = $2, amount = $3
			  WHERE id = $4 AND paid_amount = 0
			  RETURNING ` + invoiceFields
	var result models.Invoice
	err := scanInvoice(s.DB.QueryRowContext(ctx, query,
		req.IssueDate, req.DueDate, req.Amount, id), &result)
	if err == nil {
		return &result, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Store(op, err)
	}

	// Строка не подошла под условие: либо счёта нет, либо по нему уже платили.
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, errs.Store(op, err)
	}
	if !exists {
		return nil, &errs.NotFound{Entity: errs.EntityInvoice, ID: id}
	}
	return nil, &errs.RuleViolation{
		Rule:   errs.RuleInvoiceHasPayments,
		Detail: fmt.Sprintf("invoice %d already has payments applied", id),
	}
}

// RemoveInvoice удаляет счёт по ID. Счёт с принятыми платежами не удаляется.
func (s *Storage) RemoveInvoice(ctx context.Context, id int) error {
	const op = "storage.RemoveInvoice"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return restrictDelete(op, errs.EntityInvoice, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errs.Store(op, err)
	}
	if rowsAffected == 0 {
		return &errs.NotFound{Entity: errs.EntityInvoice, ID: id}
	}
	return nil
}

// ListInvoices возвращает список всех счетов.
func (s *Storage) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	return s.listInvoices(ctx, op, `SELECT `+invoiceFields+` FROM invoices ORDER BY id`)
}

// ListInvoicesForContract возвращает счета, выставленные по контракту.
func (s *Storage) ListInvoicesForContract(ctx context.Context, contractID int) ([]*models.Invoice, error) {
	const op = "storage.ListInvoicesForContract"
	return s.listInvoices(ctx, op,
		`SELECT `+invoiceFields+` FROM invoices WHERE contract_id = $1 ORDER BY id`, contractID)
}

// ListUnpaidInvoicesForCustomer возвращает неоплаченные счета абонента
// по всем его контрактам.
func (s *Storage) ListUnpaidInvoicesForCustomer(ctx context.Context, customerID int) ([]*models.Invoice, error) {
	const op = "storage.ListUnpaidInvoicesForCustomer"
	query := `SELECT i.id, i.contract_id, i.issue_date, i.due_date, i.amount, i.paid_amount, i.status
			  FROM invoices i
			  JOIN contracts c ON i.contract_id = c.id
			  WHERE c.customer_id = $1 AND i.status = 'UNPAID'
			  ORDER BY i.id`
	return s.listInvoices(ctx, op, query, customerID)
}

func (s *Storage) listInvoices(ctx context.Context, op, query string, args ...any) ([]*models.Invoice, error) {
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

	var result []*models.Invoice
	for rows.Next() {
		var item models.Invoice
		if err := scanInvoice(rows, &item); err != nil {
			return nil, errs.Store(op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(op, err)
	}
	return result, nil
}
