package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// CreateContract вставляет новый контракт и возвращает сохранённую строку.
func (s *Storage) CreateContract(ctx context.Context, req models.DummyContract) (*models.Contract, error) {
	const op = "storage.CreateContract"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO contracts (customer_id, subscription_id, start_date, end_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, customer_id, subscription_id, start_date, end_date`
	var result models.Contract
	err := s.DB.QueryRowContext(ctx, query,
		req.CustomerID, req.SubscriptionID, req.StartDate, req.EndDate).
		Scan(&result.ID, &result.CustomerID, &result.SubscriptionID, &result.StartDate, &result.EndDate)
	if err != nil {
		// Родитель мог исчезнуть между проверкой ссылок и вставкой.
		if isForeignKeyViolation(err) {
			return nil, &errs.ReferenceNotFound{Entity: errs.EntityCustomer, ID: req.CustomerID}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// ReadContract возвращает контракт по ID.
func (s *Storage) ReadContract(ctx context.Context, id int) (*models.Contract, error) {
	const op = "storage.ReadContract"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, customer_id, subscription_id, start_date, end_date
			  FROM contracts WHERE id = $1`
	var result models.Contract
	err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.CustomerID, &result.SubscriptionID, &result.StartDate, &result.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntityContract, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// UpdateContractDates обновляет даты контракта и возвращает сохранённую строку.
// Ссылки на абонента и тариф не меняются.
func (s *Storage) UpdateContractDates(ctx context.Context, id int, req models.DummyContractUpdate) (*models.Contract, error) {
	const op = "storage.UpdateContractDates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE contracts
			  SET start_date = $1, end_date = $2
			  WHERE id = $3
			  RETURNING id, customer_id, subscription_id, start_date, end_date`
	var result models.Contract
	err := s.DB.QueryRowContext(ctx, query, req.StartDate, req.EndDate, id).
		Scan(&result.ID, &result.CustomerID, &result.SubscriptionID, &result.StartDate, &result.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntityContract, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// RemoveContract удаляет контракт по ID. Контракт с выставленными счетами не удаляется.
func (s *Storage) RemoveContract(ctx context.Context, id int) error {
	const op = "storage.RemoveContract"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return restrictDelete(op, errs.EntityContract, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errs.Store(op, err)
	}
	if rowsAffected == 0 {
		return &errs.NotFound{Entity: errs.EntityContract, ID: id}
	}
	return nil
}

// ListContracts возвращает список всех контрактов.
func (s *Storage) ListContracts(ctx context.Context) ([]*models.Contract, error) {
	const op = "storage.ListContracts"
	return s.listContracts(ctx, op, `SELECT id, customer_id, subscription_id, start_date, end_date
		FROM contracts ORDER BY id`)
}

// ListContractsForCustomer возвращает контракты абонента.
func (s *Storage) ListContractsForCustomer(ctx context.Context, customerID int) ([]*models.Contract, error) {
	const op = "storage.ListContractsForCustomer"
	return s.listContracts(ctx, op, `SELECT id, customer_id, subscription_id, start_date, end_date
		FROM contracts WHERE customer_id = $1 ORDER BY id`, customerID)
}

func (s *Storage) listContracts(ctx context.Context, op, query string, args ...any) ([]*models.Contract, error) {
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

	var result []*models.Contract
	for rows.Next() {
		var item models.Contract
		if err := rows.Scan(&item.ID, &item.CustomerID, &item.SubscriptionID, &item.StartDate, &item.EndDate); err != nil {
			return nil, errs.Store(op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(op, err)
	}
	return result, nil
}
