package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// CreateCustomer вставляет нового абонента и возвращает сохранённую строку.
func (s *Storage) CreateCustomer(ctx context.Context, req models.DummyCustomer) (*models.Customer, error) {
	const op = "storage.CreateCustomer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO customers (name, fullname, address, phone, cnp)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, name, fullname, address, phone, cnp`
	var result models.Customer
	err := s.DB.QueryRowContext(ctx, query,
		req.Name, req.Fullname, req.Address, req.Phone, req.CNP).
		Scan(&result.ID, &result.Name, &result.Fullname, &result.Address, &result.Phone, &result.CNP)
	if err != nil {
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// ReadCustomer возвращает абонента по ID.
func (s *Storage) ReadCustomer(ctx context.Context, id int) (*models.Customer, error) {
	const op = "storage.ReadCustomer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, fullname, address, phone, cnp
			  FROM customers WHERE id = $1`
	var result models.Customer
	err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.Name, &result.Fullname, &result.Address, &result.Phone, &result.CNP)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntityCustomer, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// UpdateCustomer обновляет данные абонента и возвращает сохранённую строку.
func (s *Storage) UpdateCustomer(ctx context.Context, id int, req models.DummyCustomer) (*models.Customer, error) {
	const op = "storage.UpdateCustomer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE customers
			  SET name = $1, fullname = $2, address = $3, phone = $4, cnp = $5
			  WHERE id = $6
			  RETURNING id, name, fullname, address, phone, cnp`
	var result models.Customer
	err := s.DB.QueryRowContext(ctx, query,
		req.Name, req.Fullname, req.Address, req.Phone, req.CNP, id).
		Scan(&result.ID, &result.Name, &result.Fullname, &result.Address, &result.Phone, &result.CNP)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntityCustomer, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// RemoveCustomer удаляет абонента по ID. Абонент с контрактами не удаляется.
func (s *Storage) RemoveCustomer(ctx context.Context, id int) error {
	const op = "storage.RemoveCustomer"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return restrictDelete(op, errs.EntityCustomer, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errs.Store(op, err)
	}
	if rowsAffected == 0 {
		return &errs.NotFound{Entity: errs.EntityCustomer, ID: id}
	}
	return nil
}

// ListCustomers возвращает список всех абонентов.
func (s *Storage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	const op = "storage.ListCustomers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, fullname, address, phone, cnp
			  FROM customers ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.Store(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Customer
	for rows.Next() {
		var item models.Customer
		if err := rows.Scan(&item.ID, &item.Name, &item.Fullname, &item.Address, &item.Phone, &item.CNP); err != nil {
			return nil, errs.Store(op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(op, err)
	}
	return result, nil
}
