package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// CreateSubscription вставляет новый тариф и возвращает сохранённую строку.
func (s *Storage) CreateSubscription(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (description, type, traffic, price, extra_traffic_price)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, description, type, traffic, price, extra_traffic_price`
	var result models.Subscription
	err := s.DB.QueryRowContext(ctx, query,
		req.Description, req.Type, req.Traffic, req.Price, req.ExtraTrafficPrice).
		Scan(&result.ID, &result.Description, &result.Type, &result.Traffic, &result.Price, &result.ExtraTrafficPrice)
	if err != nil {
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// ReadSubscription возвращает тариф по ID.
func (s *Storage) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, description, type, traffic, price, extra_traffic_price
			  FROM subscriptions WHERE id = $1`
	var result models.Subscription
	err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.Description, &result.Type, &result.Traffic, &result.Price, &result.ExtraTrafficPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntitySubscription, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// UpdateSubscription обновляет тариф и возвращает сохранённую строку.
func (s *Storage) UpdateSubscription(ctx context.Context, id int, req models.DummySubscription) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET description = $1, type = $2, traffic = $3, price = $4, extra_traffic_price = $5
			  WHERE id = $6
			  RETURNING id, description, type, traffic, price, extra_traffic_price`
	var result models.Subscription
	err := s.DB.QueryRowContext(ctx, query,
		req.Description, req.Type, req.Traffic, req.Price, req.ExtraTrafficPrice, id).
		Scan(&result.ID, &result.Description, &result.Type, &result.Traffic, &result.Price, &result.ExtraTrafficPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &errs.NotFound{Entity: errs.EntitySubscription, ID: id}
		}
		return nil, errs.Store(op, err)
	}
	return &result, nil
}

// RemoveSubscription удаляет тариф по ID. Тариф, на который ссылаются контракты, не удаляется.
func (s *Storage) RemoveSubscription(ctx context.Context, id int) error {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return restrictDelete(op, errs.EntitySubscription, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errs.Store(op, err)
	}
	if rowsAffected == 0 {
		return &errs.NotFound{Entity: errs.EntitySubscription, ID: id}
	}
	return nil
}

// ListSubscriptions возвращает список всех тарифов.
func (s *Storage) ListSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, description, type, traffic, price, extra_traffic_price
			  FROM subscriptions ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errs.Store(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.Description, &item.Type, &item.Traffic, &item.Price, &item.ExtraTrafficPrice); err != nil {
			return nil, errs.Store(op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store(op, err)
	}
	return result, nil
}
