// Package customer содержит бизнес-логику работы с абонентами,
// включая кеширование одиночных чтений.
package customer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// Repository определяет методы хранилища, необходимые сервису абонентов.
type Repository interface {
	CreateCustomer(ctx context.Context, req models.DummyCustomer) (*models.Customer, error)
	ReadCustomer(ctx context.Context, id int) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int, req models.DummyCustomer) (*models.Customer, error)
	RemoveCustomer(ctx context.Context, id int) error
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	ListContractsForCustomer(ctx context.Context, customerID int) ([]*models.Contract, error)
	ListUnpaidInvoicesForCustomer(ctx context.Context, customerID int) ([]*models.Invoice, error)
}

// Cache описывает методы кеширования.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с абонентами.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id int) string {
	return fmt.Sprintf("customer:%d", id)
}

// Create создаёт нового абонента и возвращает сохранённую запись.
func (s *Service) Create(ctx context.Context, req models.DummyCustomer) (*models.Customer, error) {
	result, err := s.repo.CreateCustomer(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new customer", slog.Int("id", result.ID))
	return result, nil
}

// Read возвращает абонента по ID, используя кеш или хранилище.
func (s *Service) Read(ctx context.Context, id int) (*models.Customer, error) {
	var result *models.Customer
	key := cacheKey(id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache customer", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет данные абонента и обновляет кеш.
func (s *Service) Update(ctx context.Context, id int, req models.DummyCustomer) (*models.Customer, error) {
	result, err := s.repo.UpdateCustomer(ctx, id, req)
	if err != nil {
		return nil, err
	}
	key := cacheKey(id)
	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache customer", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// Remove удаляет абонента и инвалидирует кеш.
func (s *Service) Remove(ctx context.Context, id int) error {
	key := cacheKey(id)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
	}
	return s.repo.RemoveCustomer(ctx, id)
}

// List возвращает список всех абонентов.
func (s *Service) List(ctx context.Context) ([]*models.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// ListContracts возвращает контракты абонента.
// Существование абонента проверяется до чтения зависимых записей.
func (s *Service) ListContracts(ctx context.Context, id int) ([]*models.Contract, error) {
	if _, err := s.repo.ReadCustomer(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListContractsForCustomer(ctx, id)
}

// ListUnpaidInvoices возвращает неоплаченные счета абонента по всем контрактам.
func (s *Service) ListUnpaidInvoices(ctx context.Context, id int) ([]*models.Invoice, error) {
	if _, err := s.repo.ReadCustomer(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListUnpaidInvoicesForCustomer(ctx, id)
}
