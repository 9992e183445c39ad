// Package subscription содержит бизнес-логику работы с тарифами,
// включая кеширование одиночных чтений.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// Repository определяет методы хранилища, необходимые сервису тарифов.
type Repository interface {
	CreateSubscription(ctx context.Context, req models.DummySubscription) (*models.Subscription, error)
	ReadSubscription(ctx context.Context, id int) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id int, req models.DummySubscription) (*models.Subscription, error)
	RemoveSubscription(ctx context.Context, id int) error
	ListSubscriptions(ctx context.Context) ([]*models.Subscription, error)
}

// Cache описывает методы кеширования.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с тарифами.
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
	return fmt.Sprintf("subscription:%d", id)
}

// Create создаёт новый тариф и возвращает сохранённую запись.
func (s *Service) Create(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	result, err := s.repo.CreateSubscription(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.Int("id", result.ID))
	return result, nil
}

// Read возвращает тариф по ID, используя кеш или хранилище.
func (s *Service) Read(ctx context.Context, id int) (*models.Subscription, error) {
	var result *models.Subscription
	key := cacheKey(id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет тариф и обновляет кеш.
func (s *Service) Update(ctx context.Context, id int, req models.DummySubscription) (*models.Subscription, error) {
	result, err := s.repo.UpdateSubscription(ctx, id, req)
	if err != nil {
		return nil, err
	}
	key := cacheKey(id)
	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// Remove удаляет тариф и инвалидирует кеш.
func (s *Service) Remove(ctx context.Context, id int) error {
	key := cacheKey(id)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
	}
	return s.repo.RemoveSubscription(ctx, id)
}

// List возвращает список всех тарифов.
func (s *Service) List(ctx context.Context) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx)
}
