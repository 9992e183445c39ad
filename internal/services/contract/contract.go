// Package contract содержит бизнес-логику работы с контрактами.
// Создание контракта последовательно проверяет ссылки на абонента и
// тариф, затем бизнес-правила дат и только после этого пишет в хранилище.
package contract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/lib/rules"
	"github.com/magabrotheeeer/isp-billing/internal/metrics"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// Repository определяет методы хранилища, необходимые сервису контрактов.
type Repository interface {
	CreateContract(ctx context.Context, req models.DummyContract) (*models.Contract, error)
	ReadContract(ctx context.Context, id int) (*models.Contract, error)
	UpdateContractDates(ctx context.Context, id int, req models.DummyContractUpdate) (*models.Contract, error)
	RemoveContract(ctx context.Context, id int) error
	ListContracts(ctx context.Context) ([]*models.Contract, error)
	ReadCustomer(ctx context.Context, id int) (*models.Customer, error)
	ReadSubscription(ctx context.Context, id int) (*models.Subscription, error)
	ListInvoicesForContract(ctx context.Context, contractID int) ([]*models.Invoice, error)
}

// Service реализует бизнес-логику работы с контрактами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create проверяет ссылки и даты нового контракта и сохраняет его.
// Порядок проверки ссылок фиксирован: сначала абонент, затем тариф,
// чтобы сообщение об ошибке было детерминированным.
func (s *Service) Create(ctx context.Context, req models.DummyContract) (*models.Contract, error) {
	if _, err := s.repo.ReadCustomer(ctx, req.CustomerID); err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityContract, metrics.OutcomeNotFound).Inc()
		return nil, asReference(err, errs.EntityCustomer, req.CustomerID)
	}
	if _, err := s.repo.ReadSubscription(ctx, req.SubscriptionID); err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityContract, metrics.OutcomeNotFound).Inc()
		return nil, asReference(err, errs.EntitySubscription, req.SubscriptionID)
	}

	if err := rules.CheckContractDates(req.StartDate, req.EndDate, time.Now().UTC()); err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityContract, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	result, err := s.repo.CreateContract(ctx, req)
	if err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityContract, metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.CreateRequests.WithLabelValues(errs.EntityContract, metrics.OutcomeOK).Inc()
	s.log.Info("created new contract", slog.Int("id", result.ID))
	return result, nil
}

// Read возвращает контракт по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.Contract, error) {
	return s.repo.ReadContract(ctx, id)
}

// Update проверяет новые даты контракта и сохраняет их.
func (s *Service) Update(ctx context.Context, id int, req models.DummyContractUpdate) (*models.Contract, error) {
	if err := rules.CheckContractDates(req.StartDate, req.EndDate, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.UpdateContractDates(ctx, id, req)
}

// Remove удаляет контракт по ID.
func (s *Service) Remove(ctx context.Context, id int) error {
	return s.repo.RemoveContract(ctx, id)
}

// List возвращает список всех контрактов.
func (s *Service) List(ctx context.Context) ([]*models.Contract, error) {
	return s.repo.ListContracts(ctx)
}

// ListInvoices возвращает счета, выставленные по контракту.
func (s *Service) ListInvoices(ctx context.Context, id int) ([]*models.Invoice, error) {
	if _, err := s.repo.ReadContract(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListInvoicesForContract(ctx, id)
}

// asReference переводит NotFound по родительской сущности в ReferenceNotFound:
// для запроса на создание отсутствующий родитель — это висячая ссылка.
func asReference(err error, entity string, id int) error {
	var nf *errs.NotFound
	if errors.As(err, &nf) {
		return &errs.ReferenceNotFound{Entity: entity, ID: id}
	}
	return err
}
