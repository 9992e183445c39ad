// Package invoice содержит бизнес-логику работы со счетами.
// Период счёта обязан вкладываться в период действия контракта;
// обновление допускается только до первого платежа.
package invoice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/lib/rules"
	"github.com/magabrotheeeer/isp-billing/internal/metrics"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// Repository определяет методы хранилища, необходимые сервису счетов.
type Repository interface {
	CreateInvoice(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error)
	ReadInvoice(ctx context.Context, id int) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id int, req models.DummyInvoiceUpdate) (*models.Invoice, error)
	RemoveInvoice(ctx context.Context, id int) error
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	ReadContract(ctx context.Context, id int) (*models.Contract, error)
	ListPaymentsForInvoice(ctx context.Context, invoiceID int) ([]*models.Payment, error)
}

// Service реализует бизнес-логику работы со счетами.
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

// Create проверяет ссылку на контракт и вложенность периода счёта
// в период контракта, затем сохраняет счёт со статусом UNPAID.
func (s *Service) Create(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error) {
	contract, err := s.repo.ReadContract(ctx, req.ContractID)
	if err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityInvoice, metrics.OutcomeNotFound).Inc()
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return nil, &errs.ReferenceNotFound{Entity: errs.EntityContract, ID: req.ContractID}
		}
		return nil, err
	}

	if err := rules.CheckInvoiceWindow(req, contract); err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityInvoice, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	result, err := s.repo.CreateInvoice(ctx, req)
	if err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityInvoice, metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.CreateRequests.WithLabelValues(errs.EntityInvoice, metrics.OutcomeOK).Inc()
	s.log.Info("created new invoice", slog.Int("id", result.ID), slog.Int("contract_id", result.ContractID))
	return result, nil
}

// Read возвращает счёт по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.Invoice, error) {
	return s.repo.ReadInvoice(ctx, id)
}

// Update обновляет даты и сумму счёта. Новый период проверяется против
// контракта так же, как при создании; счёт с платежами не обновляется.
func (s *Service) Update(ctx context.Context, id int, req models.DummyInvoiceUpdate) (*models.Invoice, error) {
	current, err := s.repo.ReadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	contract, err := s.repo.ReadContract(ctx, current.ContractID)
	if err != nil {
		return nil, err
	}
	if err := rules.CheckInvoiceUpdateWindow(req, contract); err != nil {
		return nil, err
	}
	return s.repo.UpdateInvoice(ctx, id, req)
}

// Remove удаляет счёт по ID.
func (s *Service) Remove(ctx context.Context, id int) error {
	return s.repo.RemoveInvoice(ctx, id)
}

// List возвращает список всех счетов.
func (s *Service) List(ctx context.Context) ([]*models.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

// ListPayments возвращает платежи, зачтённые в счёт.
func (s *Service) ListPayments(ctx context.Context, id int) ([]*models.Payment, error) {
	if _, err := s.repo.ReadInvoice(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsForInvoice(ctx, id)
}
