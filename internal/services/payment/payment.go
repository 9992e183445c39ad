// Package payment содержит бизнес-логику приёма платежей.
// Дата платежа проверяется в приложении; защита от переплаты и оплаты
// закрытого счёта выполняется атомарно в хранилище, поэтому двум
// одновременным платежам по одному счёту не удастся превысить его сумму.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/isp-billing/internal/lib/rules"
	"github.com/magabrotheeeer/isp-billing/internal/metrics"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// Repository определяет методы хранилища, необходимые сервису платежей.
type Repository interface {
	CreatePayment(ctx context.Context, req models.DummyPayment) (*models.Payment, *models.Invoice, error)
	ReadPayment(ctx context.Context, id int) (*models.Payment, error)
	ListPayments(ctx context.Context) ([]*models.Payment, error)
	ReadInvoice(ctx context.Context, id int) (*models.Invoice, error)
}

// EventPublisher публикует события биллинга.
type EventPublisher interface {
	InvoicePaid(event rabbitmq.InvoicePaidEvent) error
}

// Service реализует бизнес-логику приёма платежей.
type Service struct {
	repo      Repository
	publisher EventPublisher
	log       *slog.Logger
}

// New создает новый Service.
func New(repo Repository, publisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Create проверяет ссылку на счёт и дату платежа, затем проводит платёж.
// Переплата и повторная оплата отклоняются условным обновлением в
// хранилище и возвращаются тем же типом ошибки, что и проверки в
// приложении. Если платёж закрыл счёт, публикуется событие invoice.paid.
func (s *Service) Create(ctx context.Context, req models.DummyPayment) (*models.Payment, error) {
	invoice, err := s.repo.ReadInvoice(ctx, req.InvoiceID)
	if err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityPayment, metrics.OutcomeNotFound).Inc()
		var nf *errs.NotFound
		if errors.As(err, &nf) {
			return nil, &errs.ReferenceNotFound{Entity: errs.EntityInvoice, ID: req.InvoiceID}
		}
		return nil, err
	}

	if err := rules.CheckPaymentDate(req.PaymentDate, invoice, time.Now().UTC()); err != nil {
		metrics.CreateRequests.WithLabelValues(errs.EntityPayment, metrics.OutcomeRejected).Inc()
		return nil, err
	}

	result, updated, err := s.repo.CreatePayment(ctx, req)
	if err != nil {
		if errs.IsRuleViolation(err) || errs.IsNotFound(err) {
			metrics.CreateRequests.WithLabelValues(errs.EntityPayment, metrics.OutcomeRejected).Inc()
		} else {
			metrics.CreateRequests.WithLabelValues(errs.EntityPayment, metrics.OutcomeError).Inc()
		}
		return nil, err
	}
	metrics.CreateRequests.WithLabelValues(errs.EntityPayment, metrics.OutcomeOK).Inc()
	s.log.Info("created new payment",
		slog.Int("id", result.ID),
		slog.Int("invoice_id", result.InvoiceID),
		slog.String("invoice_status", updated.Status))

	if updated.Status == models.InvoiceStatusPaid {
		event := rabbitmq.InvoicePaidEvent{
			InvoiceID:  updated.ID,
			ContractID: updated.ContractID,
			Amount:     updated.Amount,
		}
		if err := s.publisher.InvoicePaid(event); err != nil {
			s.log.Warn("failed to publish invoice.paid event",
				slog.Int("invoice_id", updated.ID), slog.Any("err", err))
		}
	}

	return result, nil
}

// Read возвращает платёж по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.Payment, error) {
	return s.repo.ReadPayment(ctx, id)
}

// List возвращает список всех платежей.
func (s *Service) List(ctx context.Context) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx)
}
