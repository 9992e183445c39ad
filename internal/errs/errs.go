// Package errs определяет классификацию ошибок доменного слоя.
// Сервисы возвращают типизированные ошибки, а HTTP-обработчики
// переводят их в статусы ответов, не различая, на каком этапе
// (проверка в приложении или ограничение в базе) нарушение поймано.
package errs

import (
	"errors"
	"fmt"
)

// Имена сущностей для ошибок NotFound и ReferenceNotFound.
const (
	EntityCustomer     = "customer"
	EntitySubscription = "subscription"
	EntityContract     = "contract"
	EntityInvoice      = "invoice"
	EntityPayment      = "payment"
)

// Имена бизнес-правил для RuleViolation.
const (
	RuleContractDateOrder    = "contract_date_order"
	RuleContractDatesInPast  = "contract_dates_in_past"
	RuleInvoiceDateOrder     = "invoice_date_order"
	RuleInvoiceOutsideWindow = "invoice_outside_contract_window"
	RulePaymentBeforeIssue   = "payment_before_invoice_issue"
	RulePaymentDateInPast    = "payment_date_in_past"
	RulePaymentOverpays      = "payment_overpays_invoice"
	RuleInvoiceAlreadyPaid   = "invoice_already_paid"
	RuleInvoiceHasPayments   = "invoice_has_payments"
	RuleHasDependents        = "entity_has_dependents"
)

// NotFound возвращается, когда запрошенная сущность отсутствует в хранилище.
type NotFound struct {
	Entity string
	ID     int
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ReferenceNotFound возвращается, когда внешний ключ в запросе на создание
// указывает на несуществующую родительскую сущность.
type ReferenceNotFound struct {
	Entity string
	ID     int
}

func (e *ReferenceNotFound) Error() string {
	return fmt.Sprintf("referenced %s %d not found", e.Entity, e.ID)
}

// RuleViolation возвращается при нарушении бизнес-правила.
type RuleViolation struct {
	Rule   string
	Detail string
}

func (e *RuleViolation) Error() string {
	return fmt.Sprintf("rule %s violated: %s", e.Rule, e.Detail)
}

// ErrStore помечает ошибку хранилища, не относящуюся к входным данным клиента.
// Оборачивается вместе с исходной ошибкой драйвера: errors.Is(err, ErrStore).
var ErrStore = errors.New("storage failure")

// Store оборачивает ошибку драйвера базы в ErrStore с контекстом операции.
func Store(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// IsNotFound сообщает, является ли ошибка NotFound или ReferenceNotFound.
func IsNotFound(err error) bool {
	var nf *NotFound
	var rnf *ReferenceNotFound
	return errors.As(err, &nf) || errors.As(err, &rnf)
}

// IsRuleViolation сообщает, является ли ошибка нарушением бизнес-правила.
func IsRuleViolation(err error) bool {
	var rv *RuleViolation
	return errors.As(err, &rv)
}
