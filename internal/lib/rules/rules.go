// Package rules содержит чистые функции проверки бизнес-правил для
// контрактов, счетов и платежей. Функции работают с уже загруженными
// родительскими сущностями и кандидатом на создание, ничего не читают
// из хранилища и возвращают типизированные ошибки из пакета errs.
package rules

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
	"github.com/magabrotheeeer/isp-billing/internal/models"
)

// CheckContractDates проверяет даты контракта при создании и обновлении:
// порядок start <= end и запрет дат в прошлом относительно now.
func CheckContractDates(start, end, now time.Time) error {
	if start.Before(now) {
		return &errs.RuleViolation{
			Rule:   errs.RuleContractDatesInPast,
			Detail: "start date should be later than or equal to today",
		}
	}
	if end.Before(now) {
		return &errs.RuleViolation{
			Rule:   errs.RuleContractDatesInPast,
			Detail: "end date should be later than or equal to today",
		}
	}
	if start.After(end) {
		return &errs.RuleViolation{
			Rule:   errs.RuleContractDateOrder,
			Detail: "start date should be earlier than end date",
		}
	}
	return nil
}

// CheckInvoiceWindow проверяет счёт против контракта: порядок дат счёта
// и вложенность периода счёта в период действия контракта.
func CheckInvoiceWindow(req models.DummyInvoice, contract *models.Contract) error {
	if req.IssueDate.After(req.DueDate) {
		return &errs.RuleViolation{
			Rule:   errs.RuleInvoiceDateOrder,
			Detail: "issue date should be earlier than due date",
		}
	}
	if req.IssueDate.Before(contract.StartDate) {
		return &errs.RuleViolation{
			Rule:   errs.RuleInvoiceOutsideWindow,
			Detail: fmt.Sprintf("issue date precedes contract %d start date", contract.ID),
		}
	}
	if req.DueDate.After(contract.EndDate) {
		return &errs.RuleViolation{
			Rule:   errs.RuleInvoiceOutsideWindow,
			Detail: fmt.Sprintf("due date exceeds contract %d end date", contract.ID),
		}
	}
	return nil
}

// CheckInvoiceUpdateWindow проверяет обновление счёта по тем же правилам,
// что и создание.
func CheckInvoiceUpdateWindow(req models.DummyInvoiceUpdate, contract *models.Contract) error {
	return CheckInvoiceWindow(models.DummyInvoice{
		ContractID: contract.ID,
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		Amount:     req.Amount,
	}, contract)
}

// CheckPaymentDate проверяет дату платежа: не раньше даты выставления счёта
// и не в прошлом относительно now. Переплата и оплата уже закрытого счёта
// проверяются атомарно в хранилище.
func CheckPaymentDate(paymentDate time.Time, invoice *models.Invoice, now time.Time) error {
	if paymentDate.Before(invoice.IssueDate) {
		return &errs.RuleViolation{
			Rule:   errs.RulePaymentBeforeIssue,
			Detail: fmt.Sprintf("payment date precedes invoice %d issue date", invoice.ID),
		}
	}
	if paymentDate.Before(now) {
		return &errs.RuleViolation{
			Rule:   errs.RulePaymentDateInPast,
			Detail: "payment date should be later than or equal to today",
		}
	}
	return nil
}
