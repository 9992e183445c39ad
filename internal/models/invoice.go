package models

import "time"

// Статусы счёта. Новый счёт всегда создаётся неоплаченным.
const (
	InvoiceStatusPaid   = "PAID"
	InvoiceStatusUnpaid = "UNPAID"
)

// Invoice представляет счёт, выставленный по контракту.
// PaidAmount поддерживается хранилищем как нарастающий итог платежей
// и используется атомарной проверкой переплаты.
type Invoice struct {
	ID         int       `json:"id"`          // Уникальный идентификатор
	ContractID int       `json:"contract_id"` // Ссылка на контракт
	IssueDate  time.Time `json:"issue_date"`  // Дата выставления
	DueDate    time.Time `json:"due_date"`    // Срок оплаты
	Amount     float64   `json:"amount"`      // Сумма счёта
	PaidAmount float64   `json:"paid_amount"` // Сумма уже принятых платежей
	Status     string    `json:"status"`      // PAID или UNPAID
}

// DummyInvoice используется для приёма данных нового счёта из JSON-запроса.
type DummyInvoice struct {
	ContractID int       `json:"contract_id" validate:"required,gt=0"`
	IssueDate  time.Time `json:"issue_date" validate:"required"`
	DueDate    time.Time `json:"due_date" validate:"required"`
	Amount     float64   `json:"amount" validate:"gte=0"`
}

// DummyInvoiceUpdate используется для обновления дат и суммы счёта.
// Обновление допускается только пока по счёту не принят ни один платёж.
type DummyInvoiceUpdate struct {
	IssueDate time.Time `json:"issue_date" validate:"required"`
	DueDate   time.Time `json:"due_date" validate:"required"`
	Amount    float64   `json:"amount" validate:"gte=0"`
}
