package models

import "time"

// Payment представляет платёж, зачтённый в счёт.
// Платежи не редактируются и не удаляются.
type Payment struct {
	ID          int       `json:"id"`           // Уникальный идентификатор
	InvoiceID   int       `json:"invoice_id"`   // Ссылка на счёт
	PaymentDate time.Time `json:"payment_date"` // Дата платежа
	Amount      float64   `json:"amount"`       // Сумма платежа
}

// DummyPayment используется для приёма данных нового платежа из JSON-запроса.
type DummyPayment struct {
	InvoiceID   int       `json:"invoice_id" validate:"required,gt=0"`
	PaymentDate time.Time `json:"payment_date" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
}
