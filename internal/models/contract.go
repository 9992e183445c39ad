package models

import "time"

// Contract связывает абонента с тарифом на ограниченный период.
type Contract struct {
	ID             int       `json:"id"`              // Уникальный идентификатор
	CustomerID     int       `json:"customer_id"`     // Ссылка на абонента
	SubscriptionID int       `json:"subscription_id"` // Ссылка на тариф
	StartDate      time.Time `json:"start_date"`      // Начало действия контракта
	EndDate        time.Time `json:"end_date"`        // Окончание действия контракта
}

// DummyContract используется для приёма данных нового контракта из JSON-запроса.
type DummyContract struct {
	CustomerID     int       `json:"customer_id" validate:"required,gt=0"`
	SubscriptionID int       `json:"subscription_id" validate:"required,gt=0"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
}

// DummyContractUpdate используется для обновления дат контракта.
// Ссылки на абонента и тариф после создания не меняются.
type DummyContractUpdate struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}
