// Package models содержит доменные структуры абонентского учёта:
// клиентов, тарифы, контракты, счета и платежи, а также DTO для
// приёма данных из JSON-запросов.
package models

// Customer представляет абонента провайдера.
type Customer struct {
	ID       int    `json:"id"`       // Уникальный идентификатор, выдаётся базой
	Name     string `json:"name"`     // Короткое имя
	Fullname string `json:"fullname"` // Полное имя
	Address  string `json:"address"`  // Адрес подключения
	Phone    string `json:"phone"`    // Контактный телефон
	CNP      string `json:"cnp"`      // Национальный идентификатор, ровно 13 цифр
}

// DummyCustomer используется для приёма данных клиента из JSON-запроса.
type DummyCustomer struct {
	Name     string `json:"name" validate:"required,min=3,max=20"`
	Fullname string `json:"fullname" validate:"required,min=3,max=50"`
	Address  string `json:"address" validate:"required,min=3,max=100"`
	Phone    string `json:"phone" validate:"required,min=5,max=20"`
	CNP      string `json:"cnp" validate:"required,len=13,numeric"`
}
