package models

// Типы тарифов. Значения совпадают со значениями в базе и в JSON.
const (
	SubscriptionMobile         = "MOBILE"
	SubscriptionFixed          = "FIXED"
	SubscriptionTv             = "TV"
	SubscriptionMobileInternet = "MOBILE_INTERNET"
	SubscriptionFixedInternet  = "FIXED_INTERNET"
)

// Subscription представляет тарифный план провайдера.
type Subscription struct {
	ID                int     `json:"id"`                  // Уникальный идентификатор
	Description       string  `json:"description"`         // Описание тарифа
	Type              string  `json:"type"`                // Тип тарифа, см. константы Subscription*
	Traffic           int     `json:"traffic"`             // Включённый трафик, Гб/с
	Price             float64 `json:"price"`               // Абонентская плата
	ExtraTrafficPrice float64 `json:"extra_traffic_price"` // Цена за трафик сверх включённого
}

// DummySubscription используется для приёма данных тарифа из JSON-запроса.
type DummySubscription struct {
	Description       string  `json:"description" validate:"required,min=3,max=100"`
	Type              string  `json:"type" validate:"required,oneof=MOBILE FIXED TV MOBILE_INTERNET FIXED_INTERNET"`
	Traffic           int     `json:"traffic" validate:"gte=0"`
	Price             float64 `json:"price" validate:"gte=0"`
	ExtraTrafficPrice float64 `json:"extra_traffic_price" validate:"gte=0"`
}
