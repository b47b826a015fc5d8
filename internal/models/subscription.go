package models

import "time"

// Subscription — намерение пользователя платить за план Name. Имя уникально
// в пределах списка одного пользователя.
type Subscription struct {
	ID                  string    `bson:"_id" json:"id"`
	Name                string    `bson:"name" json:"name"`
	SubscriptionAddress string    `bson:"subscriptionAddress" json:"subscriptionAddress"`
	Price               float64   `bson:"price" json:"price"`
	Interval            int       `bson:"interval" json:"interval"` // период списания в днях
	IsActive            bool      `bson:"isActive" json:"isActive"`
	StartTime           time.Time `bson:"startTime" json:"startTime"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EnrollRequest используется для приёма данных подписки из JSON-запроса.
type EnrollRequest struct {
	Name                string  `json:"name" validate:"required"`
	SubscriptionAddress string  `json:"subscriptionAddress" validate:"required"`
	Price               float64 `json:"price" validate:"gte=0"`
	Interval            int     `json:"interval" validate:"required,gt=0"`
}

// CancelRequest используется для приёма запроса на отмену подписки.
// Method не валидируется: любое значение, кроме MethodCancel, ничего не меняет.
type CancelRequest struct {
	Name   string `json:"name" validate:"required"`
	Method string `json:"method"`
}

// MethodCancel — единственный распознаваемый метод отмены.
const MethodCancel = "cancel"
