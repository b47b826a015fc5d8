package models

import "time"

// Действия жизненного цикла подписки.
const (
	ActionEnrolled    = "enrolled"
	ActionReactivated = "reactivated"
	ActionCancelled   = "cancelled"
)

// SubscriptionEvent публикуется после каждого сохранённого изменения подписки.
type SubscriptionEvent struct {
	ID                  string    `json:"id"`
	Action              string    `json:"action"`
	WalletAddress       string    `json:"walletAddress"`
	Name                string    `json:"name"`
	SubscriptionAddress string    `json:"subscriptionAddress"`
	Price               float64   `json:"price"`
	Interval            int       `json:"interval"`
	IsActive            bool      `json:"isActive"`
	OccurredAt          time.Time `json:"occurredAt"`
}
