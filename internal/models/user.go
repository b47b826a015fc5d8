// Package models содержит доменные структуры SubSync: пользователя со встроенным
// списком подписок, компанию-продавца и события жизненного цикла подписки,
// а также структуры для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя. Подписки хранятся
// внутри документа пользователя и не существуют отдельно от него.
type User struct {
	ID            string         `bson:"_id" json:"id"`
	Name          string         `bson:"name" json:"name"`
	WalletAddress string         `bson:"walletAddress" json:"walletAddress"`
	Email         string         `bson:"email" json:"email"`
	Subscriptions []Subscription `bson:"subscriptions" json:"subscriptions"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// FindSubscription возвращает индекс подписки с именем name или -1.
func (u *User) FindSubscription(name string) int {
	for i := range u.Subscriptions {
		if u.Subscriptions[i].Name == name {
			return i
		}
	}
	return -1
}

// CreateUserRequest используется для приёма данных регистрации из JSON-запроса.
type CreateUserRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	WalletAddress string `json:"walletAddress" validate:"required"`
}
