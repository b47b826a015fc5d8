// Package storage содержит ошибки, общие для всех реализаций хранилища
// пользователей и компаний (MongoDB и PostgreSQL).
package storage

import "errors"

var (
	// ErrUserNotFound возвращается, если пользователь с кошельком не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists возвращается при повторной регистрации кошелька или email.
	ErrUserExists = errors.New("user already exists")
	// ErrCompanyNotFound возвращается, если компания с именем не найдена.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrCompanyExists возвращается при повторном создании компании с тем же именем.
	ErrCompanyExists = errors.New("company already exists")
)

// ErrSubscriptionAddressTaken возвращается, если адрес подписки уже принадлежит другой подписке.
var ErrSubscriptionAddressTaken = errors.New("subscription address already in use")
