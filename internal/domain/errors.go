package domain

import (
	"errors"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidCartItem = errors.New("invalid cart item")

	// ErrInvalidSignature - подпись вебхука не сошлась. Единственная ошибка процессора событий,
	// на которую провайдеру отвечаем отказом.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrProviderUnavailable - платежный провайдер не ответил вовремя или ответил 5xx.
	// Безопасно повторять запрос с клиента.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)
