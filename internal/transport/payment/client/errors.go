package client

import (
	"fmt"
)

// StatusCodeError - провайдер ответил статусом, который мы не умеем обрабатывать.
// Для 5xx клиент возвращает domain.ErrProviderUnavailable, сюда попадают остальные случаи.
type StatusCodeError struct {
	Code int
	Body string
}

func NewStatusCodeError(code int, body string) *StatusCodeError {
	return &StatusCodeError{Code: code, Body: body}
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.Code, e.Body)
}
