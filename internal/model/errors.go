package model

import "errors"

// ErrNotFound - запрашиваемая запись отсутствует в хранилище.
var ErrNotFound = errors.New("запись не найдена")

// ValidationError - ошибка валидации запроса на планирование.
// Возникает до обращения к каким-либо внешним сервисам и
// возвращается пользователю дословно.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создает ошибку валидации с заданным сообщением.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
