package casefile

import (
	"errors"
	"fmt"
)

// Ошибки конфигурации кейса.
var (
	// ErrConfiguration — кейс невалиден. Обнаруживается до сетевых вызовов.
	ErrConfiguration = errors.New("invalid case configuration")
)

// FieldError — ошибка конкретного поля кейса.
type FieldError struct {
	// Field — путь к полю (например, "sweep.end_hz").
	Field string

	// Msg — описание проблемы.
	Msg string
}

// NewFieldError создаёт ошибку поля.
func NewFieldError(field, msg string) *FieldError {
	return &FieldError{Field: field, Msg: msg}
}

// Error реализует интерфейс error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid case configuration: %s: %s", e.Field, e.Msg)
}

// Unwrap позволяет errors.Is(err, ErrConfiguration).
func (e *FieldError) Unwrap() error {
	return ErrConfiguration
}
