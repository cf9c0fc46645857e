// Package apperr описывает таксономию ошибок приложения: ошибки валидации,
// "не найдено" и внутренние ошибки. Хендлеры переводят их в HTTP-статусы.
package apperr

import (
	"errors"
	"fmt"
)

// Code — стабильный тег ошибки, уходит клиенту в поле "code".
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Error — ошибка с кодом, сообщением для клиента и исходной причиной.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap для errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// New создаёт ошибку с кодом и сообщением.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Validation — некорректный ввод, до записи в БД.
func Validation(format string, args ...any) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

// NotFound — сущность не найдена в рамках указанного родителя.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Wrap оборачивает err с кодом и сообщением. Для nil возвращает New.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{Code: code, Message: message, Err: err}
}

// IsCode проверяет код ошибки с учётом обёрток.
func IsCode(err error, code Code) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// CodeOf возвращает код ошибки; для "чужих" ошибок — CodeInternal.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}
