package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки сервиса
var (
	// ErrUserExists возвращается при регистрации с занятым именем пользователя
	ErrUserExists = errors.New("username already taken")

	// ErrAlreadyMember возвращается при повторном вступлении в команду
	ErrAlreadyMember = errors.New("user is already a member of this team")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrTeamNotFound возвращается когда команда с таким кодом не найдена
	ErrTeamNotFound = errors.New("team not found")

	// ErrSessionNotFound возвращается когда сессия карты не найдена
	ErrSessionNotFound = errors.New("map session not found")

	// ErrMarkerNotFound возвращается когда маркер не найден
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden возвращается когда у пользователя нет прав на операцию
	ErrForbidden = errors.New("forbidden")
)

// ValidationError описывает первое нарушенное ограничение входных данных.
// Проверка выполняется до любого обращения к хранилищу.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError создает ValidationError для указанного поля
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation проверяет является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeValidation    ErrorCode = "VALIDATION"     // Невалидные входные данные
	CodeUserExists    ErrorCode = "USER_EXISTS"    // Имя пользователя занято
	CodeAlreadyMember ErrorCode = "ALREADY_MEMBER" // Пользователь уже в команде
	CodeNotFound      ErrorCode = "NOT_FOUND"      // Ресурс не найден
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"   // Требуется аутентификация
	CodeForbidden     ErrorCode = "FORBIDDEN"      // Недостаточно прав
	CodeInternal      ErrorCode = "INTERNAL_ERROR" // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	switch {
	case IsValidation(err):
		return CodeValidation
	case errors.Is(err, ErrUserExists):
		return CodeUserExists
	case errors.Is(err, ErrAlreadyMember):
		return CodeAlreadyMember
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTeamNotFound), errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrMarkerNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}
