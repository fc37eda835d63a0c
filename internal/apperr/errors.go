// Package apperr содержит типизированные ошибки уровня приложения.
//
// NotFound намеренно покрывает и случай «чужой ресурс» на owner-scoped
// операциях: отсутствие и отказ в доступе неразличимы, чтобы не раскрывать
// существование чужих форм.
package apperr

import "errors"

var (
	// ErrNotFound — форма или отправка не найдена (или принадлежит другому владельцу).
	ErrNotFound = errors.New("not found")
	// ErrForbidden — пользователь аутентифицирован, но политика запрещает операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict — нарушение уникальности (занятая пользовательская ссылка).
	ErrConflict = errors.New("conflict")
	// ErrExpired — срок действия формы истёк.
	ErrExpired = errors.New("form expired")
)

// ValidationError описывает некорректное тело запроса.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation создаёт ValidationError с заданным сообщением.
func NewValidation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
