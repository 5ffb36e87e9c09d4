package domain

import (
	"errors"
	"fmt"
)

// Таксономия ошибок движка (см. политику восстановления в Pipeline):
//   - ValidationError: отклонена одна команда, остальной пакет продолжает жить.
//   - PreconditionError: шаг фазы невозможен, элемент тихо выбрасывается
//     с уведомлением игроку.
//   - ConfigurationError: кривая конфигурация (доктрина, дизайн) - откат
//     на безопасный дефолт, НЕ ошибка исполнения.
//   - FatalError: фаза упала, ход целиком не коммитится.

// ValidationError - отказ в валидации одной команды.
type ValidationError struct {
	Kind   CommandKind
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("command %s rejected: %s", e.Kind, e.Reason)
}

// NewValidationError создает отказ с человеко-читаемой причиной.
// Reason уходит игроку как есть, поэтому без внутренних деталей.
func NewValidationError(kind CommandKind, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Reason: reason}
}

// AsValidation приводит отказ хендлера к ValidationError. Хендлеры
// возвращают голые причины (текст уходит игроку как есть); тип навешивает
// слой диспетчеризации, которому известен kind команды.
func AsValidation(kind CommandKind, err error) *ValidationError {
	var v *ValidationError
	if errors.As(err, &v) {
		return v
	}
	return NewValidationError(kind, err.Error())
}

// PreconditionError - шаг фазы не может быть выполнен (например, колония
// уничтожена до того, как достроилась ее очередь).
type PreconditionError struct {
	Phase  string
	Detail string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed in %s phase: %s", e.Phase, e.Detail)
}

// FatalError - фаза упала, ход не коммитится, сессия остается на прошлом ходе.
type FatalError struct {
	Phase string
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error in %s phase: %v", e.Phase, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
