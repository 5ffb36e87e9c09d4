package api

import (
	"errors"

	playground "github.com/go-playground/validator/v10"
)

// Validator - интерфейс, который могут реализовать DTO для проверок,
// не выражаемых тегами (кросс-полевые инварианты).
type Validator interface {
	Validate() error
}

// структурный валидатор по тегам `validate:"..."`.
// Один инстанс на процесс: он кэширует метаданные структур.
var structValidator = playground.New(playground.WithRequiredStructEnabled())

// ValidateStruct прогоняет DTO через теги, затем через Validate(),
// если DTO его реализует.
func ValidateStruct(v any) error {
	if err := structValidator.Struct(v); err != nil {
		var invalid *playground.InvalidValidationError
		if errors.As(err, &invalid) {
			return errors.New("payload is not a struct")
		}
		return err
	}
	if custom, ok := v.(Validator); ok {
		return custom.Validate()
	}
	return nil
}

func (p CreateSessionPayload) Validate() error {
	if p.MinPlayers > 0 && p.MaxPlayers > 0 && p.MinPlayers > p.MaxPlayers {
		return errors.New("minPlayers cannot exceed maxPlayers")
	}
	return nil
}

func (p SplitFleetPayload) Validate() error {
	seen := make(map[string]bool, len(p.ShipIDs))
	for _, id := range p.ShipIDs {
		if seen[id] {
			return errors.New("duplicate ship id in split")
		}
		seen[id] = true
	}
	return nil
}
