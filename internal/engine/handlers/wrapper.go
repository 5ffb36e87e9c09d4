package handlers

import (
	"encoding/json"
	"fmt"

	"voidreach-server/pkg/api"
)

// WithPayload оборачивает типизированный хендлер исполнения: анмаршалит
// raw JSON в T, валидирует структуру и дергает функцию с готовым payload.
func WithPayload[T any](fn func(ctx Context, payload T) (Result, error)) ExecuteFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("unmarshal payload: %w", err)
		}
		if err := api.ValidateStruct(payload); err != nil {
			return Result{}, fmt.Errorf("invalid payload: %w", err)
		}
		return fn(ctx, payload)
	}
}

// WithPayloadValidate - то же самое для хендлеров валидации.
func WithPayloadValidate[T any](fn func(ctx Context, payload T) error) ValidateFunc {
	return func(ctx Context, raw json.RawMessage) error {
		var payload T
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		if err := api.ValidateStruct(payload); err != nil {
			return err
		}
		return fn(ctx, payload)
	}
}
