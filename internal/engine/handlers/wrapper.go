package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
)

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (RELOAD, END_TURN, STATE)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя Unmarshal и Validate.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		if len(raw) == 0 {
			return Result{}, fmt.Errorf("%w: empty payload", domain.ErrIllegalAction)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("%w: invalid payload format: %v", domain.ErrIllegalAction, err)
		}

		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("%w: validation failed: %v", domain.ErrIllegalAction, err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}
