package actions

import "github.com/amixtum/dd2/internal/engine/handlers"

// HandleInit ничего не меняет: клиент просто получает первый снимок мира.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), nil
}
