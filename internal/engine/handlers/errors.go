package handlers

import "errors"

var (
	ErrMissingPayload = errors.New("payload is required")
	ErrItemNotOwned   = errors.New("item is not in the backpack")
)
