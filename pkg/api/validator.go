package api

import (
	"errors"
	"strconv"
)

var (
	ErrZeroVector     = errors.New("movement vector cannot be zero")
	ErrStepTooLarge   = errors.New("movement step too large")
	ErrItemRequired   = errors.New("itemId is required")
	ErrBadItemID      = errors.New("itemId must be a decimal entity id")
	ErrNegativeTarget = errors.New("target coordinates cannot be negative")
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return ErrZeroVector
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return ErrStepTooLarge
	}
	return nil
}

// Границы карты проверяет движок, здесь только знак
func (p PositionPayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return ErrNegativeTarget
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.ItemID == "" {
		return ErrItemRequired
	}
	if _, err := strconv.ParseUint(p.ItemID, 10, 64); err != nil {
		return ErrBadItemID
	}
	if p.Target != nil {
		return p.Target.Validate()
	}
	return nil
}
