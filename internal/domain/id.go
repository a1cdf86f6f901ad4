package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Kind + Depth + Index)
type EntityID uint64

// NoEntity - нулевой идентификатор, ни одна живая сущность его не получает.
const NoEntity EntityID = 0

// Конфигурация битов
const (
	bitsIndex = 40
	bitsDepth = 16
	bitsKind  = 8

	shiftDepth = bitsIndex
	shiftKind  = bitsIndex + bitsDepth

	maskIndex = (1 << bitsIndex) - 1
	maskDepth = (1 << bitsDepth) - 1
	maskKind  = (1 << bitsKind) - 1
)

// PackEntityID создает ID из компонентов
func PackEntityID(kind EntityKind, depth int, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(depth) & maskDepth) << shiftDepth
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

// Depth - глубина подземелья, на которой сущность была создана.
func (id EntityID) Depth() int {
	return int((id >> shiftDepth) & maskDepth)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// ParseEntityID разбирает десятичное представление ID (как в JSON).
func ParseEntityID(s string) (EntityID, error) {
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NoEntity, fmt.Errorf("parse entity id %q: %w", s, err)
	}
	return EntityID(val), nil
}

// Wire - десятичная форма для клиента, обратная ParseEntityID.
func (id EntityID) Wire() string {
	return strconv.FormatUint(uint64(id), 10)
}

// String для логов: [Kind:Depth:Idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d:%d]", id.Kind(), id.Depth(), id.Index())
}
