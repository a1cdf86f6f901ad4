package domain

import "strings"

// EntityKind - категория сущности, зашита в старшие биты EntityID.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindPlayer
	KindMonster
	KindItem
)

var kindToString = map[EntityKind]string{
	KindPlayer:  "PLAYER",
	KindMonster: "MONSTER",
	KindItem:    "ITEM",
}

var stringToKind = map[string]EntityKind{
	"PLAYER":  KindPlayer,
	"MONSTER": KindMonster,
	"ITEM":    KindItem,
}

// String возвращает строковое представление (для логов и клиента)
func (k EntityKind) String() string {
	if val, ok := kindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseKind конвертирует строку в EntityKind без учета регистра.
func ParseKind(s string) EntityKind {
	if val, ok := stringToKind[strings.ToUpper(s)]; ok {
		return val
	}
	return KindUnknown
}

// Порядок отрисовки: меньшее значение рисуется поверх.
const (
	RenderOrderPlayer  = 0
	RenderOrderMonster = 1
	RenderOrderItem    = 2
)
