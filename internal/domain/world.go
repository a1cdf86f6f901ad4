package domain

import "fmt"

// World - хранилище сущностей уровня.
// Итерация идет в порядке создания, чтобы тики были детерминированными.
type World struct {
	registry map[EntityID]*Entity
	order    []EntityID
	next     uint64
}

func NewWorld() *World {
	return &World{
		registry: make(map[EntityID]*Entity),
		order:    make([]EntityID, 0, 64),
		next:     1,
	}
}

// Spawn регистрирует сущность и выдает ей ID.
func (w *World) Spawn(kind EntityKind, depth int, e *Entity) EntityID {
	e.ID = PackEntityID(kind, depth, w.next)
	w.next++
	w.registry[e.ID] = e
	w.order = append(w.order, e.ID)
	return e.ID
}

// Get ищет сущность по ID
func (w *World) Get(id EntityID) *Entity {
	return w.registry[id]
}

// MustGet возвращает сущность или паникует: отсутствие означает ошибку программиста.
func (w *World) MustGet(id EntityID, relation string) *Entity {
	e, ok := w.registry[id]
	if !ok {
		panic(fmt.Sprintf("%s refers to missing entity %s", relation, id))
	}
	return e
}

// Remove удаляет сущность из реестра
func (w *World) Remove(id EntityID) {
	if _, ok := w.registry[id]; !ok {
		return
	}
	delete(w.registry, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Each обходит сущности в порядке создания.
// Удаление внутри fn безопасно: обход идет по снимку.
func (w *World) Each(fn func(e *Entity)) {
	snapshot := make([]EntityID, len(w.order))
	copy(snapshot, w.order)
	for _, id := range snapshot {
		if e, ok := w.registry[id]; ok {
			fn(e)
		}
	}
}

// Entities возвращает снимок всех сущностей.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.registry[id])
	}
	return out
}

func (w *World) Len() int {
	return len(w.order)
}

// BackpackOf возвращает предметы владельца в порядке их создания.
func (w *World) BackpackOf(owner EntityID) []*Entity {
	var items []*Entity
	for _, id := range w.order {
		e := w.registry[id]
		if e.Backpack != nil && e.Backpack.Owner == owner {
			items = append(items, e)
		}
	}
	return items
}
