package domain

// Queue - одноразовые намерения за тик: сущность -> команда.
// Повторная запись перезаписывает значение (last-write-wins), но сохраняет
// позицию в порядке обхода. Каждую очередь дренирует ровно одна система.
type Queue[T any] struct {
	items map[EntityID]T
	order []EntityID
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{items: make(map[EntityID]T)}
}

// Set записывает намерение.
func (q *Queue[T]) Set(id EntityID, v T) {
	if _, ok := q.items[id]; !ok {
		q.order = append(q.order, id)
	}
	q.items[id] = v
}

func (q *Queue[T]) Get(id EntityID) (T, bool) {
	v, ok := q.items[id]
	return v, ok
}

func (q *Queue[T]) Has(id EntityID) bool {
	_, ok := q.items[id]
	return ok
}

func (q *Queue[T]) Delete(id EntityID) {
	if _, ok := q.items[id]; !ok {
		return
	}
	delete(q.items, id)
	for i, other := range q.order {
		if other == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}

// Each обходит намерения в порядке первой записи.
func (q *Queue[T]) Each(fn func(id EntityID, v T)) {
	order := make([]EntityID, len(q.order))
	copy(order, q.order)
	for _, id := range order {
		if v, ok := q.items[id]; ok {
			fn(id, v)
		}
	}
}

func (q *Queue[T]) Len() int {
	return len(q.order)
}

// Clear дренирует очередь.
func (q *Queue[T]) Clear() {
	q.items = make(map[EntityID]T)
	q.order = q.order[:0]
}

// --- Типы намерений ---

// MeleeIntent - WantsToMelee.
type MeleeIntent struct {
	Target EntityID
}

// PickupIntent - WantsToPickUpItem.
type PickupIntent struct {
	Item        EntityID
	CollectedBy EntityID
}

// UseItemIntent - WantsToUseItem. Target задан только для дальнобойных предметов.
type UseItemIntent struct {
	Item   EntityID
	Target *Position
}

// DropItemIntent - WantsToDropItem.
type DropItemIntent struct {
	Item EntityID
}

// Intents - все очереди намерений текущего тика.
type Intents struct {
	Melee    *Queue[MeleeIntent]
	Pickup   *Queue[PickupIntent]
	UseItem  *Queue[UseItemIntent]
	DropItem *Queue[DropItemIntent]

	// Impulses и SufferDamage накапливаются, а не перезаписываются.
	Impulses     *Queue[[]Vec2]
	SufferDamage *Queue[[]int]

	Fallover *Queue[struct{}]
}

func NewIntents() *Intents {
	return &Intents{
		Melee:        NewQueue[MeleeIntent](),
		Pickup:       NewQueue[PickupIntent](),
		UseItem:      NewQueue[UseItemIntent](),
		DropItem:     NewQueue[DropItemIntent](),
		Impulses:     NewQueue[[]Vec2](),
		SufferDamage: NewQueue[[]int](),
		Fallover:     NewQueue[struct{}](),
	}
}

// PushImpulse добавляет мгновенный импульс скорости.
func (in *Intents) PushImpulse(id EntityID, v Vec2) {
	prev, _ := in.Impulses.Get(id)
	in.Impulses.Set(id, append(prev, v))
}

// PushDamage добавляет урон в очередь SufferDamage.
func (in *Intents) PushDamage(id EntityID, amount int) {
	prev, _ := in.SufferDamage.Get(id)
	in.SufferDamage.Set(id, append(prev, amount))
}

// RequestFallover ставит намерение упасть (повтор ничего не меняет).
func (in *Intents) RequestFallover(id EntityID) {
	in.Fallover.Set(id, struct{}{})
}

// Forget убирает все намерения удаленной сущности.
func (in *Intents) Forget(id EntityID) {
	in.Melee.Delete(id)
	in.Pickup.Delete(id)
	in.UseItem.Delete(id)
	in.DropItem.Delete(id)
	in.Impulses.Delete(id)
	in.SufferDamage.Delete(id)
	in.Fallover.Delete(id)
}
