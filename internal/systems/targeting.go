package systems

import (
	"github.com/amixtum/dd2/internal/domain"
)

// ValidationResult - результат проверки цели
type ValidationResult struct {
	Target  domain.Position
	Valid   bool
	Message string // Сообщение для журнала, если Valid == false
}

// ValidateTarget проверяет, можно ли применить дальнобойный предмет item
// пользователем user по клетке target.
//
// Цель должна быть внутри карты, в радиусе Ranged и видна пользователю.
func ValidateTarget(ctx *Context, user, item *domain.Entity, target domain.Position) ValidationResult {
	if item == nil || item.Item == nil {
		return ValidationResult{Valid: false, Message: "That cannot be used."}
	}
	if !ctx.Map.Contains(target) {
		return ValidationResult{Valid: false, Message: "That is out of bounds."}
	}

	if rng := item.Item.Ranged; rng > 0 && user.Pos.DistanceTo(target) > float64(rng) {
		return ValidationResult{Valid: false, Message: "That is out of range."}
	}

	// Без viewshed проверяем прямую видимость
	if user.Viewshed != nil && user.Viewshed.Visible.Size() > 0 {
		if !user.Viewshed.CanSee(target) {
			return ValidationResult{Valid: false, Message: "You can't see that."}
		}
	} else if !HasLineOfSight(ctx.Map, user.Pos, target) {
		return ValidationResult{Valid: false, Message: "You can't see that."}
	}

	return ValidationResult{Target: target, Valid: true}
}

// TargetsInRange - видимые клетки в радиусе предмета, отсортированные
// построчно. Нужны клиенту для подсветки в режиме прицеливания.
func TargetsInRange(ctx *Context, user, item *domain.Entity) []domain.Position {
	if item == nil || item.Item == nil || !item.Item.NeedsTarget() {
		return nil
	}
	r := item.Item.Ranged
	var out []domain.Position
	for y := user.Pos.Y - r; y <= user.Pos.Y+r; y++ {
		for x := user.Pos.X - r; x <= user.Pos.X+r; x++ {
			p := domain.Position{X: x, Y: y}
			if ValidateTarget(ctx, user, item, p).Valid {
				out = append(out, p)
			}
		}
	}
	return out
}
