package domain

// TakeDamage наносит урон. Возвращает true, если цель погибла.
func (s *CombatStats) TakeDamage(amount int) bool {
	if amount < 0 {
		amount = 0
	}

	s.HP -= amount

	if s.HP <= 0 {
		s.HP = 0
		return true
	}
	return false
}

// Heal лечит сущность, не превышая MaxHP
func (s *CombatStats) Heal(amount int) {
	if amount < 0 {
		return
	}
	s.HP = min(s.MaxHP, s.HP+amount)
}

// IsDead - HP опустились до нуля.
func (s *CombatStats) IsDead() bool {
	return s.HP < 1
}

// MeleeDamage - базовая формула: сила атакующего минус защита цели, не меньше 0.
func MeleeDamage(attacker, defender *CombatStats) int {
	return max(0, attacker.Power-defender.Defense)
}
