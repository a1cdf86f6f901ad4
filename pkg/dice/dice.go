// Package dice реализует детерминированный генератор случайных чисел
// в стиле настольных игр: "бросить N кубиков по M граней".
package dice

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// RNG - сидированный генератор. Один и тот же сид дает одну и ту же
// последовательность бросков, что нужно для воспроизводимой генерации уровней.
type RNG struct {
	seed int64
	r    *rand.Rand
}

// New создает генератор с заданным сидом.
func New(seed int64) *RNG {
	return &RNG{seed: seed, r: rand.New(rand.NewSource(seed))}
}

// RandomSeed - сид от текущего времени, для запусков без явного сида.
// Всегда положительный: 0 означает "сид не задан".
func RandomSeed() int64 {
	return time.Now().UnixNano()&0x7fffffffffffffff | 1
}

// Seed возвращает исходный сид генератора.
func (g *RNG) Seed() int64 {
	return g.seed
}

// RollDice бросает n кубиков с sides гранями и возвращает сумму.
// Каждый кубик дает значение 1..sides. Кубики с sides < 1 дают 0.
func (g *RNG) RollDice(n, sides int) int {
	if sides < 1 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += g.r.Intn(sides) + 1
	}
	return total
}

// Range возвращает число в полуинтервале [min, max).
// При пустом интервале возвращает min.
func (g *RNG) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.r.Intn(max-min)
}

// Float возвращает число в [0, 1).
func (g *RNG) Float() float64 {
	return g.r.Float64()
}

// Derive создает независимый генератор для подзадачи (например, для
// повторной попытки генерации уровня). Результат зависит только от
// исходного сида и salt, а не от того, сколько бросков уже сделано.
func (g *RNG) Derive(salt string) *RNG {
	return New(SeedFrom(g.seed, salt))
}

// SeedFrom смешивает сид со строкой.
func SeedFrom(seed int64, salt string) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(seed >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(salt))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}
