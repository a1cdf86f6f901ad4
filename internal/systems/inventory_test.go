package systems

import (
	"testing"

	"github.com/amixtum/dd2/internal/domain"
)

func TestGetItemAndPickup(t *testing.T) {
	ctx, log := newTestContext(createTestMap(10, 10))
	player := spawnPlayer(ctx, domain.Position{X: 5, Y: 5})

	if GetItem(ctx) {
		t.Error("Expected GetItem to fail on an empty tile")
	}
	if !log.has("There is nothing here to pickup") {
		t.Errorf("Expected empty-tile message, got %v", log.lines)
	}

	potion := spawnItem(ctx, "Health Potion", domain.Position{X: 5, Y: 5}, domain.ItemComponent{Consumable: true, ProvidesHealing: 8})
	if !GetItem(ctx) {
		t.Fatal("Expected GetItem to find the potion")
	}
	Pickup(ctx)

	if potion.HasPos {
		t.Error("Picked up item must leave the map")
	}
	if potion.Backpack == nil || potion.Backpack.Owner != player.ID {
		t.Errorf("Expected potion in player's backpack, got %v", potion.Backpack)
	}
	for _, id := range ctx.Map.EntitiesAt(5, 5) {
		if id == potion.ID {
			t.Error("Potion still indexed on the tile")
		}
	}
	if !log.has("You pick up the Health Potion.") {
		t.Errorf("Expected pickup message, got %v", log.lines)
	}
	if ctx.Intents.Pickup.Len() != 0 {
		t.Error("Expected pickup queue to be cleared")
	}
}

func TestDrop(t *testing.T) {
	ctx, log := newTestContext(createTestMap(10, 10))
	player := spawnPlayer(ctx, domain.Position{X: 3, Y: 4})
	other := spawnMonster(ctx, "Orc", domain.Position{X: 7, Y: 7}, 10, 0, 1)

	scroll := &domain.Entity{Name: "Fireball Scroll", Item: &domain.ItemComponent{Ranged: 6}}
	ctx.World.Spawn(domain.KindItem, 1, scroll)
	scroll.Backpack = &domain.InBackpack{Owner: player.ID}

	// Чужой предмет бросить нельзя
	ctx.Intents.DropItem.Set(other.ID, domain.DropItemIntent{Item: scroll.ID})
	Drop(ctx)
	if scroll.HasPos {
		t.Fatal("Only the owner can drop an item")
	}

	ctx.Intents.DropItem.Set(player.ID, domain.DropItemIntent{Item: scroll.ID})
	Drop(ctx)

	if scroll.Backpack != nil || !scroll.HasPos || scroll.Pos != player.Pos {
		t.Errorf("Expected scroll on the floor at %v, got %v (backpack=%v)", player.Pos, scroll.Pos, scroll.Backpack)
	}
	if !log.has("You drop the Fireball Scroll.") {
		t.Errorf("Expected drop message, got %v", log.lines)
	}
}

func TestItemUse_Healing(t *testing.T) {
	ctx, log := newTestContext(createTestMap(10, 10))
	player := spawnPlayer(ctx, domain.Position{X: 5, Y: 5})
	player.Stats.HP = 20

	potion := &domain.Entity{Name: "Health Potion", Item: &domain.ItemComponent{Consumable: true, ProvidesHealing: 8}}
	ctx.World.Spawn(domain.KindItem, 1, potion)
	potion.Backpack = &domain.InBackpack{Owner: player.ID}

	ctx.Intents.UseItem.Set(player.ID, domain.UseItemIntent{Item: potion.ID})
	ItemUse(ctx)

	if player.Stats.HP != 28 {
		t.Errorf("Expected HP 28, got %d", player.Stats.HP)
	}
	if ctx.World.Get(potion.ID) != nil {
		t.Error("Consumable should be removed after use")
	}
	if !log.has("You drink the Health Potion, healing 8 hp.") {
		t.Errorf("Expected heal message, got %v", log.lines)
	}

	// Лечение не превышает MaxHP
	potion2 := &domain.Entity{Name: "Health Potion", Item: &domain.ItemComponent{Consumable: true, ProvidesHealing: 8}}
	ctx.World.Spawn(domain.KindItem, 1, potion2)
	ctx.Intents.UseItem.Set(player.ID, domain.UseItemIntent{Item: potion2.ID})
	ItemUse(ctx)
	if player.Stats.HP != player.Stats.MaxHP {
		t.Errorf("Expected HP capped at %d, got %d", player.Stats.MaxHP, player.Stats.HP)
	}
}

func TestItemUse_RangedDamage(t *testing.T) {
	tests := []struct {
		name     string
		comp     domain.ItemComponent
		target   domain.Position
		wantHits map[string]int
	}{
		{
			name:     "single target",
			comp:     domain.ItemComponent{Consumable: true, Ranged: 6, InflictsDamage: 8},
			target:   domain.Position{X: 8, Y: 5},
			wantHits: map[string]int{"Orc": 8, "Goblin": 0},
		},
		{
			name:     "area of effect",
			comp:     domain.ItemComponent{Consumable: true, Ranged: 6, InflictsDamage: 20, AreaOfEffect: 3},
			target:   domain.Position{X: 8, Y: 5},
			wantHits: map[string]int{"Orc": 20, "Goblin": 20},
		},
		{
			name:     "empty tile",
			comp:     domain.ItemComponent{Consumable: true, Ranged: 6, InflictsDamage: 8},
			target:   domain.Position{X: 2, Y: 2},
			wantHits: map[string]int{"Orc": 0, "Goblin": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext(createTestMap(12, 12))
			player := spawnPlayer(ctx, domain.Position{X: 4, Y: 5})
			orc := spawnMonster(ctx, "Orc", domain.Position{X: 8, Y: 5}, 30, 0, 1)
			goblin := spawnMonster(ctx, "Goblin", domain.Position{X: 9, Y: 6}, 30, 0, 1)

			scroll := &domain.Entity{Name: "Scroll", Item: &tt.comp}
			ctx.World.Spawn(domain.KindItem, 1, scroll)
			scroll.Backpack = &domain.InBackpack{Owner: player.ID}

			target := tt.target
			ctx.Intents.UseItem.Set(player.ID, domain.UseItemIntent{Item: scroll.ID, Target: &target})
			ItemUse(ctx)
			Damage(ctx)

			if got := 30 - orc.Stats.HP; got != tt.wantHits["Orc"] {
				t.Errorf("Expected Orc to take %d, got %d", tt.wantHits["Orc"], got)
			}
			if got := 30 - goblin.Stats.HP; got != tt.wantHits["Goblin"] {
				t.Errorf("Expected Goblin to take %d, got %d", tt.wantHits["Goblin"], got)
			}

			hit := tt.wantHits["Orc"] > 0
			if removed := ctx.World.Get(scroll.ID) == nil; removed != hit {
				t.Errorf("Expected scroll removed=%v, got %v", hit, removed)
			}
		})
	}
}

func TestValidateTarget(t *testing.T) {
	ctx, _ := newTestContext(createTestMap(20, 20, domain.Position{X: 8, Y: 4}, domain.Position{X: 8, Y: 5}, domain.Position{X: 8, Y: 6}))
	player := spawnPlayer(ctx, domain.Position{X: 5, Y: 5})
	Visibility(ctx)

	scroll := &domain.Entity{Name: "Magic Missile Scroll", Item: &domain.ItemComponent{Ranged: 6, InflictsDamage: 8}}

	tests := []struct {
		name   string
		target domain.Position
		valid  bool
		msg    string
	}{
		{"in range and visible", domain.Position{X: 5, Y: 8}, true, ""},
		{"out of range", domain.Position{X: 5, Y: 12}, false, "That is out of range."},
		{"behind wall", domain.Position{X: 10, Y: 5}, false, "You can't see that."},
		{"off the map", domain.Position{X: -1, Y: 5}, false, "That is out of bounds."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTarget(ctx, player, scroll, tt.target)
			if got.Valid != tt.valid || got.Message != tt.msg {
				t.Errorf("Expected (%v, %q), got (%v, %q)", tt.valid, tt.msg, got.Valid, got.Message)
			}
		})
	}

	cells := TargetsInRange(ctx, player, scroll)
	if len(cells) == 0 {
		t.Fatal("Expected some valid target cells")
	}
	for _, c := range cells {
		if c.DistanceTo(player.Pos) > 6 {
			t.Errorf("Cell %v is out of range", c)
		}
	}
}
