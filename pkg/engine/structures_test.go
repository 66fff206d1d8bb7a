package engine

import "testing"

func TestStrongestDefenseNoPostsReturnsIdentity(t *testing.T) {
	cfg := DefaultConfig()
	defender := &Nation{}
	loss, speed := StrongestDefense(cfg, defender, Coord{5, 5})
	if loss != 1.0 || speed != 1.0 {
		t.Errorf("loss,speed = %v,%v, want 1,1 with no structures", loss, speed)
	}
}

func TestStrongestDefenseDoesNotStack(t *testing.T) {
	cfg := DefaultConfig()
	defender := &Nation{
		Cities: []City{
			{Coord: Coord{0, 0}, Type: CityTown},
			{Coord: Coord{0, 0}, Type: CityTower},
		},
	}
	loss, speed := StrongestDefense(cfg, defender, Coord{0, 0})
	if loss != cfg.Structure.Tower.TroopLossMultiplier {
		t.Errorf("loss = %v, want the tower's multiplier %v (strongest, not summed)", loss, cfg.Structure.Tower.TroopLossMultiplier)
	}
	if speed != 1-cfg.Structure.Tower.SpeedReduction {
		t.Errorf("speed = %v, want tower's speed term", speed)
	}
}

func TestStrongestDefenseOutOfRadiusIgnored(t *testing.T) {
	cfg := DefaultConfig()
	defender := &Nation{
		Cities: []City{{Coord: Coord{0, 0}, Type: CityTower}},
	}
	far := Coord{X: int(cfg.Structure.Tower.DefenseRadius) + 100, Y: 0}
	loss, speed := StrongestDefense(cfg, defender, far)
	if loss != 1.0 || speed != 1.0 {
		t.Errorf("loss,speed out of radius = %v,%v, want 1,1", loss, speed)
	}
}
