package domain

import "testing"

func TestNewEnvObject_Defaults(t *testing.T) {
	tests := []struct {
		kind   ObjectKind
		id     ObjectID
		hazard bool
		uses   int
	}{
		{ObjectAcidPool, "acid_pool_3_4", true, 0},
		{ObjectLaserGrid, "laser_grid_3_4", true, 0},
		{ObjectHealingStation, "healing_station_3_4", false, StationUses},
		{ObjectExplosiveBarrel, "explosive_barrel_3_4", false, 0},
		{ObjectCoverGenerator, "cover_generator_3_4", false, GeneratorUses},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			o := NewEnvObject(tt.kind, Position{X: 3, Y: 4})
			if o.ID != tt.id {
				t.Errorf("ID = %q, want %q", o.ID, tt.id)
			}
			if o.IsHazard() != tt.hazard {
				t.Errorf("IsHazard = %v", o.IsHazard())
			}
			if o.Uses != tt.uses {
				t.Errorf("Uses = %d, want %d", o.Uses, tt.uses)
			}
			if k, ok := ParseObjectKind(" " + tt.kind.String()); !ok || k != tt.kind {
				t.Errorf("ParseObjectKind round trip failed for %s", tt.kind)
			}
		})
	}
}

func TestEnvObject_CoversAndReaches(t *testing.T) {
	acid := NewEnvObject(ObjectAcidPool, Position{X: 2, Y: 2})
	if !acid.Covers(Position{X: 2, Y: 3}) || acid.Covers(Position{X: 3, Y: 3}) {
		t.Error("acid pool covers its cell and orthogonal neighbours only")
	}
	if !acid.Reaches(Position{X: 2, Y: 2}) || acid.Reaches(Position{X: 4, Y: 2}) {
		t.Error("Reaches should accept the object cell and reject distant ones")
	}

	acid.Destroyed = true
	if acid.Covers(Position{X: 2, Y: 2}) {
		t.Error("destroyed object covers nothing")
	}
}

func TestUnit_DamageOverTimeExpires(t *testing.T) {
	u := NewUnit("u1", "Rookie", TeamPlayer)
	u.AddBuff(AcidBurn())
	u.AddBuff(AcidBurn())
	if got := u.DamageOverTime(); got != AcidDamagePerTurn {
		t.Fatalf("burn should not stack, got %d", got)
	}

	ticks := 0
	for i := 0; i < AcidTurns+2; i++ {
		u.ResetForTurn()
		if u.DamageOverTime() > 0 {
			ticks++
		}
	}
	if ticks != AcidTurns {
		t.Errorf("expected %d ticks, got %d", AcidTurns, ticks)
	}
}

func TestGrenade_IsThrowable(t *testing.T) {
	u := NewUnit("u1", "Heavy", TeamPlayer)
	u.Equipment = append(u.Equipment, Grenade(), Medkit())

	if _, err := u.Throwable("Medkit", Position{X: 1}); err == nil {
		t.Error("medkit is not throwable")
	}
	if _, err := u.Throwable("Frag Grenade", Position{X: 7}); err == nil {
		t.Error("target beyond throw range should be refused")
	}
	g, err := u.Throwable("Frag Grenade", Position{X: 3})
	if err != nil {
		t.Fatalf("Throwable: %v", err)
	}
	if g.Uses != 1 || u.ActionPoints != DefaultActionPoints {
		t.Error("Throwable must not spend anything")
	}
}
