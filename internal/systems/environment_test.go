package systems

import (
	"errors"
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

type deathLog struct {
	victims []domain.UnitID
	killers []*domain.Unit
}

func newTestEnvironment(g *domain.Grid, units ...*domain.Unit) (*Environment, *deathLog) {
	log := &deathLog{}
	r := newTestResolver(g, &scriptedRand{})
	r.OnDeath = func(victim, killer *domain.Unit) {
		log.victims = append(log.victims, victim.ID)
		log.killers = append(log.killers, killer)
	}
	return NewEnvironment(g, &fakeField{units: units}, r), log
}

func mustPlace(t *testing.T, env *Environment, kind domain.ObjectKind, x, y int) *domain.EnvObject {
	t.Helper()
	o := domain.NewEnvObject(kind, domain.Position{X: x, Y: y})
	if err := env.Place(o); err != nil {
		t.Fatalf("place %s: %v", kind, err)
	}
	return o
}

func TestEnvironment_AcidBurnsOnEntryAndEachTurn(t *testing.T) {
	g := createTestGrid(5, 5)
	u := newShooter("p1", domain.TeamPlayer)
	place(t, g, u, 3, 2)
	env, _ := newTestEnvironment(g, u)
	mustPlace(t, env, domain.ObjectAcidPool, 2, 2)

	if !env.Hazardous(domain.Position{X: 2, Y: 1}) {
		t.Error("(2,1) is inside the pool")
	}
	if env.Hazardous(domain.Position{X: 3, Y: 3}) {
		t.Error("diagonal cell is outside radius 1")
	}

	effects := env.Entered(u)
	if len(effects) != 1 || effects[0].Hits[0].Damage != domain.AcidEntryDamage {
		t.Fatalf("expected one entry hit, got %+v", effects)
	}

	want := 100 - domain.AcidEntryDamage
	for turn := 1; turn <= domain.AcidTurns; turn++ {
		u.ResetForTurn()
		if eff := env.TurnStarted(u); len(eff) != 1 {
			t.Fatalf("turn %d: expected acid tick", turn)
		}
		want -= domain.AcidDamagePerTurn
	}
	if u.Health != want {
		t.Errorf("Health = %d, want %d", u.Health, want)
	}

	u.ResetForTurn()
	if eff := env.TurnStarted(u); eff != nil {
		t.Errorf("burn should have expired, got %+v", eff)
	}
}

func TestEnvironment_LaserHitsOnlyItsCell(t *testing.T) {
	g := createTestGrid(3, 3)
	u := newShooter("p1", domain.TeamPlayer)
	place(t, g, u, 1, 2)
	env, _ := newTestEnvironment(g, u)
	mustPlace(t, env, domain.ObjectLaserGrid, 1, 1)

	if eff := env.Entered(u); len(eff) != 0 {
		t.Fatalf("neighbour cell should be safe, got %+v", eff)
	}

	u.Pos = domain.Position{X: 1, Y: 1}
	env.Entered(u)
	if u.Health != 100-domain.LaserDamage {
		t.Errorf("Health = %d, want %d", u.Health, 100-domain.LaserDamage)
	}
	if u.DamageOverTime() != 0 {
		t.Error("laser must not leave a burn")
	}
}

func TestEnvironment_AcidKillReachesOnDeath(t *testing.T) {
	g := createTestGrid(3, 3)
	u := newShooter("e1", domain.TeamEnemy)
	u.Health = 3
	place(t, g, u, 1, 1)
	env, deaths := newTestEnvironment(g, u)
	mustPlace(t, env, domain.ObjectAcidPool, 1, 1)

	env.Entered(u)
	if !u.Dead || len(deaths.victims) != 1 || deaths.killers[0] != nil {
		t.Fatalf("expected a single unattributed death, got %+v", deaths)
	}
}

func TestEnvironment_HealingStation(t *testing.T) {
	g := createTestGrid(5, 5)
	u := newShooter("p1", domain.TeamPlayer)
	u.Health = 50
	place(t, g, u, 2, 3)
	env, _ := newTestEnvironment(g, u)
	station := mustPlace(t, env, domain.ObjectHealingStation, 2, 2)

	eff, err := env.Interact(u, station.ID)
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if eff.Hits[0].Healed != domain.StationHealAmount || u.Health != 70 {
		t.Errorf("expected +%d HP, got %+v (health %d)", domain.StationHealAmount, eff, u.Health)
	}
	if u.ActionPoints != domain.DefaultActionPoints-domain.APCostInteract {
		t.Errorf("interaction should cost %d AP", domain.APCostInteract)
	}
	if station.Uses != domain.StationUses-1 {
		t.Errorf("Uses = %d", station.Uses)
	}

	t.Run("full health is refused", func(t *testing.T) {
		healthy := newShooter("p2", domain.TeamPlayer)
		healthy.Pos = domain.Position{X: 2, Y: 1}
		if _, err := env.Interact(healthy, station.ID); !errors.Is(err, domain.ErrIllegalAction) {
			t.Errorf("expected ErrIllegalAction, got %v", err)
		}
	})

	t.Run("too far", func(t *testing.T) {
		far := newShooter("p3", domain.TeamPlayer)
		far.Health = 10
		far.Pos = domain.Position{X: 4, Y: 4}
		if _, err := env.Interact(far, station.ID); !errors.Is(err, domain.ErrInvalidTarget) {
			t.Errorf("expected ErrInvalidTarget, got %v", err)
		}
	})

	t.Run("depleted", func(t *testing.T) {
		u.ResetForTurn()
		u.Health = 10
		if _, err := env.Interact(u, station.ID); err != nil {
			t.Fatalf("second use: %v", err)
		}
		u.ResetForTurn()
		if _, err := env.Interact(u, station.ID); !errors.Is(err, domain.ErrIllegalAction) {
			t.Errorf("expected ErrIllegalAction, got %v", err)
		}
	})
}

func TestEnvironment_CoverGenerator(t *testing.T) {
	g := createTestGrid(5, 5)
	g.SetCover(domain.Position{X: 2, Y: 1}, domain.CoverFull)
	u := newShooter("p1", domain.TeamPlayer)
	place(t, g, u, 1, 2)
	env, _ := newTestEnvironment(g, u)
	gen := mustPlace(t, env, domain.ObjectCoverGenerator, 2, 2)

	eff, err := env.Interact(u, gen.ID)
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	// (2,2) (1,2) (3,2) (2,3); на (2,1) уже полное укрытие
	if len(eff.CoverRaised) != 4 {
		t.Errorf("expected 4 cells of cover, got %v", eff.CoverRaised)
	}
	if g.CoverAt(domain.Position{X: 2, Y: 1}) != domain.CoverFull {
		t.Error("existing cover must stay")
	}
	if g.CoverAt(domain.Position{X: 3, Y: 2}) != domain.CoverHalf {
		t.Error("generator should raise half cover")
	}

	u.ResetForTurn()
	if _, err := env.Interact(u, gen.ID); !errors.Is(err, domain.ErrIllegalAction) {
		t.Errorf("generator is single use, got %v", err)
	}
}

func TestEnvironment_BarrelChainDestroysCoverAndKills(t *testing.T) {
	// . . . . h   (4,0) - половинное укрытие
	// P . o o E
	g := createTestGrid(8, 3)
	g.SetCover(domain.Position{X: 4, Y: 0}, domain.CoverHalf)
	shooter := newShooter("p1", domain.TeamPlayer)
	place(t, g, shooter, 0, 1)
	enemy := newShooter("e1", domain.TeamEnemy)
	enemy.Health = 5
	place(t, g, enemy, 4, 1)

	env, deaths := newTestEnvironment(g, shooter, enemy)
	first := mustPlace(t, env, domain.ObjectExplosiveBarrel, 2, 1)
	second := mustPlace(t, env, domain.ObjectExplosiveBarrel, 3, 1)

	effects, err := env.Shoot(shooter, first.ID)
	if err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if len(effects) != 2 {
		t.Fatalf("expected the second barrel to chain, got %d effects", len(effects))
	}
	if !first.Destroyed || !second.Destroyed {
		t.Error("both barrels should be gone")
	}
	if g.CoverAt(domain.Position{X: 4, Y: 0}) != domain.CoverNone {
		t.Error("blast should destroy cover in radius")
	}
	if len(effects[1].CoverDestroyed) != 1 {
		t.Errorf("expected one destroyed cover, got %v", effects[1].CoverDestroyed)
	}
	if shooter.Health != 100 {
		t.Errorf("shooter is out of the blast, got %d HP", shooter.Health)
	}
	if len(deaths.victims) != 1 || deaths.victims[0] != "e1" || deaths.killers[0] != shooter {
		t.Errorf("expected e1 killed by p1, got %+v", deaths.victims)
	}
	if shooter.ActionPoints != domain.DefaultActionPoints-domain.APCostAttack {
		t.Error("shooting a barrel costs an attack")
	}

	if _, err := env.Shoot(shooter, first.ID); !errors.Is(err, domain.ErrInvalidTarget) {
		t.Errorf("destroyed barrel is not a target, got %v", err)
	}
}

func TestEnvironment_ThrowGrenade(t *testing.T) {
	g := createTestGrid(10, 3)
	thrower := newShooter("p1", domain.TeamPlayer)
	thrower.Equipment = append(thrower.Equipment, domain.Grenade())
	place(t, g, thrower, 0, 1)
	enemy := newShooter("e1", domain.TeamEnemy)
	place(t, g, enemy, 4, 1)

	env, _ := newTestEnvironment(g, thrower, enemy)
	mustPlace(t, env, domain.ObjectExplosiveBarrel, 5, 1)

	if _, err := env.Throw(thrower, "Frag Grenade", domain.Position{X: 7, Y: 1}); !errors.Is(err, domain.ErrInvalidTarget) {
		t.Fatalf("expected out of range, got %v", err)
	}

	effects, err := env.Throw(thrower, "Frag Grenade", domain.Position{X: 4, Y: 1})
	if err != nil {
		t.Fatalf("Throw: %v", err)
	}
	if len(effects) != 2 {
		t.Fatalf("grenade should set off the barrel, got %d effects", len(effects))
	}
	if want := 100 - 8 - domain.BarrelDamage; enemy.Health != want {
		t.Errorf("enemy Health = %d, want %d", enemy.Health, want)
	}
	if thrower.Item("Frag Grenade").Uses != 0 {
		t.Error("grenade should be spent")
	}

	if _, err := env.Throw(thrower, "Frag Grenade", domain.Position{X: 4, Y: 1}); !errors.Is(err, domain.ErrIllegalAction) {
		t.Errorf("expected no uses left, got %v", err)
	}
	if _, err := thrower.UseConsumable("Frag Grenade"); !errors.Is(err, domain.ErrIllegalAction) {
		t.Errorf("grenade cannot be used as a medkit, got %v", err)
	}
}

func TestEnvironment_PlaceRejectsDuplicates(t *testing.T) {
	g := createTestGrid(3, 3)
	env, _ := newTestEnvironment(g)
	mustPlace(t, env, domain.ObjectExplosiveBarrel, 1, 1)

	if err := env.Place(domain.NewEnvObject(domain.ObjectExplosiveBarrel, domain.Position{X: 1, Y: 1})); !errors.Is(err, domain.ErrConfigurationMissing) {
		t.Errorf("duplicate id should fail, got %v", err)
	}
	if err := env.Place(domain.NewEnvObject(domain.ObjectAcidPool, domain.Position{X: 5, Y: 5})); !errors.Is(err, domain.ErrConfigurationMissing) {
		t.Errorf("off-map object should fail, got %v", err)
	}
}

func TestCellScore_AvoidsHazards(t *testing.T) {
	g := createTestGrid(5, 5)
	u := newShooter("npc", domain.TeamEnemy)
	place(t, g, u, 0, 0)
	field := &fakeField{units: []*domain.Unit{u}}
	e := newTestEngine(g, field, &scriptedRand{})
	env, _ := newTestEnvironment(g, u)
	mustPlace(t, env, domain.ObjectLaserGrid, 2, 2)

	before := e.cellScore(u, domain.Position{X: 2, Y: 2}, domain.BehaviorAggressive)
	e.Env = env
	after := e.cellScore(u, domain.Position{X: 2, Y: 2}, domain.BehaviorAggressive)
	if before-after != e.Tuning.HazardPenalty {
		t.Errorf("hazard should cost %.1f, got %.1f", e.Tuning.HazardPenalty, before-after)
	}
	if e.cellScore(u, domain.Position{X: 2, Y: 3}, domain.BehaviorAggressive) != before {
		t.Error("cells next to the laser are not hazardous")
	}
}
