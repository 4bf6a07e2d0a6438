package systems

import (
	"errors"
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

func TestUseAbility_SupportSelfBuff(t *testing.T) {
	g := createTestGrid(5, 5)
	u := newShooter("heavy", domain.TeamPlayer)
	u.GrantAbility(domain.HunkerDown())
	place(t, g, u, 2, 2)
	r := newTestResolver(g, &scriptedRand{})

	res, err := r.UseAbility(u, u, "Hunker Down")
	if err != nil {
		t.Fatalf("UseAbility failed: %v", err)
	}
	if res.Buff == nil || u.Defense() != 40 {
		t.Fatalf("Expected +40 defense buff, got defense %d", u.Defense())
	}
	if u.ActionPoints != domain.DefaultActionPoints-1 {
		t.Errorf("Expected 1 AP spent, got %d left", u.ActionPoints)
	}

	// Бафф на себя переживает начало следующего хода
	u.ResetForTurn()
	if u.Defense() != 40 {
		t.Error("Self buff should still be active during the next own turn")
	}

	if _, err := r.UseAbility(u, u, "Hunker Down"); !errors.Is(err, domain.ErrIllegalAction) {
		t.Errorf("Ability on cooldown should be ErrIllegalAction, got %v", err)
	}
	if u.ActionPoints != domain.DefaultActionPoints {
		t.Error("Rejected ability must not spend AP")
	}
}

func TestUseAbility_MedikitTargets(t *testing.T) {
	g := createTestGrid(6, 6)
	medic := newShooter("medic", domain.TeamPlayer)
	medic.GrantAbility(domain.Medikit())
	near := newShooter("near", domain.TeamPlayer)
	far := newShooter("far", domain.TeamPlayer)
	enemy := newShooter("enemy", domain.TeamEnemy)
	place(t, g, medic, 0, 0)
	place(t, g, near, 1, 0)
	place(t, g, far, 4, 0)
	place(t, g, enemy, 0, 1)
	near.Health, far.Health, enemy.Health = 50, 50, 50
	r := newTestResolver(g, &scriptedRand{})

	if _, err := r.UseAbility(medic, enemy, "Medikit"); !errors.Is(err, domain.ErrInvalidTarget) {
		t.Errorf("Healing an enemy should be ErrInvalidTarget, got %v", err)
	}
	if _, err := r.UseAbility(medic, far, "Medikit"); !errors.Is(err, domain.ErrIllegalAction) {
		t.Errorf("Out of range heal should be ErrIllegalAction, got %v", err)
	}
	if medic.Ability("Medikit").CurrentCooldown != 0 {
		t.Error("Rejected ability must not start cooldown")
	}

	res, err := r.UseAbility(medic, near, "Medikit")
	if err != nil {
		t.Fatalf("UseAbility failed: %v", err)
	}
	if res.Healed != 20 || near.Health != 70 {
		t.Errorf("Expected 20 healed, got %d (hp=%d)", res.Healed, near.Health)
	}
	if medic.Ability("Medikit").CurrentCooldown != 1 {
		t.Error("Medikit should be on cooldown after use")
	}
}

func TestUseAbility_OffensiveStrike(t *testing.T) {
	g := createTestGrid(5, 5)
	sniper := newShooter("sniper", domain.TeamPlayer)
	sniper.GrantAbility(domain.Headshot())
	target := newShooter("target", domain.TeamEnemy)
	place(t, g, sniper, 0, 0)
	place(t, g, target, 2, 0)

	// Стена между ними
	g.SetCover(domain.Position{X: 1, Y: 0}, domain.CoverFull)
	r := newTestResolver(g, &scriptedRand{floats: []float64{0.1}})
	if _, err := r.UseAbility(sniper, target, "Headshot"); !errors.Is(err, domain.ErrIllegalAction) {
		t.Errorf("Blocked line of sight should be ErrIllegalAction, got %v", err)
	}
	if sniper.ActionPoints != domain.DefaultActionPoints || sniper.Ability("Headshot").CurrentCooldown != 0 {
		t.Fatal("Rejected strike must not mutate the user")
	}

	g.SetCover(domain.Position{X: 1, Y: 0}, domain.CoverNone)
	res, err := r.UseAbility(sniper, target, "Headshot")
	if err != nil {
		t.Fatalf("UseAbility failed: %v", err)
	}
	if res.Attack == nil || !res.Attack.Hit {
		t.Fatalf("Expected a hit, got %+v", res.Attack)
	}
	// 10 оружие + 5 бонус способности
	if res.Attack.Damage != 15 {
		t.Errorf("Expected 15 damage, got %d", res.Attack.Damage)
	}
	if sniper.ActionPoints != 0 || sniper.Ability("Headshot").CurrentCooldown != 3 {
		t.Errorf("Headshot should cost 2 AP and start a 3 turn cooldown: ap=%d cd=%d",
			sniper.ActionPoints, sniper.Ability("Headshot").CurrentCooldown)
	}
}

func TestUseAbility_Unknown(t *testing.T) {
	g := createTestGrid(3, 3)
	u := newShooter("u", domain.TeamPlayer)
	place(t, g, u, 0, 0)
	r := newTestResolver(g, &scriptedRand{})

	if _, err := r.UseAbility(u, u, "Teleport"); !errors.Is(err, domain.ErrIllegalAction) {
		t.Errorf("Unknown ability should be ErrIllegalAction, got %v", err)
	}
}
