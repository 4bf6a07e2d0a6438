package engine

import (
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBattle_EquipCyclingDoesNotHeal(t *testing.T) {
	p1 := soldier("p1", 0, 0)
	p1.Equipment = []*domain.Equipment{{Name: "Kevlar Vest", Type: domain.EquipmentArmor, ArmorBonus: 10}}
	require.NoError(t, p1.Equip("Kevlar Vest"))
	p1.TakeDamage(60)

	b, _ := newFixedBattle(t, bossSetup(), p1, hostile("boss", 11, 11))
	require.NoError(t, b.Start())
	require.Equal(t, p1, b.Scheduler.Active())

	hp, maxHP, ap := p1.Health, p1.MaxHealth, p1.ActionPoints
	require.Equal(t, 40, hp)
	require.Equal(t, 110, maxHP)

	item := api.ItemPayload{Item: "Kevlar Vest"}
	for i := 0; i < 6; i++ {
		_, err := b.Execute(command(domain.ActionUnequip, "p1", item))
		require.NoError(t, err)
		_, err = b.Execute(command(domain.ActionEquip, "p1", item))
		require.NoError(t, err)
	}

	assert.Equal(t, hp, p1.Health, "swapping armor must not restore health")
	assert.Equal(t, maxHP, p1.MaxHealth)
	assert.Equal(t, ap, p1.ActionPoints)
	require.NoError(t, b.CheckInvariants())
}
