package engine

import (
	"context"
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBattle_AutoTurnHandsOverToNextSoldier(t *testing.T) {
	b, rec := newFixedBattle(t, bossSetup(), soldier("p1", 0, 0), soldier("p2", 0, 2), hostile("boss", 11, 11))
	require.NoError(t, b.Start())

	_, err := b.AutoTurn("p2")
	assert.ErrorIs(t, err, domain.ErrIllegalAction, "p2 waits for its turn")

	_, err = b.AutoTurn("boss")
	assert.ErrorIs(t, err, domain.ErrIllegalAction)

	next, err := b.AutoTurn("p1")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitID("p2"), next)

	ended := rec.ofType(domain.EventTurnEnded)
	require.NotEmpty(t, ended)
	assert.Equal(t, domain.UnitID("p1"), ended[0].UnitID)
	require.NoError(t, b.CheckInvariants())
}

func TestBattle_AutoTurnRejectedWhenOver(t *testing.T) {
	p1 := soldier("p1", 0, 0)
	boss := hostile("boss", 1, 0)
	boss.MaxHealth, boss.Health = 1, 1

	b, _ := newFixedBattle(t, bossSetup(), p1, boss)
	require.NoError(t, b.Start())

	_, err := b.Execute(command(domain.ActionAttack, "p1", api.EntityPayload{TargetID: "boss"}))
	require.NoError(t, err)
	require.True(t, b.Over())

	_, err = b.AutoTurn("p1")
	assert.ErrorIs(t, err, domain.ErrIllegalAction)
}

func TestSession_AutoPlay(t *testing.T) {
	b, _ := newFixedBattle(t, bossSetup(), soldier("p1", 0, 0), soldier("p2", 0, 2), hostile("boss", 11, 11))
	s, cancel, done := startSession(t, b)
	defer func() {
		cancel()
		<-done
	}()

	next, err := s.AutoPlay(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitID("p2"), next)
}
