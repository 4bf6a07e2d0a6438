package engine

import (
	"encoding/json"
	"os"
	"sync"
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/mission"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fixedRand: всегда попадание, без крита, минимальный урон, порядок ходов = порядок регистрации
type fixedRand struct{}

func (fixedRand) Float64() float64            { return 0 }
func (fixedRand) Intn(int) int                { return 0 }
func (fixedRand) Shuffle(int, func(i, j int)) {}

// recorder собирает события (потокобезопасно, для тестов сессии)
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(t domain.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) ofType(t domain.EventType) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func soldier(id string, x, y int) *domain.Unit {
	u := domain.NewUnit(domain.UnitID(id), id, domain.TeamPlayer)
	u.Pos = domain.Position{X: x, Y: y}
	u.Weapon = &domain.Weapon{Name: "Rifle", Type: domain.WeaponAssaultRifle, MinDamage: 3, MaxDamage: 5}
	u.Progression = domain.NewProgression()
	return u
}

func hostile(id string, x, y int) *domain.Unit {
	u := domain.NewUnit(domain.UnitID(id), id, domain.TeamEnemy)
	u.Pos = domain.Position{X: x, Y: y}
	u.Weapon = &domain.Weapon{Name: "Plasma", Type: domain.WeaponAssaultRifle, MinDamage: 3, MaxDamage: 5}
	return u
}

func testConfig() Config {
	cfg := NewConfig()
	cfg.Seed = 42
	return cfg
}

func bossSetup() mission.Setup {
	return mission.Setup{Type: domain.MissionBossEncounter, TurnBudget: 10, BossID: "boss"}
}

// newFixedBattle - бой с предсказуемым ГСЧ
func newFixedBattle(t *testing.T, setup mission.Setup, units ...*domain.Unit) (*Battle, *recorder) {
	t.Helper()
	rec := &recorder{}
	b, err := NewBattle(testConfig(), domain.NewGrid(12, 12, 1), units, setup, rec)
	require.NoError(t, err)

	r := fixedRand{}
	b.Resolver.Rng = r
	b.AI.Rng = r
	b.Scheduler.rng = r
	return b, rec
}

func command(action domain.ActionType, token string, payload any) domain.InternalCommand {
	cmd := domain.InternalCommand{Action: action, Token: domain.UnitID(token)}
	if payload != nil {
		raw, _ := json.Marshal(payload)
		cmd.Payload = raw
	}
	return cmd
}

func TestNewBattle_RejectsBadSetup(t *testing.T) {
	_, err := NewBattle(testConfig(), domain.NewGrid(5, 5, 1),
		[]*domain.Unit{soldier("p1", 0, 0), soldier("p1", 1, 1), hostile("boss", 4, 4)}, bossSetup(), nil)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing, "duplicate ids")

	_, err = NewBattle(testConfig(), domain.NewGrid(5, 5, 1),
		[]*domain.Unit{soldier("p1", 0, 0), hostile("boss", 0, 0)}, bossSetup(), nil)
	assert.ErrorIs(t, err, domain.ErrIllegalAction, "two units on one cell")

	_, err = NewBattle(testConfig(), domain.NewGrid(5, 5, 1),
		[]*domain.Unit{soldier("p1", 0, 0), hostile("e1", 4, 4)}, bossSetup(), nil)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing, "boss is missing")

	_, err = NewBattle(testConfig(), nil, nil, bossSetup(), nil)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing, "no grid")
}

func TestNewBattle_FailureLeavesGridClean(t *testing.T) {
	grid := domain.NewGrid(5, 5, 1)
	p1 := soldier("p1", 0, 0)
	maxHealth := p1.MaxHealth

	_, err := NewBattle(testConfig(), grid,
		[]*domain.Unit{p1, soldier("p2", 1, 1), hostile("boss", 1, 1)}, bossSetup(), nil)
	require.ErrorIs(t, err, domain.ErrIllegalAction)
	assert.Zero(t, grid.OccupiedCount(), "cells of already placed units are freed")

	_, err = NewBattle(testConfig(), grid,
		[]*domain.Unit{p1, hostile("e1", 4, 4)}, bossSetup(), nil)
	require.ErrorIs(t, err, domain.ErrConfigurationMissing)
	assert.Zero(t, grid.OccupiedCount(), "tracker failure frees cells too")
	assert.Equal(t, maxHealth, p1.MaxHealth, "rejected battle does not scale health")

	b, err := NewBattle(testConfig(), grid,
		[]*domain.Unit{p1, hostile("boss", 4, 4)}, bossSetup(), nil)
	require.NoError(t, err, "the same grid is reusable after a failure")
	assert.Equal(t, 2, grid.OccupiedCount())
	assert.NoError(t, b.CheckInvariants())
}

func TestBattle_DeathHandledExactlyOnce(t *testing.T) {
	p1 := soldier("p1", 0, 0)
	e1 := hostile("e1", 1, 0)
	e1.MaxHealth, e1.Health = 1, 1
	boss := hostile("boss", 11, 11)

	b, rec := newFixedBattle(t, bossSetup(), p1, e1, boss)
	require.NoError(t, b.Start())
	require.Equal(t, p1, b.Scheduler.Active())

	_, err := b.Execute(command(domain.ActionAttack, "p1", api.EntityPayload{TargetID: "e1"}))
	require.NoError(t, err)

	assert.True(t, e1.Dead)
	cell, _ := b.Grid.CellAt(domain.Position{X: 1, Y: 0})
	assert.False(t, cell.Occupied, "dead unit must free its cell")
	assert.False(t, b.Scheduler.turns.Contains("e1"), "dead unit must leave the queue")
	assert.Equal(t, 1, rec.count(domain.EventUnitDied))
	assert.Equal(t, 1, rec.count(domain.EventAttackResolved))
	assert.Equal(t, 50, p1.Progression.Experience, "kill experience")
	require.NoError(t, b.CheckInvariants())

	// Второй выстрел по трупу отклоняется и ничего не меняет
	_, err = b.Execute(command(domain.ActionAttack, "p1", api.EntityPayload{TargetID: "e1"}))
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
	assert.Equal(t, 1, rec.count(domain.EventUnitDied))
	assert.Equal(t, 1, p1.ActionPoints)
	assert.Equal(t, p1, b.Scheduler.Active())
}

func TestBattle_RejectsCommandsOutOfTurn(t *testing.T) {
	p1 := soldier("p1", 0, 0)
	p2 := soldier("p2", 0, 2)
	boss := hostile("boss", 11, 11)

	b, _ := newFixedBattle(t, bossSetup(), p1, p2, boss)
	require.NoError(t, b.Start())

	_, err := b.Execute(command(domain.ActionMove, "p2", api.PositionPayload{X: 1, Y: 2}))
	assert.ErrorIs(t, err, domain.ErrIllegalAction, "p2 is not active")
	assert.Equal(t, domain.Position{X: 0, Y: 2}, p2.Pos)

	_, err = b.Execute(command(domain.ActionEndTurn, "boss", nil))
	assert.ErrorIs(t, err, domain.ErrIllegalAction, "enemy units are not driven by commands")

	_, err = b.Execute(command(domain.ActionAttack, "p1", api.EntityPayload{}))
	assert.ErrorIs(t, err, domain.ErrIllegalAction, "payload validation")

	_, err = b.Execute(command(domain.ActionUnknown, "p1", nil))
	assert.ErrorIs(t, err, domain.ErrIllegalAction)

	_, err = b.Execute(command(domain.ActionAttack, "p1", api.EntityPayload{TargetID: "p2"}))
	assert.ErrorIs(t, err, domain.ErrInvalidTarget, "friendly fire")
	assert.Equal(t, 2, p1.ActionPoints)

	// STATE доступен всем
	res, err := b.Execute(command(domain.ActionState, "p2", nil))
	require.NoError(t, err)
	state, ok := res.State.(api.ServerResponse)
	require.True(t, ok)
	assert.Equal(t, "p1", state.ActiveUnitID)
	assert.Equal(t, "UNIT_ACTIVE", state.SchedulerState)
	assert.Len(t, state.Units, 3)
	assert.Equal(t, "BOSS_ENCOUNTER", state.Mission.Type)
}

func TestBattle_TurnEndsWhenActionPointsRunOut(t *testing.T) {
	p1 := soldier("p1", 0, 0)
	p2 := soldier("p2", 0, 2)
	boss := hostile("boss", 11, 11)

	b, rec := newFixedBattle(t, bossSetup(), p1, p2, boss)
	require.NoError(t, b.Start())

	_, err := b.Execute(command(domain.ActionMove, "p1", api.PositionPayload{X: 1, Y: 0}))
	require.NoError(t, err)
	assert.Equal(t, p1, b.Scheduler.Active(), "one AP left")
	assert.Equal(t, 1, rec.count(domain.EventUnitMoved))

	_, err = b.Execute(command(domain.ActionMove, "p1", api.PositionPayload{X: 2, Y: 0}))
	require.NoError(t, err)
	assert.Equal(t, p2, b.Scheduler.Active(), "turn passes automatically at 0 AP")

	ended := rec.ofType(domain.EventTurnEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, domain.UnitID("p1"), ended[0].UnitID)
	require.NoError(t, b.CheckInvariants())
}

func TestBattle_EveryLivingUnitActsOncePerRound(t *testing.T) {
	units := []*domain.Unit{
		soldier("p1", 0, 0), soldier("p2", 1, 0),
		hostile("e1", 11, 11), hostile("e2", 10, 11),
	}
	setup := mission.Setup{Type: domain.MissionDefendPosition, TurnBudget: 10, DefensePosition: &domain.Position{X: 0, Y: 0}}

	rec := &recorder{}
	b, err := NewBattle(testConfig(), domain.NewGrid(12, 12, 1), units, setup, rec)
	require.NoError(t, err)
	require.NoError(t, b.Start())

	for i := 0; b.Scheduler.Round() <= 3; i++ {
		require.Less(t, i, 50, "battle did not progress")
		require.False(t, b.Over())
		active := b.Scheduler.Active()
		require.NotNil(t, active)
		require.False(t, active.IsAI())
		_, err := b.Execute(command(domain.ActionEndTurn, string(active.ID), nil))
		require.NoError(t, err)
	}

	perRound := map[int][]domain.UnitID{}
	for _, e := range rec.ofType(domain.EventTurnStarted) {
		perRound[e.Round] = append(perRound[e.Round], e.UnitID)
	}
	for round := 1; round <= 3; round++ {
		assert.ElementsMatch(t, []domain.UnitID{"p1", "p2", "e1", "e2"}, perRound[round], "round %d", round)
	}
	assert.Equal(t, 4, rec.count(domain.EventRoundStarted))
	require.NoError(t, b.CheckInvariants())
}

func TestBattle_MissionCompletionGrantsExperience(t *testing.T) {
	p1 := soldier("p1", 0, 0)
	boss := hostile("boss", 1, 0)
	boss.MaxHealth, boss.Health = 1, 1

	b, rec := newFixedBattle(t, bossSetup(), p1, boss)
	require.NoError(t, b.Start())

	_, err := b.Execute(command(domain.ActionAttack, "p1", api.EntityPayload{TargetID: "boss"}))
	require.NoError(t, err)

	assert.True(t, b.Over())
	assert.Equal(t, mission.StatusCompleted, b.Mission.Status())
	assert.Equal(t, 1, rec.count(domain.EventMissionStatusChanged))
	// 50 за убийство + 100 за миссию = уровень 2 и 50 в запасе
	assert.Equal(t, 2, p1.Progression.Level)
	assert.Equal(t, 50, p1.Progression.Experience)
	assert.Equal(t, 2, p1.Progression.SkillPoints)
	assert.Equal(t, 1, rec.count(domain.EventLevelUp))

	_, err = b.Execute(command(domain.ActionEndTurn, "p1", nil))
	assert.ErrorIs(t, err, domain.ErrIllegalAction, "mission is over")
}

func TestBattle_CaptureTurnsTheOfficer(t *testing.T) {
	officer := hostile("v", 3, 0)
	officer.IsVIP = true
	setup := mission.Setup{Type: domain.MissionCapture, TurnBudget: 10, VIPID: "v", ExtractionPoint: &domain.Position{X: 0, Y: 5}}

	b, rec := newFixedBattle(t, setup, soldier("p1", 0, 0), officer, hostile("e1", 9, 9))
	require.NoError(t, b.Start())
	assert.Equal(t, domain.TeamEnemy, officer.Team, "nobody is next to the officer yet")

	_, err := b.Execute(command(domain.ActionMove, "p1", api.PositionPayload{X: 2, Y: 0}))
	require.NoError(t, err)
	b.Mission.CheckObjectives(b)

	assert.Equal(t, domain.TeamPlayer, officer.Team)
	assert.False(t, officer.IsAI())
	assert.True(t, b.Mission.Objectives()[0].Completed)
	assert.False(t, b.Over(), "officer still has to reach extraction")
	assert.NotZero(t, rec.count(domain.EventObjectiveUpdated))
	require.NoError(t, b.CheckInvariants())
}

func TestBattle_SnapshotRoundTrip(t *testing.T) {
	p1 := soldier("p1", 0, 0)
	p1.Class = domain.NewSoldierClass(domain.ClassSupport)
	p1.Progression.SkillPoints = 1
	p2 := soldier("p2", 0, 2)
	boss := hostile("boss", 11, 11)

	b, _ := newFixedBattle(t, bossSetup(), p1, p2, boss)
	b.Grid.SetCover(domain.Position{X: 5, Y: 5}, domain.CoverFull)
	require.NoError(t, b.Start())

	_, err := b.Execute(command(domain.ActionUnlockSkill, "p1", api.SkillPayload{Skill: "Medikit"}))
	require.NoError(t, err)
	_, err = b.Execute(command(domain.ActionMove, "p1", api.PositionPayload{X: 1, Y: 0}))
	require.NoError(t, err)

	snap := b.Snapshot()
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	// Снимок не зависит от дальнейших изменений боя
	p1.Health = 1

	var decoded BattleSnapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored, err := RestoreBattle(testConfig(), decoded, nil)
	require.NoError(t, err)
	require.NoError(t, restored.Start())

	rp1 := restored.Unit("p1")
	require.NotNil(t, rp1)
	assert.Equal(t, rp1, restored.Scheduler.Active())
	assert.Equal(t, 1, rp1.ActionPoints, "active unit keeps its AP")
	assert.Equal(t, domain.Position{X: 1, Y: 0}, rp1.Pos)
	assert.Equal(t, 100, rp1.Health)
	assert.NotNil(t, rp1.Ability("Medikit"))
	assert.Equal(t, b.Scheduler.Round(), restored.Scheduler.Round())
	assert.Equal(t, b.Scheduler.QueueOrder(), restored.Scheduler.QueueOrder())
	assert.Equal(t, b.Mission.Objectives(), restored.Mission.Objectives())
	assert.Equal(t, b.Mission.TurnsRemaining(), restored.Mission.TurnsRemaining())
	assert.Equal(t, domain.MissionBossEncounter, restored.MissionType())
	assert.Equal(t, domain.CoverFull, restored.Grid.CoverAt(domain.Position{X: 5, Y: 5}))
	require.NoError(t, restored.CheckInvariants())

	// Уже открытый навык не открывается повторно
	_, err = restored.Execute(command(domain.ActionUnlockSkill, "p1", api.SkillPayload{Skill: "Medikit"}))
	require.NoError(t, err)
	assert.Len(t, rp1.Abilities, 1)
}

func TestRestoreBattle_RejectsInconsistentSnapshot(t *testing.T) {
	b, _ := newFixedBattle(t, bossSetup(), soldier("p1", 0, 0), hostile("boss", 11, 11))
	require.NoError(t, b.Start())

	snap := b.Snapshot()
	snap.Active = "ghost"
	_, err := RestoreBattle(testConfig(), snap, nil)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)

	snap = b.Snapshot()
	snap.Units[0].Pos = domain.Position{X: 3, Y: 3}
	_, err = RestoreBattle(testConfig(), snap, nil)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing, "unit off its cell")
}

func TestBattle_SkirmishRunsToTerminalState(t *testing.T) {
	units := []*domain.Unit{
		soldier("p1", 0, 0), soldier("p2", 1, 0),
		hostile("e1", 6, 6), hostile("e2", 7, 6),
	}
	setup := mission.Setup{Type: domain.MissionElimination, TurnBudget: 4, ExtractionPoint: &domain.Position{X: 11, Y: 11}}

	rec := &recorder{}
	b, err := NewBattle(testConfig(), domain.NewGrid(12, 12, 1), units, setup, rec)
	require.NoError(t, err)
	require.NoError(t, b.Start())

	for i := 0; !b.Over(); i++ {
		require.Less(t, i, 100, "battle did not terminate")
		active := b.Scheduler.Active()
		require.NotNil(t, active)
		_, err := b.Execute(command(domain.ActionEndTurn, string(active.ID), nil))
		require.NoError(t, err)
	}

	assert.Equal(t, mission.StatusFailed, b.Mission.Status())
	assert.Equal(t, 1, rec.count(domain.EventMissionStatusChanged))
	assert.Nil(t, b.Scheduler.Active())
	assert.Equal(t, StateIdle, b.Scheduler.State())
	require.NoError(t, b.CheckInvariants())
}
