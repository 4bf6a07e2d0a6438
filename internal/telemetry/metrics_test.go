package telemetry

import (
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestMetrics_CountsBattleEvents(t *testing.T) {
	m, err := New(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	events := []domain.Event{
		{Type: domain.EventRoundStarted, Payload: engine.RoundStarted{Round: 1}},
		{Type: domain.EventTurnStarted, UnitID: "p1", Payload: engine.TurnStarted{ActionPoints: 2}},
		{Type: domain.EventAttackResolved, Payload: systems.AttackResult{Hit: true, Critical: true, Damage: 7}},
		{Type: domain.EventAttackResolved, Payload: systems.AttackResult{Hit: false}},
		{Type: domain.EventUnitDied, Payload: engine.UnitDied{UnitID: "e1", Team: "ENEMY"}},
		{Type: domain.EventMissionStatusChanged, Payload: engine.StatusChanged{Mission: "ELIMINATION", Status: "COMPLETED"}},
		{Type: domain.EventUnitMoved, Payload: systems.Moved{}},
	}
	for _, e := range events {
		m.Publish(e)
	}

	got := m.Totals()
	if got.Rounds != 1 || got.Activations != 1 {
		t.Errorf("Expected 1 round and 1 activation, got %+v", got)
	}
	if got.Attacks != 2 || got.Hits != 1 || got.Crits != 1 {
		t.Errorf("Expected 2 attacks, 1 hit, 1 crit, got %+v", got)
	}
	if got.Kills["ENEMY"] != 1 {
		t.Errorf("Expected 1 enemy kill, got %v", got.Kills)
	}
	if got.Outcomes["COMPLETED"] != 1 {
		t.Errorf("Expected 1 completed mission, got %v", got.Outcomes)
	}

	// Копия не связана с внутренним состоянием
	got.Kills["ENEMY"] = 100
	if m.Totals().Kills["ENEMY"] != 1 {
		t.Error("Totals must return a copy")
	}
}

func TestMeter_GlobalNoop(t *testing.T) {
	if _, err := New(Meter("test")); err != nil {
		t.Fatalf("New(Meter) error = %v", err)
	}
}
