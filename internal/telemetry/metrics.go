package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/BastardoSenpai/BootlegXCom/internal/telemetry"

// Meter - глобальный meter (no-op, пока провайдер не настроен)
func Meter(serviceName string) metric.Meter {
	return otel.Meter(instrumentationName,
		metric.WithInstrumentationAttributes(attribute.String("service.name", serviceName)))
}

// Totals - локальные итоги боя, дублируют счетчики otel
type Totals struct {
	Attacks     int64            `json:"attacks"`
	Hits        int64            `json:"hits"`
	Crits       int64            `json:"crits"`
	Kills       map[string]int64 `json:"kills"` // по команде погибшего
	Activations int64            `json:"activations"`
	Rounds      int64            `json:"rounds"`
	Outcomes    map[string]int64 `json:"outcomes"` // по статусу миссии
}

// Metrics считает события боя. Реализует domain.EventSink.
type Metrics struct {
	attacks     metric.Int64Counter
	hits        metric.Int64Counter
	crits       metric.Int64Counter
	damage      metric.Int64Histogram
	kills       metric.Int64Counter
	activations metric.Int64Counter
	rounds      metric.Int64Counter
	outcomes    metric.Int64Counter

	mu     sync.Mutex
	totals Totals
}

// New создает инструменты на meter m
func New(m metric.Meter) (*Metrics, error) {
	x := &Metrics{totals: Totals{Kills: map[string]int64{}, Outcomes: map[string]int64{}}}

	var err error
	if x.attacks, err = m.Int64Counter("battle.attacks", metric.WithDescription("Resolved attacks")); err != nil {
		return nil, fmt.Errorf("creating attacks counter: %w", err)
	}
	if x.hits, err = m.Int64Counter("battle.hits", metric.WithDescription("Attacks that hit")); err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}
	if x.crits, err = m.Int64Counter("battle.crits", metric.WithDescription("Critical hits")); err != nil {
		return nil, fmt.Errorf("creating crits counter: %w", err)
	}
	if x.damage, err = m.Int64Histogram("battle.damage", metric.WithDescription("Damage per hit")); err != nil {
		return nil, fmt.Errorf("creating damage histogram: %w", err)
	}
	if x.kills, err = m.Int64Counter("battle.kills", metric.WithDescription("Units killed")); err != nil {
		return nil, fmt.Errorf("creating kills counter: %w", err)
	}
	if x.activations, err = m.Int64Counter("battle.activations", metric.WithDescription("Unit turns started")); err != nil {
		return nil, fmt.Errorf("creating activations counter: %w", err)
	}
	if x.rounds, err = m.Int64Counter("battle.rounds", metric.WithDescription("Rounds started")); err != nil {
		return nil, fmt.Errorf("creating rounds counter: %w", err)
	}
	if x.outcomes, err = m.Int64Counter("battle.mission.outcomes", metric.WithDescription("Mission terminal statuses")); err != nil {
		return nil, fmt.Errorf("creating outcomes counter: %w", err)
	}
	return x, nil
}

// Publish - domain.EventSink. Вызывается из горутины боя.
func (x *Metrics) Publish(e domain.Event) {
	ctx := context.Background()

	x.mu.Lock()
	defer x.mu.Unlock()

	switch p := e.Payload.(type) {
	case systems.AttackResult:
		attrs := metric.WithAttributes(attribute.Bool("ability", p.Ability != ""))
		x.attacks.Add(ctx, 1, attrs)
		x.totals.Attacks++
		if p.Hit {
			x.hits.Add(ctx, 1, attrs)
			x.damage.Record(ctx, int64(p.Damage), attrs)
			x.totals.Hits++
		}
		if p.Critical {
			x.crits.Add(ctx, 1, attrs)
			x.totals.Crits++
		}
	case engine.UnitDied:
		x.kills.Add(ctx, 1, metric.WithAttributes(attribute.String("team", p.Team)))
		x.totals.Kills[p.Team]++
	case engine.TurnStarted:
		x.activations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ai", p.AI)))
		x.totals.Activations++
	case engine.RoundStarted:
		x.rounds.Add(ctx, 1)
		x.totals.Rounds++
	case engine.StatusChanged:
		x.outcomes.Add(ctx, 1, metric.WithAttributes(
			attribute.String("mission", p.Mission),
			attribute.String("status", p.Status),
		))
		x.totals.Outcomes[p.Status]++
	}
}

// Totals возвращает копию итогов
func (x *Metrics) Totals() Totals {
	x.mu.Lock()
	defer x.mu.Unlock()

	t := x.totals
	t.Kills = make(map[string]int64, len(x.totals.Kills))
	for k, v := range x.totals.Kills {
		t.Kills[k] = v
	}
	t.Outcomes = make(map[string]int64, len(x.totals.Outcomes))
	for k, v := range x.totals.Outcomes {
		t.Outcomes[k] = v
	}
	return t
}
