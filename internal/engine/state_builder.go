package engine

import (
	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
)

// State строит снимок боя для клиента. Мир видят все (тумана войны нет).
func (b *Battle) State() api.ServerResponse {
	resp := api.ServerResponse{
		Type:           "STATE",
		Round:          b.Scheduler.Round(),
		SchedulerState: b.Scheduler.State().String(),
		Grid:           &api.GridMeta{Width: b.Grid.Width, Height: b.Grid.Height, CellSize: b.Grid.CellSize},
		Map:            b.mapView(),
		Units:          make([]api.UnitView, 0, len(b.units)),
		Mission:        b.missionView(),
	}
	if active := b.Scheduler.Active(); active != nil {
		resp.ActiveUnitID = string(active.ID)
	}
	for _, id := range b.Scheduler.QueueOrder() {
		resp.Queue = append(resp.Queue, string(id))
	}
	for _, u := range b.units {
		resp.Units = append(resp.Units, toUnitView(u))
	}
	for _, o := range b.Env.Objects() {
		if o.Destroyed {
			continue
		}
		resp.Objects = append(resp.Objects, api.ObjectView{
			ID:     string(o.ID),
			Kind:   o.Kind.String(),
			Pos:    api.Point{X: o.Pos.X, Y: o.Pos.Y},
			Radius: o.Radius,
			Uses:   o.Uses,
		})
	}

	// Копия логов
	resp.Logs = make([]api.LogEntry, len(b.Logs))
	copy(resp.Logs, b.Logs)
	return resp
}

// mapView - только клетки с укрытием или особым рельефом
func (b *Battle) mapView() []api.TileView {
	var tiles []api.TileView
	for _, c := range b.Grid.Cells() {
		if c.Cover == domain.CoverNone && c.Terrain == domain.TerrainNormal {
			continue
		}
		tiles = append(tiles, api.TileView{
			X: c.Pos.X, Y: c.Pos.Y,
			Cover:     c.Cover.String(),
			Terrain:   c.Terrain.String(),
			Integrity: c.Integrity,
		})
	}
	return tiles
}

func (b *Battle) missionView() *api.MissionView {
	view := &api.MissionView{
		Type:           b.Mission.Type().String(),
		Status:         b.Mission.Status().String(),
		TurnsRemaining: b.Mission.TurnsRemaining(),
	}
	for _, o := range b.Mission.Objectives() {
		view.Objectives = append(view.Objectives, api.ObjectiveView{
			Description: o.Description,
			Progress:    o.Progress,
			Required:    o.Required,
			Completed:   o.Completed,
		})
	}
	return view
}

// toUnitView конвертирует доменного юнита в DTO для отправки клиенту.
func toUnitView(u *domain.Unit) api.UnitView {
	view := api.UnitView{
		ID:              string(u.ID),
		Name:            u.Name,
		Team:            u.Team.String(),
		Pos:             api.Point{X: u.Pos.X, Y: u.Pos.Y},
		Health:          u.Health,
		MaxHealth:       u.MaxHealth,
		ActionPoints:    u.ActionPoints,
		MaxActionPoints: u.MaxActionPoints,
		Accuracy:        u.EffectiveAccuracy(),
		Defense:         u.Defense(),
		Facing:          u.Facing,
		IsDead:          u.Dead,
		IsVIP:           u.IsVIP,
	}
	if u.Class != nil {
		view.Class = u.Class.Type.String()
		if u.Class.Tree != nil {
			view.Skills = u.Class.Tree.Available()
		}
	}
	if u.Boss != nil {
		view.BossPhase = u.Boss.Phase
	}
	if p := u.Progression; p != nil {
		view.Level = p.Level
		view.Experience = p.Experience
		view.SkillPoints = p.SkillPoints
	}

	if w := u.Weapon; w != nil {
		view.Weapon = &api.WeaponView{
			Name:      w.Name,
			Type:      w.Type.String(),
			MinDamage: w.MinDamage,
			MaxDamage: w.MaxDamage,
			Range:     u.EffectiveAttackRange(),
			Ammo:      w.Ammo,
			Capacity:  w.AmmoCapacity,
		}
	}
	for _, a := range u.Abilities {
		view.Abilities = append(view.Abilities, api.AbilityView{
			Name:     a.Name,
			Kind:     a.Kind.String(),
			Cost:     a.Cost,
			Cooldown: a.CurrentCooldown,
			Ready:    a.Ready(),
		})
	}
	for _, e := range u.Equipment {
		view.Equipment = append(view.Equipment, api.ItemView{
			Name:     e.Name,
			Type:     e.Type.String(),
			Equipped: e.Equipped,
			Uses:     e.Uses,
		})
	}
	return view
}
