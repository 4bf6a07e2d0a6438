package domain

import (
	"fmt"
	"strings"
)

// ObjectID - идентификатор объекта окружения
type ObjectID string

// ObjectKind - вид объекта окружения
type ObjectKind uint8

const (
	ObjectAcidPool ObjectKind = iota
	ObjectLaserGrid
	ObjectHealingStation
	ObjectExplosiveBarrel
	ObjectCoverGenerator
)

var objectKindToString = map[ObjectKind]string{
	ObjectAcidPool:        "ACID_POOL",
	ObjectLaserGrid:       "LASER_GRID",
	ObjectHealingStation:  "HEALING_STATION",
	ObjectExplosiveBarrel: "EXPLOSIVE_BARREL",
	ObjectCoverGenerator:  "COVER_GENERATOR",
}

func (k ObjectKind) String() string {
	if s, ok := objectKindToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

func ParseObjectKind(s string) (ObjectKind, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for k, name := range objectKindToString {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Параметры объектов и гранаты
const (
	AcidEntryDamage   = 4
	AcidDamagePerTurn = 2
	AcidTurns         = 3
	AcidSource        = "Acid"

	LaserDamage = 6

	StationHealAmount = 20
	StationUses       = 2

	BarrelDamage = 10
	BarrelRadius = 1.5

	GeneratorRadius = 1
	GeneratorUses   = 1

	APCostInteract = 1
	APCostThrow    = 1
)

// EnvObject - объект окружения. Клетку не занимает, ходить по нему можно.
// Hazard-объекты (кислота, лазер) срабатывают, когда юнит заканчивает движение в зоне,
// остальные - через INTERACT или от взрыва.
type EnvObject struct {
	ID         ObjectID   `json:"id"`
	Kind       ObjectKind `json:"kind"`
	Pos        Position   `json:"pos"`
	Damage     int        `json:"damage,omitempty"`
	HealAmount int        `json:"healAmount,omitempty"`
	Radius     float64    `json:"radius,omitempty"` // 0 - только своя клетка
	Uses       int        `json:"uses,omitempty"`   // для INTERACT; 0 у hazard-объектов
	Destroyed  bool       `json:"destroyed,omitempty"`
}

// NewEnvObject создает объект с параметрами по умолчанию для вида
func NewEnvObject(kind ObjectKind, pos Position) *EnvObject {
	o := &EnvObject{
		ID:   ObjectID(fmt.Sprintf("%s_%d_%d", strings.ToLower(kind.String()), pos.X, pos.Y)),
		Kind: kind,
		Pos:  pos,
	}
	switch kind {
	case ObjectAcidPool:
		o.Damage, o.Radius = AcidEntryDamage, 1
	case ObjectLaserGrid:
		o.Damage = LaserDamage
	case ObjectHealingStation:
		o.HealAmount, o.Uses = StationHealAmount, StationUses
	case ObjectExplosiveBarrel:
		o.Damage, o.Radius = BarrelDamage, BarrelRadius
	case ObjectCoverGenerator:
		o.Radius, o.Uses = GeneratorRadius, GeneratorUses
	}
	return o
}

// IsHazard - срабатывает сам при входе в зону
func (o *EnvObject) IsHazard() bool {
	return o.Kind == ObjectAcidPool || o.Kind == ObjectLaserGrid
}

// Covers - попадает ли клетка в зону объекта
func (o *EnvObject) Covers(pos Position) bool {
	return !o.Destroyed && o.Pos.DistanceTo(pos) <= o.Radius
}

// Reaches - юнит стоит на объекте или рядом
func (o *EnvObject) Reaches(pos Position) bool {
	return o.Pos == pos || o.Pos.IsAdjacent(pos)
}

// Clone - копия для снапшота
func (o *EnvObject) Clone() *EnvObject {
	c := *o
	return &c
}

// AcidBurn - статус после кислоты. ResetForTurn снимает ход до тика,
// поэтому TurnsLeft на единицу больше числа тиков.
func AcidBurn() Buff {
	return Buff{Source: AcidSource, DamagePerTurn: AcidDamagePerTurn, TurnsLeft: AcidTurns + 1}
}

// DamageOverTime - урон от статусов в начале хода
func (u *Unit) DamageOverTime() int {
	total := 0
	for _, b := range u.Buffs {
		total += b.DamagePerTurn
	}
	return total
}
