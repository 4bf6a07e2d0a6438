package domain

// WeaponType - класс оружия
type WeaponType uint8

const (
	WeaponPistol WeaponType = iota
	WeaponAssaultRifle
	WeaponSniperRifle
	WeaponShotgun
	WeaponHeavy
)

var weaponTypeToString = map[WeaponType]string{
	WeaponPistol:       "PISTOL",
	WeaponAssaultRifle: "ASSAULT_RIFLE",
	WeaponSniperRifle:  "SNIPER_RIFLE",
	WeaponShotgun:      "SHOTGUN",
	WeaponHeavy:        "HEAVY_WEAPON",
}

func (w WeaponType) String() string {
	if s, ok := weaponTypeToString[w]; ok {
		return s
	}
	return "UNKNOWN"
}

// Weapon - экипированное оружие
type Weapon struct {
	Name             string     `json:"name"`
	Type             WeaponType `json:"type"`
	MinDamage        int        `json:"minDamage"`
	MaxDamage        int        `json:"maxDamage"`
	CritChance       int        `json:"critChance"` // %
	Ammo             int        `json:"ammo"`
	AmmoCapacity     int        `json:"ammoCapacity"` // 0 - бесконечные патроны
	Range            int        `json:"range"`        // 0 - берется AttackRange юнита
	AccuracyModifier int        `json:"accuracyModifier"`
}

// RollDamage бросает урон в [MinDamage, MaxDamage]
func (w *Weapon) RollDamage(rng Rand) int {
	if w.MaxDamage <= w.MinDamage {
		return w.MinDamage
	}
	return w.MinDamage + rng.Intn(w.MaxDamage-w.MinDamage+1)
}

// AverageDamage - средний урон (для повреждения укрытий при промахе)
func (w *Weapon) AverageDamage() int {
	return (w.MinDamage + w.MaxDamage) / 2
}

func (w *Weapon) HasAmmo() bool {
	return w.AmmoCapacity <= 0 || w.Ammo > 0
}

func (w *Weapon) ConsumeAmmo() {
	if w.AmmoCapacity > 0 && w.Ammo > 0 {
		w.Ammo--
	}
}

func (w *Weapon) Reload() {
	w.Ammo = w.AmmoCapacity
}

// Buff - временный эффект поддержки
type Buff struct {
	Source   string `json:"source"`
	Accuracy int    `json:"accuracy,omitempty"`
	Defense  int    `json:"defense,omitempty"`
	// DamagePerTurn - урон в начале каждого хода, пока статус висит (кислота)
	DamagePerTurn int `json:"damagePerTurn,omitempty"`
	TurnsLeft     int `json:"turnsLeft"`
}

// BossPhase - фазы босса. Фаза растет по мере потери здоровья.
type BossPhase struct {
	Phase         int `json:"phase"`
	MaxPhases     int `json:"maxPhases"`
	InitialHealth int `json:"initialHealth"`
}

// Unit - боевая единица. Клетку не владеет, хранит только позицию.
type Unit struct {
	ID   UnitID `json:"id"`
	Name string `json:"name"`
	Team Team   `json:"team"`

	// ControllerID - сессия игрока, управляющая юнитом. Пусто - управляет ИИ.
	ControllerID string `json:"controllerId,omitempty"`

	MaxHealth       int `json:"maxHealth"`
	Health          int `json:"health"`
	MovementRange   int `json:"movementRange"`
	AttackRange     int `json:"attackRange"`
	Accuracy        int `json:"accuracy"`
	Damage          int `json:"damage"`
	CritBonus       int `json:"critBonus"` // % к шансу крита от снаряжения
	Dodge           int `json:"dodge"`     // % снижения шанса попадания по юниту
	ActionPoints    int `json:"actionPoints"`
	MaxActionPoints int `json:"maxActionPoints"`

	Weapon    *Weapon      `json:"weapon,omitempty"`
	Equipment []*Equipment `json:"equipment,omitempty"`
	Abilities []*Ability   `json:"abilities,omitempty"`
	Buffs     []Buff       `json:"buffs,omitempty"`

	// Флаги хода
	ActionsSpent int  `json:"actionsSpent"`
	HasMoved     bool `json:"hasMoved"`
	HasAttacked  bool `json:"hasAttacked"`

	Pos    Position `json:"pos"`
	Facing float64  `json:"facing"` // Градусы, 0 = +X
	Dead   bool     `json:"dead"`

	IsVIP       bool          `json:"isVip,omitempty"`
	Class       *SoldierClass `json:"class,omitempty"`
	Progression *Progression  `json:"progression,omitempty"`
	Boss        *BossPhase    `json:"boss,omitempty"`
}

// NewUnit создает юнита с полным здоровьем и AP
func NewUnit(id UnitID, name string, team Team) *Unit {
	return &Unit{
		ID:              id,
		Name:            name,
		Team:            team,
		MaxHealth:       DefaultMaxHealth,
		Health:          DefaultMaxHealth,
		MovementRange:   DefaultMovementRange,
		AttackRange:     DefaultAttackRange,
		Accuracy:        DefaultAccuracy,
		ActionPoints:    DefaultActionPoints,
		MaxActionPoints: DefaultActionPoints,
	}
}

func (u *Unit) IsAlive() bool { return !u.Dead }

// IsAI - сторона противника всегда под управлением ИИ
func (u *Unit) IsAI() bool {
	return u.Team == TeamEnemy
}

func (u *Unit) IsHostileTo(other *Unit) bool {
	return u.Team != other.Team
}
