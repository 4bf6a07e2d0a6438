package domain

// AbilityKind - закрытый набор видов способностей
type AbilityKind uint8

const (
	AbilityOffensive AbilityKind = iota
	AbilitySupport
)

var abilityKindToString = map[AbilityKind]string{
	AbilityOffensive: "OFFENSIVE",
	AbilitySupport:   "SUPPORT",
}

func (k AbilityKind) String() string {
	if s, ok := abilityKindToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// OffensiveEffect - усиленный выстрел
type OffensiveEffect struct {
	DamageBonus   int `json:"damageBonus"`
	AccuracyBonus int `json:"accuracyBonus"`
}

// SupportEffect - лечение и/или бафф союзнику (или себе)
type SupportEffect struct {
	HealAmount   int `json:"healAmount,omitempty"`
	AccuracyBuff int `json:"accuracyBuff,omitempty"`
	DefenseBuff  int `json:"defenseBuff,omitempty"`
	Duration     int `json:"duration,omitempty"` // в ходах цели
}

// Ability - способность юнита. Параметры читаются по Kind.
type Ability struct {
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	Kind            AbilityKind `json:"kind"`
	Cost            int         `json:"cost"`
	Cooldown        int         `json:"cooldown"`
	CurrentCooldown int         `json:"currentCooldown"`

	// Range для Support: дистанция до союзника (0 - только на себя).
	// Для Offensive не используется - работает дальность оружия.
	Range int `json:"range,omitempty"`

	Offensive OffensiveEffect `json:"offensive"`
	Support   SupportEffect   `json:"support"`
}

// Ready - способность откатилась
func (a *Ability) Ready() bool {
	return a.CurrentCooldown <= 0
}

// Trigger запускает перезарядку
func (a *Ability) Trigger() {
	a.CurrentCooldown = a.Cooldown
}

// Tick уменьшает кулдаун на 1 (не ниже нуля)
func (a *Ability) Tick() {
	if a.CurrentCooldown > 0 {
		a.CurrentCooldown--
	}
}

// Clone - независимая копия (шаблоны не мутируются)
func (a *Ability) Clone() *Ability {
	c := *a
	if c.Cost < 1 {
		c.Cost = 1
	}
	return &c
}

func offensive(name, desc string, cost, cooldown, dmg, acc int) *Ability {
	return &Ability{
		Name: name, Description: desc, Kind: AbilityOffensive, Cost: cost, Cooldown: cooldown,
		Offensive: OffensiveEffect{DamageBonus: dmg, AccuracyBonus: acc},
	}
}

func support(name, desc string, cost, cooldown, rng int, eff SupportEffect) *Ability {
	return &Ability{
		Name: name, Description: desc, Kind: AbilitySupport, Cost: cost, Cooldown: cooldown,
		Range: rng, Support: eff,
	}
}

// --- КАТАЛОГ ---
// Каждая способность стоит минимум 1 AP. Способностей, дающих AP, нет.

func RunAndGun() *Ability {
	return offensive("Run & Gun", "Move and shoot in the same turn", 2, 3, 0, -10)
}

func RapidFire() *Ability {
	return offensive("Rapid Fire", "Fire at reduced accuracy", 1, 2, 0, -15)
}

func AdrenalineRush() *Ability {
	return support("Adrenaline Rush", "Sharpen focus for the next turn", 1, 4, 0, SupportEffect{AccuracyBuff: 15, Duration: 1})
}

func Headshot() *Ability {
	return offensive("Headshot", "Powerful aimed shot", 2, 3, 5, 10)
}

func Squadsight() *Ability {
	return offensive("Squadsight", "Shoot at any visible enemy in range", 1, 0, 0, 0)
}

func SteadyHands() *Ability {
	return support("Steady Hands", "Increase accuracy for the next turn", 1, 3, 0, SupportEffect{AccuracyBuff: 10, Duration: 1})
}

func Suppression() *Ability {
	return offensive("Suppression", "Pin the enemy down", 1, 1, -2, 20)
}

func RocketLauncher() *Ability {
	return offensive("Rocket Launcher", "Heavy explosive shot", 2, 4, 10, -20)
}

func HunkerDown() *Ability {
	return support("Hunker Down", "Greatly increase defense for one turn", 1, 2, 0, SupportEffect{DefenseBuff: 40, Duration: 1})
}

func Medikit() *Ability {
	return support("Medikit", "Heal an ally", 1, 1, 1, SupportEffect{HealAmount: 20})
}

func SmokeGrenade() *Ability {
	return support("Smoke Grenade", "Increase defense of an ally", 1, 3, 3, SupportEffect{DefenseBuff: 20, Duration: 2})
}

func Overwatch() *Ability {
	return offensive("Overwatch", "Careful reaction shot", 1, 0, 0, -10)
}

func AreaAttack() *Ability {
	return offensive("Area Attack", "Sweeping attack", 2, 3, 5, -10)
}

func DevastatingStrike() *Ability {
	return offensive("Devastating Strike", "A powerful finishing blow", 2, 3, 10, 0)
}
