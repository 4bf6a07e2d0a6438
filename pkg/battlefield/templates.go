package battlefield

import (
	"math/rand"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/utils"
)

// UnitTemplate - шаблон для создания юнита
type UnitTemplate struct {
	Name      string
	Health    int
	Accuracy  int
	Movement  int
	Range     int
	Dodge     int
	Weapon    domain.Weapon
	Abilities []func() *domain.Ability
	Equipment []func() *domain.Equipment
}

// Spawn создает юнита из шаблона на позиции
func (t UnitTemplate) Spawn(id domain.UnitID, team domain.Team, pos domain.Position) *domain.Unit {
	u := domain.NewUnit(id, t.Name, team)
	u.Pos = pos
	if t.Health > 0 {
		u.MaxHealth, u.Health = t.Health, t.Health
	}
	if t.Accuracy > 0 {
		u.Accuracy = t.Accuracy
	}
	if t.Movement > 0 {
		u.MovementRange = t.Movement
	}
	if t.Range > 0 {
		u.AttackRange = t.Range
	}
	u.Dodge = t.Dodge

	w := t.Weapon
	w.Ammo = w.AmmoCapacity
	u.Weapon = &w

	for _, mk := range t.Abilities {
		u.Abilities = append(u.Abilities, mk())
	}
	for _, mk := range t.Equipment {
		u.Equipment = append(u.Equipment, mk())
	}
	// Броня и аксессуары надеваются сразу, новобранец выходит с полным здоровьем
	for _, e := range u.Equipment {
		if e.Type != domain.EquipmentConsumable {
			_ = u.Equip(e.Name)
		}
	}
	u.Health = u.MaxHealth
	return u
}

// --- СНАРЯЖЕНИЕ ---

func KevlarVest() *domain.Equipment {
	return &domain.Equipment{Name: "Kevlar Vest", Type: domain.EquipmentArmor, ArmorBonus: 10}
}

func PlatedArmor() *domain.Equipment {
	return &domain.Equipment{Name: "Plated Armor", Type: domain.EquipmentArmor, ArmorBonus: 20, MobilityModifier: -1}
}

func Scope() *domain.Equipment {
	return &domain.Equipment{Name: "Scope", Type: domain.EquipmentAccessory, CritChanceBonus: 10}
}

// FieldMedkit - аптечка медика на два применения
func FieldMedkit() *domain.Equipment {
	m := domain.Medkit()
	m.Uses = 2
	return m
}

// --- КЛАССЫ СОЛДАТ ---

var classTemplates = map[domain.ClassType]UnitTemplate{
	domain.ClassAssault: {
		Name: "Assault", Health: 100, Accuracy: 65, Movement: 6, Range: 3,
		Weapon:    domain.Weapon{Name: "Shotgun", Type: domain.WeaponShotgun, MinDamage: 5, MaxDamage: 8, CritChance: 20, AmmoCapacity: 4, Range: 3},
		Equipment: []func() *domain.Equipment{KevlarVest, domain.Medkit},
	},
	domain.ClassSniper: {
		Name: "Sniper", Health: 80, Accuracy: 80, Movement: 4, Range: 10,
		Weapon:    domain.Weapon{Name: "Sniper Rifle", Type: domain.WeaponSniperRifle, MinDamage: 6, MaxDamage: 9, CritChance: 25, AmmoCapacity: 3, Range: 10, AccuracyModifier: 5},
		Equipment: []func() *domain.Equipment{Scope, domain.Medkit},
	},
	domain.ClassHeavy: {
		Name: "Heavy", Health: 120, Accuracy: 60, Movement: 4, Range: 6,
		Weapon:    domain.Weapon{Name: "Heavy Cannon", Type: domain.WeaponHeavy, MinDamage: 5, MaxDamage: 9, CritChance: 10, AmmoCapacity: 3, Range: 6, AccuracyModifier: -5},
		Equipment: []func() *domain.Equipment{PlatedArmor, domain.Grenade},
	},
	domain.ClassSupport: {
		Name: "Support", Health: 90, Accuracy: 65, Movement: 5, Range: 6,
		Weapon:    domain.Weapon{Name: "Assault Rifle", Type: domain.WeaponAssaultRifle, MinDamage: 3, MaxDamage: 6, CritChance: 10, AmmoCapacity: 4, Range: 6},
		Equipment: []func() *domain.Equipment{KevlarVest, FieldMedkit},
	},
}

// DefaultSquad - состав отряда по умолчанию
var DefaultSquad = []domain.ClassType{domain.ClassAssault, domain.ClassSniper, domain.ClassHeavy, domain.ClassSupport}

// CreateSoldier создает солдата класса ct с закрытым деревом навыков
func CreateSoldier(ct domain.ClassType, pos domain.Position, rng *rand.Rand) *domain.Unit {
	tmpl, ok := classTemplates[ct]
	if !ok {
		ct = domain.ClassAssault
		tmpl = classTemplates[ct]
	}
	u := tmpl.Spawn(domain.UnitID(utils.GenerateDeterministicID(rng, "s_")), domain.TeamPlayer, pos)
	u.Class = domain.NewSoldierClass(ct)
	u.Progression = domain.NewProgression()
	return u
}

// CreateVIP - безоружный юнит игрока, которого надо вывести
func CreateVIP(pos domain.Position, rng *rand.Rand) *domain.Unit {
	u := UnitTemplate{
		Name: "VIP", Health: 60, Accuracy: 40, Movement: 5,
		Weapon: domain.Weapon{Name: "Pistol", Type: domain.WeaponPistol, MinDamage: 1, MaxDamage: 3, Range: 4},
	}.Spawn(domain.UnitID(utils.GenerateDeterministicID(rng, "v_")), domain.TeamPlayer, pos)
	u.IsVIP = true
	return u
}

// CreateCaptive - вражеский офицер для захвата. Переходит к игроку, когда его берут.
func CreateCaptive(pos domain.Position, rng *rand.Rand) *domain.Unit {
	u := UnitTemplate{
		Name: "Officer", Health: 60, Accuracy: 40, Movement: 5,
		Weapon: domain.Weapon{Name: "Pistol", Type: domain.WeaponPistol, MinDamage: 1, MaxDamage: 3, Range: 4},
	}.Spawn(domain.UnitID(utils.GenerateDeterministicID(rng, "v_")), domain.TeamEnemy, pos)
	u.IsVIP = true
	return u
}

// --- ВРАГИ ---

var Trooper = UnitTemplate{
	Name: "Trooper", Health: 60, Accuracy: 60, Movement: 5, Range: 6,
	Weapon: domain.Weapon{Name: "Plasma Rifle", Type: domain.WeaponAssaultRifle, MinDamage: 3, MaxDamage: 5, CritChance: 5, Range: 6},
}

var Stalker = UnitTemplate{
	Name: "Stalker", Health: 45, Accuracy: 55, Movement: 7, Range: 4, Dodge: 15,
	Weapon:    domain.Weapon{Name: "Needler", Type: domain.WeaponShotgun, MinDamage: 4, MaxDamage: 7, CritChance: 15, Range: 4},
	Abilities: []func() *domain.Ability{domain.RapidFire},
}

var Marksman = UnitTemplate{
	Name: "Marksman", Health: 50, Accuracy: 75, Movement: 4, Range: 9,
	Weapon:    domain.Weapon{Name: "Beam Rifle", Type: domain.WeaponSniperRifle, MinDamage: 5, MaxDamage: 7, CritChance: 20, Range: 9},
	Abilities: []func() *domain.Ability{domain.SteadyHands},
}

var Brute = UnitTemplate{
	Name: "Brute", Health: 110, Accuracy: 50, Movement: 4, Range: 5,
	Weapon:    domain.Weapon{Name: "Scatter Cannon", Type: domain.WeaponHeavy, MinDamage: 5, MaxDamage: 8, CritChance: 5, Range: 5},
	Abilities: []func() *domain.Ability{domain.HunkerDown},
}

// EnemyTemplates - из чего собирается обычный отряд врага
var EnemyTemplates = []UnitTemplate{Trooper, Stalker, Marksman, Brute}

var Warlord = UnitTemplate{
	Name: "Warlord", Health: 300, Accuracy: 70, Movement: 5, Range: 6,
	Weapon:    domain.Weapon{Name: "Fusion Lance", Type: domain.WeaponHeavy, MinDamage: 8, MaxDamage: 12, CritChance: 15, Range: 6},
	Abilities: []func() *domain.Ability{domain.AreaAttack},
}

// CreateEnemy создает случайного врага из EnemyTemplates
func CreateEnemy(pos domain.Position, rng *rand.Rand) *domain.Unit {
	tmpl := EnemyTemplates[rng.Intn(len(EnemyTemplates))]
	return tmpl.Spawn(domain.UnitID(utils.GenerateDeterministicID(rng, "e_")), domain.TeamEnemy, pos)
}

// CreateBoss создает босса с фазами
func CreateBoss(pos domain.Position, rng *rand.Rand) *domain.Unit {
	u := Warlord.Spawn(domain.UnitID(utils.GenerateDeterministicID(rng, "b_")), domain.TeamEnemy, pos)
	u.Boss = &domain.BossPhase{Phase: 1, MaxPhases: 3, InitialHealth: u.MaxHealth}
	return u
}
