package domain

import (
	"fmt"
	"strings"
)

// ClassType - специализация солдата
type ClassType uint8

const (
	ClassAssault ClassType = iota
	ClassSniper
	ClassHeavy
	ClassSupport
)

var classStringToType = map[string]ClassType{
	"ASSAULT": ClassAssault,
	"SNIPER":  ClassSniper,
	"HEAVY":   ClassHeavy,
	"SUPPORT": ClassSupport,
}

var classTypeToString = map[ClassType]string{
	ClassAssault: "ASSAULT",
	ClassSniper:  "SNIPER",
	ClassHeavy:   "HEAVY",
	ClassSupport: "SUPPORT",
}

// ParseClass конвертирует строку в ClassType
func ParseClass(s string) (ClassType, bool) {
	c, ok := classStringToType[strings.ToUpper(s)]
	return c, ok
}

func (c ClassType) String() string {
	if s, ok := classTypeToString[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// SoldierClass - класс солдата со своим деревом навыков
type SoldierClass struct {
	Type ClassType  `json:"type"`
	Name string     `json:"name"`
	Tree *SkillTree `json:"tree"`
}

// Общие ветки характеристик (из прокачки навыков: здоровье, точность, урон, мобильность)
func addStatBranch(t *SkillTree, prefix string, stat StatKind, amounts ...int) {
	parent := ""
	for i, amount := range amounts {
		name := prefix + " " + strings.Repeat("I", i+1)
		_ = t.Add(name, parent, StatBonus(stat, amount))
		parent = name
	}
}

// NewSoldierClass строит класс со свежим (закрытым) деревом.
// Дерево: три способности класса цепочкой + ветки характеристик.
func NewSoldierClass(ct ClassType) *SoldierClass {
	t := NewSkillTree()

	var first, second, third *Ability
	name := ""
	switch ct {
	case ClassSniper:
		name = "Sniper"
		first, second, third = Squadsight(), SteadyHands(), Headshot()
	case ClassHeavy:
		name = "Heavy"
		first, second, third = Suppression(), HunkerDown(), RocketLauncher()
	case ClassSupport:
		name = "Support"
		first, second, third = Medikit(), SmokeGrenade(), Overwatch()
	default:
		ct = ClassAssault
		name = "Assault"
		first, second, third = RapidFire(), RunAndGun(), AdrenalineRush()
	}

	_ = t.Add(first.Name, "", GrantsAbility(first))
	_ = t.Add(second.Name, first.Name, GrantsAbility(second))

	addStatBranch(t, "Toughness", StatHealth, 10, 20)
	addStatBranch(t, "Marksmanship", StatAccuracy, 5, 10)
	addStatBranch(t, "Firepower", StatDamage, 2, 4)
	addStatBranch(t, "Mobility", StatMovement, 1)

	// Вершина дерева требует способность второго ранга и вторую ступень точности
	_ = t.Add(third.Name, second.Name, GrantsAbility(third), "Marksmanship II")

	return &SoldierClass{Type: ct, Name: name, Tree: t}
}

// UnlockSkill открывает навык в дереве класса юнита
func (u *Unit) UnlockSkill(name string) (bool, error) {
	if u.Class == nil || u.Class.Tree == nil {
		return false, fmt.Errorf("%w: %s has no soldier class", ErrIllegalAction, u.ID)
	}
	return u.Class.Tree.Unlock(name, u)
}
